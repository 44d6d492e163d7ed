package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btc-academy/academy-api/internal/service"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
	"github.com/btc-academy/academy-api/pkg/response"
)

// MentorshipHandler wires HTTP endpoints to the mentorship lifecycle service.
type MentorshipHandler struct {
	service *service.MentorshipService
}

// NewMentorshipHandler creates a new handler.
func NewMentorshipHandler(svc *service.MentorshipService) *MentorshipHandler {
	return &MentorshipHandler{service: svc}
}

// List godoc
// @Summary List mentorship applications
// @Description List applications, optionally filtered by status
// @Tags Mentorship
// @Produce json
// @Param status query string false "Status filter, or all"
// @Success 200 {object} response.Envelope
// @Router /admin/mentorships [get]
func (h *MentorshipHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	applications, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, applications, nil)
}

// UpdateStatus godoc
// @Summary Update an application status
// @Description Transition an application; approval activates a mentor record
// @Tags Mentorship
// @Accept json
// @Produce json
// @Param payload body service.UpdateStatusRequest true "Status transition"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/mentorships [patch]
func (h *MentorshipHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ActiveMentors godoc
// @Summary List active mentors
// @Description Publicly visible mentors derived from approved applications
// @Tags Mentorship
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorshipHandler) ActiveMentors(c *gin.Context) {
	mentors, err := h.service.ActiveMentors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, nil)
}
