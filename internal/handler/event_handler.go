package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btc-academy/academy-api/internal/service"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
	"github.com/btc-academy/academy-api/pkg/response"
)

// EventHandler wires HTTP endpoints to the events service.
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler creates a new handler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List visible events
// @Description List events visible to a cohort; global events are always included
// @Tags Events
// @Produce json
// @Param cohort_id query string false "Cohort id"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context(), c.Query("cohort_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// RecordAttendance godoc
// @Summary Record event attendance
// @Description Persist a student's attendance at an event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.RecordAttendanceRequest true "Attendance payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/events/attendance [post]
func (h *EventHandler) RecordAttendance(c *gin.Context) {
	var req service.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	if err := h.service.RecordAttendance(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
