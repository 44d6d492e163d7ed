package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btc-academy/academy-api/internal/service"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
	"github.com/btc-academy/academy-api/pkg/response"
)

// SatsHandler wires HTTP endpoints to the sats reward ledger.
type SatsHandler struct {
	service *service.SatsService
}

// NewSatsHandler creates a new handler.
func NewSatsHandler(svc *service.SatsService) *SatsHandler {
	return &SatsHandler{service: svc}
}

// Totals godoc
// @Summary Sats totals for one identity
// @Description Sum paid and pending rewards for a student id or email
// @Tags Sats
// @Produce json
// @Param student_id query string false "Student id"
// @Param email query string false "Email to resolve"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sats [get]
func (h *SatsHandler) Totals(c *gin.Context) {
	studentID := c.Query("student_id")
	email := c.Query("email")
	if studentID == "" && email == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id or email query parameter is required"))
		return
	}

	var (
		totals interface{}
		err    error
	)
	if studentID != "" {
		totals, err = h.service.TotalsForStudent(c.Request.Context(), studentID)
	} else {
		totals, err = h.service.TotalsForEmail(c.Request.Context(), email)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, totals, nil)
}

// Stats godoc
// @Summary Platform sats economy statistics
// @Description Earned, spent and circulated totals over every reward record
// @Tags Sats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sats/stats [get]
func (h *SatsHandler) Stats(c *gin.Context) {
	stats, err := h.service.PlatformStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// WorkspaceTotals godoc
// @Summary Workspace sats totals
// @Description Sum the reward rows mirrored in the external workspace
// @Tags Sats
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /workspace/sats [get]
func (h *SatsHandler) WorkspaceTotals(c *gin.Context) {
	totals, err := h.service.WorkspaceTotals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, totals, nil)
}
