package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btc-academy/academy-api/internal/service"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
	"github.com/btc-academy/academy-api/pkg/response"
)

// ChapterHandler wires HTTP endpoints to the chapter access service.
type ChapterHandler struct {
	service *service.ChapterService
}

// NewChapterHandler creates a new handler.
func NewChapterHandler(svc *service.ChapterService) *ChapterHandler {
	return &ChapterHandler{service: svc}
}

// UnlockStatus godoc
// @Summary Chapter unlock status
// @Description Resolve an email and return per-chapter unlock and completion state
// @Tags Chapters
// @Produce json
// @Param email query string true "Email to resolve"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /chapters/unlock-status [get]
func (h *ChapterHandler) UnlockStatus(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email query parameter is required"))
		return
	}

	res, err := h.service.UnlockStatus(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// MarkCompleted godoc
// @Summary Mark a chapter completed
// @Description Record chapter completion and unlock the next chapter
// @Tags Chapters
// @Accept json
// @Produce json
// @Param payload body service.MarkCompletedRequest true "Completion payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/chapters/complete [post]
func (h *ChapterHandler) MarkCompleted(c *gin.Context) {
	var req service.MarkCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
		return
	}

	if err := h.service.MarkCompleted(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
