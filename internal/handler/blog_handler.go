package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btc-academy/academy-api/internal/service"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
	"github.com/btc-academy/academy-api/pkg/response"
)

// BlogHandler wires HTTP endpoints to the blog review service.
type BlogHandler struct {
	service *service.BlogService
}

// NewBlogHandler creates a new handler.
func NewBlogHandler(svc *service.BlogService) *BlogHandler {
	return &BlogHandler{service: svc}
}

// Approve godoc
// @Summary Approve a blog submission
// @Description Publish a pending submission and queue the author's sats reward
// @Tags Blog
// @Accept json
// @Produce json
// @Param payload body service.ApproveRequest true "Approval payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/blog/approve [post]
func (h *BlogHandler) Approve(c *gin.Context) {
	var req service.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return
	}

	post, err := h.service.Approve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, post, nil)
}

// Reject godoc
// @Summary Reject a blog submission
// @Tags Blog
// @Accept json
// @Produce json
// @Param payload body service.ApproveRequest true "Rejection payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/blog/reject [post]
func (h *BlogHandler) Reject(c *gin.Context) {
	var req service.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
		return
	}

	if err := h.service.Reject(c.Request.Context(), req.SubmissionID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
