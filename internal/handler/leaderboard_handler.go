package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btc-academy/academy-api/internal/middleware"
	"github.com/btc-academy/academy-api/internal/service"
	"github.com/btc-academy/academy-api/pkg/response"
)

// LeaderboardHandler wires HTTP endpoints to the leaderboard aggregator.
type LeaderboardHandler struct {
	service *service.LeaderboardService
}

// NewLeaderboardHandler creates a new handler.
func NewLeaderboardHandler(svc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: svc}
}

// Sats godoc
// @Summary Sats leaderboard
// @Description Ranked paid-sats totals aggregated from the workspace
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /leaderboard/sats [get]
func (h *LeaderboardHandler) Sats(c *gin.Context) {
	entries, cached, err := h.service.Sats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, entries, nil, middleware.ExtractMeta(c))
}

// Refresh godoc
// @Summary Force a leaderboard rebuild
// @Description Drops the cached leaderboards so the next read hits the workspace
// @Tags Leaderboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/leaderboard/refresh [post]
func (h *LeaderboardHandler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"refreshed": true}, nil, middleware.ExtractMeta(c))
}

// Achievements godoc
// @Summary Achievements leaderboard
// @Description Ranked achievement points aggregated from the workspace
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /leaderboard/achievements [get]
func (h *LeaderboardHandler) Achievements(c *gin.Context) {
	entries, cached, err := h.service.Achievements(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, entries, nil, middleware.ExtractMeta(c))
}
