package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mesobmatch/backend/internal/middleware"
)

// RateLimitHandler reports the caller's remaining matching quota.
type RateLimitHandler struct {
	limiter *middleware.RateLimiter
}

func NewRateLimitHandler(limiter *middleware.RateLimiter) *RateLimitHandler {
	return &RateLimitHandler{limiter: limiter}
}

func (h *RateLimitHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rate_limit/status", h.Status)
}

func (h *RateLimitHandler) Status(c *gin.Context) {
	if !h.limiter.Enabled() {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	cfg := h.limiter.Config()
	remaining, reset, err := h.limiter.GetRemainingRequests(c.Request.Context(), middleware.CallerKey(c))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate limit status unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"limit":     cfg.Limit,
		"window":    cfg.Window.String(),
		"remaining": remaining,
		"reset":     reset.Unix(),
	})
}
