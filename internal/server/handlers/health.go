package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	logger        *zap.Logger
	startTime     time.Time
	hasDefaultKey bool
}

// NewHealthHandler takes whether a default API key is configured; without
// one, only calls passing appid explicitly can succeed.
func NewHealthHandler(logger *zap.Logger, hasDefaultKey bool) *HealthHandler {
	return &HealthHandler{
		logger:        logger,
		startTime:     time.Now(),
		hasDefaultKey: hasDefaultKey,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	status := "ready"
	if !h.hasDefaultKey {
		status = "degraded"
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status: status,
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	if !h.hasDefaultKey {
		status = "degraded"
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
