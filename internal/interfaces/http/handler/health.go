package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/logger"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/persistence"
)

// HealthHandler exposes liveness and readiness probes
type HealthHandler struct {
	db        *persistence.Database
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// Health reports liveness. It always returns 200 while the process runs.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready reports readiness, checking the database connection
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "error",
		})
		return
	}

	payload := gin.H{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "ok",
	}
	if stats, err := h.db.Stats(); err == nil {
		payload["pool"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}
	}
	c.JSON(http.StatusOK, payload)
}
