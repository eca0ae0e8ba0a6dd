package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  Pinger
	driver string
	log    *zap.Logger
}

func NewHealthHandler(store Pinger, driver string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, driver: driver, log: log}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("store ping failed", zap.String("driver", h.driver), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"store":  h.driver,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"store":     h.driver,
		"timestamp": time.Now().UTC(),
	})
}
