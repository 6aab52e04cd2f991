package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger es cualquier dependencia con chequeo de vida (pgxpool.Pool lo cumple).
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	logger *zap.Logger
	checks map[string]Pinger
}

func NewHealthHandler(logger *zap.Logger, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, checks: checks}
}

// Healthz maneja GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}
	respondData(c, status, gin.H{"checks": results})
}
