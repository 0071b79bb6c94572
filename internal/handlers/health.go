package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
	"go.uber.org/zap"
)

// Health states
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusDisabled = "disabled"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Pinger is a dependency the health check can probe
type Pinger func(ctx context.Context) error

// HealthHandlers reports the state of the BFF and its dependencies
type HealthHandlers struct {
	checks map[string]Pinger
}

// NewHealthHandlers creates a health handler; a nil Pinger marks the service disabled
func NewHealthHandlers(checks map[string]Pinger) *HealthHandlers {
	return &HealthHandlers{checks: checks}
}

// HealthCheck godoc
// @Summary Verificação de saúde
// @Description Verifica a saúde do serviço e de suas dependências. Uma dependência fora do ar degrada o serviço sem derrubá-lo.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Serviço saudável"
// @Failure 503 {object} HealthResponse "Uma ou mais dependências indisponíveis"
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c *gin.Context) {
	ctx, span := utils.TraceStep(c.Request.Context(), "health_check", nil)
	defer span.End()

	health := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Services:  make(map[string]string, len(h.checks)),
	}

	for name, ping := range h.checks {
		if ping == nil {
			health.Services[name] = StatusDisabled
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := ping(pingCtx)
		cancel()
		if err != nil {
			utils.RecordErrorInSpan(span, err, map[string]interface{}{"service.name": name})
			observability.Logger().Warn("health dependency unavailable", zap.String("service", name), zap.Error(err))
			health.Status = StatusDegraded
			health.Services[name] = "unhealthy"
			continue
		}
		health.Services[name] = StatusHealthy
	}

	if health.Status != StatusHealthy {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
