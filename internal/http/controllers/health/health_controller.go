// Package health contiene el controller para health checks.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	httperrors "github.com/dropDatabas3/grantd/internal/http/errors"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
)

// Pinger es un componente con check de disponibilidad (pg, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Component es un Pinger con nombre para el reporte.
type Component struct {
	Name   string
	Pinger Pinger
}

// HealthController maneja las rutas de health check.
type HealthController struct {
	components []Component
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(components ...Component) *HealthController {
	return &HealthController{components: components}
}

type response struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// Healthz maneja GET /healthz (liveness, siempre 200).
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(response{Status: "ok"})
}

// Readyz maneja GET /readyz (readiness, chequea componentes).
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp := response{Status: "ready", Components: map[string]string{}}
	status := http.StatusOK
	for _, comp := range c.components {
		if err := comp.Pinger.Ping(ctx); err != nil {
			log.Warn("component unavailable",
				logger.Component(comp.Name),
				logger.Err(err))
			resp.Components[comp.Name] = "unavailable"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[comp.Name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
