// Package router arma el chi.Router con todas las rutas del servidor.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthctrl "github.com/dropDatabas3/grantd/internal/http/controllers/health"
	oauthctrl "github.com/dropDatabas3/grantd/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/grantd/internal/http/middlewares"
)

// Deps contiene las dependencias del router.
type Deps struct {
	OAuth  *oauthctrl.Controllers
	Health *healthctrl.HealthController

	// Metrics expone /metrics cuando es true.
	Metrics bool
}

// New construye el router con middlewares base y rutas registradas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
	)

	if deps.OAuth != nil {
		r.Route("/oauth2", func(r chi.Router) {
			r.Use(mw.WithNoStore())
			r.Post("/token", deps.OAuth.Token.Token)
			r.Post("/authorize", deps.OAuth.Authorize.Authorize)
			r.Post("/introspect", deps.OAuth.Introspect.Introspect)
		})
	}

	if deps.Health != nil {
		r.Get("/healthz", deps.Health.Healthz)
		r.Get("/readyz", deps.Health.Readyz)
	}

	if deps.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}
