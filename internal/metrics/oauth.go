package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OAuth-related Prometheus metrics. Defined in a standalone package to avoid
// import cycles between the grant engine and HTTP packages.

var (
	TokensIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oauth_tokens_issued_total",
		Help: "Access tokens emitidos por grant type",
	}, []string{"grant_type"})

	GrantFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oauth_grant_failures_total",
		Help: "Grants rechazados por tipo de error",
	}, []string{"grant_type", "error"})

	TokenValidationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oauth_token_validation_failures_total",
		Help: "Validaciones de access token fallidas por motivo",
	}, []string{"reason"})

	CodesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oauth_authorization_codes_issued_total",
		Help: "Authorization codes emitidos",
	})
)

// RegisterOAuth registers the oauth metrics on the given registry (or default if nil).
func RegisterOAuth(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{TokensIssued, GrantFailures, TokenValidationFailures, CodesIssued} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
