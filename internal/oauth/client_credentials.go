package oauth

import (
	"context"
	"time"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	jwtx "github.com/dropDatabas3/grantd/internal/jwt"
	"github.com/dropDatabas3/grantd/internal/metrics"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
)

// ClientCredentialsGrant encapsulates the client_credentials flow
// (RFC 6749 §4.4, machine-to-machine).
type ClientCredentialsGrant struct {
	issuer    *jwtx.Issuer
	tokens    repository.TokenRepository
	accessTTL time.Duration
}

// Handle mints an access token with no user and no refresh token.
// Scopes arrive already validated and filtered by the Server.
func (g *ClientCredentialsGrant) Handle(ctx context.Context, client *repository.Client, scopes []string) (*TokenResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.token.clientcreds"))

	resp, err := mintAccessOnly(ctx, g.issuer, g.tokens, client.ID, scopes, g.accessTTL)
	if err != nil {
		return nil, err
	}

	metrics.TokensIssued.WithLabelValues(GrantClientCredentials.String()).Inc()
	log.Info("client_credentials token issued", logger.ClientID(client.ID))
	return resp, nil
}
