package oauth

import (
	"context"
	"time"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	jwtx "github.com/dropDatabas3/grantd/internal/jwt"
	"github.com/dropDatabas3/grantd/internal/metrics"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
)

// PasswordGrant encapsulates the resource-owner-password flow (RFC 6749
// §4.3). Legacy, kept for compatibility.
//
// Credential verification happens upstream: this handler receives an
// already-authenticated user_id and never sees a password.
type PasswordGrant struct {
	issuer     *jwtx.Issuer
	tokens     repository.TokenRepository
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// Handle mints an access/refresh pair exactly like the authorization-code
// path, skipping the code and PKCE steps entirely.
func (g *PasswordGrant) Handle(ctx context.Context, client *repository.Client, userID string, scopes []string) (*TokenResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.token.password"))

	if userID == "" {
		return nil, invalidRequest("missing user_id")
	}

	resp, err := mintTokenPair(ctx, g.issuer, g.tokens, client.ID, userID, scopes, g.accessTTL, g.refreshTTL)
	if err != nil {
		return nil, err
	}

	metrics.TokensIssued.WithLabelValues(GrantPassword.String()).Inc()
	log.Info("password grant token issued",
		logger.ClientID(client.ID),
		logger.UserID(userID),
	)
	return resp, nil
}
