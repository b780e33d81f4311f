package oauth

import (
	"context"
	"time"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	jwtx "github.com/dropDatabas3/grantd/internal/jwt"
	"github.com/dropDatabas3/grantd/internal/metrics"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
)

// RefreshTokenGrant encapsulates the refresh_token flow (RFC 6749 §6).
//
// Rotation, not mutation: a successful refresh mints a brand-new
// access/refresh pair with the original scopes. The old pair is left for
// the caller/repository to revoke.
type RefreshTokenGrant struct {
	issuer     *jwtx.Issuer
	tokens     repository.TokenRepository
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// Handle exchanges a refresh token for a new token pair.
func (g *RefreshTokenGrant) Handle(ctx context.Context, client *repository.Client, rawToken string) (*TokenResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.token.refresh"))

	rt, err := g.tokens.GetRefreshToken(ctx, rawToken)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Warn("refresh token not found")
			return nil, invalidGrant("unknown refresh token")
		}
		return nil, internalError("lookup refresh token", err)
	}

	now := time.Now()
	if rt.Revoked || !now.Before(rt.ExpiresAt) {
		log.Warn("refresh token revoked or expired")
		return nil, invalidGrant("refresh token revoked or expired")
	}

	// Structural pairing: the refresh token must resolve to the access
	// token it was minted with.
	access, err := g.tokens.GetAccessToken(ctx, rt.AccessTokenID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Warn("paired access token missing", logger.TokenID(rt.AccessTokenID))
			return nil, invalidGrant("refresh token does not match access token")
		}
		return nil, internalError("lookup access token", err)
	}

	if access.ClientID != client.ID {
		log.Warn("refresh token ownership mismatch", logger.ClientID(client.ID))
		return nil, invalidGrant("refresh token was issued to different client")
	}

	resp, err := mintTokenPair(ctx, g.issuer, g.tokens, client.ID, access.UserID, access.Scopes, g.accessTTL, g.refreshTTL)
	if err != nil {
		return nil, err
	}

	metrics.TokensIssued.WithLabelValues(GrantRefreshToken.String()).Inc()
	log.Info("refresh_token exchanged",
		logger.ClientID(client.ID),
		logger.UserID(access.UserID),
	)
	return resp, nil
}
