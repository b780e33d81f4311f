package oauth

import (
	"context"
	"time"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	jwtx "github.com/dropDatabas3/grantd/internal/jwt"
)

// mintTokenPair issues and persists an AccessToken plus its paired
// RefreshToken. Each insert is a single atomic write; a cancelled context
// simply never reaches persistence, leaving no partial state.
func mintTokenPair(ctx context.Context, issuer *jwtx.Issuer, repo repository.TokenRepository,
	clientID, userID string, scopes []string, accessTTL, refreshTTL time.Duration) (*TokenResponse, error) {

	access, err := issuer.GenerateAccessToken(clientID, userID, scopes, accessTTL)
	if err != nil {
		return nil, internalError("generate access token", err)
	}
	if err := repo.StoreAccessToken(ctx, access); err != nil {
		return nil, internalError("store access token", err)
	}

	refresh, err := issuer.GenerateRefreshToken(access.ID, refreshTTL)
	if err != nil {
		return nil, internalError("generate refresh token", err)
	}
	if err := repo.StoreRefreshToken(ctx, refresh); err != nil {
		return nil, internalError("store refresh token", err)
	}

	return newTokenResponse(access, refresh), nil
}

// mintAccessOnly issues and persists a lone AccessToken (client_credentials:
// machine-to-machine tokens are not refreshable).
func mintAccessOnly(ctx context.Context, issuer *jwtx.Issuer, repo repository.TokenRepository,
	clientID string, scopes []string, accessTTL time.Duration) (*TokenResponse, error) {

	access, err := issuer.GenerateAccessToken(clientID, "", scopes, accessTTL)
	if err != nil {
		return nil, internalError("generate access token", err)
	}
	if err := repo.StoreAccessToken(ctx, access); err != nil {
		return nil, internalError("store access token", err)
	}
	return newTokenResponse(access, nil), nil
}
