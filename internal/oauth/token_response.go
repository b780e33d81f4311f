package oauth

import (
	"strings"
	"time"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
)

// TokenResponse es la respuesta estándar del token endpoint (RFC 6749 §5.1).
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// newTokenResponse arma la respuesta a partir de los tokens recién emitidos.
// refresh puede ser nil (client_credentials no emite refresh token).
func newTokenResponse(access *repository.AccessToken, refresh *repository.RefreshToken) *TokenResponse {
	resp := &TokenResponse{
		AccessToken: access.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(access.ExpiresAt).Seconds()),
		Scope:       strings.Join(access.Scopes, " "),
	}
	if refresh != nil {
		resp.RefreshToken = refresh.Token
	}
	return resp
}
