// Package oauth - TokenController handles POST /oauth2/token
package oauth

import (
	"encoding/json"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/grantd/internal/http/errors"
	"github.com/dropDatabas3/grantd/internal/oauth"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
)

// TokenController handles the OAuth2 token endpoint.
type TokenController struct {
	server *oauth.Server
}

// NewTokenController creates the controller.
func NewTokenController(s *oauth.Server) *TokenController {
	return &TokenController{server: s}
}

// Token handles POST /oauth2/token.
// Implements: authorization_code (with PKCE), client_credentials,
// password and refresh_token grants. Client auth via Basic or form body.
func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("TokenController.Token"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		httperrors.WriteOAuthError(w, oauth.ErrInvalidRequest)
		return
	}

	clientID, clientSecret := clientCredentials(r)
	grantType := strings.TrimSpace(r.PostForm.Get("grant_type"))

	log.Debug("token request",
		logger.ClientID(clientID),
		logger.GrantType(grantType))

	gt, err := oauth.ParseGrantType(grantType)
	if err != nil {
		httperrors.WriteOAuthError(w, err)
		return
	}

	var resp *oauth.TokenResponse
	switch gt {
	case oauth.GrantAuthorizationCode:
		resp, err = c.server.ExchangeAuthorizationCode(ctx, oauth.ExchangeCodeRequest{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Code:         strings.TrimSpace(r.PostForm.Get("code")),
			RedirectURI:  strings.TrimSpace(r.PostForm.Get("redirect_uri")),
			CodeVerifier: strings.TrimSpace(r.PostForm.Get("code_verifier")),
		})

	case oauth.GrantClientCredentials:
		resp, err = c.server.ClientCredentials(ctx, oauth.ClientCredentialsRequest{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       splitScope(r.PostForm.Get("scope")),
		})

	case oauth.GrantPassword:
		// El user llega pre-autenticado; este endpoint no verifica
		// passwords.
		resp, err = c.server.Password(ctx, oauth.PasswordRequest{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			UserID:       strings.TrimSpace(r.PostForm.Get("user_id")),
			Scopes:       splitScope(r.PostForm.Get("scope")),
		})

	case oauth.GrantRefreshToken:
		resp, err = c.server.Refresh(ctx, oauth.RefreshRequest{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RefreshToken: strings.TrimSpace(r.PostForm.Get("refresh_token")),
		})
	}

	if err != nil {
		log.Info("token request rejected",
			logger.ClientID(clientID),
			logger.GrantType(grantType),
			logger.Err(err))
		httperrors.WriteOAuthError(w, err)
		return
	}

	writeTokenJSON(w, resp)
}

// clientCredentials extrae las credenciales del client: Basic auth primero,
// body como fallback (RFC 6749 §2.3.1).
func clientCredentials(r *http.Request) (id, secret string) {
	if u, p, ok := r.BasicAuth(); ok {
		return u, p
	}
	return strings.TrimSpace(r.PostForm.Get("client_id")),
		r.PostForm.Get("client_secret")
}

// splitScope parte el parámetro scope por espacios (RFC 6749 §3.3).
func splitScope(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func writeTokenJSON(w http.ResponseWriter, resp *oauth.TokenResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	_ = json.NewEncoder(w).Encode(resp)
}
