// Package oauth - AuthorizeController handles POST /oauth2/authorize
package oauth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	httperrors "github.com/dropDatabas3/grantd/internal/http/errors"
	"github.com/dropDatabas3/grantd/internal/oauth"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
)

// AuthorizeController emite authorization codes para un usuario ya
// autenticado upstream. No hay UI de login ni consent acá: el caller
// (gateway o capa de identidad) autentica y pasa el user_id.
type AuthorizeController struct {
	server *oauth.Server
}

// NewAuthorizeController creates the controller.
func NewAuthorizeController(s *oauth.Server) *AuthorizeController {
	return &AuthorizeController{server: s}
}

type authorizeResponse struct {
	Code      string `json:"code"`
	ExpiresIn int64  `json:"expires_in"`
}

// Authorize handles POST /oauth2/authorize.
func (c *AuthorizeController) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthorizeController.Authorize"))

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
	req := oauth.IssueCodeRequest{
		ClientID:            clientID,
		ClientSecret:        clientSecret,
		UserID:              strings.TrimSpace(r.PostForm.Get("user_id")),
		RedirectURI:         strings.TrimSpace(r.PostForm.Get("redirect_uri")),
		Scopes:              splitScope(r.PostForm.Get("scope")),
		CodeChallenge:       strings.TrimSpace(r.PostForm.Get("code_challenge")),
		CodeChallengeMethod: strings.TrimSpace(r.PostForm.Get("code_challenge_method")),
	}

	if req.UserID == "" {
		httperrors.WriteOAuthError(w, oauth.ErrInvalidRequest)
		return
	}

	code, err := c.server.IssueAuthorizationCode(ctx, req)
	if err != nil {
		log.Info("authorize rejected",
			logger.ClientID(clientID),
			logger.Err(err))
		httperrors.WriteOAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(authorizeResponse{
		Code:      code.Code,
		ExpiresIn: int64(time.Until(code.ExpiresAt).Seconds()),
	})
}
