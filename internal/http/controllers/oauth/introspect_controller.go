// Package oauth - IntrospectController handles POST /oauth2/introspect
package oauth

import (
	"encoding/json"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/grantd/internal/http/errors"
	"github.com/dropDatabas3/grantd/internal/oauth"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
)

// IntrospectController handles the RFC 7662 introspection endpoint.
type IntrospectController struct {
	server *oauth.Server
}

// NewIntrospectController creates the controller.
func NewIntrospectController(s *oauth.Server) *IntrospectController {
	return &IntrospectController{server: s}
}

// Introspect handles POST /oauth2/introspect.
// Nunca devuelve error al caller por un token malo: cualquier token
// inválido, expirado o ajeno responde {"active": false} (RFC 7662 §2.2).
func (c *IntrospectController) Introspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("IntrospectController.Introspect"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("malformed form body"))
		return
	}

	token := strings.TrimSpace(r.PostForm.Get("token"))
	result := c.server.Introspect(token)

	if !result.Active {
		log.Debug("introspection inactive")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(result)
}
