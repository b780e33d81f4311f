package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/grantd/internal/oauth"
)

// oauthErrorResponse es el formato de error de RFC 6749 §5.2.
type oauthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteOAuthError traduce un error del engine a la respuesta de error del
// token endpoint. invalid_client responde 401 con WWW-Authenticate; el
// resto de los códigos del RFC responden 400; lo desconocido colapsa en
// server_error 500 sin filtrar la causa al cliente.
func WriteOAuthError(w http.ResponseWriter, err error) {
	code, status := oauthWireCode(err)

	desc := ""
	if code != "server_error" {
		desc = oauthDescription(err, code)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="oauth2", charset="UTF-8"`)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(oauthErrorResponse{
		Error:            code,
		ErrorDescription: desc,
	})
}

func oauthWireCode(err error) (string, int) {
	switch {
	case stderrors.Is(err, oauth.ErrInvalidClient):
		return "invalid_client", http.StatusUnauthorized
	case stderrors.Is(err, oauth.ErrInvalidRequest):
		return "invalid_request", http.StatusBadRequest
	case stderrors.Is(err, oauth.ErrInvalidGrant):
		return "invalid_grant", http.StatusBadRequest
	case stderrors.Is(err, oauth.ErrUnauthorizedClient):
		return "unauthorized_client", http.StatusBadRequest
	case stderrors.Is(err, oauth.ErrUnsupportedGrantType):
		return "unsupported_grant_type", http.StatusBadRequest
	case stderrors.Is(err, oauth.ErrInvalidScope):
		return "invalid_scope", http.StatusBadRequest
	default:
		return "server_error", http.StatusInternalServerError
	}
}

// oauthDescription extrae el detalle después del sentinel ("code: detail").
func oauthDescription(err error, code string) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, code+": "); ok {
		return rest
	}
	if msg == code {
		return ""
	}
	return msg
}
