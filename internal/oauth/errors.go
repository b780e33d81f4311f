package oauth

import (
	"errors"
	"fmt"

	jwtx "github.com/dropDatabas3/grantd/internal/jwt"
)

// Engine errors, named after the OAuth2 wire codes they map to (RFC 6749
// §5.2). The transport layer translates these into error JSON and HTTP
// status codes; the engine never produces HTTP responses.
var (
	// ErrInvalidRequest: parámetro faltante/malformado, redirect_uri
	// inválida, PKCE ausente en public client, token_type incorrecto.
	ErrInvalidRequest = errors.New("invalid_request")

	// ErrInvalidClient: client desconocido, revocado o secret incorrecto.
	ErrInvalidClient = errors.New("invalid_client")

	// ErrInvalidGrant: código/token inválido, ownership de otro client,
	// PKCE verifier incorrecto.
	ErrInvalidGrant = errors.New("invalid_grant")

	// ErrUnauthorizedClient: el client existe pero no tiene permitido el
	// grant type solicitado.
	ErrUnauthorizedClient = errors.New("unauthorized_client")

	// ErrUnsupportedGrantType: grant type fuera del set soportado.
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")

	// ErrInvalidScope: scope desconocido o fuera del allowance del client.
	ErrInvalidScope = errors.New("invalid_scope")

	// ErrInternal: fallo de repositorio o de firma. Nunca se reintenta acá;
	// la retry policy es del caller.
	ErrInternal = errors.New("server_error")
)

// ErrTokenExpired se re-exporta del validador para que los callers del
// engine distingan "expirado" de "inválido" sin importar internal/jwt.
var ErrTokenExpired = jwtx.ErrTokenExpired

// wireCode mapea un error del engine a su código RFC 6749. Los mensajes de
// los sentinels son los códigos del wire, así que basta con encontrar cuál
// envuelve el error.
func wireCode(err error) string {
	for _, sentinel := range []error{
		ErrInvalidRequest,
		ErrInvalidClient,
		ErrInvalidGrant,
		ErrUnauthorizedClient,
		ErrUnsupportedGrantType,
		ErrInvalidScope,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ErrInternal.Error()
}

func invalidRequest(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, detail)
}

func invalidClient(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidClient, detail)
}

func invalidGrant(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidGrant, detail)
}

func unauthorizedClient(detail string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorizedClient, detail)
}

func invalidScope(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidScope, detail)
}

func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
