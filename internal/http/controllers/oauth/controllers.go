// Package oauth contiene los controllers de los endpoints OAuth2.
package oauth

import "github.com/dropDatabas3/grantd/internal/oauth"

// Controllers agrupa los controllers OAuth2 para el wiring del router.
type Controllers struct {
	Token      *TokenController
	Authorize  *AuthorizeController
	Introspect *IntrospectController
}

// NewControllers crea todos los controllers sobre el mismo engine.
func NewControllers(srv *oauth.Server) *Controllers {
	return &Controllers{
		Token:      NewTokenController(srv),
		Authorize:  NewAuthorizeController(srv),
		Introspect: NewIntrospectController(srv),
	}
}
