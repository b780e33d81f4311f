package jwt

import "strings"

// Introspection es la respuesta RFC 7662. Con active=false el resto de los
// campos va vacío (omitempty).
type Introspection struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"` // space-joined
	ClientID  string `json:"client_id,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
	Nbf       int64  `json:"nbf,omitempty"`
	Sub       string `json:"sub,omitempty"`
	Aud       string `json:"aud,omitempty"`
	Iss       string `json:"iss,omitempty"`
	JTI       string `json:"jti,omitempty"`
}

// Introspect analiza un token y nunca falla: cualquier error de validación
// colapsa en active=false, como manda RFC 7662: introspectar un token malo
// no es una condición de error para el caller.
func (v *Validator) Introspect(token string) Introspection {
	claims, err := v.ValidateAccessToken(token)
	if err != nil {
		return Introspection{Active: false}
	}

	out := Introspection{
		Active:    true,
		Scope:     strings.Join(claims.Scopes, " "),
		ClientID:  claims.ClientID,
		Username:  claims.UserID,
		TokenType: claims.TokenType,
		Sub:       claims.Subject,
		Iss:       claims.Issuer,
		JTI:       claims.ID,
	}
	if len(claims.Audience) > 0 {
		out.Aud = claims.Audience[0]
	}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		out.Iat = claims.IssuedAt.Unix()
	}
	if claims.NotBefore != nil {
		out.Nbf = claims.NotBefore.Unix()
	}
	return out
}
