package jwt

import (
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// TokenTypeAccess is the token_type claim stamped on every access token.
// The validator rejects anything else (refresh-shaped or foreign tokens).
const TokenTypeAccess = "access_token"

// AccessClaims is the JWT payload of an access token. It is a derived
// representation of a stored AccessToken, never persisted itself.
//
// sub = user_id when present, else client_id (client_credentials tokens).
type AccessClaims struct {
	jwtv5.RegisteredClaims

	ClientID  string   `json:"client_id"`
	UserID    string   `json:"user_id,omitempty"`
	Scopes    []string `json:"scp,omitempty"`
	TokenType string   `json:"token_type"`
}
