package jwt

import (
	"errors"
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/grantd/internal/metrics"
)

// Errores del validador. Son kinds distinguibles: los callers pueden querer
// diferenciar "malformado" de "expirado" (ej: para disparar un refresh flow).
var (
	// ErrInvalidToken indica firma inválida, formato corrupto o issuer ajeno.
	ErrInvalidToken = errors.New("invalid token signature or format")

	// ErrTokenExpired indica que el token venció (exp < now).
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidTokenType indica que el token_type no es "access_token"
	// (mapea a invalid_request en el wire).
	ErrInvalidTokenType = errors.New("invalid token type")
)

// Validator verifica y decodifica access tokens. Comparte secret e issuer
// con el Issuer que los firmó.
type Validator struct {
	iss    string
	secret []byte
}

// NewValidator crea un Validator con el mismo secret/issuer del Issuer.
func NewValidator(iss string, secret []byte) (*Validator, error) {
	if iss == "" {
		return nil, fmt.Errorf("issuer must not be empty")
	}
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("signing secret too short: need >= %d bytes, got %d", MinSecretBytes, len(secret))
	}
	return &Validator{iss: iss, secret: secret}, nil
}

// ValidateAccessToken verifica firma (HS256), issuer, token_type y expiración.
// Orden de chequeo: firma/formato → exp → token_type.
func (v *Validator) ValidateAccessToken(token string) (*AccessClaims, error) {
	var claims AccessClaims
	_, err := jwtv5.ParseWithClaims(token, &claims,
		func(t *jwtv5.Token) (any, error) { return v.secret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(v.iss),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			metrics.TokenValidationFailures.WithLabelValues("expired").Inc()
			return nil, ErrTokenExpired
		}
		metrics.TokenValidationFailures.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.TokenType != TokenTypeAccess {
		metrics.TokenValidationFailures.WithLabelValues("wrong_token_type").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenType, claims.TokenType)
	}

	return &claims, nil
}
