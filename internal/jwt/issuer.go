package jwt

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	tokens "github.com/dropDatabas3/grantd/internal/security/token"
)

// MinSecretBytes es la entropía mínima del signing secret (256 bits).
const MinSecretBytes = 32

// Issuer firma access tokens HS256 y genera refresh tokens opacos.
//
// El secret y el issuer string son configuración inmutable de proceso:
// se setean una vez en la construcción y se comparten read-only entre
// requests concurrentes.
type Issuer struct {
	iss    string
	secret []byte
}

// NewIssuer crea un Issuer. Falla si el secret tiene menos de 256 bits.
func NewIssuer(iss string, secret []byte) (*Issuer, error) {
	if iss == "" {
		return nil, fmt.Errorf("issuer must not be empty")
	}
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("signing secret too short: need >= %d bytes, got %d", MinSecretBytes, len(secret))
	}
	return &Issuer{iss: iss, secret: secret}, nil
}

// Issuer retorna el issuer string configurado ("iss").
func (i *Issuer) Issuer() string { return i.iss }

// GenerateAccessToken emite un AccessToken firmado.
//
// exp = now + lifetime. Un lifetime negativo produce un token ya vencido;
// se emite igual (el validador lo reporta expirado). sub = userID si está
// presente, sino clientID. Solo falla ante un error interno de firma.
func (i *Issuer) GenerateAccessToken(clientID, userID string, scopes []string, lifetime time.Duration) (*repository.AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(lifetime)
	id := uuid.NewString()

	sub := userID
	if sub == "" {
		sub = clientID
	}

	claims := AccessClaims{
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.iss,
			Subject:   sub,
			Audience:  jwtv5.ClaimStrings{clientID},
			ExpiresAt: jwtv5.NewNumericDate(exp),
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ID:        id,
		},
		ClientID:  clientID,
		UserID:    userID,
		Scopes:    scopes,
		TokenType: TokenTypeAccess,
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &repository.AccessToken{
		ID:        id,
		ClientID:  clientID,
		UserID:    userID,
		Token:     signed,
		Scopes:    scopes,
		ExpiresAt: exp,
		CreatedAt: now,
	}, nil
}

// GenerateRefreshToken genera un refresh token opaco (64 bytes aleatorios,
// base64url) emparejado al access token dado.
func (i *Issuer) GenerateRefreshToken(accessTokenID string, lifetime time.Duration) (*repository.RefreshToken, error) {
	now := time.Now().UTC()

	raw, err := tokens.GenerateOpaqueToken(tokens.OpaqueTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &repository.RefreshToken{
		ID:            uuid.NewString(),
		AccessTokenID: accessTokenID,
		Token:         raw,
		ExpiresAt:     now.Add(lifetime),
		CreatedAt:     now,
	}, nil
}
