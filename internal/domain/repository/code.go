package repository

import (
	"context"
	"time"
)

// PKCE challenge methods (RFC 7636).
const (
	ChallengeMethodS256  = "S256"
	ChallengeMethodPlain = "plain"
)

// AuthorizationCode representa un código de autorización de corta vida.
//
// Ciclo de vida: Issued → Exchanged-once → Expired/Revoked. El exchange lo
// consume (revoca) antes de emitir tokens, previniendo replay.
type AuthorizationCode struct {
	ID                  string
	ClientID            string
	UserID              string
	Code                string // opaco, base64url aleatorio
	RedirectURI         string // debe igualar la usada en la emisión
	Scopes              []string
	CodeChallenge       string // vacío => sin PKCE (solo confidential clients)
	CodeChallengeMethod string // "S256" | "plain"
	Revoked             bool
	ExpiresAt           time.Time
	CreatedAt           time.Time
}

// Expired indica si el código pasó su expiración.
func (c *AuthorizationCode) Expired() bool {
	return time.Now().After(c.ExpiresAt)
}

// CodeRepository define operaciones sobre authorization codes.
//
// Los códigos viven minutos; los adapters cache (memory/redis) los guardan
// con TTL en lugar de persistirlos.
type CodeRepository interface {
	// StoreCode persiste un authorization code recién emitido.
	StoreCode(ctx context.Context, code *AuthorizationCode) error

	// GetCode busca un código por su valor opaco.
	// Retorna ErrNotFound si no existe o ya fue consumido.
	GetCode(ctx context.Context, code string) (*AuthorizationCode, error)

	// RevokeCode consume/revoca un código. Idempotente.
	RevokeCode(ctx context.Context, id string) error
}
