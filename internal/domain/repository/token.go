package repository

import (
	"context"
	"time"
)

// AccessToken representa un access token emitido (JWT firmado).
//
// Invariante: Scopes ⊆ client.Scopes al momento de emisión. Se valida antes
// de firmar, no en cada decode.
type AccessToken struct {
	ID        string
	ClientID  string
	UserID    string // vacío solo para tokens de client_credentials
	Token     string // JWT firmado
	Scopes    []string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired indica si el token pasó su expiración (independiente de Revoked).
func (t *AccessToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

// RefreshToken representa un refresh token opaco, emparejado con el access
// token con el que fue emitido.
//
// Invariante: solo es canjeable mientras el client del access token
// emparejado coincida con el client que lo presenta. No se emite para
// client_credentials.
type RefreshToken struct {
	ID            string
	AccessTokenID string
	Token         string // opaco, base64url aleatorio
	Revoked       bool
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// TokenRepository define operaciones sobre access y refresh tokens.
type TokenRepository interface {
	// StoreAccessToken persiste un access token recién emitido.
	StoreAccessToken(ctx context.Context, token *AccessToken) error

	// GetAccessToken busca un access token por su ID.
	// Retorna ErrNotFound si no existe.
	GetAccessToken(ctx context.Context, id string) (*AccessToken, error)

	// RevokeAccessToken marca un access token como revocado.
	RevokeAccessToken(ctx context.Context, id string) error

	// StoreRefreshToken persiste un refresh token.
	StoreRefreshToken(ctx context.Context, token *RefreshToken) error

	// GetRefreshToken busca un refresh token por su valor opaco.
	// Retorna ErrNotFound si no existe.
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)

	// RevokeRefreshToken marca un refresh token como revocado.
	RevokeRefreshToken(ctx context.Context, id string) error

	// DeleteExpiredTokens elimina en bloque los tokens vencidos: access
	// tokens, authorization codes y PATs no permanentes pasados su
	// expires_at. Los refresh tokens cascadean con su access token padre.
	// Retorna el número de filas eliminadas.
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}
