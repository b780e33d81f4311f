package repository

import (
	"context"
	"time"
)

// PersonalAccessToken representa un token de API de larga vida, emitido
// directamente para un usuario sin pasar por un grant flow ni estar ligado
// a un client OAuth2.
type PersonalAccessToken struct {
	ID         string
	UserID     string
	Name       string // etiqueta humana ("ci-deploy", "laptop")
	Token      string // opaco, base64url aleatorio
	Scopes     []string
	Revoked    bool
	LastUsedAt *time.Time // actualizado en uso
	ExpiresAt  *time.Time // nil => permanente
	CreatedAt  time.Time
}

// Expired indica si el PAT venció. Un PAT sin expiración nunca vence.
func (p *PersonalAccessToken) Expired() bool {
	return p.ExpiresAt != nil && time.Now().After(*p.ExpiresAt)
}

// PATRepository define operaciones sobre personal access tokens.
type PATRepository interface {
	// StorePAT persiste un PAT recién emitido.
	StorePAT(ctx context.Context, pat *PersonalAccessToken) error

	// GetPAT busca un PAT por su valor opaco.
	GetPAT(ctx context.Context, token string) (*PersonalAccessToken, error)

	// ListPATs lista los PATs de un usuario.
	ListPATs(ctx context.Context, userID string) ([]PersonalAccessToken, error)

	// RevokePAT marca un PAT como revocado.
	RevokePAT(ctx context.Context, id string) error

	// TouchPAT actualiza last_used_at.
	TouchPAT(ctx context.Context, id string, when time.Time) error
}
