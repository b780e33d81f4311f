package repository

import (
	"context"
	"time"
)

// Client representa un cliente OAuth2 registrado.
//
// Un client sin secret es "public" (SPA, mobile) y debe usar PKCE en el
// authorization_code grant. Un client con secret es "confidential".
type Client struct {
	ID           string
	Name         string
	Secret       string // vacío => public client
	RedirectURIs []string
	Grants       []string // grant types permitidos para este client
	Scopes       []string // scopes que el client puede pedir ("*" = todos)
	Revoked      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Confidential indica si el client tiene secret (puede autenticarse).
func (c *Client) Confidential() bool {
	return c.Secret != ""
}

// Public indica si el client no tiene secret (requiere PKCE).
func (c *Client) Public() bool {
	return c.Secret == ""
}

// SupportsGrant verifica si el grant type está permitido para el client.
func (c *Client) SupportsGrant(grantType string) bool {
	for _, g := range c.Grants {
		if g == grantType {
			return true
		}
	}
	return false
}

// ClientRepository define las operaciones de lookup/mutación sobre clients.
//
// Los clients se crean por una operación admin externa; este subsistema
// solo los lee y marca revoked. Nunca se borran físicamente.
type ClientRepository interface {
	// Find obtiene un client por su ID público.
	// Retorna ErrNotFound si no existe.
	Find(ctx context.Context, id string) (*Client, error)

	// FindByCredentials obtiene un client por el par (id, secret).
	// Retorna ErrNotFound si no hay match. El esquema de verificación del
	// secret (plain, argon2id, etc.) es responsabilidad del adapter.
	FindByCredentials(ctx context.Context, id, secret string) (*Client, error)

	// Revoke marca el client como revocado.
	Revoke(ctx context.Context, id string) error
}
