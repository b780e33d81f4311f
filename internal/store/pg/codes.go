package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	token "github.com/dropDatabas3/grantd/internal/security/token"
)

// StoreCode persiste un authorization code (hasheado).
func (s *Store) StoreCode(ctx context.Context, c *repository.AuthorizationCode) error {
	const q = `
		INSERT INTO oauth_authorization_codes
			(id, client_id, user_id, code_hash, redirect_uri, scopes, code_challenge, code_challenge_method, revoked, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.pool.Exec(ctx, q,
		c.ID, c.ClientID, c.UserID, token.SHA256Base64URL(c.Code), c.RedirectURI,
		c.Scopes, c.CodeChallenge, c.CodeChallengeMethod, c.Revoked, c.ExpiresAt, c.CreatedAt,
	)
	return err
}

// GetCode busca por el valor opaco presentado en el exchange.
func (s *Store) GetCode(ctx context.Context, plain string) (*repository.AuthorizationCode, error) {
	const q = `
		SELECT id, client_id, user_id, redirect_uri, scopes, code_challenge, code_challenge_method, revoked, expires_at, created_at
		FROM oauth_authorization_codes WHERE code_hash = $1`

	var c repository.AuthorizationCode
	err := s.pool.QueryRow(ctx, q, token.SHA256Base64URL(plain)).Scan(
		&c.ID, &c.ClientID, &c.UserID, &c.RedirectURI, &c.Scopes,
		&c.CodeChallenge, &c.CodeChallengeMethod, &c.Revoked, &c.ExpiresAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	c.Code = plain
	return &c, nil
}

// RevokeCode consume el código. Idempotente: no falla si ya no existe.
func (s *Store) RevokeCode(ctx context.Context, id string) error {
	const q = `UPDATE oauth_authorization_codes SET revoked = TRUE WHERE id = $1`
	_, err := s.pool.Exec(ctx, q, id)
	return err
}
