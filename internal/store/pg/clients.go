package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	"github.com/dropDatabas3/grantd/internal/security/secret"
)

// Find obtiene un client por ID. El campo Secret queda vacío: el hash nunca
// sale del adapter.
func (s *Store) Find(ctx context.Context, id string) (*repository.Client, error) {
	const q = `
		SELECT id, name, secret_hash, redirect_uris, grants, scopes, revoked, created_at, updated_at
		FROM oauth_clients WHERE id = $1`

	var c repository.Client
	var secretHash *string
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&c.ID, &c.Name, &secretHash, &c.RedirectURIs, &c.Grants, &c.Scopes,
		&c.Revoked, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if secretHash != nil && *secretHash != "" {
		// Marca de confidential client; el hash real no se expone.
		c.Secret = "<redacted>"
	}
	return &c, nil
}

// FindByCredentials obtiene un client verificando el secret contra el hash
// argon2id almacenado. Un client public (sin hash) nunca matchea por acá.
func (s *Store) FindByCredentials(ctx context.Context, id, plainSecret string) (*repository.Client, error) {
	const q = `
		SELECT id, name, secret_hash, redirect_uris, grants, scopes, revoked, created_at, updated_at
		FROM oauth_clients WHERE id = $1`

	var c repository.Client
	var secretHash *string
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&c.ID, &c.Name, &secretHash, &c.RedirectURIs, &c.Grants, &c.Scopes,
		&c.Revoked, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if secretHash == nil || *secretHash == "" || !secret.Verify(plainSecret, *secretHash) {
		return nil, repository.ErrNotFound
	}
	c.Secret = "<redacted>"
	return &c, nil
}

// Revoke marca el client como revocado.
func (s *Store) Revoke(ctx context.Context, id string) error {
	const q = `UPDATE oauth_clients SET revoked = TRUE, updated_at = NOW() WHERE id = $1`
	ct, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
