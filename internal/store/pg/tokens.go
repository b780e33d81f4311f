package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	token "github.com/dropDatabas3/grantd/internal/security/token"
)

// StoreAccessToken persiste un access token emitido.
func (s *Store) StoreAccessToken(ctx context.Context, t *repository.AccessToken) error {
	const q = `
		INSERT INTO oauth_access_tokens (id, client_id, user_id, token_hash, scopes, revoked, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, q,
		t.ID, t.ClientID, nullIfEmpty(t.UserID), token.SHA256Base64URL(t.Token),
		t.Scopes, t.Revoked, t.ExpiresAt, t.CreatedAt,
	)
	return err
}

// GetAccessToken busca por ID. El campo Token vuelve vacío: solo se guarda
// el hash y el JWT se valida por firma, no por lookup.
func (s *Store) GetAccessToken(ctx context.Context, id string) (*repository.AccessToken, error) {
	const q = `
		SELECT id, client_id, COALESCE(user_id, ''), scopes, revoked, expires_at, created_at
		FROM oauth_access_tokens WHERE id = $1`

	var t repository.AccessToken
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&t.ID, &t.ClientID, &t.UserID, &t.Scopes, &t.Revoked, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// RevokeAccessToken marca el access token como revocado.
func (s *Store) RevokeAccessToken(ctx context.Context, id string) error {
	const q = `UPDATE oauth_access_tokens SET revoked = TRUE WHERE id = $1`
	ct, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// StoreRefreshToken persiste un refresh token opaco (hasheado).
func (s *Store) StoreRefreshToken(ctx context.Context, t *repository.RefreshToken) error {
	const q = `
		INSERT INTO oauth_refresh_tokens (id, access_token_id, token_hash, revoked, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, q,
		t.ID, t.AccessTokenID, token.SHA256Base64URL(t.Token), t.Revoked, t.ExpiresAt, t.CreatedAt,
	)
	return err
}

// GetRefreshToken busca por el valor opaco presentado por el client.
func (s *Store) GetRefreshToken(ctx context.Context, plain string) (*repository.RefreshToken, error) {
	const q = `
		SELECT id, access_token_id, revoked, expires_at, created_at
		FROM oauth_refresh_tokens WHERE token_hash = $1`

	var t repository.RefreshToken
	err := s.pool.QueryRow(ctx, q, token.SHA256Base64URL(plain)).Scan(
		&t.ID, &t.AccessTokenID, &t.Revoked, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	t.Token = plain
	return &t, nil
}

// RevokeRefreshToken marca el refresh token como revocado.
func (s *Store) RevokeRefreshToken(ctx context.Context, id string) error {
	const q = `UPDATE oauth_refresh_tokens SET revoked = TRUE WHERE id = $1`
	ct, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteExpiredTokens elimina tokens vencidos en bloque. Los refresh tokens
// cascadean vía FK al borrar su access token padre, así que se borran
// primero los huérfanos vencidos por su propio expires_at.
func (s *Store) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	var total int64

	const qRefresh = `DELETE FROM oauth_refresh_tokens WHERE expires_at < NOW()`
	ct, err := s.pool.Exec(ctx, qRefresh)
	if err != nil {
		return total, err
	}
	total += ct.RowsAffected()

	const qAccess = `DELETE FROM oauth_access_tokens WHERE expires_at < NOW()`
	ct, err = s.pool.Exec(ctx, qAccess)
	if err != nil {
		return total, err
	}
	total += ct.RowsAffected()

	const qCodes = `DELETE FROM oauth_authorization_codes WHERE expires_at < NOW()`
	ct, err = s.pool.Exec(ctx, qCodes)
	if err != nil {
		return total, err
	}
	total += ct.RowsAffected()

	const qPATs = `DELETE FROM oauth_pats WHERE expires_at IS NOT NULL AND expires_at < NOW()`
	ct, err = s.pool.Exec(ctx, qPATs)
	if err != nil {
		return total, err
	}
	total += ct.RowsAffected()

	return total, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
