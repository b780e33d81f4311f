package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	token "github.com/dropDatabas3/grantd/internal/security/token"
)

// StorePAT persiste un personal access token (hasheado).
func (s *Store) StorePAT(ctx context.Context, p *repository.PersonalAccessToken) error {
	const q = `
		INSERT INTO oauth_pats (id, user_id, name, token_hash, scopes, revoked, last_used_at, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, q,
		p.ID, p.UserID, p.Name, token.SHA256Base64URL(p.Token), p.Scopes,
		p.Revoked, p.LastUsedAt, p.ExpiresAt, p.CreatedAt,
	)
	return err
}

// GetPAT busca por el valor opaco presentado.
func (s *Store) GetPAT(ctx context.Context, plain string) (*repository.PersonalAccessToken, error) {
	const q = `
		SELECT id, user_id, name, scopes, revoked, last_used_at, expires_at, created_at
		FROM oauth_pats WHERE token_hash = $1`

	var p repository.PersonalAccessToken
	err := s.pool.QueryRow(ctx, q, token.SHA256Base64URL(plain)).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Scopes, &p.Revoked, &p.LastUsedAt, &p.ExpiresAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	p.Token = plain
	return &p, nil
}

// ListPATs lista los PATs de un usuario, más recientes primero. Los valores
// opacos no se devuelven: solo se guarda el hash.
func (s *Store) ListPATs(ctx context.Context, userID string) ([]repository.PersonalAccessToken, error) {
	const q = `
		SELECT id, user_id, name, scopes, revoked, last_used_at, expires_at, created_at
		FROM oauth_pats WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.PersonalAccessToken
	for rows.Next() {
		var p repository.PersonalAccessToken
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Scopes, &p.Revoked, &p.LastUsedAt, &p.ExpiresAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RevokePAT marca el PAT como revocado.
func (s *Store) RevokePAT(ctx context.Context, id string) error {
	const q = `UPDATE oauth_pats SET revoked = TRUE WHERE id = $1`
	ct, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// TouchPAT actualiza last_used_at.
func (s *Store) TouchPAT(ctx context.Context, id string, when time.Time) error {
	const q = `UPDATE oauth_pats SET last_used_at = $2 WHERE id = $1`
	ct, err := s.pool.Exec(ctx, q, id, when)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
