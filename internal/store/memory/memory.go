// Package memory implementa los repositorios del dominio sobre maps en
// memoria. Pensado para tests y desarrollo; producción usa store/pg.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	tokens "github.com/dropDatabas3/grantd/internal/security/token"
)

// Store implementa ClientRepository, TokenRepository, CodeRepository y
// PATRepository. Thread-safe con un RWMutex único: los volúmenes de test
// no justifican sharding.
type Store struct {
	mu sync.RWMutex

	clients map[string]*repository.Client
	access  map[string]*repository.AccessToken         // por ID
	refresh map[string]*repository.RefreshToken        // por token opaco
	codes   map[string]*repository.AuthorizationCode   // por código opaco
	pats    map[string]*repository.PersonalAccessToken // por token opaco
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		clients: make(map[string]*repository.Client),
		access:  make(map[string]*repository.AccessToken),
		refresh: make(map[string]*repository.RefreshToken),
		codes:   make(map[string]*repository.AuthorizationCode),
		pats:    make(map[string]*repository.PersonalAccessToken),
	}
}

// SeedClient registra un client. Solo para tests/bootstrap: en producción
// los clients los crea una operación admin externa.
func (s *Store) SeedClient(c *repository.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	cp := *c
	s.clients[c.ID] = &cp
}

// ─── ClientRepository ───

func (s *Store) Find(_ context.Context, id string) (*repository.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) FindByCredentials(_ context.Context, id, secret string) (*repository.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok || c.Secret == "" || !tokens.ConstantTimeEquals(c.Secret, secret) {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Revoked = true
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// ─── TokenRepository ───

func (s *Store) StoreAccessToken(_ context.Context, t *repository.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.access[t.ID]; exists {
		return repository.ErrConflict
	}
	cp := *t
	s.access[t.ID] = &cp
	return nil
}

func (s *Store) GetAccessToken(_ context.Context, id string) (*repository.AccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.access[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) RevokeAccessToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.access[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Revoked = true
	return nil
}

func (s *Store) StoreRefreshToken(_ context.Context, t *repository.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.refresh[t.Token]; exists {
		return repository.ErrConflict
	}
	cp := *t
	s.refresh[t.Token] = &cp
	return nil
}

func (s *Store) GetRefreshToken(_ context.Context, token string) (*repository.RefreshToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.refresh[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) RevokeRefreshToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.refresh {
		if t.ID == id {
			t.Revoked = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// DeleteExpiredTokens borra access tokens, códigos y PATs no permanentes
// vencidos. Los refresh tokens cascadean con su access token padre.
func (s *Store) DeleteExpiredTokens(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var n int64

	expiredAccess := make(map[string]struct{})
	for id, t := range s.access {
		if now.After(t.ExpiresAt) {
			expiredAccess[id] = struct{}{}
			delete(s.access, id)
			n++
		}
	}
	for tok, rt := range s.refresh {
		if _, gone := expiredAccess[rt.AccessTokenID]; gone {
			delete(s.refresh, tok)
			n++
		}
	}
	for code, c := range s.codes {
		if now.After(c.ExpiresAt) {
			delete(s.codes, code)
			n++
		}
	}
	for tok, p := range s.pats {
		if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
			delete(s.pats, tok)
			n++
		}
	}
	return n, nil
}

// ─── CodeRepository ───

func (s *Store) StoreCode(_ context.Context, c *repository.AuthorizationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.codes[c.Code]; exists {
		return repository.ErrConflict
	}
	cp := *c
	s.codes[c.Code] = &cp
	return nil
}

func (s *Store) GetCode(_ context.Context, code string) (*repository.AuthorizationCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.codes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) RevokeCode(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.codes {
		if c.ID == id {
			c.Revoked = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// ─── PATRepository ───

func (s *Store) StorePAT(_ context.Context, p *repository.PersonalAccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pats[p.Token]; exists {
		return repository.ErrConflict
	}
	cp := *p
	s.pats[p.Token] = &cp
	return nil
}

func (s *Store) GetPAT(_ context.Context, token string) (*repository.PersonalAccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pats[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListPATs(_ context.Context, userID string) ([]repository.PersonalAccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.PersonalAccessToken
	for _, p := range s.pats {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *Store) RevokePAT(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pats {
		if p.ID == id {
			p.Revoked = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) TouchPAT(_ context.Context, id string, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pats {
		if p.ID == id {
			w := when
			p.LastUsedAt = &w
			return nil
		}
	}
	return repository.ErrNotFound
}
