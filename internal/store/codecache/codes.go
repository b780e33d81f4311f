// Package codecache implementa CodeRepository sobre un cache con TTL.
//
// Los authorization codes viven minutos; guardarlos hasheados en un cache
// (memoria o Redis) con TTL = su expiración evita persistirlos y hace que
// la limpieza sea automática.
package codecache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dropDatabas3/grantd/internal/cache"
	"github.com/dropDatabas3/grantd/internal/domain/repository"
	tokens "github.com/dropDatabas3/grantd/internal/security/token"
)

const (
	codePrefix = "oauth:code:"   // sha256(code) → payload JSON
	idPrefix   = "oauth:codeid:" // id → sha256(code), para revocar por id
)

// Store implementa repository.CodeRepository.
type Store struct {
	c cache.Cache
}

// New crea un Store sobre el cache dado.
func New(c cache.Cache) *Store {
	return &Store{c: c}
}

func (s *Store) StoreCode(_ context.Context, code *repository.AuthorizationCode) error {
	payload, err := json.Marshal(code)
	if err != nil {
		return err
	}
	ttl := time.Until(code.ExpiresAt)
	if ttl <= 0 {
		// Guardar un código ya vencido sería aceptar algo incanjeable.
		return repository.ErrInvalidInput
	}
	hash := tokens.SHA256Base64URL(code.Code)
	s.c.Set(codePrefix+hash, payload, ttl)
	s.c.Set(idPrefix+code.ID, []byte(hash), ttl)
	return nil
}

func (s *Store) GetCode(_ context.Context, rawCode string) (*repository.AuthorizationCode, error) {
	hash := tokens.SHA256Base64URL(rawCode)
	data, ok := s.c.Get(codePrefix + hash)
	if !ok {
		return nil, repository.ErrNotFound
	}
	var code repository.AuthorizationCode
	if err := json.Unmarshal(data, &code); err != nil {
		// Payload corrupto equivale a código inexistente.
		return nil, repository.ErrNotFound
	}
	return &code, nil
}

// RevokeCode consume el código: borra ambas entradas. Idempotente; revocar
// un código ya consumido o expirado no es error.
func (s *Store) RevokeCode(_ context.Context, id string) error {
	hashBytes, ok := s.c.Get(idPrefix + id)
	if !ok {
		return nil
	}
	s.c.Delete(codePrefix + string(hashBytes))
	s.c.Delete(idPrefix + id)
	return nil
}
