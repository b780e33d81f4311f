package oauth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
	tokens "github.com/dropDatabas3/grantd/internal/security/token"
)

// CreatePATRequest son los parámetros para emitir un personal access token.
type CreatePATRequest struct {
	UserID string
	Name   string   // etiqueta humana
	Scopes []string // validados contra el catálogo solamente
	TTL    time.Duration
}

// CreatePersonalAccessToken emite un PAT: token opaco aleatorio, sin client
// asociado (los PATs no están ligados a un client OAuth2) y sin expiración
// por defecto (TTL 0 = permanente).
//
// Los scopes se validan contra el catálogo únicamente; no hay allowance de
// client que aplicar.
func (s *Server) CreatePersonalAccessToken(ctx context.Context, req CreatePATRequest) (*repository.PersonalAccessToken, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.pat.create"))

	if req.UserID == "" || req.Name == "" {
		return nil, invalidRequest("user_id and name are required")
	}

	scopes, err := s.catalog.Validate(req.Scopes)
	if err != nil {
		return nil, invalidScope(err.Error())
	}

	raw, err := tokens.GenerateOpaqueToken(tokens.OpaqueTokenBytes)
	if err != nil {
		return nil, internalError("generate pat", err)
	}

	now := time.Now().UTC()
	pat := &repository.PersonalAccessToken{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Name:      req.Name,
		Token:     raw,
		Scopes:    scopes,
		CreatedAt: now,
	}
	if req.TTL > 0 {
		exp := now.Add(req.TTL)
		pat.ExpiresAt = &exp
	}

	if err := s.pats.StorePAT(ctx, pat); err != nil {
		return nil, internalError("store pat", err)
	}

	log.Info("personal access token created",
		logger.UserID(req.UserID),
		logger.String("name", req.Name),
	)
	return pat, nil
}
