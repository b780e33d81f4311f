package codecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/grantd/internal/cache/memory"
	"github.com/dropDatabas3/grantd/internal/domain/repository"
)

func newStore() *Store {
	return New(memory.New(time.Minute))
}

func TestStoreAndGet(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	code := &repository.AuthorizationCode{
		ID:          "c1",
		ClientID:    "web",
		UserID:      "u1",
		Code:        "raw-code",
		RedirectURI: "https://app/cb",
		Scopes:      []string{"users:read"},
		ExpiresAt:   time.Now().Add(10 * time.Minute),
		CreatedAt:   time.Now(),
	}
	if err := s.StoreCode(ctx, code); err != nil {
		t.Fatalf("StoreCode: %v", err)
	}

	got, err := s.GetCode(ctx, "raw-code")
	if err != nil {
		t.Fatalf("GetCode: %v", err)
	}
	if got.ClientID != "web" || got.RedirectURI != "https://app/cb" {
		t.Fatalf("payload mismatch: %+v", got)
	}

	if _, err := s.GetCode(ctx, "other"); !repository.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRevokeConsumes(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	code := &repository.AuthorizationCode{
		ID:        "c1",
		Code:      "raw-code",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	_ = s.StoreCode(ctx, code)

	if err := s.RevokeCode(ctx, "c1"); err != nil {
		t.Fatalf("RevokeCode: %v", err)
	}
	if _, err := s.GetCode(ctx, "raw-code"); !repository.IsNotFound(err) {
		t.Fatal("consumed code must be gone")
	}

	// Idempotente.
	if err := s.RevokeCode(ctx, "c1"); err != nil {
		t.Fatalf("second RevokeCode: %v", err)
	}
}

func TestExpiredCodeRejected(t *testing.T) {
	s := newStore()
	ctx := context.Background()

	code := &repository.AuthorizationCode{
		ID:        "c1",
		Code:      "raw-code",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := s.StoreCode(ctx, code); !errors.Is(err, repository.ErrInvalidInput) {
		t.Fatalf("StoreCode with past expiry: got %v, want ErrInvalidInput", err)
	}
	if _, err := s.GetCode(ctx, "raw-code"); !repository.IsNotFound(err) {
		t.Fatal("expired code must not be retrievable")
	}
}
