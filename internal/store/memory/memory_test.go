package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
)

func TestClientLookup(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.SeedClient(&repository.Client{
		ID:     "web",
		Name:   "Web App",
		Secret: "s3cret",
		Scopes: []string{"users:read"},
	})

	c, err := s.Find(ctx, "web")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if c.Name != "Web App" {
		t.Fatalf("unexpected client: %+v", c)
	}

	if _, err := s.Find(ctx, "nope"); !repository.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := s.FindByCredentials(ctx, "web", "s3cret"); err != nil {
		t.Fatalf("FindByCredentials: %v", err)
	}
	if _, err := s.FindByCredentials(ctx, "web", "wrong"); !repository.IsNotFound(err) {
		t.Fatalf("bad secret must be ErrNotFound, got %v", err)
	}
}

func TestClientRevoke(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.SeedClient(&repository.Client{ID: "web"})

	if err := s.Revoke(ctx, "web"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	c, _ := s.Find(ctx, "web")
	if !c.Revoked {
		t.Fatal("client should be revoked")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	at := &repository.AccessToken{ID: "at-1", ClientID: "web", Token: "jwt", ExpiresAt: time.Now().Add(time.Hour)}
	if err := s.StoreAccessToken(ctx, at); err != nil {
		t.Fatalf("StoreAccessToken: %v", err)
	}
	if err := s.StoreAccessToken(ctx, at); !repository.IsConflict(err) {
		t.Fatalf("duplicate insert must conflict, got %v", err)
	}

	rt := &repository.RefreshToken{ID: "rt-1", AccessTokenID: "at-1", Token: "opaque", ExpiresAt: time.Now().Add(time.Hour)}
	if err := s.StoreRefreshToken(ctx, rt); err != nil {
		t.Fatalf("StoreRefreshToken: %v", err)
	}

	got, err := s.GetRefreshToken(ctx, "opaque")
	if err != nil || got.AccessTokenID != "at-1" {
		t.Fatalf("GetRefreshToken: %v %+v", err, got)
	}

	if err := s.RevokeRefreshToken(ctx, "rt-1"); err != nil {
		t.Fatalf("RevokeRefreshToken: %v", err)
	}
	got, _ = s.GetRefreshToken(ctx, "opaque")
	if !got.Revoked {
		t.Fatal("refresh token should be revoked")
	}
}

func TestDeleteExpiredTokens_CascadesRefresh(t *testing.T) {
	s := New()
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	_ = s.StoreAccessToken(ctx, &repository.AccessToken{ID: "dead", ExpiresAt: past})
	_ = s.StoreAccessToken(ctx, &repository.AccessToken{ID: "alive", ExpiresAt: future})
	_ = s.StoreRefreshToken(ctx, &repository.RefreshToken{ID: "r1", AccessTokenID: "dead", Token: "t1", ExpiresAt: future})
	_ = s.StoreRefreshToken(ctx, &repository.RefreshToken{ID: "r2", AccessTokenID: "alive", Token: "t2", ExpiresAt: future})
	_ = s.StoreCode(ctx, &repository.AuthorizationCode{ID: "c1", Code: "code1", ExpiresAt: past})
	_ = s.StorePAT(ctx, &repository.PersonalAccessToken{ID: "p1", Token: "pat1", ExpiresAt: &past})
	_ = s.StorePAT(ctx, &repository.PersonalAccessToken{ID: "p2", Token: "pat2"}) // permanente

	n, err := s.DeleteExpiredTokens(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredTokens: %v", err)
	}
	// dead access + cascaded r1 + code + non-permanent pat
	if n != 4 {
		t.Fatalf("expected 4 deletions, got %d", n)
	}

	if _, err := s.GetAccessToken(ctx, "alive"); err != nil {
		t.Fatalf("alive token must survive: %v", err)
	}
	if _, err := s.GetRefreshToken(ctx, "t1"); !repository.IsNotFound(err) {
		t.Fatal("refresh of expired access must cascade-delete")
	}
	if _, err := s.GetRefreshToken(ctx, "t2"); err != nil {
		t.Fatalf("refresh of alive access must survive: %v", err)
	}
	if _, err := s.GetPAT(ctx, "pat2"); err != nil {
		t.Fatalf("permanent PAT must survive: %v", err)
	}
}

func TestCodeConsume(t *testing.T) {
	s := New()
	ctx := context.Background()

	code := &repository.AuthorizationCode{ID: "c1", Code: "raw", ClientID: "web", ExpiresAt: time.Now().Add(time.Minute)}
	if err := s.StoreCode(ctx, code); err != nil {
		t.Fatalf("StoreCode: %v", err)
	}
	if err := s.RevokeCode(ctx, "c1"); err != nil {
		t.Fatalf("RevokeCode: %v", err)
	}
	got, err := s.GetCode(ctx, "raw")
	if err != nil {
		t.Fatalf("GetCode: %v", err)
	}
	if !got.Revoked {
		t.Fatal("code should be revoked")
	}
}

func TestPATs(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.StorePAT(ctx, &repository.PersonalAccessToken{ID: "p1", UserID: "u1", Name: "ci", Token: "tok1"})
	_ = s.StorePAT(ctx, &repository.PersonalAccessToken{ID: "p2", UserID: "u1", Name: "laptop", Token: "tok2"})
	_ = s.StorePAT(ctx, &repository.PersonalAccessToken{ID: "p3", UserID: "u2", Name: "other", Token: "tok3"})

	list, err := s.ListPATs(ctx, "u1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListPATs: %v, %d", err, len(list))
	}

	when := time.Now()
	if err := s.TouchPAT(ctx, "p1", when); err != nil {
		t.Fatalf("TouchPAT: %v", err)
	}
	p, _ := s.GetPAT(ctx, "tok1")
	if p.LastUsedAt == nil {
		t.Fatal("last_used_at should be set")
	}
}
