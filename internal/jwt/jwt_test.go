package jwt

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef") // 32 bytes

const testIssuer = "https://auth.example.com"

func newPair(t *testing.T) (*Issuer, *Validator) {
	t.Helper()
	iss, err := NewIssuer(testIssuer, testSecret)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	val, err := NewValidator(testIssuer, testSecret)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return iss, val
}

func TestNewIssuer_SecretTooShort(t *testing.T) {
	if _, err := NewIssuer(testIssuer, []byte("short")); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestGenerateAndValidate_RoundTrip(t *testing.T) {
	iss, val := newPair(t)

	at, err := iss.GenerateAccessToken("client-1", "user-1", []string{"users:read", "profile"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if at.Token == "" || at.ID == "" {
		t.Fatal("token and id must be set")
	}

	claims, err := val.ValidateAccessToken(at.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.ClientID != "client-1" || claims.UserID != "user-1" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if len(claims.Scopes) != 2 || claims.Scopes[0] != "users:read" {
		t.Fatalf("scopes mismatch: %v", claims.Scopes)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("token_type = %q", claims.TokenType)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("sub must be user_id when present, got %q", claims.Subject)
	}
	if claims.ID != at.ID {
		t.Fatalf("jti %q != access token id %q", claims.ID, at.ID)
	}
}

func TestGenerateAccessToken_SubjectFallsBackToClient(t *testing.T) {
	iss, val := newPair(t)

	at, err := iss.GenerateAccessToken("m2m-client", "", []string{"jobs:run"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := val.ValidateAccessToken(at.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "m2m-client" {
		t.Fatalf("sub must fall back to client_id, got %q", claims.Subject)
	}
	if claims.UserID != "" {
		t.Fatalf("user_id must be absent, got %q", claims.UserID)
	}
}

func TestValidate_NegativeLifetimeIsExpired(t *testing.T) {
	iss, val := newPair(t)

	at, err := iss.GenerateAccessToken("client-1", "user-1", nil, -time.Minute)
	if err != nil {
		t.Fatalf("generate must still succeed with negative lifetime: %v", err)
	}

	_, err = val.ValidateAccessToken(at.Token)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	intro := val.Introspect(at.Token)
	if intro.Active {
		t.Fatal("introspection of expired token must be active=false")
	}
	if intro.ClientID != "" || intro.Scope != "" {
		t.Fatalf("inactive introspection must have empty fields: %+v", intro)
	}
}

func TestValidate_ForeignIssuerRejected(t *testing.T) {
	iss, _ := newPair(t)
	other, err := NewValidator("https://other.example.com", testSecret)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	at, _ := iss.GenerateAccessToken("client-1", "user-1", nil, time.Hour)
	if _, err := other.ValidateAccessToken(at.Token); err == nil {
		t.Fatal("token from another issuer must be rejected")
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	iss, val := newPair(t)
	at, _ := iss.GenerateAccessToken("client-1", "user-1", nil, time.Hour)

	parts := strings.Split(at.Token, ".")
	sig, _ := base64.RawURLEncoding.DecodeString(parts[2])
	sig[0] ^= 0xff
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)

	_, err := val.ValidateAccessToken(strings.Join(parts, "."))
	if err == nil {
		t.Fatal("tampered token must be rejected")
	}
	if err == ErrTokenExpired {
		t.Fatal("tampered token must not be reported as expired")
	}
}

func TestValidate_Garbage(t *testing.T) {
	_, val := newPair(t)
	if _, err := val.ValidateAccessToken("not-a-jwt"); err == nil {
		t.Fatal("garbage input must be rejected")
	}
	if intro := val.Introspect("not-a-jwt"); intro.Active {
		t.Fatal("garbage introspection must be active=false")
	}
}

func TestIntrospect_ActiveFields(t *testing.T) {
	iss, val := newPair(t)
	at, _ := iss.GenerateAccessToken("client-1", "user-1", []string{"a", "b"}, time.Hour)

	intro := val.Introspect(at.Token)
	if !intro.Active {
		t.Fatal("expected active token")
	}
	if intro.Scope != "a b" {
		t.Fatalf("scope must be space-joined, got %q", intro.Scope)
	}
	if intro.ClientID != "client-1" || intro.Sub != "user-1" || intro.Iss != testIssuer {
		t.Fatalf("introspection fields mismatch: %+v", intro)
	}
	if intro.Exp == 0 || intro.Iat == 0 {
		t.Fatal("exp/iat must be populated")
	}
	if intro.JTI != at.ID {
		t.Fatalf("jti mismatch: %q vs %q", intro.JTI, at.ID)
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	iss, _ := newPair(t)

	rt, err := iss.GenerateRefreshToken("at-123", 24*time.Hour)
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}
	if rt.AccessTokenID != "at-123" {
		t.Fatalf("pairing mismatch: %q", rt.AccessTokenID)
	}
	raw, err := base64.RawURLEncoding.DecodeString(rt.Token)
	if err != nil {
		t.Fatalf("refresh token must be base64url: %v", err)
	}
	if len(raw) < 64 {
		t.Fatalf("refresh token entropy too low: %d bytes", len(raw))
	}
}
