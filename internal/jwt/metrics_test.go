package jwt

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dropDatabas3/grantd/internal/metrics"
)

func TestValidate_ExpiredCounted(t *testing.T) {
	iss, val := newPair(t)
	c := metrics.TokenValidationFailures.WithLabelValues("expired")
	before := testutil.ToFloat64(c)

	at, err := iss.GenerateAccessToken("client-1", "user-1", nil, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := val.ValidateAccessToken(at.Token); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Fatalf("expired counter = %v, want %v", got, before+1)
	}
}

func TestValidate_InvalidCounted(t *testing.T) {
	_, val := newPair(t)
	c := metrics.TokenValidationFailures.WithLabelValues("invalid")
	before := testutil.ToFloat64(c)

	if _, err := val.ValidateAccessToken("not-a-jwt"); err == nil {
		t.Fatal("garbage input must be rejected")
	}
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Fatalf("invalid counter = %v, want %v", got, before+1)
	}
}

func TestValidate_SuccessNotCounted(t *testing.T) {
	iss, val := newPair(t)
	beforeExpired := testutil.ToFloat64(metrics.TokenValidationFailures.WithLabelValues("expired"))
	beforeInvalid := testutil.ToFloat64(metrics.TokenValidationFailures.WithLabelValues("invalid"))

	at, err := iss.GenerateAccessToken("client-1", "user-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := val.ValidateAccessToken(at.Token); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := testutil.ToFloat64(metrics.TokenValidationFailures.WithLabelValues("expired")); got != beforeExpired {
		t.Fatal("expired counter moved on a valid token")
	}
	if got := testutil.ToFloat64(metrics.TokenValidationFailures.WithLabelValues("invalid")); got != beforeInvalid {
		t.Fatal("invalid counter moved on a valid token")
	}
}
