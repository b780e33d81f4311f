package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerateOpaqueToken_Entropy(t *testing.T) {
	tok, err := GenerateOpaqueToken(0) // 0 => default 64 bytes
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) < OpaqueTokenBytes {
		t.Fatalf("expected >= %d bytes of entropy, got %d", OpaqueTokenBytes, len(raw))
	}
	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token must be url-safe without padding: %q", tok)
	}

	other, _ := GenerateOpaqueToken(0)
	if tok == other {
		t.Fatal("two generated tokens must differ")
	}
}

func TestVerifyPKCE_S256(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	challenge := SHA256Base64URL(verifier)

	if !VerifyPKCE(challenge, "S256", verifier) {
		t.Fatal("S256 verify should succeed")
	}
	if VerifyPKCE(challenge, "S256", verifier+"x") {
		t.Fatal("S256 verify with wrong verifier should fail")
	}
}

func TestVerifyPKCE_Plain(t *testing.T) {
	if !VerifyPKCE("secret-verifier", "plain", "secret-verifier") {
		t.Fatal("plain verify should succeed on literal match")
	}
	if VerifyPKCE("secret-verifier", "plain", "other") {
		t.Fatal("plain verify should fail on mismatch")
	}
}

func TestVerifyPKCE_Edge(t *testing.T) {
	if VerifyPKCE("", "S256", "v") {
		t.Fatal("empty challenge must fail")
	}
	if VerifyPKCE("c", "S256", "") {
		t.Fatal("empty verifier must fail")
	}
	if VerifyPKCE("c", "unknown-method", "c") {
		t.Fatal("unknown method must fail")
	}
}
