package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// OpaqueTokenBytes es la entropía mínima para refresh tokens, authorization
// codes y PATs (64 bytes aleatorios antes de base64url).
const OpaqueTokenBytes = 64

// GenerateOpaqueToken genera un token opaco aleatorio (base64url sin padding).
func GenerateOpaqueToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = OpaqueTokenBytes
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SHA256Base64URL devuelve sha256(input) en base64url sin padding.
func SHA256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// ConstantTimeEquals compara dos strings en tiempo constante.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// VerifyPKCE verifica un code_verifier contra el challenge grabado en la
// emisión del código (RFC 7636).
//
//   - S256:  base64url(sha256(verifier)) debe igualar el challenge.
//   - plain: verifier debe igualar el challenge literalmente.
//
// Métodos desconocidos fallan siempre.
func VerifyPKCE(challenge, method, verifier string) bool {
	if challenge == "" || verifier == "" {
		return false
	}
	switch method {
	case "S256":
		return ConstantTimeEquals(SHA256Base64URL(verifier), challenge)
	case "plain":
		return ConstantTimeEquals(verifier, challenge)
	default:
		return false
	}
}
