package oauth

import "fmt"

// GrantType es el set cerrado de flows RFC 6749 soportados. Se dispatchea
// por switch, no por plugin registry: el set no es extensible en runtime.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantClientCredentials GrantType = "client_credentials"
	GrantPassword          GrantType = "password"
	GrantRefreshToken      GrantType = "refresh_token"
)

// ParseGrantType valida un grant_type del wire contra el set soportado.
func ParseGrantType(s string) (GrantType, error) {
	switch GrantType(s) {
	case GrantAuthorizationCode, GrantClientCredentials, GrantPassword, GrantRefreshToken:
		return GrantType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedGrantType, s)
	}
}

func (g GrantType) String() string { return string(g) }
