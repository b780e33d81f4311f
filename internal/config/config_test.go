package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const minimalYAML = `
oauth:
  secret: "0123456789abcdef0123456789abcdef"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeTemp(t, minimalYAML))
	require.NoError(t, err)

	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "memory", c.Storage.Driver)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, "grantd", c.OAuth.Issuer)

	access, err := c.AccessTTL()
	require.NoError(t, err)
	require.Equal(t, time.Hour, access)

	code, err := c.CodeTTL()
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, code)
}

func TestLoadShortSecretRejected(t *testing.T) {
	_, err := Load(writeTemp(t, "oauth:\n  secret: \"short\"\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "oauth.secret")
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	yaml := minimalYAML + `
storage:
  driver: postgres
`
	_, err := Load(writeTemp(t, yaml))
	require.Error(t, err)
	require.Contains(t, err.Error(), "dsn")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("OAUTH_ISSUER", "issuer-from-env")
	t.Setenv("OAUTH_SCOPES", "openid, billing:read ,")

	c, err := Load(writeTemp(t, minimalYAML))
	require.NoError(t, err)

	require.Equal(t, ":9999", c.Server.Addr)
	require.Equal(t, "issuer-from-env", c.OAuth.Issuer)
	require.Equal(t, []string{"openid", "billing:read"}, c.OAuth.Scopes)
}

func TestInvalidTTLRejected(t *testing.T) {
	yaml := "oauth:\n  secret: \"0123456789abcdef0123456789abcdef\"\n  access_ttl: \"not-a-duration\"\n"
	_, err := Load(writeTemp(t, yaml))
	require.Error(t, err)
	require.Contains(t, err.Error(), "access_ttl")
}

func TestNonPositiveTTLRejected(t *testing.T) {
	cases := map[string]string{
		"zero access":      "access_ttl: \"0s\"",
		"negative access":  "access_ttl: \"-1h\"",
		"zero refresh":     "refresh_ttl: \"0s\"",
		"negative refresh": "refresh_ttl: \"-24h\"",
		"zero code":        "code_ttl: \"0s\"",
		"negative code":    "code_ttl: \"-10m\"",
	}
	for name, ttl := range cases {
		t.Run(name, func(t *testing.T) {
			yaml := "oauth:\n  secret: \"0123456789abcdef0123456789abcdef\"\n  " + ttl + "\n"
			_, err := Load(writeTemp(t, yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), "must be positive")
		})
	}
}
