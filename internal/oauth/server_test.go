package oauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	"github.com/dropDatabas3/grantd/internal/store/memory"
	"github.com/dropDatabas3/grantd/internal/validation"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	st := memory.New()
	srv, err := NewServer(Deps{
		Clients: st,
		Tokens:  st,
		Codes:   st,
		PATs:    st,
		Catalog: validation.NewCatalog("users:read", "users:write", "jobs:run"),
		Config: Config{
			Issuer:     "https://auth.example.com",
			Secret:     testSecret,
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
			CodeTTL:    10 * time.Minute,
		},
	})
	require.NoError(t, err)
	return srv, st
}

func seedConfidential(st *memory.Store) {
	st.SeedClient(&repository.Client{
		ID:           "web",
		Name:         "Web App",
		Secret:       "s3cret",
		RedirectURIs: []string{"https://app/cb"},
		Grants:       []string{"authorization_code", "refresh_token", "password", "client_credentials"},
		Scopes:       []string{"users:read"},
	})
}

func seedPublic(st *memory.Store) {
	st.SeedClient(&repository.Client{
		ID:           "spa",
		Name:         "Single Page App",
		RedirectURIs: []string{"https://spa/cb"},
		Grants:       []string{"authorization_code", "refresh_token"},
		Scopes:       []string{"users:read"},
	})
}

func TestValidateClient(t *testing.T) {
	srv, st := newTestServer(t)
	seedConfidential(st)
	ctx := context.Background()

	c, err := srv.ValidateClient(ctx, "web", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "web", c.ID)

	_, err = srv.ValidateClient(ctx, "web", "wrong")
	require.ErrorIs(t, err, ErrInvalidClient)

	_, err = srv.ValidateClient(ctx, "ghost", "")
	require.ErrorIs(t, err, ErrInvalidClient)
}

func TestValidateClient_RevokedFailsWithGoodCredentials(t *testing.T) {
	srv, st := newTestServer(t)
	seedConfidential(st)
	ctx := context.Background()

	require.NoError(t, st.Revoke(ctx, "web"))

	_, err := srv.ValidateClient(ctx, "web", "s3cret")
	require.ErrorIs(t, err, ErrInvalidClient)
	require.Contains(t, err.Error(), "revoked")
}

func TestValidateScopes(t *testing.T) {
	srv, _ := newTestServer(t)

	plain := &repository.Client{ID: "c", Scopes: []string{"users:read"}}
	wild := &repository.Client{ID: "w", Scopes: []string{"*"}}

	got, err := srv.ValidateScopes(plain, []string{"users:read"})
	require.NoError(t, err)
	require.Equal(t, []string{"users:read"}, got)

	// Scope está en catálogo pero no en el allowance del client.
	_, err = srv.ValidateScopes(plain, []string{"users:write"})
	require.ErrorIs(t, err, ErrInvalidScope)
	require.Contains(t, err.Error(), "users:write")

	// Client wildcard acepta cualquier scope catalog-valid...
	got, err = srv.ValidateScopes(wild, []string{"users:write", "jobs:run"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// ...pero el catálogo sigue mandando.
	_, err = srv.ValidateScopes(wild, []string{"nope:nope"})
	require.ErrorIs(t, err, ErrInvalidScope)
}

func TestValidateRedirectURI_ExactMatchOnly(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &repository.Client{ID: "c", RedirectURIs: []string{"https://app/cb"}}

	require.NoError(t, srv.ValidateRedirectURI(c, "https://app/cb"))

	for _, uri := range []string{"https://app/cb/", "https://app/cb?x=1", "https://app", "https://evil/cb"} {
		err := srv.ValidateRedirectURI(c, uri)
		require.ErrorIs(t, err, ErrInvalidRequest, "uri %q must be rejected", uri)
		require.Contains(t, err.Error(), "Invalid redirect_uri")
	}
}

func TestGrantTypeCheckedBeforeOtherValidation(t *testing.T) {
	srv, st := newTestServer(t)
	st.SeedClient(&repository.Client{
		ID:           "limited",
		Secret:       "sec",
		RedirectURIs: []string{"https://app/cb"},
		Grants:       []string{"client_credentials"},
		Scopes:       []string{"users:read"},
	})

	// redirect_uri y scope también son inválidos acá; el grant no autorizado
	// debe reportarse primero.
	_, err := srv.IssueAuthorizationCode(context.Background(), IssueCodeRequest{
		ClientID:     "limited",
		ClientSecret: "sec",
		UserID:       "u1",
		RedirectURI:  "https://wrong/cb",
		Scopes:       []string{"nope"},
	})
	require.ErrorIs(t, err, ErrUnauthorizedClient)
}

func TestClientCredentials_GrantNotAllowed(t *testing.T) {
	srv, st := newTestServer(t)
	st.SeedClient(&repository.Client{
		ID:     "codeonly",
		Secret: "sec",
		Grants: []string{"authorization_code"},
		Scopes: []string{"users:read"},
	})

	_, err := srv.ClientCredentials(context.Background(), ClientCredentialsRequest{
		ClientID:     "codeonly",
		ClientSecret: "sec",
		Scopes:       []string{"users:read"},
	})
	require.ErrorIs(t, err, ErrUnauthorizedClient)
	require.Contains(t, err.Error(), "client_credentials")
}

func TestClientCredentials_NoUserNoRefresh(t *testing.T) {
	srv, st := newTestServer(t)
	seedConfidential(st)
	ctx := context.Background()

	resp, err := srv.ClientCredentials(ctx, ClientCredentialsRequest{
		ClientID:     "web",
		ClientSecret: "s3cret",
		Scopes:       []string{"users:read"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Empty(t, resp.RefreshToken, "M2M tokens are not refreshable")
	require.Equal(t, "Bearer", resp.TokenType)

	claims, err := srv.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "web", claims.ClientID)
	require.Empty(t, claims.UserID)
	require.Equal(t, "web", claims.Subject)
}

func TestPassword_MintsPairWithoutCodeSteps(t *testing.T) {
	srv, st := newTestServer(t)
	seedConfidential(st)

	resp, err := srv.Password(context.Background(), PasswordRequest{
		ClientID:     "web",
		ClientSecret: "s3cret",
		UserID:       "user-9",
		Scopes:       []string{"users:read"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	claims, err := srv.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-9", claims.UserID)
}

func TestCreatePersonalAccessToken(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	pat, err := srv.CreatePersonalAccessToken(ctx, CreatePATRequest{
		UserID: "u1",
		Name:   "ci-deploy",
		Scopes: []string{"jobs:run"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, pat.Token)
	require.Nil(t, pat.ExpiresAt, "PATs are permanent by default")

	stored, err := st.GetPAT(ctx, pat.Token)
	require.NoError(t, err)
	require.Equal(t, "ci-deploy", stored.Name)

	// Scopes se validan contra el catálogo únicamente.
	_, err = srv.CreatePersonalAccessToken(ctx, CreatePATRequest{
		UserID: "u1",
		Name:   "bad",
		Scopes: []string{"not:in:catalog"},
	})
	require.ErrorIs(t, err, ErrInvalidScope)

	withTTL, err := srv.CreatePersonalAccessToken(ctx, CreatePATRequest{
		UserID: "u1",
		Name:   "temp",
		Scopes: nil,
		TTL:    time.Hour,
	})
	require.NoError(t, err)
	require.NotNil(t, withTTL.ExpiresAt)
}

func TestParseGrantType(t *testing.T) {
	for _, ok := range []string{"authorization_code", "client_credentials", "password", "refresh_token"} {
		g, err := ParseGrantType(ok)
		require.NoError(t, err)
		require.Equal(t, ok, g.String())
	}
	_, err := ParseGrantType("implicit")
	require.True(t, errors.Is(err, ErrUnsupportedGrantType))
}
