package oauth

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/grantd/internal/metrics"
)

func TestGrantFailuresCounted(t *testing.T) {
	srv, st := newTestServer(t)
	seedConfidential(st)
	ctx := context.Background()

	badClient := metrics.GrantFailures.WithLabelValues("client_credentials", "invalid_client")
	before := testutil.ToFloat64(badClient)

	_, err := srv.ClientCredentials(ctx, ClientCredentialsRequest{
		ClientID:     "web",
		ClientSecret: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidClient)
	require.Equal(t, before+1, testutil.ToFloat64(badClient))

	badGrant := metrics.GrantFailures.WithLabelValues("refresh_token", "invalid_grant")
	before = testutil.ToFloat64(badGrant)

	_, err = srv.Refresh(ctx, RefreshRequest{
		ClientID:     "web",
		ClientSecret: "s3cret",
		RefreshToken: "no-such-token",
	})
	require.ErrorIs(t, err, ErrInvalidGrant)
	require.Equal(t, before+1, testutil.ToFloat64(badGrant))
}

func TestGrantFailureNotCountedOnSuccess(t *testing.T) {
	srv, st := newTestServer(t)
	seedConfidential(st)
	ctx := context.Background()

	failures := metrics.GrantFailures.WithLabelValues("client_credentials", "invalid_client")
	issued := metrics.TokensIssued.WithLabelValues("client_credentials")
	failuresBefore := testutil.ToFloat64(failures)
	issuedBefore := testutil.ToFloat64(issued)

	_, err := srv.ClientCredentials(ctx, ClientCredentialsRequest{
		ClientID:     "web",
		ClientSecret: "s3cret",
		Scopes:       []string{"users:read"},
	})
	require.NoError(t, err)
	require.Equal(t, failuresBefore, testutil.ToFloat64(failures))
	require.Equal(t, issuedBefore+1, testutil.ToFloat64(issued))
}
