package oauth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	jwtx "github.com/dropDatabas3/grantd/internal/jwt"
	"github.com/dropDatabas3/grantd/internal/metrics"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
	tokens "github.com/dropDatabas3/grantd/internal/security/token"
)

// AuthorizationCodeGrant encapsulates the authorization_code flow with PKCE
// (RFC 6749 §4.1 + RFC 7636).
//
// State machine per code: Requested → Issued → {Exchanged | Expired | Revoked}.
// Exchange consumes the code (revoke before mint) so a replayed code fails.
type AuthorizationCodeGrant struct {
	issuer     *jwtx.Issuer
	codes      repository.CodeRepository
	tokens     repository.TokenRepository
	codeTTL    time.Duration
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// Issue mints an authorization code for an already-validated request.
// The caller (Server) has verified client identity, grant-type support,
// redirect URI and scopes; this handler enforces the PKCE rules.
func (g *AuthorizationCodeGrant) Issue(ctx context.Context, client *repository.Client,
	userID, redirectURI string, scopes []string, challenge, challengeMethod string) (*repository.AuthorizationCode, error) {

	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.code.issue"))

	// Public clients cannot authenticate the exchange, so the code must be
	// bound to a verifier.
	if client.Public() && challenge == "" {
		log.Warn("public client without code_challenge", logger.ClientID(client.ID))
		return nil, invalidRequest("PKCE required for public clients")
	}

	if challenge != "" {
		if challengeMethod == "" {
			challengeMethod = repository.ChallengeMethodPlain // RFC 7636 default
		}
		if challengeMethod != repository.ChallengeMethodS256 && challengeMethod != repository.ChallengeMethodPlain {
			return nil, invalidRequest("unsupported code_challenge_method")
		}
	} else {
		challengeMethod = ""
	}

	raw, err := tokens.GenerateOpaqueToken(tokens.OpaqueTokenBytes)
	if err != nil {
		return nil, internalError("generate code", err)
	}

	now := time.Now().UTC()
	code := &repository.AuthorizationCode{
		ID:                  uuid.NewString(),
		ClientID:            client.ID,
		UserID:              userID,
		Code:                raw,
		RedirectURI:         redirectURI,
		Scopes:              scopes,
		CodeChallenge:       challenge,
		CodeChallengeMethod: challengeMethod,
		ExpiresAt:           now.Add(g.codeTTL),
		CreatedAt:           now,
	}
	if err := g.codes.StoreCode(ctx, code); err != nil {
		return nil, internalError("store code", err)
	}

	metrics.CodesIssued.Inc()
	log.Info("authorization code issued",
		logger.ClientID(client.ID),
		logger.UserID(userID),
	)
	return code, nil
}

// Exchange swaps an authorization code for an access/refresh token pair.
func (g *AuthorizationCodeGrant) Exchange(ctx context.Context, client *repository.Client,
	rawCode, redirectURI, codeVerifier string) (*TokenResponse, error) {

	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.token.authcode"))

	code, err := g.codes.GetCode(ctx, rawCode)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Warn("authorization code not found")
			return nil, invalidGrant("unknown authorization code")
		}
		return nil, internalError("lookup code", err)
	}

	if code.Revoked {
		log.Warn("authorization code already consumed")
		return nil, invalidGrant("authorization code revoked")
	}
	if code.Expired() {
		log.Warn("authorization code expired")
		return nil, invalidGrant("authorization code expired")
	}

	// Ownership check comes before PKCE: a code is never exchangeable by
	// another client, regardless of verifier correctness.
	if code.ClientID != client.ID {
		log.Warn("code/client mismatch", logger.ClientID(client.ID))
		return nil, invalidGrant("authorization code was issued to different client")
	}
	if code.RedirectURI != redirectURI {
		log.Warn("redirect_uri mismatch")
		return nil, invalidGrant("redirect_uri does not match")
	}

	if code.CodeChallenge != "" {
		if !tokens.VerifyPKCE(code.CodeChallenge, code.CodeChallengeMethod, codeVerifier) {
			log.Warn("PKCE verification failed")
			return nil, invalidGrant("PKCE verification failed")
		}
	}

	// Consume the code before minting: a concurrent replay observes the
	// revocation and fails, instead of racing for a second token pair.
	if err := g.codes.RevokeCode(ctx, code.ID); err != nil {
		return nil, internalError("consume code", err)
	}

	resp, err := mintTokenPair(ctx, g.issuer, g.tokens, client.ID, code.UserID, code.Scopes, g.accessTTL, g.refreshTTL)
	if err != nil {
		return nil, err
	}

	metrics.TokensIssued.WithLabelValues(GrantAuthorizationCode.String()).Inc()
	log.Info("authorization_code exchanged",
		logger.ClientID(client.ID),
		logger.UserID(code.UserID),
	)
	return resp, nil
}
