package oauth

import (
	"context"
	"time"

	"github.com/dropDatabas3/grantd/internal/domain/repository"
	jwtx "github.com/dropDatabas3/grantd/internal/jwt"
	"github.com/dropDatabas3/grantd/internal/metrics"
	"github.com/dropDatabas3/grantd/internal/observability/logger"
	"github.com/dropDatabas3/grantd/internal/validation"
)

// Config es la configuración inmutable del server. Se construye una vez al
// startup y se comparte read-only entre requests; no requiere sincronización
// porque nunca se muta.
type Config struct {
	Issuer     string
	Secret     []byte        // >= 256 bits
	AccessTTL  time.Duration // lifetime de access tokens
	RefreshTTL time.Duration // lifetime de refresh tokens
	CodeTTL    time.Duration // lifetime de authorization codes (minutos)
}

// Deps contiene las dependencias para crear el Server.
type Deps struct {
	Clients repository.ClientRepository
	Tokens  repository.TokenRepository
	Codes   repository.CodeRepository
	PATs    repository.PATRepository
	Catalog *validation.Catalog
	Config  Config
}

// Server orquesta los grants OAuth2: valida identidad del client, scopes y
// redirect URIs, y dispatchea al grant handler correspondiente.
type Server struct {
	clients repository.ClientRepository
	tokens  repository.TokenRepository
	pats    repository.PATRepository
	catalog *validation.Catalog

	issuer    *jwtx.Issuer
	validator *jwtx.Validator

	authCode    *AuthorizationCodeGrant
	clientCreds *ClientCredentialsGrant
	password    *PasswordGrant
	refresh     *RefreshTokenGrant
}

// NewServer crea el Server y sus grant handlers.
func NewServer(d Deps) (*Server, error) {
	issuer, err := jwtx.NewIssuer(d.Config.Issuer, d.Config.Secret)
	if err != nil {
		return nil, err
	}
	validator, err := jwtx.NewValidator(d.Config.Issuer, d.Config.Secret)
	if err != nil {
		return nil, err
	}

	catalog := d.Catalog
	if catalog == nil {
		catalog = validation.NewCatalog()
	}

	s := &Server{
		clients:   d.Clients,
		tokens:    d.Tokens,
		pats:      d.PATs,
		catalog:   catalog,
		issuer:    issuer,
		validator: validator,
	}
	s.authCode = &AuthorizationCodeGrant{
		issuer:     issuer,
		codes:      d.Codes,
		tokens:     d.Tokens,
		codeTTL:    d.Config.CodeTTL,
		accessTTL:  d.Config.AccessTTL,
		refreshTTL: d.Config.RefreshTTL,
	}
	s.clientCreds = &ClientCredentialsGrant{
		issuer:    issuer,
		tokens:    d.Tokens,
		accessTTL: d.Config.AccessTTL,
	}
	s.password = &PasswordGrant{
		issuer:     issuer,
		tokens:     d.Tokens,
		accessTTL:  d.Config.AccessTTL,
		refreshTTL: d.Config.RefreshTTL,
	}
	s.refresh = &RefreshTokenGrant{
		issuer:     issuer,
		tokens:     d.Tokens,
		accessTTL:  d.Config.AccessTTL,
		refreshTTL: d.Config.RefreshTTL,
	}
	return s, nil
}

// ─── Validaciones ───

// ValidateClient autentica un client. Con secret busca por el par
// (id, secret); sin secret ("" = no suministrado) busca por id solo
// (public-client path). Un client revocado falla con invalid_client aunque
// las credenciales hayan matcheado.
func (s *Server) ValidateClient(ctx context.Context, clientID, clientSecret string) (*repository.Client, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("oauth.client.validate"))

	var (
		client *repository.Client
		err    error
	)
	if clientSecret != "" {
		client, err = s.clients.FindByCredentials(ctx, clientID, clientSecret)
	} else {
		client, err = s.clients.Find(ctx, clientID)
	}
	if err != nil {
		if repository.IsNotFound(err) {
			log.Warn("client not found or bad credentials", logger.ClientID(clientID))
			return nil, invalidClient("unknown client or bad credentials")
		}
		return nil, internalError("lookup client", err)
	}

	if client.Revoked {
		log.Warn("revoked client", logger.ClientID(clientID))
		return nil, invalidClient("client revoked")
	}
	return client, nil
}

// ValidateScopes valida los scopes pedidos contra el catálogo Y contra el
// allowance del client. Un client con wildcard "*" puede pedir cualquier
// scope catalog-valid. La primera violación determina el mensaje.
func (s *Server) ValidateScopes(client *repository.Client, requested []string) ([]string, error) {
	scopes, err := s.catalog.Validate(requested)
	if err != nil {
		return nil, invalidScope(err.Error())
	}

	if clientHasWildcard(client) {
		return scopes, nil
	}
	for _, sc := range scopes {
		if !clientAllowsScope(client, sc) {
			return nil, invalidScope("scope not allowed for client: " + sc)
		}
	}
	return scopes, nil
}

// ValidateRedirectURI verifica la redirect_uri por match exacto de string.
// Sin prefijos ni patterns: cualquier diferencia es invalid_request.
func (s *Server) ValidateRedirectURI(client *repository.Client, uri string) error {
	for _, u := range client.RedirectURIs {
		if u == uri {
			return nil
		}
	}
	return invalidRequest("Invalid redirect_uri")
}

// requireGrant chequea el soporte del grant type ANTES de tocar scopes o
// redirect URIs: un grant no autorizado se reporta primero, sin ruido de
// otras validaciones.
func requireGrant(client *repository.Client, g GrantType) error {
	if !client.SupportsGrant(g.String()) {
		return unauthorizedClient("client may not use grant type " + g.String())
	}
	return nil
}

func clientHasWildcard(c *repository.Client) bool {
	for _, sc := range c.Scopes {
		if sc == validation.Wildcard {
			return true
		}
	}
	return false
}

func clientAllowsScope(c *repository.Client, scope string) bool {
	for _, sc := range c.Scopes {
		if sc == scope {
			return true
		}
	}
	return false
}

// ─── Grant operations ───

// failGrant cuenta el rechazo en métricas y devuelve el error intacto.
func failGrant(g GrantType, err error) error {
	metrics.GrantFailures.WithLabelValues(g.String(), wireCode(err)).Inc()
	return err
}

// IssueCodeRequest son los parámetros (ya parseados por el transporte) para
// emitir un authorization code.
type IssueCodeRequest struct {
	ClientID            string
	ClientSecret        string // "" para public clients
	UserID              string // pre-autenticado upstream
	RedirectURI         string
	Scopes              []string
	CodeChallenge       string
	CodeChallengeMethod string
}

// IssueAuthorizationCode valida y emite un código de autorización.
func (s *Server) IssueAuthorizationCode(ctx context.Context, req IssueCodeRequest) (*repository.AuthorizationCode, error) {
	client, err := s.ValidateClient(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, failGrant(GrantAuthorizationCode, err)
	}
	if err := requireGrant(client, GrantAuthorizationCode); err != nil {
		return nil, failGrant(GrantAuthorizationCode, err)
	}
	if err := s.ValidateRedirectURI(client, req.RedirectURI); err != nil {
		return nil, failGrant(GrantAuthorizationCode, err)
	}
	scopes, err := s.ValidateScopes(client, req.Scopes)
	if err != nil {
		return nil, failGrant(GrantAuthorizationCode, err)
	}
	code, err := s.authCode.Issue(ctx, client, req.UserID, req.RedirectURI, scopes, req.CodeChallenge, req.CodeChallengeMethod)
	if err != nil {
		return nil, failGrant(GrantAuthorizationCode, err)
	}
	return code, nil
}

// ExchangeCodeRequest son los parámetros del grant authorization_code.
type ExchangeCodeRequest struct {
	ClientID     string
	ClientSecret string
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// ExchangeAuthorizationCode canjea un código por un par access/refresh.
func (s *Server) ExchangeAuthorizationCode(ctx context.Context, req ExchangeCodeRequest) (*TokenResponse, error) {
	client, err := s.ValidateClient(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, failGrant(GrantAuthorizationCode, err)
	}
	if err := requireGrant(client, GrantAuthorizationCode); err != nil {
		return nil, failGrant(GrantAuthorizationCode, err)
	}
	resp, err := s.authCode.Exchange(ctx, client, req.Code, req.RedirectURI, req.CodeVerifier)
	if err != nil {
		return nil, failGrant(GrantAuthorizationCode, err)
	}
	return resp, nil
}

// ClientCredentialsRequest son los parámetros del grant client_credentials.
type ClientCredentialsRequest struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// ClientCredentials emite un access token M2M (sin user, sin refresh).
func (s *Server) ClientCredentials(ctx context.Context, req ClientCredentialsRequest) (*TokenResponse, error) {
	client, err := s.ValidateClient(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, failGrant(GrantClientCredentials, err)
	}
	if err := requireGrant(client, GrantClientCredentials); err != nil {
		return nil, failGrant(GrantClientCredentials, err)
	}
	scopes, err := s.ValidateScopes(client, req.Scopes)
	if err != nil {
		return nil, failGrant(GrantClientCredentials, err)
	}
	resp, err := s.clientCreds.Handle(ctx, client, scopes)
	if err != nil {
		return nil, failGrant(GrantClientCredentials, err)
	}
	return resp, nil
}

// PasswordRequest son los parámetros del grant password. UserID llega
// pre-autenticado: la verificación de credenciales ocurre upstream.
type PasswordRequest struct {
	ClientID     string
	ClientSecret string
	UserID       string
	Scopes       []string
}

// Password emite un par access/refresh para el legacy password grant.
func (s *Server) Password(ctx context.Context, req PasswordRequest) (*TokenResponse, error) {
	client, err := s.ValidateClient(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, failGrant(GrantPassword, err)
	}
	if err := requireGrant(client, GrantPassword); err != nil {
		return nil, failGrant(GrantPassword, err)
	}
	scopes, err := s.ValidateScopes(client, req.Scopes)
	if err != nil {
		return nil, failGrant(GrantPassword, err)
	}
	resp, err := s.password.Handle(ctx, client, req.UserID, scopes)
	if err != nil {
		return nil, failGrant(GrantPassword, err)
	}
	return resp, nil
}

// RefreshRequest son los parámetros del grant refresh_token.
type RefreshRequest struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Refresh rota un refresh token por un par nuevo con los mismos scopes.
func (s *Server) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	client, err := s.ValidateClient(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, failGrant(GrantRefreshToken, err)
	}
	if err := requireGrant(client, GrantRefreshToken); err != nil {
		return nil, failGrant(GrantRefreshToken, err)
	}
	resp, err := s.refresh.Handle(ctx, client, req.RefreshToken)
	if err != nil {
		return nil, failGrant(GrantRefreshToken, err)
	}
	return resp, nil
}

// ─── Token validation ───

// ValidateAccessToken verifica y decodifica un access token. Read-only:
// no toca persistencia.
func (s *Server) ValidateAccessToken(token string) (*jwtx.AccessClaims, error) {
	return s.validator.ValidateAccessToken(token)
}

// Introspect produce una respuesta RFC 7662. Nunca falla.
func (s *Server) Introspect(token string) jwtx.Introspection {
	return s.validator.Introspect(token)
}
