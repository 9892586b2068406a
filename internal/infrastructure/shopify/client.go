package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartfaq-shopify-layer/internal/config"
	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const callbackPath = "/auth/callback"

// Platform implements ports.CommercePlatform on top of go-shopify
type Platform struct {
	app         goshopify.App
	apiVersion  string
	scopes      []string
	redirectURI string
	cookies     *cookieSigner
	tokens      *SessionTokenVerifier
	sessions    ports.SessionRepository
	httpClient  *http.Client
	logger      zerolog.Logger

	// shopBaseURL returns the scheme and host used for OAuth calls to a shop
	shopBaseURL func(shop string) string
	now         func() time.Time
}

// NewPlatform creates the Shopify platform client from the app configuration
func NewPlatform(cfg *config.Config, sessions ports.SessionRepository, logger zerolog.Logger) *Platform {
	redirectURI := cfg.AppURL + callbackPath
	return &Platform{
		app: goshopify.App{
			ApiKey:      cfg.APIKey,
			ApiSecret:   cfg.APISecret,
			RedirectUrl: redirectURI,
			Scope:       strings.Join(cfg.Scopes, ","),
		},
		apiVersion:  cfg.APIVersion,
		scopes:      cfg.Scopes,
		redirectURI: redirectURI,
		cookies:     newCookieSigner(cfg.APISecret, strings.HasPrefix(cfg.AppURL, "https://"), defaultCookieMaxAge),
		tokens:      NewSessionTokenVerifier(cfg.APIKey, cfg.APISecret),
		sessions:    sessions,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		shopBaseURL: func(shop string) string { return "https://" + shop },
		now:         time.Now,
	}
}

var _ ports.CommercePlatform = (*Platform)(nil)

// Authentication methods

// oauthConfig returns the authorization-code flow endpoints of a shop.
// Scopes are sent comma separated through an auth URL param, so Config.Scopes stays empty.
func (p *Platform) oauthConfig(shop string) *oauth2.Config {
	base := p.shopBaseURL(shop)
	return &oauth2.Config{
		ClientID:     p.app.ApiKey,
		ClientSecret: p.app.ApiSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + "/admin/oauth/authorize",
			TokenURL:  base + "/admin/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: p.redirectURI,
	}
}

// BeginAuth validates the shop, stores a fresh state in a signed cookie and
// returns the authorization URL for an online (per-user) access token
func (p *Platform) BeginAuth(w http.ResponseWriter, r *http.Request, shop string) (string, error) {
	shop, err := SanitizeShop(shop)
	if err != nil {
		return "", err
	}

	state := uuid.NewString()
	if err := p.cookies.set(w, stateCookieName, state); err != nil {
		return "", fmt.Errorf("failed to set state cookie: %w", err)
	}

	authURL := p.oauthConfig(shop).AuthCodeURL(state,
		oauth2.SetAuthURLParam("scope", strings.Join(p.scopes, ",")),
		oauth2.SetAuthURLParam("grant_options[]", "per-user"),
	)

	p.logger.Info().
		Str("shop", shop).
		Strs("scopes", p.scopes).
		Msg("Generated OAuth authorization URL")

	return authURL, nil
}

// CompleteAuth validates the callback, exchanges the code and stores the resulting session
func (p *Platform) CompleteAuth(w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	query := r.URL.Query()

	shop, err := SanitizeShop(query.Get("shop"))
	if err != nil {
		return nil, err
	}
	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		return nil, fmt.Errorf("%w: code and state are required", domain.ErrMissingParameter)
	}

	expectedState, ok := p.cookies.get(r, stateCookieName)
	if !ok || expectedState != state {
		return nil, errors.New("oauth state mismatch")
	}

	valid, err := p.app.VerifyAuthorizationURL(r.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to verify callback signature: %w", err)
	}
	if !valid {
		return nil, errors.New("invalid callback signature")
	}

	token, err := p.exchangeToken(r.Context(), shop, code)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:          domain.OfflineSessionID(shop),
		Shop:        shop,
		State:       state,
		Scope:       extraString(token, "scope"),
		AccessToken: token.AccessToken,
	}
	if userID, ok := associatedUserID(token); ok {
		session.IsOnline = true
		session.UserID = userID
		session.ID = domain.OnlineSessionID(shop, userID)
		if userScope := extraString(token, "associated_user_scope"); userScope != "" {
			session.Scope = userScope
		}
	}
	if token.ExpiresIn > 0 {
		session.ExpiresAt = p.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	if err := p.sessions.StoreSession(r.Context(), session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	p.cookies.clear(w, stateCookieName)
	if err := p.cookies.set(w, sessionCookieName, session.ID); err != nil {
		return nil, fmt.Errorf("failed to set session cookie: %w", err)
	}

	return session, nil
}

// exchangeToken trades the authorization code for an access token at the shop's token endpoint
func (p *Platform) exchangeToken(ctx context.Context, shop, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig(shop).Exchange(ctx, code)
	if err != nil {
		upstream := &domain.UpstreamError{Service: "shopify oauth", Err: err}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			upstream.StatusCode = retrieveErr.Response.StatusCode
			upstream.Body = string(retrieveErr.Body)
		}
		p.logger.Error().
			Err(err).
			Str("shop", shop).
			Int("status", upstream.StatusCode).
			Str("body", upstream.Body).
			Msg("Token exchange rejected")
		return nil, upstream
	}
	return token, nil
}

func extraString(token *oauth2.Token, key string) string {
	v, _ := token.Extra(key).(string)
	return v
}

// associatedUserID reads associated_user.id, present only for online tokens
func associatedUserID(token *oauth2.Token) (int64, bool) {
	user, ok := token.Extra("associated_user").(map[string]interface{})
	if !ok {
		return 0, false
	}
	id, ok := user["id"].(float64)
	if !ok || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

// GetSession resolves the caller's session from a bearer session token, or
// from the signed session cookie set by CompleteAuth
func (p *Platform) GetSession(r *http.Request) (*domain.Session, error) {
	var sessionID string

	if auth := r.Header.Get("Authorization"); auth != "" {
		raw, found := strings.CutPrefix(auth, "Bearer ")
		if !found || raw == "" {
			return nil, errors.New("malformed authorization header")
		}
		claims, err := p.tokens.Verify(raw)
		if err != nil {
			return nil, err
		}
		sessionID = domain.OnlineSessionID(claims.Shop, claims.UserID)
	} else if id, ok := p.cookies.get(r, sessionCookieName); ok {
		sessionID = id
	} else {
		return nil, errors.New("no session token or session cookie")
	}

	session, err := p.sessions.LoadSession(r.Context(), sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	if !session.IsActive(p.now()) {
		return nil, fmt.Errorf("session %s expired", sessionID)
	}
	return session, nil
}

// VerifyWebhook checks the X-Shopify-Hmac-Sha256 header against the request body
func (p *Platform) VerifyWebhook(r *http.Request) bool {
	return p.app.VerifyWebhookRequest(r)
}

// Admin API methods

// restClient is a helper to create a goshopify client bound to a session
func (p *Platform) restClient(session *domain.Session) (*goshopify.Client, error) {
	if session == nil || session.AccessToken == "" {
		return nil, domain.ErrAuthenticationFailed
	}
	client, err := goshopify.NewClient(p.app, session.Shop, session.AccessToken,
		goshopify.WithVersion(p.apiVersion),
		goshopify.WithHTTPClient(p.httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// Get performs an authenticated Admin REST GET
func (p *Platform) Get(ctx context.Context, session *domain.Session, path string, options interface{}, resource interface{}) error {
	client, err := p.restClient(session)
	if err != nil {
		return err
	}
	if err := client.Get(ctx, path, resource, options); err != nil {
		return p.upstreamError("GET", path, session, err)
	}
	return nil
}

// Put performs an authenticated Admin REST PUT
func (p *Platform) Put(ctx context.Context, session *domain.Session, path string, body interface{}, resource interface{}) error {
	client, err := p.restClient(session)
	if err != nil {
		return err
	}
	if err := client.Put(ctx, path, body, resource); err != nil {
		return p.upstreamError("PUT", path, session, err)
	}
	return nil
}

func (p *Platform) upstreamError(method, path string, session *domain.Session, err error) error {
	upstream := &domain.UpstreamError{Service: "shopify admin", Err: err}

	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		upstream.StatusCode = respErr.Status
		upstream.Body = respErr.Message
	}

	p.logger.Error().
		Err(err).
		Str("method", method).
		Str("path", path).
		Str("shop", session.Shop).
		Int("status", upstream.StatusCode).
		Msg("Shopify Admin API call failed")
	return upstream
}
