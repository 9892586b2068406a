package application

import (
	"fmt"
	"net/http"
	"strings"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// SessionGate wraps the platform's session handling for inbound requests
type SessionGate struct {
	platform ports.CommercePlatform
	logger   zerolog.Logger
}

// NewSessionGate creates a new session gate
func NewSessionGate(platform ports.CommercePlatform, logger zerolog.Logger) *SessionGate {
	return &SessionGate{
		platform: platform,
		logger:   logger,
	}
}

// Begin starts the OAuth flow for a shop and returns the authorization URL.
// The platform is not contacted when shop is empty.
func (g *SessionGate) Begin(w http.ResponseWriter, r *http.Request, shop string) (string, error) {
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return "", fmt.Errorf("%w: shop", domain.ErrMissingParameter)
	}

	authURL, err := g.platform.BeginAuth(w, r, shop)
	if err != nil {
		return "", err
	}

	g.logger.Info().Str("shop", shop).Msg("Starting OAuth")
	return authURL, nil
}

// Callback completes the OAuth flow and returns the session bound to the shop
func (g *SessionGate) Callback(w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	session, err := g.platform.CompleteAuth(w, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOAuthFailed, err)
	}

	g.logger.Info().
		Str("shop", session.Shop).
		Str("scope", session.Scope).
		Bool("online", session.IsOnline).
		Msg("OAuth completed")
	return session, nil
}

// Resolve returns the session of the caller or ErrAuthenticationFailed
func (g *SessionGate) Resolve(r *http.Request) (*domain.Session, error) {
	session, err := g.platform.GetSession(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthenticationFailed, err)
	}
	if session == nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return session, nil
}
