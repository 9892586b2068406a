package application

import (
	"context"
	"fmt"
	"net/url"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// BillingGate enforces that only shops with an active subscription reach paid features
type BillingGate struct {
	platform ports.CommercePlatform
	plan     domain.BillingPlan
	appURL   string
	logger   zerolog.Logger
}

// NewBillingGate creates a new billing gate for a plan
func NewBillingGate(platform ports.CommercePlatform, plan domain.BillingPlan, appURL string, logger zerolog.Logger) *BillingGate {
	return &BillingGate{
		platform: platform,
		plan:     plan,
		appURL:   appURL,
		logger:   logger,
	}
}

// Ensure reports whether the session's shop holds an active subscription for the plan
func (g *BillingGate) Ensure(ctx context.Context, session *domain.Session) (bool, error) {
	if !g.plan.Required {
		return true, nil
	}

	active, err := g.platform.HasActiveBilling(ctx, session, g.plan)
	if err != nil {
		g.logger.Error().Err(err).Str("shop", session.Shop).Msg("Failed to check billing")
		return false, fmt.Errorf("failed to check billing: %w", err)
	}

	if !active {
		g.logger.Info().Str("shop", session.Shop).Str("plan", g.plan.Name).Msg("No active subscription")
	}
	return active, nil
}

// RedirectPath is where a shop without a subscription is sent
func (g *BillingGate) RedirectPath(shop string) string {
	return "/billing?shop=" + url.QueryEscape(shop)
}

// Request creates a subscription for the plan and returns the confirmation URL
func (g *BillingGate) Request(ctx context.Context, session *domain.Session) (string, error) {
	returnURL := g.appURL + "?shop=" + url.QueryEscape(session.Shop)

	confirmationURL, err := g.platform.RequestBilling(ctx, session, g.plan, returnURL)
	if err != nil {
		g.logger.Error().Err(err).Str("shop", session.Shop).Msg("Failed to request billing")
		return "", fmt.Errorf("failed to request billing: %w", err)
	}

	g.logger.Info().Str("shop", session.Shop).Str("plan", g.plan.Name).Msg("Subscription requested")
	return confirmationURL, nil
}
