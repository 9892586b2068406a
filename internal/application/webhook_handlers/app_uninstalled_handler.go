package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler removes stored sessions once a shop uninstalls the app
type AppUninstalledHandler struct {
	logger      zerolog.Logger
	sessionRepo ports.SessionRepository
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(logger zerolog.Logger, sessionRepo ports.SessionRepository) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger:      logger,
		sessionRepo: sessionRepo,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == domain.TopicAppUninstalled
}

// Handle processes an app uninstalled webhook event
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shopDomain := event.Shop
	if shopDomain == "" {
		var shopData struct {
			Domain          string `json:"domain"`
			MyshopifyDomain string `json:"myshopify_domain"`
		}
		if err := json.Unmarshal(event.Payload, &shopData); err != nil {
			return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
		}
		shopDomain = shopData.MyshopifyDomain
		if shopDomain == "" {
			shopDomain = shopData.Domain
		}
	}
	if shopDomain == "" {
		return fmt.Errorf("app uninstalled webhook without shop domain")
	}

	if err := h.sessionRepo.DeleteSessionsByShop(ctx, shopDomain); err != nil {
		return fmt.Errorf("failed to delete sessions for %s: %w", shopDomain, err)
	}

	h.logger.Info().Str("shop", shopDomain).Msg("App uninstalled - sessions removed")
	return nil
}
