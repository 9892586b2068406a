package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// PrivacyHandler handles the mandatory privacy webhooks.
// The app stores no customer records, so customer topics are acknowledged;
// shop/redact removes whatever sessions remain for the shop.
type PrivacyHandler struct {
	logger      zerolog.Logger
	sessionRepo ports.SessionRepository
}

// NewPrivacyHandler creates a new privacy webhook handler
func NewPrivacyHandler(logger zerolog.Logger, sessionRepo ports.SessionRepository) *PrivacyHandler {
	return &PrivacyHandler{
		logger:      logger,
		sessionRepo: sessionRepo,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *PrivacyHandler) CanHandle(topic string) bool {
	return topic == domain.TopicCustomersDataRequest ||
		topic == domain.TopicCustomersRedact ||
		topic == domain.TopicShopRedact
}

// Handle processes a privacy webhook event
func (h *PrivacyHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload struct {
		ShopDomain string `json:"shop_domain"`
		Customer   struct {
			ID int64 `json:"id"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse privacy webhook payload: %w", err)
	}

	shopDomain := event.Shop
	if shopDomain == "" {
		shopDomain = payload.ShopDomain
	}

	switch event.Topic {
	case domain.TopicCustomersDataRequest, domain.TopicCustomersRedact:
		h.logger.Info().
			Str("topic", event.Topic).
			Str("shop", shopDomain).
			Int64("customerId", payload.Customer.ID).
			Msg("No customer data stored")
	case domain.TopicShopRedact:
		if shopDomain == "" {
			return fmt.Errorf("shop redact webhook without shop domain")
		}
		if err := h.sessionRepo.DeleteSessionsByShop(ctx, shopDomain); err != nil {
			return fmt.Errorf("failed to redact shop %s: %w", shopDomain, err)
		}
		h.logger.Info().Str("shop", shopDomain).Msg("Shop redacted")
	}
	return nil
}
