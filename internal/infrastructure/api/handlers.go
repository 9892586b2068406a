package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"smartfaq-shopify-layer/internal/application"
	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/infrastructure/metrics"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type saveFAQsRequest struct {
	ProductID domain.ProductID `json:"productId"`
	FAQs      json.RawMessage  `json:"faqs"`
}

type generateFAQsRequest struct {
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription"`
}

type generateFAQsResponse struct {
	FAQs string `json:"faqs"`
}

// healthHandler reports liveness
func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Message: "SmartFAQ.AI API is running"})
	}
}

// authBeginHandler redirects the merchant to the shop's OAuth consent screen
func authBeginHandler(sessions *application.SessionGate, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := sessions.Begin(w, r, r.URL.Query().Get("shop"))
		switch {
		case errors.Is(err, domain.ErrMissingParameter):
			http.Error(w, "Missing shop parameter", http.StatusBadRequest)
			return
		case errors.Is(err, domain.ErrInvalidShop):
			http.Error(w, "Invalid shop parameter", http.StatusBadRequest)
			return
		case err != nil:
			logger.Error().Err(err).Msg("Failed to begin OAuth")
			http.Error(w, "OAuth failed", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// authCallbackHandler completes OAuth and sends the merchant to the app or to billing
func authCallbackHandler(sessions *application.SessionGate, billing *application.BillingGate, m *metrics.Metrics, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessions.Callback(w, r)
		if err != nil {
			logger.Error().Err(err).Msg("OAuth callback failed")
			http.Error(w, "OAuth failed", http.StatusInternalServerError)
			return
		}

		active, err := billing.Ensure(r.Context(), session)
		if err != nil {
			logger.Error().Err(err).Str("shop", session.Shop).Msg("Billing check after OAuth failed")
			http.Error(w, "OAuth failed", http.StatusInternalServerError)
			return
		}
		if !active {
			m.BillingRedirect()
			http.Redirect(w, r, billing.RedirectPath(session.Shop), http.StatusFound)
			return
		}

		values := url.Values{}
		values.Set("shop", session.Shop)
		values.Set("host", r.URL.Query().Get("host"))
		http.Redirect(w, r, "/?"+values.Encode(), http.StatusFound)
	}
}

// billingHandler creates a subscription and redirects to its confirmation page.
// BillingGate logs the failure with the shop.
func billingHandler(billing *application.BillingGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := domain.SessionFromContext(r.Context())

		confirmationURL, err := billing.Request(r.Context(), session)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to request billing")
			return
		}

		http.Redirect(w, r, confirmationURL, http.StatusFound)
	}
}

// listProductsHandler returns the shop's products, failures are logged by ProductService
func listProductsHandler(products *application.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := domain.SessionFromContext(r.Context())

		list, err := products.ListProducts(r.Context(), session)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch products")
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// saveFAQsHandler writes the FAQs to the product's metafield
func saveFAQsHandler(products *application.ProductService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := domain.SessionFromContext(r.Context())

		var req saveFAQsRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.Warn().Err(err).Msg("Invalid save-faqs body")
			writeError(w, http.StatusBadRequest, "Product ID and FAQs are required")
			return
		}

		err := products.SaveFAQs(r.Context(), session, req.ProductID, req.FAQs)
		switch {
		case errors.Is(err, domain.ErrMissingParameter):
			writeError(w, http.StatusBadRequest, "Product ID and FAQs are required")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "Failed to save FAQs")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// generateFAQsHandler drafts FAQ text for a product
func generateFAQsHandler(faqs *application.FAQService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateFAQsRequest
		if err := decodeJSON(r, &req); err != nil {
			logger.Warn().Err(err).Msg("Invalid generate-faqs body")
			writeError(w, http.StatusBadRequest, "Product name and description are required")
			return
		}

		text, err := faqs.GenerateFAQs(r.Context(), req.ProductName, req.ProductDescription)
		if err != nil {
			status, message := generateFailure(err)
			writeError(w, status, message)
			return
		}

		writeJSON(w, http.StatusOK, generateFAQsResponse{FAQs: text})
	}
}

// generateFailure maps a generation error to the client status and message.
// Upstream error statuses are passed through; the upstream body never is.
func generateFailure(err error) (int, string) {
	if errors.Is(err, domain.ErrMissingParameter) {
		return http.StatusBadRequest, "Product name and description are required"
	}
	if errors.Is(err, domain.ErrInvalidUpstreamResponse) {
		return http.StatusInternalServerError, "Invalid response from AI service"
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode >= 400 && upstream.StatusCode <= 599 {
		return upstream.StatusCode, "Failed to generate FAQs"
	}
	return http.StatusInternalServerError, "Failed to generate FAQs"
}

// webhookHandler verifies and dispatches Shopify webhook deliveries
func webhookHandler(platform ports.CommercePlatform, dispatcher *application.WebhookDispatcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !platform.VerifyWebhook(r) {
			logger.Warn().Str("topic", r.Header.Get("X-Shopify-Topic")).Msg("Webhook signature verification failed")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		topic := r.Header.Get("X-Shopify-Topic")
		if topic == "" {
			logger.Warn().Msg("Missing X-Shopify-Topic header")
			http.Error(w, "Missing X-Shopify-Topic header", http.StatusBadRequest)
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook payload")
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		event := &domain.WebhookEvent{
			Topic:    topic,
			Shop:     r.Header.Get("X-Shopify-Shop-Domain"),
			Payload:  payload,
			Verified: true,
		}

		if err := dispatcher.Dispatch(r.Context(), event); err != nil {
			logger.Error().
				Err(err).
				Str("topic", topic).
				Str("shop", event.Shop).
				Msg("Failed to dispatch webhook event")

			// Return 500 to trigger Shopify retry
			http.Error(w, "Failed to process webhook event", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
	}
}
