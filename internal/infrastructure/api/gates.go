package api

import (
	"net/http"

	"smartfaq-shopify-layer/internal/application"
	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// requireSession resolves the caller's session and stores it in the request context
func requireSession(sessions *application.SessionGate, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.Resolve(r)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected request without a valid session")
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.WithSession(r.Context(), session)))
		})
	}
}

// requireBilling redirects shops without an active subscription to the billing route
func requireBilling(billing *application.BillingGate, m *metrics.Metrics, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := domain.SessionFromContext(r.Context())
			if session == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			active, err := billing.Ensure(r.Context(), session)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to verify billing")
				return
			}
			if !active {
				m.BillingRedirect()
				http.Redirect(w, r, billing.RedirectPath(session.Shop), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
