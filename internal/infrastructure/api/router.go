package api

import (
	"net/http"

	"smartfaq-shopify-layer/internal/application"
	"smartfaq-shopify-layer/internal/infrastructure/metrics"
	securitymiddleware "smartfaq-shopify-layer/internal/infrastructure/middleware"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Dependencies are the services the HTTP layer dispatches to
type Dependencies struct {
	Platform   ports.CommercePlatform
	Sessions   *application.SessionGate
	Billing    *application.BillingGate
	Products   *application.ProductService
	FAQs       *application.FAQService
	Webhooks   *application.WebhookDispatcher
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
	CORS       []string
	SwaggerDoc string
}

// NewRouter builds the chi router with every public endpoint.
// Gated routes run session resolution, then the billing check, then the handler.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(securitymiddleware.AccessLogMiddleware(logger))
	r.Use(securitymiddleware.RecoverMiddleware(logger))
	r.Use(deps.Metrics.Middleware)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(securitymiddleware.InputValidationMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORS,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/", healthHandler())
	r.Get("/health", healthHandler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, deps.SwaggerDoc)
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// OAuth routes
	r.Get("/auth", authBeginHandler(deps.Sessions, logger))
	r.Get("/auth/callback", authCallbackHandler(deps.Sessions, deps.Billing, deps.Metrics, logger))

	// Webhooks are authenticated by their HMAC, not by a session
	r.Post("/webhooks/shopify", webhookHandler(deps.Platform, deps.Webhooks, logger))

	// Routes requiring a session
	r.Group(func(r chi.Router) {
		r.Use(requireSession(deps.Sessions, logger))

		r.Get("/billing", billingHandler(deps.Billing))

		// Routes requiring an active subscription
		r.Group(func(r chi.Router) {
			r.Use(requireBilling(deps.Billing, deps.Metrics, logger))

			r.Get("/api/products", listProductsHandler(deps.Products))
			r.Post("/api/save-faqs", saveFAQsHandler(deps.Products, logger))
			r.Post("/generate-faqs", generateFAQsHandler(deps.FAQs, logger))
		})
	})

	return r
}
