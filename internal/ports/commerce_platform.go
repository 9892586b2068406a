package ports

import (
	"context"
	"net/http"

	"smartfaq-shopify-layer/internal/domain"
)

// CommercePlatform defines the narrow set of Shopify operations the app relies on.
// The HTTP layer depends on this interface so it can be exercised against a fake.
type CommercePlatform interface {
	// BeginAuth validates the shop, records the OAuth state on the response and returns the authorization URL
	BeginAuth(w http.ResponseWriter, r *http.Request, shop string) (string, error)

	// CompleteAuth exchanges the OAuth callback for a stored session
	CompleteAuth(w http.ResponseWriter, r *http.Request) (*domain.Session, error)

	// GetSession resolves the session of the caller from a session token or session cookie
	GetSession(r *http.Request) (*domain.Session, error)

	// RequestBilling creates a subscription for the plan and returns its confirmation URL
	RequestBilling(ctx context.Context, session *domain.Session, plan domain.BillingPlan, returnURL string) (string, error)

	// HasActiveBilling reports whether the shop holds an active subscription for the plan
	HasActiveBilling(ctx context.Context, session *domain.Session, plan domain.BillingPlan) (bool, error)

	// Get performs an authenticated Admin REST GET, decoding the reply into resource
	Get(ctx context.Context, session *domain.Session, path string, options interface{}, resource interface{}) error

	// Put performs an authenticated Admin REST PUT, decoding the reply into resource
	Put(ctx context.Context, session *domain.Session, path string, body interface{}, resource interface{}) error

	// VerifyWebhook checks the HMAC signature of a webhook delivery
	VerifyWebhook(r *http.Request) bool
}
