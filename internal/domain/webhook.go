package domain

// Webhook topics handled by the app
const (
	TopicAppUninstalled       = "app/uninstalled"
	TopicCustomersDataRequest = "customers/data_request"
	TopicCustomersRedact      = "customers/redact"
	TopicShopRedact           = "shop/redact"
)

// WebhookEvent represents a verified webhook delivery from Shopify
type WebhookEvent struct {
	Topic    string
	Shop     string
	Payload  []byte
	Verified bool
}
