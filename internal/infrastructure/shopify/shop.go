package shopify

import (
	"fmt"
	"regexp"
	"strings"

	"smartfaq-shopify-layer/internal/domain"
)

var shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// SanitizeShop normalizes a shop parameter and rejects anything that is not a myshopify.com domain
func SanitizeShop(shop string) (string, error) {
	shop = strings.ToLower(strings.TrimSpace(shop))
	if shop == "" {
		return "", fmt.Errorf("%w: shop", domain.ErrMissingParameter)
	}
	shop = strings.TrimPrefix(strings.TrimPrefix(shop, "https://"), "http://")
	shop = strings.TrimSuffix(shop, "/")
	if !shopDomainPattern.MatchString(shop) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidShop, shop)
	}
	return shop, nil
}
