package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

const productFields = "id,title,body_html"

type productListOptions struct {
	Fields string `url:"fields,omitempty"`
}

type productListResponse struct {
	Products []domain.Product `json:"products"`
}

type metafieldPayload struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type metafieldRequest struct {
	Metafield metafieldPayload `json:"metafield"`
}

// ProductService proxies product reads and FAQ metafield writes to the shop's Admin API
type ProductService struct {
	platform ports.CommercePlatform
	logger   zerolog.Logger
}

// NewProductService creates a new product service
func NewProductService(platform ports.CommercePlatform, logger zerolog.Logger) *ProductService {
	return &ProductService{
		platform: platform,
		logger:   logger,
	}
}

// ListProducts returns the first page of the shop's products
func (s *ProductService) ListProducts(ctx context.Context, session *domain.Session) ([]domain.Product, error) {
	var resp productListResponse
	err := s.platform.Get(ctx, session, "products.json", productListOptions{Fields: productFields}, &resp)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", session.Shop).Msg("Failed to fetch products")
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	if resp.Products == nil {
		resp.Products = []domain.Product{}
	}
	return resp.Products, nil
}

// SaveFAQs overwrites the custom.faqs metafield of a product with the serialized FAQs
func (s *ProductService) SaveFAQs(ctx context.Context, session *domain.Session, productID domain.ProductID, faqs json.RawMessage) error {
	id, err := productID.Uint64()
	if err != nil {
		return err
	}
	if trimmed := bytes.TrimSpace(faqs); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: faqs", domain.ErrMissingParameter)
	}

	var value bytes.Buffer
	if err := json.Compact(&value, faqs); err != nil {
		return fmt.Errorf("%w: faqs is not valid JSON", domain.ErrMissingParameter)
	}

	body := metafieldRequest{
		Metafield: metafieldPayload{
			Namespace: domain.FAQMetafieldNamespace,
			Key:       domain.FAQMetafieldKey,
			Value:     value.String(),
			Type:      domain.FAQMetafieldType,
		},
	}

	path := fmt.Sprintf("products/%d/metafields.json", id)
	if err := s.platform.Put(ctx, session, path, body, nil); err != nil {
		s.logger.Error().Err(err).Str("shop", session.Shop).Uint64("productId", id).Msg("Failed to save FAQs")
		return fmt.Errorf("failed to save FAQs: %w", err)
	}

	s.logger.Info().Str("shop", session.Shop).Uint64("productId", id).Msg("Saved FAQs")
	return nil
}
