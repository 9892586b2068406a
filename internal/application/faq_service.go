package application

import (
	"context"
	"fmt"
	"strings"

	"smartfaq-shopify-layer/internal/domain"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// FAQService drafts FAQ text for a product through the completion API
type FAQService struct {
	completion ports.CompletionClient
	logger     zerolog.Logger
}

// NewFAQService creates a new FAQ generation service
func NewFAQService(completion ports.CompletionClient, logger zerolog.Logger) *FAQService {
	return &FAQService{
		completion: completion,
		logger:     logger,
	}
}

// GenerateFAQs returns the raw generated FAQ text for a product.
// The text is not parsed into question/answer records.
func (s *FAQService) GenerateFAQs(ctx context.Context, productName, productDescription string) (string, error) {
	if strings.TrimSpace(productName) == "" || strings.TrimSpace(productDescription) == "" {
		return "", fmt.Errorf("%w: product name and description are required", domain.ErrMissingParameter)
	}

	prompt := BuildPrompt(productName, productDescription)
	text, err := s.completion.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("product", productName).Msg("Failed to generate FAQs")
		return "", fmt.Errorf("failed to generate FAQs: %w", err)
	}

	s.logger.Info().Str("product", productName).Int("length", len(text)).Msg("Generated FAQs")
	return text, nil
}
