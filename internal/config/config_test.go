package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartfaq-shopify-layer/internal/domain"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SHOPIFY_APP_URL", "https://faq.example.com/")
	t.Setenv("SHOPIFY_API_KEY", "key")
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("SHOPIFY_SCOPES", "read_products, write_products")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://faq.example.com", cfg.AppURL)
	assert.Equal(t, []string{"read_products", "write_products"}, cfg.Scopes)
	assert.Equal(t, []string{"https://faq.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "2023-07", cfg.APIVersion)
	assert.Equal(t, StorageMemory, cfg.SessionStorage)

	assert.Equal(t, "openai/gpt-3.5-turbo", cfg.Completion.Model)
	assert.Equal(t, 1000, cfg.Completion.MaxTokens)
	assert.Equal(t, 0.7, cfg.Completion.Temperature)

	assert.Equal(t, "SmartFAQ.AI Monthly", cfg.Billing.Name)
	assert.True(t, cfg.Billing.Amount.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, "USD", cfg.Billing.CurrencyCode)
	assert.Equal(t, domain.BillingIntervalEvery30Days, cfg.Billing.Interval)
	assert.True(t, cfg.Billing.Required)
	assert.False(t, cfg.Billing.Test)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("SHOPIFY_APP_URL", "")
	t.Setenv("SHOPIFY_API_KEY", "")
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("SHOPIFY_SCOPES", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOPIFY_APP_URL")
	assert.Contains(t, err.Error(), "SHOPIFY_API_KEY")
	assert.Contains(t, err.Error(), "SHOPIFY_SCOPES")
	assert.NotContains(t, err.Error(), "SHOPIFY_API_SECRET")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"amount", "BILLING_AMOUNT", "free"},
		{"negative amount", "BILLING_AMOUNT", "-1"},
		{"interval", "BILLING_INTERVAL", "WEEKLY"},
		{"bool", "BILLING_TEST", "maybe"},
		{"max tokens", "OPENROUTER_MAX_TOKENS", "0"},
		{"storage", "SESSION_STORAGE", "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestCompletionKeyReadAtCallTime(t *testing.T) {
	setRequired(t)
	t.Setenv("OPENROUTER_API_KEY", "first")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.Completion.APIKey())

	t.Setenv("OPENROUTER_API_KEY", "rotated")
	assert.Equal(t, "rotated", cfg.Completion.APIKey())
}

func TestBillingOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BILLING_AMOUNT", "19.50")
	t.Setenv("BILLING_TEST", "true")
	t.Setenv("BILLING_REQUIRED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "19.5", cfg.Billing.Amount.String())
	assert.True(t, cfg.Billing.Test)
	assert.False(t, cfg.Billing.Required)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}
