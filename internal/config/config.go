package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"smartfaq-shopify-layer/internal/domain"

	"github.com/shopspring/decimal"
)

// Session storage backends
const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
	StorageRedis  = "redis"
)

// Config holds every setting the service needs, resolved once at process start
type Config struct {
	Port string

	AppURL      string
	APIKey      string
	APISecret   string
	Scopes      []string
	APIVersion  string
	CORSOrigins []string

	Completion CompletionConfig
	Billing    domain.BillingPlan

	SessionStorage string
	MongoURI       string
	MongoDatabase  string
	RedisURL       string

	LogLevel  string
	LogFormat string
}

// CompletionConfig configures the chat-completion client
type CompletionConfig struct {
	URL         string
	Model       string
	MaxTokens   int
	Temperature float64
	Title       string
	// APIKey is evaluated on every call so a rotated key takes effect without a restart
	APIKey KeySource
}

// KeySource returns the current value of a credential
type KeySource func() string

// EnvKey returns a KeySource reading the named environment variable at call time
func EnvKey(name string) KeySource {
	return func() string {
		return os.Getenv(name)
	}
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AppURL:         strings.TrimRight(os.Getenv("SHOPIFY_APP_URL"), "/"),
		APIKey:         os.Getenv("SHOPIFY_API_KEY"),
		APISecret:      os.Getenv("SHOPIFY_API_SECRET"),
		Scopes:         splitList(os.Getenv("SHOPIFY_SCOPES")),
		APIVersion:     getEnv("SHOPIFY_API_VERSION", "2023-07"),
		SessionStorage: strings.ToLower(getEnv("SESSION_STORAGE", StorageMemory)),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "smartfaq"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	var missing []string
	if cfg.AppURL == "" {
		missing = append(missing, "SHOPIFY_APP_URL")
	}
	if cfg.APIKey == "" {
		missing = append(missing, "SHOPIFY_API_KEY")
	}
	if cfg.APISecret == "" {
		missing = append(missing, "SHOPIFY_API_SECRET")
	}
	if len(cfg.Scopes) == 0 {
		missing = append(missing, "SHOPIFY_SCOPES")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{cfg.AppURL}
	}

	maxTokens, err := getInt("OPENROUTER_MAX_TOKENS", 1000)
	if err != nil {
		return nil, err
	}
	cfg.Completion = CompletionConfig{
		URL:         getEnv("OPENROUTER_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
		Model:       getEnv("OPENROUTER_MODEL", "openai/gpt-3.5-turbo"),
		MaxTokens:   maxTokens,
		Temperature: 0.7,
		Title:       "SmartFAQ.AI",
		APIKey:      EnvKey("OPENROUTER_API_KEY"),
	}

	plan, err := loadBillingPlan()
	if err != nil {
		return nil, err
	}
	cfg.Billing = plan

	switch cfg.SessionStorage {
	case StorageMemory, StorageMongo, StorageRedis:
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORAGE %q", cfg.SessionStorage)
	}

	return cfg, nil
}

func loadBillingPlan() (domain.BillingPlan, error) {
	plan := domain.DefaultBillingPlan()
	plan.Name = getEnv("BILLING_PLAN_NAME", plan.Name)
	plan.CurrencyCode = getEnv("BILLING_CURRENCY", plan.CurrencyCode)
	plan.Interval = getEnv("BILLING_INTERVAL", plan.Interval)

	if v := os.Getenv("BILLING_AMOUNT"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return plan, fmt.Errorf("invalid BILLING_AMOUNT: %w", err)
		}
		if !amount.IsPositive() {
			return plan, errors.New("BILLING_AMOUNT must be positive")
		}
		plan.Amount = amount
	}
	if plan.Interval != domain.BillingIntervalEvery30Days && plan.Interval != domain.BillingIntervalAnnual {
		return plan, fmt.Errorf("unsupported BILLING_INTERVAL %q", plan.Interval)
	}

	var err error
	if plan.Required, err = getBool("BILLING_REQUIRED", plan.Required); err != nil {
		return plan, err
	}
	if plan.Test, err = getBool("BILLING_TEST", plan.Test); err != nil {
		return plan, err
	}
	return plan, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
