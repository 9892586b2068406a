package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartfaq-shopify-layer/internal/application"
	"smartfaq-shopify-layer/internal/application/webhook_handlers"
	"smartfaq-shopify-layer/internal/config"
	apiinfra "smartfaq-shopify-layer/internal/infrastructure/api"
	"smartfaq-shopify-layer/internal/infrastructure/completion"
	"smartfaq-shopify-layer/internal/infrastructure/metrics"
	"smartfaq-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "smartfaq-shopify-layer/internal/infrastructure/shopify"
	"smartfaq-shopify-layer/internal/ports"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger = configureLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize session storage
	sessionRepo, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("storage", cfg.SessionStorage).Msg("Failed to open session storage")
	}
	defer closeStore()

	m := metrics.New()

	// Initialize infrastructure (implementations)
	platform := shopifyinfra.NewPlatform(cfg, sessionRepo, logger)
	completionClient := completion.NewClient(cfg.Completion, cfg.AppURL, m, logger)

	// Initialize application services
	sessionGate := application.NewSessionGate(platform, logger)
	billingGate := application.NewBillingGate(platform, cfg.Billing, cfg.AppURL, logger)
	productService := application.NewProductService(platform, logger)
	faqService := application.NewFAQService(completionClient, logger)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, sessionRepo))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewPrivacyHandler(logger, sessionRepo))

	router := apiinfra.NewRouter(apiinfra.Dependencies{
		Platform:   platform,
		Sessions:   sessionGate,
		Billing:    billingGate,
		Products:   productService,
		FAQs:       faqService,
		Webhooks:   webhookDispatcher,
		Metrics:    m,
		Logger:     logger,
		CORS:       cfg.CORSOrigins,
		SwaggerDoc: "./docs/swagger.json",
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("app_url", cfg.AppURL).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
	logger.Info().Msg("Server stopped")
}

// configureLogger applies LOG_LEVEL and LOG_FORMAT
func configureLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// openSessionStore connects the configured session backend and returns its close function
func openSessionStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ports.SessionRepository, func(), error) {
	switch cfg.SessionStorage {
	case config.StorageMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to disconnect from MongoDB")
			}
		}

		repo := repository.NewMongoSessionRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		logger.Info().Str("database", cfg.MongoDatabase).Msg("Using MongoDB session storage")
		return repo, closeFn, nil

	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close Redis client")
			}
		}
		logger.Info().Str("addr", opts.Addr).Msg("Using Redis session storage")
		return repository.NewRedisSessionRepository(client), closeFn, nil

	default:
		logger.Warn().Msg("Using in-memory session storage; sessions are lost on restart")
		return repository.NewMemorySessionRepository(), func() {}, nil
	}
}
