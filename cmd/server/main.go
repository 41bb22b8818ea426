// @title           Love Surprise Backend API
// @version         1.0.0
// @description     Backend API for authoring, saving, paying for and sharing surprise pages. Anonymous visitors build a draft in a step wizard; the draft survives the sign-in redirect and is committed once the session is confirmed.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"love-surprise-backend/docs"
	"love-surprise-backend/internal/authgate"
	"love-surprise-backend/internal/commit"
	"love-surprise-backend/internal/config"
	"love-surprise-backend/internal/database"
	"love-surprise-backend/internal/draftstore"
	"love-surprise-backend/internal/filestore"
	"love-surprise-backend/internal/handlers"
	"love-surprise-backend/internal/logger"
	"love-surprise-backend/internal/payment"
	"love-surprise-backend/internal/preview"
	"love-surprise-backend/internal/retry"
	"love-surprise-backend/internal/services"
	"love-surprise-backend/internal/supabase"
	"love-surprise-backend/internal/wizard"
)

const previewBasePath = "/api/v1/create/previews"

func main() {
	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.PublicBaseURL != "" {
		if baseURL, err := url.Parse(cfg.PublicBaseURL); err == nil && baseURL.Host != "" {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		zapLogger.Fatal("DATABASE_URL is required")
	}
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.NewMigrator(db, zapLogger).Run(ctx); err != nil {
		zapLogger.Fatal("Migration failed", zap.Error(err))
	}
	dbClient := supabase.NewDatabaseClient(db)

	// Draft slot
	var drafts draftstore.Backend = draftstore.NewMemoryBackend()
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			if cfg.IsProduction() {
				zapLogger.Fatal("Redis unavailable", zap.Error(err))
			}
			zapLogger.Warn("Redis unavailable, drafts are kept in memory", zap.Error(err))
			redisClient = nil
		} else {
			drafts = draftstore.NewRedisBackend(redisClient, cfg.DraftTTL, zapLogger)
		}
	}

	// Ephemeral photo blobs
	var files filestore.Backend
	if cfg.FileStorePath != "" {
		files, err = filestore.NewSQLiteBackend(cfg.FileStorePath, cfg.FileStoreMaxBytes, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to open ephemeral file store", zap.Error(err))
		}
	} else {
		files = filestore.NewMemoryBackend(cfg.FileStoreMaxBytes)
	}
	defer files.Close()

	// Initialize Supabase clients
	authClient, err := supabase.NewClient(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Supabase client", zap.Error(err))
	}
	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		zapLogger.Fatal("Failed to initialize storage client", zap.Error(err))
	}
	notifier := supabase.NewRealtimeNotifier(dbClient, zapLogger)

	if cfg.StripeSecretKey == "" {
		zapLogger.Warn("STRIPE_SECRET_KEY not set, payments will fail")
	}
	stripeProvider := payment.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret, zapLogger)

	// Authoring pipeline
	previews := preview.NewRegistry(previewBasePath)
	committer := commit.NewService(dbClient, storageClient, notifier, retry.DefaultPolicy(), zapLogger)
	gate := authgate.New(drafts, files, committer, zapLogger,
		authgate.WithSessionChecker(authClient),
		authgate.WithPollInterval(cfg.SessionPollInterval),
	)
	registry := wizard.NewRegistry(drafts, files, previews, gate, zapLogger)

	paymentService := services.NewPaymentService(dbClient, stripeProvider, notifier, zapLogger)
	surpriseService := services.NewSurpriseService(dbClient, storageClient, committer, notifier, zapLogger)
	lifecycleService := services.NewLifecycleService(dbClient, storageClient, files, registry, cfg.FileStoreTTL, zapLogger)

	checks := map[string]handlers.Pinger{"database": dbClient}
	if redisClient != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	router := handlers.NewRouter(cfg, zapLogger, handlers.Handlers{
		Health:    handlers.NewHealthHandler(checks),
		Wizard:    handlers.NewWizardHandler(registry, files, previews, zapLogger),
		Auth:      handlers.NewAuthHandler(authClient, gate, registry, cfg.SessionConfirmTimeout, zapLogger),
		Payments:  handlers.NewPaymentsHandler(paymentService, zapLogger),
		Webhook:   handlers.NewWebhookHandler(stripeProvider, paymentService, zapLogger),
		Surprises: handlers.NewSurprisesHandler(surpriseService, cfg.PublicBaseURL, zapLogger),
		Share:     handlers.NewShareHandler(surpriseService, cfg.PublicBaseURL, zapLogger),
		Cron:      handlers.NewCronHandler(lifecycleService, cfg.CronSecret, zapLogger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}

	// Live wizards are only in memory; park them in their draft slots.
	pruned := registry.Prune(shutdownCtx, 0)
	zapLogger.Info("Checkpointed live wizards", zap.Int("count", pruned))
}
