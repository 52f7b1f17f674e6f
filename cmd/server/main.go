package main

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/api"
	"github.com/ajharbinger/poolvest-insights/internal/cache"
	"github.com/ajharbinger/poolvest-insights/internal/database"
	"github.com/ajharbinger/poolvest-insights/internal/events"
	"github.com/ajharbinger/poolvest-insights/internal/logger"
	"github.com/ajharbinger/poolvest-insights/internal/metrics"
	"github.com/ajharbinger/poolvest-insights/internal/middleware"
	"github.com/ajharbinger/poolvest-insights/internal/repository"
	"github.com/ajharbinger/poolvest-insights/internal/services"
	"github.com/ajharbinger/poolvest-insights/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	appLogger, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer appLogger.Sync()

	if cfg.JWTSecret == "" {
		appLogger.Fatal("JWT_SECRET is required", stderrors.New("missing jwt secret"))
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			appLogger.Fatal("Failed to run migrations", err)
		}
	}

	metricsManager := metrics.NewManager()

	publisher := newPublisher(cfg, appLogger)
	defer publisher.Close()

	svc := services.NewServices(services.Dependencies{
		Repos:     repository.NewRepositories(db.DB),
		Logger:    appLogger,
		Metrics:   metricsManager,
		Publisher: publisher,
	})

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		appLogger.Fatal("Invalid TRUSTED_PROXIES", err)
	}

	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware(appLogger))
	r.Use(middleware.MetricsMiddleware(metricsManager))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))

	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware(newLimiter(cfg, appLogger), appLogger))
	}

	api.SetupRoutes(r, svc, db, metricsManager, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.BatchTimeout + 10*time.Second,
	}

	go func() {
		appLogger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", err)
	}
}

// newLimiter shares rate limit counters through Redis when it is configured
// and reachable, and falls back to per-process buckets otherwise
func newLimiter(cfg *config.Config, log logger.Logger) middleware.Limiter {
	if cfg.HasRedis() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err == nil {
			log.Info("Using Redis rate limiter")
			return middleware.NewSharedLimiter(cache.NewRedisWindowCounter(client, "insights:ratelimit:"), cfg.RateLimitPerMinute)
		}
		log.Warn("Redis unavailable, using in-process rate limiter", "error", err)
	}
	return middleware.NewLocalLimiter(cfg.RateLimitPerMinute)
}

func newPublisher(cfg *config.Config, log logger.Logger) events.Publisher {
	brokers := cfg.GetKafkaBrokers()
	if len(brokers) == 0 {
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
	if err != nil {
		log.Warn("Kafka publisher disabled", "error", err)
		return events.NoopPublisher{}
	}
	log.Info("Publishing insight events", "topic", cfg.KafkaTopic, "brokers", brokers)
	return publisher
}
