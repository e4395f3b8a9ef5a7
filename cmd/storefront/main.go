package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Pu11en/peptide-website/internal/cart"
	"github.com/Pu11en/peptide-website/internal/catalog"
	"github.com/Pu11en/peptide-website/internal/checkout"
	"github.com/Pu11en/peptide-website/internal/database"
	"github.com/Pu11en/peptide-website/internal/events"
	h "github.com/Pu11en/peptide-website/internal/http"
	"github.com/Pu11en/peptide-website/internal/notify"
	"github.com/Pu11en/peptide-website/internal/orders"
	"github.com/Pu11en/peptide-website/internal/payments"
	"github.com/Pu11en/peptide-website/internal/pricing"
)

type Config struct {
	HTTPPort            string
	SiteURL             string
	StripeSecretKey     string
	StripeWebhookSecret string
	DatabaseURL         string
	MigrationsPath      string
	AutomationURL       string
	ErrorWebhookURL     string
	RedisAddr           string
	KafkaBrokers        []string
	RequestTimeout      time.Duration
	ShutdownTimeout     time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		SiteURL:             getEnv("SITE_URL", "http://localhost:3001"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		MigrationsPath:      getEnv("MIGRATIONS_PATH", "migrations"),
		AutomationURL:       os.Getenv("N8N_WEBHOOK_URL"),
		ErrorWebhookURL:     os.Getenv("N8N_ERROR_WEBHOOK_URL"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RequestTimeout:      30 * time.Second,
		ShutdownTimeout:     10 * time.Second,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	// Database is optional: without it the storefront prices against the
	// static catalog and records orders ephemerally.
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("database unavailable, continuing in static catalog mode: %v", err)
			db = nil
		} else {
			defer db.Close()
			if err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
				log.Fatalf("failed to run migrations: %v", err)
			}
			log.Println("Connected to postgres!")
		}
	}

	staticCatalog := catalog.NewStaticCatalog()
	var dbCatalog catalog.Provider
	var orderRepo orders.Repository
	if db != nil {
		dbCatalog = catalog.NewPostgresCatalog(db)
		orderRepo = orders.NewPostgresRepository(db)
	}

	resolver := pricing.NewResolver(dbCatalog, staticCatalog)

	var gateway payments.Gateway
	if cfg.StripeSecretKey != "" {
		gateway = payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	} else {
		log.Println("STRIPE_SECRET_KEY not set; checkout and webhook endpoints will refuse requests")
	}

	notifier := notify.NewClient(cfg.AutomationURL)
	reporter := notify.NewErrorReporter(cfg.ErrorWebhookURL)

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(cfg.KafkaBrokers...)
		defer publisher.Close()
	}

	recorder := orders.NewRecorder(resolver, orderRepo, notifier, publisher)
	checkoutService := checkout.NewService(resolver, gateway, cfg.SiteURL)

	var cartCache cart.Cache
	if cfg.RedisAddr != "" {
		cartCache = cart.NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}
	cartService := cart.NewService(cart.NewMemoryRepository(), cartCache)

	router := h.NewRouter(&h.RouterConfig{
		Products:       h.NewProductsHandler(dbCatalog, staticCatalog),
		Checkout:       h.NewCheckoutHandler(checkoutService),
		Orders:         h.NewOrdersHandler(recorder),
		Webhook:        h.NewWebhookHandler(gateway, recorder),
		Verify:         h.NewVerifyHandler(gateway),
		PaymentIntent:  h.NewPaymentIntentHandler(gateway),
		Cart:           h.NewCartHandler(cartService),
		ErrorReporter:  reporter,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
