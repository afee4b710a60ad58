package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"threadcart/internal/config"
	"threadcart/internal/database"
	"threadcart/internal/handler"
	"threadcart/internal/payment"
	"threadcart/internal/promo"
	"threadcart/internal/repository"
	"threadcart/internal/router"
	"threadcart/internal/service"
	"threadcart/internal/session"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting threadcart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply pending schema migrations before accepting traffic
	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize Redis client for carts and sessions
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)

	// Initialize promo validator when promo codes are enabled
	var promoValidator promo.Validator
	if cfg.Promo.Enabled {
		var loader promo.Loader
		files := cfg.Promo.Files

		if cfg.Promo.S3Enabled {
			s3Loader, err := promo.NewS3Loader(ctx, cfg.Promo.S3Bucket, cfg.Promo.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system only")
				loader = promo.NewFileLoader(logger)
			} else {
				loader = s3Loader
				keys := make([]string, len(files))
				for i, f := range files {
					keys[i] = path.Join(cfg.Promo.S3Prefix, f)
				}
				files = keys
			}
		} else {
			loader = promo.NewFileLoader(logger)
			logger.Info().Msg("using local file system for promo code files (S3 disabled)")
		}

		promoValidator, err = promo.NewValidator(ctx, promo.ValidatorConfig{Files: files}, loader, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize promo validator: %w", err)
		}
		defer promoValidator.Close()
	}

	// Initialize payment provider; checkout rejects requests when unconfigured
	var provider payment.Provider
	if cfg.Stripe.Configured() {
		provider = payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, logger)
	} else {
		logger.Warn().Msg("payment provider not configured, checkout is disabled")
	}

	// Initialize session store
	sessions := session.NewStore(redisClient, logger)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(redisClient, logger)
	checkoutService := service.NewCheckoutService(
		orderRepo, productRepo, userRepo, addressRepo,
		provider, promoValidator,
		service.CheckoutConfig{
			BaseURL:              cfg.App.BaseURL,
			Currency:             cfg.Stripe.Currency,
			PromoDiscountPercent: cfg.Promo.DiscountPercent,
		},
		logger,
	)
	webhookService := service.NewWebhookService(orderRepo, productRepo, provider, logger)
	accountService := service.NewAccountService(userRepo, orderRepo, addressRepo, wishlistRepo, sessions, logger)
	adminService := service.NewAdminService(orderRepo, userRepo, addressRepo, logger)

	// Initialize HTTP handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, cartService, logger)
	webhookHandler := handler.NewWebhookHandler(webhookService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)

	// Initialize router
	mux := router.New(
		catalogHandler,
		cartHandler,
		checkoutHandler,
		webhookHandler,
		accountHandler,
		adminHandler,
		sessions,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
