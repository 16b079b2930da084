package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopkart/internal/config"
	"shopkart/internal/database"
	"shopkart/internal/events"
	"shopkart/internal/gateway"
	"shopkart/internal/handler"
	"shopkart/internal/notify"
	"shopkart/internal/repository"
	"shopkart/internal/router"
	"shopkart/internal/service"
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
	logger.Info().Msg("starting shopkart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply schema migrations before opening the pool
	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize payment gateway client
	stripeClient := gateway.NewStripeClient(cfg.Gateway.StripeKey, cfg.Gateway.CallbackURL, cfg.Gateway.Timeout, logger)

	// Initialize order-placed event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize kafka publisher: %w", err)
		}
		publisher = kafkaPublisher
	} else {
		logger.Info().Msg("order event publishing disabled")
	}
	defer publisher.Close()

	// Initialize confirmation email sender
	var sender notify.Sender = notify.NopSender{}
	if cfg.Email.Enabled {
		sender = notify.NewSendGridSender(cfg.Email.SendGridKey, cfg.Email.FromAddress, logger)
	} else {
		logger.Info().Msg("confirmation emails disabled")
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	cartItemService := service.NewCartItemService(cartRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, logger)
	paymentService := service.NewPaymentService(orderRepo, userRepo, stripeClient, publisher, sender, cfg.Gateway.Currency, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, cartItemService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, orderHandler, paymentHandler, cfg.Auth.JWTSecret, logger)

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
