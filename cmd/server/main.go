package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thisdjs/breakfast-menu-app/internal/catalog"
	"github.com/thisdjs/breakfast-menu-app/internal/config"
	"github.com/thisdjs/breakfast-menu-app/internal/handlers"
	"github.com/thisdjs/breakfast-menu-app/internal/middleware"
	"github.com/thisdjs/breakfast-menu-app/internal/order"
	"github.com/thisdjs/breakfast-menu-app/internal/promo"
	"github.com/thisdjs/breakfast-menu-app/internal/storage"
	"github.com/thisdjs/breakfast-menu-app/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting breakfast menu server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Load the static base catalog
	baseItems, err := catalog.LoadBaseMenu(cfg.Menu.BaseMenuFile)
	if err != nil {
		log.Error("failed to load base menu", "error", err)
		os.Exit(1)
	}
	log.Info("base menu loaded", "items", len(baseItems))

	// Initialize persistent storage
	kv, err := storage.NewFileStore(cfg.Menu.DataDir, log)
	if err != nil {
		log.Error("failed to initialize storage", "dir", cfg.Menu.DataDir, "error", err)
		os.Exit(1)
	}

	// Initialize promo validation; the service runs without it when no
	// sources are configured
	promoValidator := promo.NewValidator()
	if len(cfg.Promo.Sources) > 0 {
		log.Info("loading promo code data...")
		ctx := context.Background()
		if err := promoValidator.LoadSources(ctx, cfg.Promo.Sources); err != nil {
			log.Error("failed to load promo data", "error", err)
			os.Exit(1)
		}

		stats := promoValidator.Stats()
		log.Info("promo data loaded successfully",
			"total_files", stats["total_files"],
			"total_codes", stats["total_codes"],
		)
	}

	// Initialize stores; the order store reconciles against the catalog at
	// startup and on every catalog change
	settleDelay := time.Duration(cfg.Menu.SettleDelayMS) * time.Millisecond
	catalogStore := catalog.New(baseItems, kv, settleDelay, log)
	orderStore := order.New(catalogStore, kv, promoValidator, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	menuHandler := handlers.NewMenuHandler(catalogStore, log)
	orderHandler := handlers.NewOrderHandler(orderStore, log)
	promoHandler := handlers.NewPromoHandler(promoValidator, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Read endpoints
		r.Get("/menu", menuHandler.GetMenu)
		r.Get("/menu/{itemId}", menuHandler.GetItem)
		r.Get("/order", orderHandler.GetOrder)
		r.Get("/promo/stats", promoHandler.GetStats)
		r.Get("/promo/{promoCode}", promoHandler.ValidatePromo)

		// Mutating endpoints require an API key
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))

			r.Post("/menu", menuHandler.CreateItem)
			r.Post("/order/toggle/{itemId}", orderHandler.ToggleItem)
			r.Post("/order/checkout", orderHandler.Checkout)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
