package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aethermind-ai-hash/asb/internal"
	"github.com/aethermind-ai-hash/asb/internal/ai"
	"github.com/aethermind-ai-hash/asb/internal/ai/anthropic"
	"github.com/aethermind-ai-hash/asb/internal/ai/mock"
	"github.com/aethermind-ai-hash/asb/internal/handler"
	"github.com/aethermind-ai-hash/asb/internal/identity"
	"github.com/aethermind-ai-hash/asb/internal/metrics"
	"github.com/aethermind-ai-hash/asb/internal/middleware"
	"github.com/aethermind-ai-hash/asb/internal/repository"
	"github.com/aethermind-ai-hash/asb/internal/service"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize the store
	var store repository.Store
	switch cfg.StoreDriver {
	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		if err := internal.RunMigrations(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database ready")

		store = repository.NewPostgres(db, logger)
	case "memory":
		logger.Warn("Using in-memory store; all data is lost on restart")
		store = repository.NewMemory()
	}

	// Initialize the AI provider
	var provider ai.Provider
	switch cfg.AIProvider {
	case "anthropic":
		provider, err = anthropic.New(anthropic.Config{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
			ProviderConfig: ai.ProviderConfig{
				RequestTimeout: cfg.AIRequestTimeout,
			},
		}, logger)
		if err != nil {
			return fmt.Errorf("anthropic provider initialization failed: %w", err)
		}
	case "mock":
		logger.Warn("Using mock AI provider; responses are canned")
		provider = mock.New(logger)
	}
	registry := ai.NewRegistry(provider, logger)

	// Initialize the sign-in provider
	var signIn identity.Provider
	switch cfg.AuthProvider {
	case "google":
		signIn, err = identity.NewGoogle(identity.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}, logger)
		if err != nil {
			return fmt.Errorf("google sign-in initialization failed: %w", err)
		}
	case "static":
		logger.Warn("Using static sign-in provider; every login is dev@localhost")
		signIn = identity.NewStatic("dev@localhost", "Developer")
	}

	// Initialize services
	tenantService := service.NewTenantService(store, logger, cfg.SessionDuration)
	faqService := service.NewFAQService(store, logger)
	ledgerService := service.NewLedgerService(store, logger)
	analyticsService := service.NewAnalyticsService(store, logger)
	chatService := service.NewChatService(faqService, ledgerService, registry, cfg.AIRequestTimeout, logger)

	// Initialize middleware
	isSecure := cfg.IsProduction()
	authMw := middleware.NewAuthMiddleware(tenantService, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	rateLimits := middleware.NewEndpointRateLimiter(logger)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(signIn, tenantService, logger, isSecure)
	chatHandler := handler.NewChatHandler(chatService, logger)
	faqHandler := handler.NewFAQHandler(faqService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, ledgerService, logger)
	welcomeHandler := handler.NewWelcomeHandler(tenantService, logger)
	profileHandler := handler.NewProfileHandler(tenantService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics (basic auth)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// Auth routes (public)
	mux.Handle("GET /login/google", rateLimits.LimitLogin(http.HandlerFunc(authHandler.HandleGoogleLogin)))
	mux.HandleFunc("GET /auth/google/callback", authHandler.HandleGoogleCallback)
	mux.HandleFunc("GET /user_logout", authHandler.HandleLogout)

	// Middleware stacks
	requireTenant := middleware.Stack(authMw.WithTenant, authMw.RequireTenant)

	// Chat endpoint: the widget sends the session cookie of the signed-in
	// owner during testing, so it still goes through the auth stack.
	mux.Handle("POST /chatbot_message", rateLimits.LimitChat(requireTenant(http.HandlerFunc(chatHandler.HandleMessage))))

	// FAQ management
	mux.Handle("GET /faq_data", requireTenant(http.HandlerFunc(faqHandler.HandleData)))
	mux.Handle("POST /update_faq", requireTenant(http.HandlerFunc(faqHandler.HandleUpdate)))
	mux.Handle("POST /delete_faq", requireTenant(http.HandlerFunc(faqHandler.HandleDelete)))

	// Analytics
	mux.Handle("POST /analytics/log", requireTenant(http.HandlerFunc(analyticsHandler.HandleLog)))
	mux.Handle("GET /analytics/data", requireTenant(http.HandlerFunc(analyticsHandler.HandleData)))

	// Welcome message
	mux.Handle("GET /welcome_message", requireTenant(http.HandlerFunc(welcomeHandler.HandleGet)))
	mux.Handle("POST /update_welcome_message", requireTenant(http.HandlerFunc(welcomeHandler.HandleSet)))

	// Profile and widget integration
	mux.Handle("GET /profile", requireTenant(http.HandlerFunc(profileHandler.HandleGet)))
	mux.Handle("POST /update_profile", requireTenant(http.HandlerFunc(profileHandler.HandleUpdate)))
	mux.Handle("GET /integration_code", requireTenant(http.HandlerFunc(profileHandler.HandleGetIntegration)))
	mux.Handle("POST /update_integration", requireTenant(http.HandlerFunc(profileHandler.HandleUpdateIntegration)))

	// Outer middleware: request logging and HTTP metrics for everything.
	root := middleware.Stack(loggingMw.Handler, metrics.Middleware)(mux)

	// ==========================================================================
	// Background session cleanup
	// ==========================================================================

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				n, err := tenantService.CleanupExpiredSessions(cleanupCtx)
				if err != nil {
					logger.Error("Session cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("Expired sessions removed", "count", n)
				}
			}
		}
	}()

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "store", cfg.StoreDriver, "ai", cfg.AIProvider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
