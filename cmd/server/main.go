package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"genius/internal/auth"
	"genius/internal/config"
	"genius/internal/handler"
	"genius/internal/middleware"
	"genius/internal/repository"
	"genius/internal/service"
	"genius/internal/service/billing"
	serviceLLM "genius/internal/service/llm"
	"genius/internal/tools"
	"genius/internal/web"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create JWT verifier for Clerk session tokens
	jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.ClerkJWKSURL, cfg.ClerkAuthorizedParties, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Open the store (Postgres when DATABASE_URL is set, SQLite otherwise)
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()
	logger.Info("store connected", "kind", store.Kind)

	// Initialize tool registry
	toolRegistry, err := tools.NewRegistry(
		tools.ModelOverride{ToolID: tools.ToolConversation, Model: cfg.ConversationModel},
		tools.ModelOverride{ToolID: tools.ToolCode, Model: cfg.CodeModel},
	)
	if err != nil {
		log.Fatalf("Failed to initialize tool registry: %v", err)
	}
	for _, tool := range toolRegistry.List() {
		logger.Info("tool registered", "tool", tool.ID, "model", tool.Model)
	}

	// Create services
	usageService := service.NewUsageService(store.APILimits, store.Subscriptions, cfg.MaxFreeCounts, logger)

	completionService, err := serviceLLM.SetupCompletion(cfg, toolRegistry, usageService, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}

	if cfg.StripeAPIKey == "" || cfg.StripeWebhookSecret == "" {
		logger.Warn("Stripe not fully configured - billing routes will fail")
	}
	billingService := billing.NewService(
		billing.NewStripeGateway(cfg.StripeAPIKey),
		store.Subscriptions,
		cfg.StripeWebhookSecret,
		cfg.AppURL,
		logger,
	)

	renderer, err := web.NewRenderer(web.LayoutConfig{
		ClerkPublishableKey: cfg.ClerkPublishableKey,
		CrispWebsiteID:      cfg.CrispWebsiteID,
		Tools:               toolRegistry.List(),
	})
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	logger.Info("services initialized")

	// Create handlers
	conversationHandler := handler.NewCompletionHandler(completionService, tools.ToolConversation, logger)
	codeHandler := handler.NewCompletionHandler(completionService, tools.ToolCode, logger)
	billingHandler := handler.NewBillingHandler(billingService, auth.NewAdminClient(cfg.ClerkAPIURL, cfg.ClerkSecretKey), logger)
	usageHandler := handler.NewUsageHandler(usageService, logger)
	toolsHandler := handler.NewToolsHandler(toolRegistry, completionService, logger)
	healthHandler := handler.NewHealthHandler(store, logger)
	pagesHandler := handler.NewPagesHandler(renderer, toolRegistry, usageService, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Generation routes
	mux.HandleFunc("POST /api/conversation", conversationHandler.Complete)
	mux.HandleFunc("POST /api/code", codeHandler.Complete)

	// Billing routes
	mux.HandleFunc("GET /api/stripe", billingHandler.GetSession)
	mux.HandleFunc("POST /api/webhook", billingHandler.Webhook)

	// Usage and tools
	mux.HandleFunc("GET /api/usage", usageHandler.GetUsage)
	mux.HandleFunc("GET /api/tools", toolsHandler.ListTools)

	// Pages
	mux.HandleFunc("GET /{$}", pagesHandler.Landing)
	mux.HandleFunc("GET /dashboard", pagesHandler.Dashboard)
	mux.HandleFunc("GET /conversation", pagesHandler.Tool(tools.ToolConversation))
	mux.HandleFunc("GET /code", pagesHandler.Tool(tools.ToolCode))
	mux.HandleFunc("GET /settings", pagesHandler.Settings)
	mux.Handle("GET /static/", web.StaticHandler())

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: Logger → CORS → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)
	h = middleware.RequestLogger(logger)(h)

	// Create HTTP server
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     h,
		ReadTimeout: 15 * time.Second,
		// No write timeout: a slow provider call holds the request until it resolves
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
