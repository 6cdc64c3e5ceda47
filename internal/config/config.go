package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type Config struct {
	Port        string
	Environment string
	AppURL      string // Public base URL, used for billing return URLs
	CORSOrigins string
	TablePrefix string
	// Storage: Postgres when DatabaseURL is set, SQLite otherwise
	DatabaseURL string
	SQLitePath  string
	// Identity (Clerk)
	ClerkJWKSURL           string
	ClerkPublishableKey    string
	ClerkAuthorizedParties []string
	ClerkSecretKey         string // Backend API key, used to look up user emails
	ClerkAPIURL            string
	// LLM Configuration
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
	// Per-tool model overrides; empty keeps the model from tools.yaml.
	// A "lorem-*" model runs the offline provider with no API key.
	ConversationModel string
	CodeModel         string
	// Billing (Stripe)
	StripeAPIKey        string
	StripeWebhookSecret string
	// Free tier
	MaxFreeCounts int
	// Live chat widget
	CrispWebsiteID string
	// Logging
	LogDir   string
	LogLevel string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            env,
		AppURL:                 strings.TrimRight(getEnv("APP_URL", "http://localhost:8080"), "/"),
		CORSOrigins:            getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:            getTablePrefix(env),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		SQLitePath:             getEnv("SQLITE_PATH", "genius.db"),
		ClerkJWKSURL:           getEnv("CLERK_JWKS_URL", ""),
		ClerkPublishableKey:    getEnv("CLERK_PUBLISHABLE_KEY", ""),
		ClerkAuthorizedParties: splitList(getEnv("CLERK_AUTHORIZED_PARTIES", "")),
		ClerkSecretKey:         getEnv("CLERK_SECRET_KEY", ""),
		ClerkAPIURL:            strings.TrimRight(getEnv("CLERK_API_URL", "https://api.clerk.com/v1"), "/"),
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:        getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		ConversationModel:      getEnv("CONVERSATION_MODEL", ""),
		CodeModel:              getEnv("CODE_MODEL", ""),
		StripeAPIKey:           getEnv("STRIPE_API_KEY", ""),
		StripeWebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
		MaxFreeCounts:          getEnvInt("MAX_FREE_COUNTS", DefaultMaxFreeCounts),
		CrispWebsiteID:         getEnv("CRISP_WEBSITE_ID", ""),
		LogDir:                 getEnv("LOG_DIR", ""),
		LogLevel:               getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
	}
}

// Validate checks the settings the server cannot start without.
// Provider keys are deliberately not required: a missing key is reported per request.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "test", "prod")),
		validation.Field(&c.AppURL, validation.Required, is.URL),
		validation.Field(&c.ClerkJWKSURL, validation.Required, is.URL),
		validation.Field(&c.MaxFreeCounts, validation.Min(0)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// UsesPostgres reports whether the Postgres store is configured.
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// getDefaultLogLevel returns debug outside production
func getDefaultLogLevel(env string) string {
	if env == "prod" {
		return "info"
	}
	return "debug"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s=%q is not an integer, using %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
