package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"genius/internal/config"
	"genius/internal/domain/models"
	"genius/internal/repository"
)

// devSubscriptionPeriod is how long a seeded pro subscription lasts.
const devSubscriptionPeriod = 30 * 24 * time.Hour

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before applying the schema (fresh start)")
	seedPro := flag.String("seed-pro", "", "Give this user ID an active pro subscription (dev/test only)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *seedPro != "") {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables or --seed-pro in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	log.Printf("🏗️  Migrating %s store (environment: %s, prefix: %s)", store.Kind, cfg.Environment, cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := store.DropTables(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := store.ApplySchema(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *seedPro != "" {
		if err := seedProSubscription(ctx, store, *seedPro); err != nil {
			log.Fatalf("Failed to seed subscription: %v", err)
		}
		log.Printf("🌱 %s is now on the pro plan", *seedPro)
	}
}

// seedProSubscription stores a fake active subscription so the pro paths can
// be exercised without a Stripe checkout.
func seedProSubscription(ctx context.Context, store *repository.Store, userID string) error {
	periodEnd := time.Now().Add(devSubscriptionPeriod)
	customerID := "cus_dev_" + userID
	subscriptionID := "sub_dev_" + userID
	priceID := "price_dev"

	return store.Subscriptions.Create(ctx, &models.UserSubscription{
		UserID:                 userID,
		StripeCustomerID:       &customerID,
		StripeSubscriptionID:   &subscriptionID,
		StripePriceID:          &priceID,
		StripeCurrentPeriodEnd: &periodEnd,
	})
}
