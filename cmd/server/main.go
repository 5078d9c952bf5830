// Package main is the entry point for the leaderboard service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"leaderboard-service/internal/config"
	"leaderboard-service/internal/handler"
	"leaderboard-service/internal/pkg/db"
	"leaderboard-service/internal/repository"
	"leaderboard-service/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load .env into the environment before viper reads it
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading environment variables directly")
	}

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	claimRepo := repository.NewClaimHistoryRepository(dbPool.Pool)

	// Initialize services
	rankingService := service.NewRankingService(userRepo)
	userService := service.NewUserService(userRepo, rankingService, cfg.Seed.MaxInitialPoints)
	claimService := service.NewClaimService(
		userRepo,
		claimRepo,
		rankingService,
		cfg.Claim.MinPoints,
		cfg.Claim.MaxPoints,
	)

	// Initialize HTTP server
	app := fiber.New(fiber.Config{
		AppName: "leaderboard-service",
	})

	app.Use(handler.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.Origins(),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	h := handler.New(userService, claimService, dbPool)
	h.RegisterRoutes(app)

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr()).Msg("Server is starting...")
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(255) NOT NULL UNIQUE,
			points BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_points ON users(points DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create claim history table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS claim_history (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			points_claimed BIGINT NOT NULL,
			claimed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_claim_history_user_time ON claim_history(user_id, claimed_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: claim_history table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
