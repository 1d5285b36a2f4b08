// Command seedadmin creates the initial admin account. It is idempotent:
// an existing admin username is left untouched.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"kasirkita/internal/auth"
	"kasirkita/internal/config"
	"kasirkita/internal/database"
	"kasirkita/internal/model"
	"kasirkita/internal/repository"

	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	username := envOr("SEED_ADMIN_USERNAME", "admin")
	password := envOr("SEED_ADMIN_PASSWORD", "")
	email := envOr("SEED_ADMIN_EMAIL", "admin@kasirkita.local")

	if password == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("admin password must be at least 6 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool, logger)

	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if existing != nil {
		fmt.Printf("Admin %q already exists, nothing to do\n", username)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        &email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now(),
	}

	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("Admin %q created\n", username)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
