// Package seed provisions the default admin account on first start.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/app/repositories"
	"github.com/skykeen/events-backend/internal/config"
	"github.com/skykeen/events-backend/internal/pkg/auth"
)

// CreateDefaultAdmin creates the configured admin account when no superuser
// exists yet. Without it a fresh deployment has no way to log in. An unset
// admin password skips seeding instead of creating an account with a known
// default.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.HasSuperuser(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing superuser: %w", err)
	}
	if exists {
		lgr.Debug().Msg("Superuser already exists, skipping admin seed")
		return nil
	}

	if cfg.Admin.Password == "" {
		lgr.Warn().Msg("Admin password not configured, skipping admin seed")
		return nil
	}

	username := cfg.Admin.Username
	if username == "" {
		username = "admin"
	}

	hashed, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:    username,
		Email:       cfg.Admin.Email,
		Password:    hashed,
		IsStaff:     true,
		IsSuperuser: true,
		IsActive:    true,
	}

	id, err := userRepo.Create(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	lgr.Info().Int64("userID", id).Str("username", username).Msg("Default admin account created")
	return nil
}
