// Package bootstrap wires configuration, storage and the application
// dependency graph together for the server.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/skykeen/events-backend/internal/app/controllers"
	"github.com/skykeen/events-backend/internal/app/intake"
	appMigrations "github.com/skykeen/events-backend/internal/app/migrations"
	appRepos "github.com/skykeen/events-backend/internal/app/repositories"
	appRoutes "github.com/skykeen/events-backend/internal/app/routes"
	appServices "github.com/skykeen/events-backend/internal/app/services"
	"github.com/skykeen/events-backend/internal/config"
	"github.com/skykeen/events-backend/internal/db"
	appMiddleware "github.com/skykeen/events-backend/internal/middleware"
	"github.com/skykeen/events-backend/internal/pkg/filestorage"
	"github.com/skykeen/events-backend/internal/pkg/helpers"
	"github.com/skykeen/events-backend/internal/pkg/logger"
	"github.com/skykeen/events-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	RegistrationService    appServices.RegistrationService
	AuthService            appServices.AuthService
	RegistrationController *appControllers.RegistrationController
	AuthController         *appControllers.AuthController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	FileStorage            *filestorage.LocalStorage
	Normalizer             *intake.Normalizer
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultAdmin(ctx, dbPool, cfg, lgr); err != nil {
		// Startup continues; an operator can still create the account manually
		lgr.Error().Err(err).Msg("Failed to seed default admin account, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Normalizer = intake.NewNormalizer()

	sessionTTL := helpers.ParseDuration(cfg.Session.Expiration, 24*time.Hour)

	deps.RegistrationService = appServices.NewRegistrationService(
		deps.Repos.RegistrationRepository,
		deps.FileStorage,
	)
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.SessionRepository,
		sessionTTL,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, cfg.Session.CookieName)

	deps.RegistrationController = appControllers.NewRegistrationController(
		deps.RegistrationService,
		deps.Normalizer,
		deps.Logger,
	)
	deps.AuthController = appControllers.NewAuthController(
		deps.AuthService,
		cfg.Session,
		deps.Logger,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.RegistrationController,
		deps.AuthController,
		deps.AuthMiddleware,
		cfg.Server.StoragePath,
	)

	return router
}
