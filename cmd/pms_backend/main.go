package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/property_management_app/internal/core/services"
	"github.com/SscSPs/property_management_app/internal/handlers"
	"github.com/SscSPs/property_management_app/internal/middleware"
	"github.com/SscSPs/property_management_app/internal/platform/config"
	"github.com/SscSPs/property_management_app/internal/repositories/database/memory"
	"github.com/SscSPs/property_management_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/property_management_app/internal/utils"
	"github.com/SscSPs/property_management_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Property Management Backend API
// @version 1.0
// @description Folio ledger, night audit and stay lifecycle for hotel properties.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := buildRepositories(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("store", cfg.Store), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	serviceContainer := services.NewServiceContainer(repos)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	rateLimiter, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, rate limiting, analytics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(rateLimiter),
		middleware.PosthogMiddleware(posthogClient),
	)

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.Store))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories wires the configured store. The returned cleanup releases it.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.RepositoryProvider, func(), error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("Using the in-memory store; data is lost on restart")
		return memory.NewRepositoryProvider(memory.New()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return repositories.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		dbPool.Close()
		return repositories.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies every pending "up" migration through a short-lived
// database/sql connection using the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}

	// Closing the source and database reports a dirty migration state.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
