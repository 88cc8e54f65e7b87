package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends selectable with STORE.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	JWTSecret          string
	JWTIssuer          string
	MigrationsPath     string
	RateLimit          string // ulule limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
	PosthogAPIKey      string
	DefaultCutoverHour int
	Store              string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "property-management-app")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("DEFAULT_CUTOVER_HOUR", 6)
	viper.SetDefault("STORE", StorePostgres)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		JWTIssuer:          viper.GetString("JWT_ISSUER"),
		MigrationsPath:     viper.GetString("MIGRATIONS_PATH"),
		RateLimit:          viper.GetString("RATE_LIMIT"),
		PosthogAPIKey:      viper.GetString("POSTHOG_API_KEY"),
		DefaultCutoverHour: viper.GetInt("DEFAULT_CUTOVER_HOUR"),
		Store:              strings.ToLower(viper.GetString("STORE")),
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.DefaultCutoverHour < 0 || cfg.DefaultCutoverHour > 23 {
		return nil, fmt.Errorf("DEFAULT_CUTOVER_HOUR must be between 0 and 23, got %d", cfg.DefaultCutoverHour)
	}

	switch cfg.Store {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE=%s", StorePostgres)
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE %q (want %s or %s)", cfg.Store, StorePostgres, StoreMemory)
	}

	return cfg, nil
}
