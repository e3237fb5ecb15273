package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"trustocracy/backend/internal/constants"
	apperrors "trustocracy/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// Postgres (question/answer store); empty disables the relational routes
	PostgresDSN string

	// Auth
	TrustoSecret string
	TokenIssuer  string
	TokenTTL     time.Duration

	// CORS: browser origins allowed to make credentialed calls; empty means same-origin only
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "password"),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", "neo4j"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		TrustoSecret:  getEnv("TRUSTO_SECRET", ""),
		TokenIssuer:   getEnv("TOKEN_ISSUER", constants.TokenDomain),
		TokenTTL:      getEnvDuration("TOKEN_TTL", constants.TokenTTL),
	}

	if cfg.TrustoSecret == "" && cfg.IsDevelopment() {
		cfg.TrustoSecret = "development-secret"
	}

	corsDefault := ""
	if cfg.IsDevelopment() {
		corsDefault = "http://localhost:3000"
	}
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", corsDefault)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.TrustoSecret == "" {
		return apperrors.NewConfigMissingRequired("TRUSTO_SECRET")
	}
	if c.TokenTTL <= 0 {
		return apperrors.NewConfigMissingRequired("TOKEN_TTL")
	}
	for _, origin := range c.CORSAllowedOrigins {
		// Session cookies are sent cross-origin, so every origin must be named.
		if origin == "*" {
			return apperrors.NewBaseError(apperrors.ErrorTypeConfig, "CORS_ALLOWED_ORIGINS must list explicit origins, not *", nil)
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RelationalEnabled reports whether a Postgres DSN was configured
func (c *Config) RelationalEnabled() bool {
	return c.PostgresDSN != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key, defaultValue string) []string {
	var values []string
	for _, v := range strings.Split(getEnv(key, defaultValue), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
