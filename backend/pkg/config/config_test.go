package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trustocracy/backend/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("TRUSTO_SECRET", "")
	t.Setenv("TOKEN_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.Equal(t, "trustocracy.org", cfg.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.NotEmpty(t, cfg.TrustoSecret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("TRUSTO_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("TRUSTO_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/trusto?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.RelationalEnabled())
}

func TestLoad_CORSAllowedOrigins(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("TRUSTO_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://trustocracy.org, https://app.trustocracy.org ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://trustocracy.org", "https://app.trustocracy.org"}, cfg.CORSAllowedOrigins)
}

func TestLoad_CORSDefaults(t *testing.T) {
	t.Setenv("TRUSTO_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	t.Setenv("ENV", "production")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.CORSAllowedOrigins)

	t.Setenv("ENV", "development")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoad_CORSRejectsWildcard(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("TRUSTO_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "*")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
}
