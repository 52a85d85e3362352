package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 5*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, "100", cfg.MinCashoutAmount.String())
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Contains(t, cfg.DatabaseURL, "parcel_ledger")
}

func TestFromEnv_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "ledger")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "ledger")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://ledger:p%40ss@db:5432/ledger?sslmode=disable", cfg.DatabaseURL)
}

func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com")

	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	t.Setenv("MIN_CASHOUT_AMOUNT", "-5")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("MIN_CASHOUT_AMOUNT", "250.50")
	t.Setenv("RATE_LIMIT_PERIOD", "soon")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("RATE_LIMIT_PERIOD", "30s")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "250.5", cfg.MinCashoutAmount.String())
	assert.Equal(t, 30*time.Second, cfg.RateLimitPeriod)
}
