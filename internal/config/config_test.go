package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Recipe.MinNameLength)
	assert.Equal(t, 10, cfg.Recipe.MinTextLength)
	assert.Equal(t, 1, cfg.Recipe.MinCookingTime)
	assert.Equal(t, "shopping_list.pdf", cfg.Export.FileName)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "0 3 * * *", cfg.Worker.SweepCron)
	assert.Equal(t, 24*time.Hour, cfg.Worker.SweepGrace)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RECIPE_MIN_NAME_LENGTH", "3")
	t.Setenv("SHOPPING_LIST_FILE_NAME", "list.pdf")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("JWT_ACCESS_EXPIRY", "2h")
	t.Setenv("LOGIN_RATE_LIMIT_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Recipe.MinNameLength)
	assert.Equal(t, "list.pdf", cfg.Export.FileName)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.InDelta(t, 0.5, cfg.RateLimit.LoginRPS, 1e-9)
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("MINIO_SECRET_KEY", "real-minio")
	_, err = Load()
	assert.NoError(t, err)
}

func TestValidateRejectsBadRecipeLimits(t *testing.T) {
	t.Setenv("RECIPE_MIN_COOKING_TIME", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsShortSweepGrace(t *testing.T) {
	t.Setenv("IMAGE_SWEEP_GRACE", "5m")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)

	t.Setenv("DB_CONNECT_TIMEOUT", "soon")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)
}
