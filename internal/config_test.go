package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "PORT", "DATABASE_URL", "SESSION_TTL",
		"AWESOMEAPI_URL", "BCB_PTAX_URL", "EXCHANGE_FALLBACK_RATE",
		"EXCHANGE_CACHE_TTL", "EXCHANGE_SNAPSHOT_INTERVAL", "NCM_CACHE_TTL",
		"ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_NAME", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "5.0", cfg.Exchange.FallbackRate)
	assert.Equal(t, 30*time.Minute, cfg.Exchange.CacheTTL)
	assert.Equal(t, time.Hour, cfg.Exchange.SnapshotInterval)
	assert.Equal(t, 30*24*time.Hour, cfg.NCMCacheTTL)
	assert.Equal(t, "Admin", cfg.Admin.Name)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

// TestNewConfig_Prod verifies a minimal prod environment loads without any
// extra required variables. Sessions are opaque database tokens, so no
// signing secret is involved.
func TestNewConfig_Prod(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENV", "prod")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
}

func TestNewConfig_InvalidEnvFallsBackToProd(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENV", "staging")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
}

func TestNewConfig_InvalidLogLevelFallsBackToInfo(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewConfig_CORSOriginList(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSAllowedOrigins)
}
