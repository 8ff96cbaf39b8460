package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"LIFELINK_API_URL", "LIFELINK_STATE_PATH", "LIFELINK_NOISY_ERRORS", "LIFELINK_HTTP_TIMEOUT_SECONDS", "LIFELINK_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/lifelink/api", cfg.APIBaseURL)
	assert.Equal(t, DefaultNoisyErrors, cfg.NoisyErrors)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ".lifelink", filepath.Base(filepath.Dir(cfg.StatePath)))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LIFELINK_API_URL", "https://api.example.org/lifelink/api/")
	t.Setenv("LIFELINK_STATE_PATH", "/tmp/state.db")
	t.Setenv("LIFELINK_NOISY_ERRORS", " Boom , ,Stack trace ")
	t.Setenv("LIFELINK_HTTP_TIMEOUT_SECONDS", "15")
	t.Setenv("LIFELINK_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org/lifelink/api", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/state.db", cfg.StatePath)
	assert.Equal(t, []string{"Boom", "Stack trace"}, cfg.NoisyErrors)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LIFELINK_STATE_PATH", "/tmp/state.db")
	t.Setenv("LIFELINK_HTTP_TIMEOUT_SECONDS", "-1")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("LIFELINK_HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("LIFELINK_API_URL", "localhost:8080")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadStub(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadStub()
	require.EqualError(t, err, "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_MINUTES", "nope")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("STUB_ADMIN_USERNAME", "admin")
	t.Setenv("STUB_ADMIN_PASSWORD", "")
	_, err = LoadStub()
	require.Error(t, err)

	t.Setenv("STUB_ADMIN_PASSWORD", "adminpass")
	cfg, err := LoadStub()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, ":8080", StubConfig{Port: "8080"}.HTTPAddress())
}
