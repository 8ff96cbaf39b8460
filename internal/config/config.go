package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultNoisyErrors are backend messages that never help the user.
var DefaultNoisyErrors = []string{
	"No message available",
	"Type definition error",
	"ByteBuddyInterceptor",
}

// Config holds client configuration sourced from env vars.
type Config struct {
	APIBaseURL  string
	StatePath   string
	HTTPTimeout time.Duration
	NoisyErrors []string
	LogLevel    string
}

// Load reads client configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:  strings.TrimRight(fallback(os.Getenv("LIFELINK_API_URL"), "http://localhost:8080/lifelink/api"), "/"),
		StatePath:   strings.TrimSpace(os.Getenv("LIFELINK_STATE_PATH")),
		NoisyErrors: DefaultNoisyErrors,
		LogLevel:    strings.ToLower(fallback(os.Getenv("LIFELINK_LOG_LEVEL"), "warn")),
	}

	if raw := strings.TrimSpace(os.Getenv("LIFELINK_NOISY_ERRORS")); raw != "" {
		cfg.NoisyErrors = parseCSV(raw, nil)
	}

	if raw := strings.TrimSpace(os.Getenv("LIFELINK_HTTP_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return Config{}, fmt.Errorf("invalid LIFELINK_HTTP_TIMEOUT_SECONDS value: %q", raw)
		}
		cfg.HTTPTimeout = time.Duration(seconds) * time.Second
	}

	if cfg.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.StatePath = filepath.Join(home, ".lifelink", "state.db")
	}

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return Config{}, errors.New("LIFELINK_API_URL must be an http(s) URL")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("invalid LIFELINK_LOG_LEVEL value: %q", cfg.LogLevel)
	}

	return cfg, nil
}

// StubConfig holds configuration for the development API server.
type StubConfig struct {
	Port          string
	JWTSecret     string
	JWTIssuer     string
	JWTTTL        time.Duration
	CORSOrigins   []string
	AdminUsername string
	AdminPassword string
}

// LoadStub reads stub server configuration from the environment.
func LoadStub() (StubConfig, error) {
	cfg := StubConfig{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "lifelink-stub"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*"), []string{"*"}),
		AdminUsername: strings.TrimSpace(os.Getenv("STUB_ADMIN_USERNAME")),
		AdminPassword: os.Getenv("STUB_ADMIN_PASSWORD"),
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	if cfg.JWTSecret == "" {
		return StubConfig{}, errors.New("JWT_SECRET is required")
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		return StubConfig{}, errors.New("STUB_ADMIN_USERNAME and STUB_ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c StubConfig) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string, def []string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
