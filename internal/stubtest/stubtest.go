// Package stubtest starts the development API server for tests.
package stubtest

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/hongminglow/lifelink/internal/config"
	"github.com/hongminglow/lifelink/internal/registry"
	"github.com/hongminglow/lifelink/internal/server"
)

// Admin credentials seeded into every stub.
const (
	AdminUsername = "admin"
	AdminPassword = "admin-password"
)

// Stub is a running development API server.
type Stub struct {
	Server   *httptest.Server
	Registry *registry.Registry
}

// BaseURL is the API root clients should use.
func (s *Stub) BaseURL() string {
	return s.Server.URL + server.BasePath
}

// Start runs a stub with a seeded admin account until the test ends.
func Start(t testing.TB) *Stub {
	return StartWithTTL(t, time.Hour)
}

// StartWithTTL is Start with a custom token lifetime.
func StartWithTTL(t testing.TB, ttl time.Duration) *Stub {
	t.Helper()
	reg := registry.New()
	srv, err := server.New(config.StubConfig{
		Port:          "0",
		JWTSecret:     "stub-secret",
		JWTIssuer:     "lifelink-stub-test",
		JWTTTL:        ttl,
		CORSOrigins:   []string{"*"},
		AdminUsername: AdminUsername,
		AdminPassword: AdminPassword,
	}, reg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("start stub: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &Stub{Server: ts, Registry: reg}
}
