package api

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zaptest"

	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
)

// TestLiveBackend registers and signs in a throwaway donor against a running
// LifeLink backend.
func TestLiveBackend(t *testing.T) {
	if os.Getenv("RUN_API_INTEGRATION") != "true" {
		t.Skip("set RUN_API_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	baseURL := mustGetEnv(t, "LIFELINK_API_URL")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := New(baseURL, zaptest.NewLogger(t))
	username := fmt.Sprintf("apitest_%d", time.Now().UnixNano())
	password := fmt.Sprintf("Pass!%d", time.Now().UnixNano())

	if _, err := c.Signup(ctx, dto.SignupRequest{
		FullName: "Api Test",
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		UserType: models.UserTypeDonor,
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	resp, err := c.Signin(ctx, username, password)
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if strings.TrimSpace(resp.Token) == "" {
		t.Fatal("signin response missing token")
	}
	if !resp.Roles.Has(models.RoleDonor) {
		t.Fatalf("signin roles = %v, want donor", resp.Roles)
	}

	c.UseSession(staticToken(resp.Token))
	if _, err := c.Donations(ctx); err != nil {
		t.Fatalf("list donations: %v", err)
	}

	t.Logf("created donor %s (id=%d) against %s", username, resp.ID, baseURL)
}

type staticToken string

func (s staticToken) Token() string { return string(s) }
func (s staticToken) Expire()       {}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
