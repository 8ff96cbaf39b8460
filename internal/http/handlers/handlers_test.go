package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hongminglow/lifelink/internal/auth"
	"github.com/hongminglow/lifelink/internal/http/handlers"
	"github.com/hongminglow/lifelink/internal/middleware"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
	"github.com/hongminglow/lifelink/internal/registry"
	"github.com/hongminglow/lifelink/internal/stubtest"
)

// TestAuthFlow exercises the signup/signin endpoints and a role-gated route.
func TestAuthFlow(t *testing.T) {
	stub := stubtest.Start(t)
	base := stub.BaseURL()

	username := fmt.Sprintf("apitest_%d", time.Now().UnixNano())
	password := "Pass!word1"
	status, _ := postJSON(t, base+"/auth/signup", "", dto.SignupRequest{
		FullName: "Api Test",
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		UserType: models.UserTypeDonor,
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = postJSON(t, base+"/auth/signup", "", dto.SignupRequest{
		Username: username, Email: "x@example.com", Password: password, UserType: models.UserTypeDonor,
	})
	require.Equal(t, http.StatusBadRequest, status)

	loggedIn := requestLogin(t, base, username, password)
	require.NotEmpty(t, strings.TrimSpace(loggedIn.Token))
	assert.True(t, loggedIn.Roles.Has(models.RoleDonor))

	status, _ = getJSON(t, base+"/donor/donations", loggedIn.Token)
	assert.Equal(t, http.StatusOK, status)
	status, _ = getJSON(t, base+"/admin/donations", loggedIn.Token)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = getJSON(t, base+"/donor/donations", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := postJSON(t, base+"/auth/signin", "", dto.SigninRequest{Username: username, Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Bad credentials")
}

func TestDonationCancelOnlyWhilePending(t *testing.T) {
	stub := stubtest.Start(t)
	base := stub.BaseURL()

	donor := signupAndLogin(t, base, "dora", models.UserTypeDonor)
	admin := requestLogin(t, base, stubtest.AdminUsername, stubtest.AdminPassword)

	status, body := postJSON(t, base+"/donor/donate", donor.Token, dto.DonationRequest{OrganType: "KIDNEY", MedicalNotes: "none"})
	require.Equal(t, http.StatusOK, status)
	var d models.Donation
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	assert.Equal(t, models.StatusPending, d.Status)

	status, _ = putJSON(t, fmt.Sprintf("%s/admin/donations/%d/approve", base, d.ID), admin.Token)
	require.Equal(t, http.StatusOK, status)

	status, _ = putJSON(t, fmt.Sprintf("%s/donor/donations/%d/cancel", base, d.ID), donor.Token)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestResetPassword(t *testing.T) {
	stub := stubtest.Start(t)
	base := stub.BaseURL()
	signupAndLogin(t, base, "rita", models.UserTypeReceiver)

	token, err := stub.Registry.IssueResetToken("rita@example.com")
	require.NoError(t, err)

	status, _ := getJSON(t, base+"/auth/reset-password?token="+token, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = postJSON(t, base+"/auth/reset-password", "", dto.ResetPasswordRequest{Token: token, NewPassword: "brand-new-pass"})
	require.Equal(t, http.StatusOK, status)

	requestLogin(t, base, "rita", "brand-new-pass")

	status, _ = getJSON(t, base+"/auth/reset-password?token="+token, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func signupAndLogin(t *testing.T, base, username string, userType models.UserType) dto.SigninResponse {
	t.Helper()
	status, body := postJSON(t, base+"/auth/signup", "", dto.SignupRequest{
		FullName: strings.ToUpper(username[:1]) + username[1:] + " Tester",
		Username: username,
		Email:    username + "@example.com",
		Password: username + "-password",
		UserType: userType,
	})
	require.Equal(t, http.StatusOK, status, body)
	return requestLogin(t, base, username, username+"-password")
}

func requestLogin(t *testing.T, base, username, password string) dto.SigninResponse {
	t.Helper()
	status, body := postJSON(t, base+"/auth/signin", "", dto.SigninRequest{Username: username, Password: password})
	if status != http.StatusOK {
		t.Fatalf("login status = %d: %s", status, body)
	}
	var out dto.SigninResponse
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return out
}

func TestHealthReportsCounts(t *testing.T) {
	stub := stubtest.Start(t)

	status, body := getJSON(t, stub.Server.URL+"/health", "")
	require.Equal(t, http.StatusOK, status)

	var health handlers.HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Counts.Accounts, "seeded admin")
	assert.Zero(t, health.Counts.Donations)
}

func TestSigninRejectionLogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := chi.NewRouter()
	r.Use(middleware.Logging(zap.NewNop()))
	handlers.NewAuthHandler(registry.New(), auth.NewTokenManager("secret", "test", time.Hour), zap.New(core)).Register(r)

	const id = "4b0f4c52-5a4e-4bb4-9d3f-0d8f4f3f8a10"
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"username":"nobody","password":"guess"}`))
	req.Header.Set(middleware.RequestIDHeader, id)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	entries := logs.FilterMessage("signin rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ContextMap()["request_id"])
	assert.Equal(t, "nobody", entries[0].ContextMap()["username"])
}

func postJSON(t *testing.T, url, token string, payload any) (int, string) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return send(t, http.MethodPost, url, token, bytes.NewReader(body))
}

func putJSON(t *testing.T, url, token string) (int, string) {
	t.Helper()
	return send(t, http.MethodPut, url, token, nil)
}

func getJSON(t *testing.T, url, token string) (int, string) {
	t.Helper()
	return send(t, http.MethodGet, url, token, nil)
}

func send(t *testing.T, method, url, token string, body *bytes.Reader) (int, string) {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, url, body)
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.String()
}
