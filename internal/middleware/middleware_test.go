package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type staticVerifier map[string]string

func (v staticVerifier) Verify(raw string) (string, error) {
	if u, ok := v[raw]; ok {
		return u, nil
	}
	return "", errors.New("bad token")
}

func TestRequireAuth(t *testing.T) {
	var seen string
	h := RequireAuth(staticVerifier{"good": "alice"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UsernameFromContext(r.Context())
	}))

	for _, header := range []string{"", "Bearer ", "Bearer bad", "Basic good"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", seen)
}

func TestLoggingKeepsValidRequestID(t *testing.T) {
	const id = "8b1d7a4e-2b8f-4f59-9a43-2f3c6f0c9b11"
	var inner string
	h := Logging(zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, id)
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, inner)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}
