package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/lifelink/internal/http/respond"
	"github.com/hongminglow/lifelink/internal/middleware"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/registry"
)

// requestID tags a log entry with the id Logging assigned to r.
func requestID(r *http.Request) zap.Field {
	return zap.String("request_id", middleware.RequestIDFromContext(r.Context()))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// currentAccount resolves the authenticated account and, when role is set,
// rejects accounts without it with 403.
func currentAccount(w http.ResponseWriter, r *http.Request, reg *registry.Registry, role models.Role) (registry.Account, bool) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
		return registry.Account{}, false
	}
	account, err := reg.FindAccount(username)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "account no longer exists")
		return registry.Account{}, false
	}
	if role != "" && !account.Roles.Has(role) {
		respond.Error(w, http.StatusForbidden, "Access is denied")
		return registry.Account{}, false
	}
	return account, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func respondTransitionError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		respond.Error(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, registry.ErrInvalidTransition):
		respond.Error(w, http.StatusBadRequest, "Only pending "+what+"s can be changed")
	default:
		respond.Error(w, http.StatusInternalServerError, "failed to update "+what)
	}
}
