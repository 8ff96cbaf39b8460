package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/lifelink/internal/http/respond"
	"github.com/hongminglow/lifelink/internal/registry"
)

// HealthResponse reports stub liveness and what it currently holds.
type HealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime"`
	Counts registry.Stats `json:"counts"`
}

// HealthHandler serves /health outside the API prefix.
type HealthHandler struct {
	reg       *registry.Registry
	startedAt time.Time
}

func NewHealthHandler(reg *registry.Registry, startedAt time.Time) *HealthHandler {
	return &HealthHandler{reg: reg, startedAt: startedAt}
}

// Register wires the handler into a router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Truncate(time.Second).String(),
		Counts: h.reg.Stats(),
	})
}
