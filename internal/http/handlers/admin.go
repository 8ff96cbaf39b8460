package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/lifelink/internal/http/respond"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/registry"
)

// AdminHandler serves the review and matching routes.
type AdminHandler struct {
	reg *registry.Registry
}

func NewAdminHandler(reg *registry.Registry) *AdminHandler {
	return &AdminHandler{reg: reg}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/admin/donations", h.handleDonations)
	r.Get("/admin/requests", h.handleRequests)
	r.Get("/admin/matches", h.handleMatches)
	r.Put("/admin/donations/{id}/approve", h.decideDonation(models.StatusApproved))
	r.Put("/admin/donations/{id}/reject", h.decideDonation(models.StatusRejected))
	r.Put("/admin/requests/{id}/approve", h.decideRequest(models.StatusApproved))
	r.Put("/admin/requests/{id}/reject", h.decideRequest(models.StatusRejected))
}

func (h *AdminHandler) handleDonations(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentAccount(w, r, h.reg, models.RoleAdmin); !ok {
		return
	}
	respond.JSON(w, http.StatusOK, h.reg.Donations(""))
}

func (h *AdminHandler) handleRequests(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentAccount(w, r, h.reg, models.RoleAdmin); !ok {
		return
	}
	respond.JSON(w, http.StatusOK, h.reg.Requests(""))
}

func (h *AdminHandler) handleMatches(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentAccount(w, r, h.reg, models.RoleAdmin); !ok {
		return
	}
	matches := h.reg.Matches()
	if matches == nil {
		matches = []models.Match{}
	}
	respond.JSON(w, http.StatusOK, matches)
}

func (h *AdminHandler) decideDonation(status models.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentAccount(w, r, h.reg, models.RoleAdmin); !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		d, err := h.reg.TransitionDonation(id, "", status)
		if err != nil {
			respondTransitionError(w, err, "donation")
			return
		}
		respond.JSON(w, http.StatusOK, d)
	}
}

func (h *AdminHandler) decideRequest(status models.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentAccount(w, r, h.reg, models.RoleAdmin); !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		req, err := h.reg.TransitionRequest(id, "", status)
		if err != nil {
			respondTransitionError(w, err, "request")
			return
		}
		respond.JSON(w, http.StatusOK, req)
	}
}
