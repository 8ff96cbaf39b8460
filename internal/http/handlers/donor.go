package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/lifelink/internal/http/respond"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
	"github.com/hongminglow/lifelink/internal/registry"
)

// DonorHandler serves the donor routes.
type DonorHandler struct {
	reg *registry.Registry
}

func NewDonorHandler(reg *registry.Registry) *DonorHandler {
	return &DonorHandler{reg: reg}
}

func (h *DonorHandler) Register(r chi.Router) {
	r.Post("/donor/donate", h.handleDonate)
	r.Get("/donor/donations", h.handleList)
	r.Put("/donor/donations/{id}/cancel", h.handleCancel)
}

func (h *DonorHandler) handleDonate(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.reg, models.RoleDonor)
	if !ok {
		return
	}
	var req dto.DonationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !models.ValidOrgan(req.OrganType) {
		respond.Error(w, http.StatusBadRequest, "Invalid organ type")
		return
	}
	respond.JSON(w, http.StatusOK, h.reg.AddDonation(account.Username, req.OrganType, req.MedicalNotes))
}

func (h *DonorHandler) handleList(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.reg, models.RoleDonor)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, h.reg.Donations(account.Username))
}

func (h *DonorHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.reg, models.RoleDonor)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.reg.TransitionDonation(id, account.Username, models.StatusCancelled)
	if err != nil {
		respondTransitionError(w, err, "donation")
		return
	}
	respond.JSON(w, http.StatusOK, d)
}
