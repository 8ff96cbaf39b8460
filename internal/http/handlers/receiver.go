package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/lifelink/internal/http/respond"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
	"github.com/hongminglow/lifelink/internal/registry"
)

// ReceiverHandler serves the receiver routes.
type ReceiverHandler struct {
	reg *registry.Registry
}

func NewReceiverHandler(reg *registry.Registry) *ReceiverHandler {
	return &ReceiverHandler{reg: reg}
}

func (h *ReceiverHandler) Register(r chi.Router) {
	r.Post("/receiver/request", h.handleRequest)
	r.Get("/receiver/requests", h.handleList)
	r.Put("/receiver/requests/{id}/cancel", h.handleCancel)
}

func (h *ReceiverHandler) handleRequest(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.reg, models.RoleReceiver)
	if !ok {
		return
	}
	var req dto.OrganRequestForm
	if !decodeJSON(w, r, &req) {
		return
	}
	switch {
	case !models.ValidOrgan(req.OrganType):
		respond.Error(w, http.StatusBadRequest, "Invalid organ type")
		return
	case !models.ValidUrgency(req.UrgencyLevel):
		respond.Error(w, http.StatusBadRequest, "Invalid urgency level")
		return
	case !req.DoctorApproval:
		respond.Error(w, http.StatusBadRequest, "Doctor approval is required")
		return
	}
	created := h.reg.AddRequest(account.Username, req.OrganType, req.UrgencyLevel, req.MedicalNotes, req.DoctorApproval)
	respond.JSON(w, http.StatusOK, created)
}

func (h *ReceiverHandler) handleList(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.reg, models.RoleReceiver)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, h.reg.Requests(account.Username))
}

func (h *ReceiverHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r, h.reg, models.RoleReceiver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, err := h.reg.TransitionRequest(id, account.Username, models.StatusCancelled)
	if err != nil {
		respondTransitionError(w, err, "request")
		return
	}
	respond.JSON(w, http.StatusOK, req)
}
