package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/lifelink/internal/http/respond"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/registry"
)

// ProfileHandler serves the patient profile routes.
type ProfileHandler struct {
	reg *registry.Registry
}

func NewProfileHandler(reg *registry.Registry) *ProfileHandler {
	return &ProfileHandler{reg: reg}
}

// Register attaches the profile routes; all of them need a session.
func (h *ProfileHandler) Register(r chi.Router) {
	r.Get("/patient/profile", h.get(""))
	r.Post("/patient/profile", h.create(""))
	r.Put("/patient/profile/update", h.update(""))
	r.Get("/patient/profile/donor", h.get(models.RoleDonor))
	r.Post("/patient/profile/donor", h.create(models.RoleDonor))
	r.Put("/patient/profile/donor", h.update(models.RoleDonor))
	r.Get("/patient/profile/receiver", h.get(models.RoleReceiver))
	r.Post("/patient/profile/receiver", h.create(models.RoleReceiver))
	r.Put("/patient/profile/receiver", h.update(models.RoleReceiver))
}

func (h *ProfileHandler) get(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := currentAccount(w, r, h.reg, role)
		if !ok {
			return
		}
		p, err := h.reg.Profile(account.Username)
		if err != nil {
			respond.Error(w, http.StatusNotFound, "Profile not found")
			return
		}
		respond.JSON(w, http.StatusOK, p)
	}
}

func (h *ProfileHandler) create(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := currentAccount(w, r, h.reg, role)
		if !ok {
			return
		}
		var p models.Profile
		if !decodeJSON(w, r, &p) {
			return
		}
		if err := h.reg.CreateProfile(account.Username, p); err != nil {
			if errors.Is(err, registry.ErrAlreadyExists) {
				respond.Error(w, http.StatusConflict, "Profile already exists")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to save profile")
			return
		}
		respond.JSON(w, http.StatusCreated, p)
	}
}

func (h *ProfileHandler) update(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := currentAccount(w, r, h.reg, role)
		if !ok {
			return
		}
		var p models.Profile
		if !decodeJSON(w, r, &p) {
			return
		}
		if err := h.reg.UpdateProfile(account.Username, p); err != nil {
			if errors.Is(err, registry.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "Profile not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to save profile")
			return
		}
		respond.JSON(w, http.StatusOK, p)
	}
}
