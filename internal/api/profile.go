package api

import (
	"context"
	"net/http"

	"github.com/hongminglow/lifelink/internal/models"
)

const (
	pathProfile        = "/patient/profile"
	pathProfileUpdate  = "/patient/profile/update"
	pathProfileDonor   = "/patient/profile/donor"
	pathProfileReceive = "/patient/profile/receiver"
)

// ProfileDocument is a profile as served by the backend. Message is set
// when the backend answers with a notice instead of, or besides, data.
type ProfileDocument struct {
	models.Profile
	Message string `json:"message,omitempty"`
}

// Usable reports whether the document carries any identifying profile data.
func (d ProfileDocument) Usable() bool {
	return d.FirstName != "" || d.LastName != "" || d.Email != ""
}

// RoleProfilePath returns the role-specific profile route, or false for
// roles without one.
func RoleProfilePath(role models.Role) (string, bool) {
	switch role {
	case models.RoleDonor:
		return pathProfileDonor, true
	case models.RoleReceiver:
		return pathProfileReceive, true
	default:
		return "", false
	}
}

// Profile fetches the caller's profile from the generic endpoint.
func (c *Client) Profile(ctx context.Context) (ProfileDocument, error) {
	var out ProfileDocument
	err := c.do(ctx, http.MethodGet, pathProfile, nil, &out)
	return out, err
}

// RoleProfile fetches the profile from the donor or receiver endpoint.
func (c *Client) RoleProfile(ctx context.Context, role models.Role) (ProfileDocument, error) {
	path, ok := RoleProfilePath(role)
	if !ok {
		path = pathProfile
	}
	var out ProfileDocument
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// CreateProfile POSTs to the role route, or to the generic create route when
// the role has none.
func (c *Client) CreateProfile(ctx context.Context, role models.Role, p models.Profile) error {
	path, ok := RoleProfilePath(role)
	if !ok {
		path = pathProfile
	}
	return c.do(ctx, http.MethodPost, path, p, nil)
}

// UpdateProfile PUTs to the role route, or to the generic update route when
// the role has none.
func (c *Client) UpdateProfile(ctx context.Context, role models.Role, p models.Profile) error {
	path, ok := RoleProfilePath(role)
	if !ok {
		path = pathProfileUpdate
	}
	return c.do(ctx, http.MethodPut, path, p, nil)
}

// UpdateProfileGeneric PUTs to the role-agnostic update route.
func (c *Client) UpdateProfileGeneric(ctx context.Context, p models.Profile) error {
	return c.do(ctx, http.MethodPut, pathProfileUpdate, p, nil)
}
