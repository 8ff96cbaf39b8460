package dto

import "github.com/hongminglow/lifelink/internal/models"

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SigninResponse is the flat identity document returned by /auth/signin.
type SigninResponse struct {
	Token    string         `json:"token"`
	Type     string         `json:"type,omitempty"`
	ID       int64          `json:"id"`
	Username string         `json:"username"`
	FullName string         `json:"fullName"`
	Email    string         `json:"email"`
	Roles    models.RoleSet `json:"roles"`
}

// User projects the response onto the persisted identity.
func (r SigninResponse) User() models.User {
	return models.User{
		ID:       r.ID,
		Username: r.Username,
		FullName: r.FullName,
		Email:    r.Email,
		Roles:    r.Roles,
	}
}

type SignupRequest struct {
	FullName string          `json:"fullName"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	UserType models.UserType `json:"userType"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
