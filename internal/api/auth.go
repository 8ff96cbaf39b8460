package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hongminglow/lifelink/internal/models/dto"
)

// Signin exchanges credentials for a token and identity.
func (c *Client) Signin(ctx context.Context, username, password string) (dto.SigninResponse, error) {
	var out dto.SigninResponse
	err := c.do(ctx, http.MethodPost, "/auth/signin", dto.SigninRequest{Username: username, Password: password}, &out)
	return out, err
}

// Signup registers a new donor or receiver account.
func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) (dto.MessageResponse, error) {
	var out dto.MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", req, &out)
	return out, err
}

// ForgotPassword asks the backend to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) (dto.MessageResponse, error) {
	var out dto.MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/forgot-password", dto.ForgotPasswordRequest{Email: email}, &out)
	return out, err
}

// ValidateResetToken checks a reset token before the new password is asked for.
func (c *Client) ValidateResetToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/auth/reset-password?token="+url.QueryEscape(token), nil, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (dto.MessageResponse, error) {
	var out dto.MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/reset-password", dto.ResetPasswordRequest{Token: token, NewPassword: newPassword}, &out)
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password", dto.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}, nil)
}
