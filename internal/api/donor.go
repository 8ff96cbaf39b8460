package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
)

// Donate registers an organ donation for the current donor.
func (c *Client) Donate(ctx context.Context, req dto.DonationRequest) (models.Donation, error) {
	var out models.Donation
	err := c.do(ctx, http.MethodPost, "/donor/donate", req, &out)
	return out, err
}

// Donations lists the current donor's donations.
func (c *Client) Donations(ctx context.Context) ([]models.Donation, error) {
	var out []models.Donation
	err := c.do(ctx, http.MethodGet, "/donor/donations", nil, &out)
	return out, err
}

func (c *Client) CancelDonation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/donor/donations/%d/cancel", id), nil, nil)
}
