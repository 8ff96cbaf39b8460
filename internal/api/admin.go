package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hongminglow/lifelink/internal/models"
)

// Decision is an admin verdict on a pending donation or request.
type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

func (c *Client) AdminDonations(ctx context.Context) ([]models.Donation, error) {
	var out []models.Donation
	err := c.do(ctx, http.MethodGet, "/admin/donations", nil, &out)
	return out, err
}

func (c *Client) AdminRequests(ctx context.Context) ([]models.OrganRequest, error) {
	var out []models.OrganRequest
	err := c.do(ctx, http.MethodGet, "/admin/requests", nil, &out)
	return out, err
}

// Matches lists server-computed donation/request pairings.
func (c *Client) Matches(ctx context.Context) ([]models.Match, error) {
	var out []models.Match
	err := c.do(ctx, http.MethodGet, "/admin/matches", nil, &out)
	return out, err
}

// DecideDonation approves or rejects a donation.
func (c *Client) DecideDonation(ctx context.Context, id int64, d Decision) error {
	return c.decide(ctx, "donations", id, d)
}

// DecideRequest approves or rejects an organ request.
func (c *Client) DecideRequest(ctx context.Context, id int64, d Decision) error {
	return c.decide(ctx, "requests", id, d)
}

func (c *Client) ApproveDonation(ctx context.Context, id int64) error {
	return c.DecideDonation(ctx, id, Approve)
}

func (c *Client) RejectDonation(ctx context.Context, id int64) error {
	return c.DecideDonation(ctx, id, Reject)
}

func (c *Client) ApproveRequest(ctx context.Context, id int64) error {
	return c.DecideRequest(ctx, id, Approve)
}

func (c *Client) RejectRequest(ctx context.Context, id int64) error {
	return c.DecideRequest(ctx, id, Reject)
}

func (c *Client) decide(ctx context.Context, kind string, id int64, d Decision) error {
	switch d {
	case Approve, Reject:
	default:
		return fmt.Errorf("unknown decision %q", d)
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/%s/%d/%s", kind, id, d), nil, nil)
}
