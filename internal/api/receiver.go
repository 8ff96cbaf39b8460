package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
)

// RequestOrgan files an organ request for the current receiver.
func (c *Client) RequestOrgan(ctx context.Context, req dto.OrganRequestForm) (models.OrganRequest, error) {
	var out models.OrganRequest
	err := c.do(ctx, http.MethodPost, "/receiver/request", req, &out)
	return out, err
}

// Requests lists the current receiver's organ requests.
func (c *Client) Requests(ctx context.Context) ([]models.OrganRequest, error) {
	var out []models.OrganRequest
	err := c.do(ctx, http.MethodGet, "/receiver/requests", nil, &out)
	return out, err
}

func (c *Client) CancelRequest(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/receiver/requests/%d/cancel", id), nil, nil)
}
