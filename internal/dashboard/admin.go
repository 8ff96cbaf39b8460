package dashboard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/lifelink/internal/api"
	"github.com/hongminglow/lifelink/internal/models"
)

const (
	msgAdminDonationsFailed = "Failed to load donations. Please try again later."
	msgAdminRequestsFailed  = "Failed to load requests. Please try again later."
	msgAdminMatchesFailed   = "Failed to load potential matches. Please try again later."
)

// AdminAPI is what the admin board needs from the backend.
type AdminAPI interface {
	AdminDonations(ctx context.Context) ([]models.Donation, error)
	AdminRequests(ctx context.Context) ([]models.OrganRequest, error)
	Matches(ctx context.Context) ([]models.Match, error)
	DecideDonation(ctx context.Context, id int64, d api.Decision) error
	DecideRequest(ctx context.Context, id int64, d api.Decision) error
}

// AdminErrors holds one banner per list; a failing list does not hide the
// others.
type AdminErrors struct {
	Donations string
	Requests  string
	Matches   string
}

type AdminView struct {
	Donations []models.Donation
	Requests  []models.OrganRequest
	Matches   []models.Match
	Errors    AdminErrors
	Alert     *Alert
}

type AdminBoard struct {
	backend AdminAPI
	logger  *zap.Logger

	mu   sync.Mutex
	view AdminView
}

func NewAdminBoard(backend AdminAPI, logger *zap.Logger) *AdminBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminBoard{
		backend: backend,
		logger:  logger,
		view: AdminView{
			Donations: []models.Donation{},
			Requests:  []models.OrganRequest{},
			Matches:   []models.Match{},
		},
	}
}

// Refresh loads donations, requests and matches concurrently.
func (b *AdminBoard) Refresh(ctx context.Context) AdminView {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Alert = nil
	b.reload(ctx, true, true, true)
	return b.snapshot()
}

// DecideDonation approves or rejects a donation. Approval can create
// matches, so the match list is reloaded with it.
func (b *AdminBoard) DecideDonation(ctx context.Context, id int64, d api.Decision) AdminView {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.backend.DecideDonation(ctx, id, d); err != nil {
		b.logger.Warn("decide donation", zap.Int64("donation_id", id), zap.String("decision", string(d)), zap.Error(err))
		b.view.Alert = failure(fmt.Sprintf("Failed to %s donation. Please try again.", d))
		return b.snapshot()
	}
	b.reload(ctx, true, false, d == api.Approve)
	b.view.Alert = success(fmt.Sprintf("Donation has been %s successfully.", pastTense(d)))
	return b.snapshot()
}

// DecideRequest approves or rejects an organ request.
func (b *AdminBoard) DecideRequest(ctx context.Context, id int64, d api.Decision) AdminView {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.backend.DecideRequest(ctx, id, d); err != nil {
		b.logger.Warn("decide request", zap.Int64("request_id", id), zap.String("decision", string(d)), zap.Error(err))
		b.view.Alert = failure(fmt.Sprintf("Failed to %s request. Please try again.", d))
		return b.snapshot()
	}
	b.reload(ctx, false, true, d == api.Approve)
	b.view.Alert = success(fmt.Sprintf("Request has been %s successfully.", pastTense(d)))
	return b.snapshot()
}

func pastTense(d api.Decision) string {
	if d == api.Approve {
		return "approved"
	}
	return "rejected"
}

// reload fetches the selected lists in parallel. Each goroutine owns its
// slot, so the group never reports an error.
func (b *AdminBoard) reload(ctx context.Context, donations, requests, matches bool) {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	if donations {
		g.Go(func() error {
			list, err := b.backend.AdminDonations(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.logger.Warn("load all donations", zap.Error(err))
				b.view.Donations, b.view.Errors.Donations = []models.Donation{}, msgAdminDonationsFailed
				return nil
			}
			b.view.Donations, b.view.Errors.Donations = nonNil(list), ""
			return nil
		})
	}
	if requests {
		g.Go(func() error {
			list, err := b.backend.AdminRequests(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.logger.Warn("load all requests", zap.Error(err))
				b.view.Requests, b.view.Errors.Requests = []models.OrganRequest{}, msgAdminRequestsFailed
				return nil
			}
			b.view.Requests, b.view.Errors.Requests = nonNil(list), ""
			return nil
		})
	}
	if matches {
		g.Go(func() error {
			list, err := b.backend.Matches(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				b.logger.Warn("load potential matches", zap.Error(err))
				b.view.Matches, b.view.Errors.Matches = []models.Match{}, msgAdminMatchesFailed
				return nil
			}
			b.view.Matches, b.view.Errors.Matches = nonNil(list), ""
			return nil
		})
	}
	_ = g.Wait()
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func (b *AdminBoard) snapshot() AdminView {
	v := b.view
	v.Donations = append(make([]models.Donation, 0, len(b.view.Donations)), b.view.Donations...)
	v.Requests = append(make([]models.OrganRequest, 0, len(b.view.Requests)), b.view.Requests...)
	v.Matches = append(make([]models.Match, 0, len(b.view.Matches)), b.view.Matches...)
	return v
}
