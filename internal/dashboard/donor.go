package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hongminglow/lifelink/internal/forms"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
)

const (
	msgDonationsLoadFailed = "Failed to load your donations. Please try again later."
	msgDonated             = "Your donation has been registered successfully!"
	msgDonateFailed        = "Failed to register your donation. Please try again."
	msgDonationCancelled   = "Your donation has been cancelled successfully."
	msgDonationCancelFail  = "Failed to cancel your donation. Please try again."
	msgDonationNotPending  = "Only pending donations can be cancelled."
)

// DonorAPI is what the donor board needs from the backend.
type DonorAPI interface {
	Donate(ctx context.Context, req dto.DonationRequest) (models.Donation, error)
	Donations(ctx context.Context) ([]models.Donation, error)
	CancelDonation(ctx context.Context, id int64) error
}

type DonorView struct {
	Donations []models.Donation
	// Error is the banner shown when the list could not be read.
	Error string
	Alert *Alert
}

// Cancelable returns the donations the donor may still withdraw.
func (v DonorView) Cancelable() []models.Donation {
	var out []models.Donation
	for _, d := range v.Donations {
		if d.Cancelable() {
			out = append(out, d)
		}
	}
	return out
}

type DonorBoard struct {
	backend DonorAPI
	logger  *zap.Logger

	mu   sync.Mutex
	view DonorView
}

func NewDonorBoard(backend DonorAPI, logger *zap.Logger) *DonorBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonorBoard{backend: backend, logger: logger, view: DonorView{Donations: []models.Donation{}}}
}

// Refresh reloads the donation list.
func (b *DonorBoard) Refresh(ctx context.Context) DonorView {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Alert = nil
	b.reload(ctx)
	return b.snapshot()
}

// Donate validates and submits a donation, then reloads the list.
func (b *DonorBoard) Donate(ctx context.Context, req dto.DonationRequest) DonorView {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := forms.Donation(req); err != nil {
		b.view.Alert = failure(err.Error())
		return b.snapshot()
	}
	if _, err := b.backend.Donate(ctx, req); err != nil {
		b.logger.Warn("register donation", zap.String("organ_type", string(req.OrganType)), zap.Error(err))
		b.view.Alert = failure(msgDonateFailed)
		return b.snapshot()
	}
	b.reload(ctx)
	b.view.Alert = success(msgDonated)
	return b.snapshot()
}

// Cancel withdraws a pending donation, then reloads the list.
func (b *DonorBoard) Cancel(ctx context.Context, id int64) DonorView {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.view.Donations {
		if d.ID == id && !d.Cancelable() {
			b.view.Alert = failure(msgDonationNotPending)
			return b.snapshot()
		}
	}
	if err := b.backend.CancelDonation(ctx, id); err != nil {
		b.logger.Warn("cancel donation", zap.Int64("donation_id", id), zap.Error(err))
		b.view.Alert = failure(msgDonationCancelFail)
		return b.snapshot()
	}
	b.reload(ctx)
	b.view.Alert = success(msgDonationCancelled)
	return b.snapshot()
}

func (b *DonorBoard) reload(ctx context.Context) {
	donations, err := b.backend.Donations(ctx)
	if err != nil {
		b.logger.Warn("load donations", zap.Error(err))
		b.view.Donations = []models.Donation{}
		b.view.Error = msgDonationsLoadFailed
		return
	}
	if donations == nil {
		donations = []models.Donation{}
	}
	b.view.Donations = donations
	b.view.Error = ""
}

func (b *DonorBoard) snapshot() DonorView {
	v := b.view
	v.Donations = make([]models.Donation, len(b.view.Donations))
	copy(v.Donations, b.view.Donations)
	return v
}
