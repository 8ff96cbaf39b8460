package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hongminglow/lifelink/internal/forms"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
	"github.com/hongminglow/lifelink/internal/noise"
)

const (
	msgRequestsLoadFailed = "Failed to load your organ requests. Please try again later."
	msgRequested          = "Your organ request has been submitted successfully!"
	msgRequestFailed      = "Failed to submit your request. Please try again."
	msgRequestCancelled   = "Your request has been cancelled successfully."
	msgRequestCancelFail  = "Failed to cancel your request. Please try again."
	msgRequestNotPending  = "Only pending requests can be cancelled."
)

// ReceiverAPI is what the receiver board needs from the backend.
type ReceiverAPI interface {
	RequestOrgan(ctx context.Context, req dto.OrganRequestForm) (models.OrganRequest, error)
	Requests(ctx context.Context) ([]models.OrganRequest, error)
	CancelRequest(ctx context.Context, id int64) error
}

type ReceiverView struct {
	Requests []models.OrganRequest
	Error    string
	Alert    *Alert
}

// Cancelable returns the requests the receiver may still withdraw.
func (v ReceiverView) Cancelable() []models.OrganRequest {
	var out []models.OrganRequest
	for _, r := range v.Requests {
		if r.Cancelable() {
			out = append(out, r)
		}
	}
	return out
}

// NewRequestForm is the blank request form; urgency starts at MEDIUM.
func NewRequestForm() dto.OrganRequestForm {
	return dto.OrganRequestForm{UrgencyLevel: models.UrgencyMedium}
}

type ReceiverBoard struct {
	backend ReceiverAPI
	filter  *noise.Filter
	logger  *zap.Logger

	mu   sync.Mutex
	view ReceiverView
}

func NewReceiverBoard(backend ReceiverAPI, filter *noise.Filter, logger *zap.Logger) *ReceiverBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filter == nil {
		filter = noise.NewFilter(nil)
	}
	return &ReceiverBoard{
		backend: backend,
		filter:  filter,
		logger:  logger,
		view:    ReceiverView{Requests: []models.OrganRequest{}},
	}
}

// Refresh reloads the request list. A failed read leaves an empty list and
// a banner.
func (b *ReceiverBoard) Refresh(ctx context.Context) ReceiverView {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Alert = nil
	b.reload(ctx)
	return b.snapshot()
}

func (b *ReceiverBoard) Request(ctx context.Context, req dto.OrganRequestForm) ReceiverView {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := forms.OrganRequest(req); err != nil {
		b.view.Alert = failure(err.Error())
		return b.snapshot()
	}
	if _, err := b.backend.RequestOrgan(ctx, req); err != nil {
		b.logger.Warn("submit organ request", zap.String("organ_type", string(req.OrganType)), zap.Error(err))
		b.view.Alert = failure(b.filter.Message(err, msgRequestFailed))
		return b.snapshot()
	}
	b.reload(ctx)
	b.view.Alert = success(msgRequested)
	return b.snapshot()
}

func (b *ReceiverBoard) Cancel(ctx context.Context, id int64) ReceiverView {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.view.Requests {
		if r.ID == id && !r.Cancelable() {
			b.view.Alert = failure(msgRequestNotPending)
			return b.snapshot()
		}
	}
	if err := b.backend.CancelRequest(ctx, id); err != nil {
		b.logger.Warn("cancel organ request", zap.Int64("request_id", id), zap.Error(err))
		b.view.Alert = failure(b.filter.Message(err, msgRequestCancelFail))
		return b.snapshot()
	}
	b.reload(ctx)
	b.view.Alert = success(msgRequestCancelled)
	return b.snapshot()
}

func (b *ReceiverBoard) reload(ctx context.Context) {
	requests, err := b.backend.Requests(ctx)
	if err != nil {
		b.logger.Warn("load organ requests", zap.Error(err))
		b.view.Requests = []models.OrganRequest{}
		b.view.Error = msgRequestsLoadFailed
		return
	}
	if requests == nil {
		requests = []models.OrganRequest{}
	}
	b.view.Requests = requests
	b.view.Error = ""
}

func (b *ReceiverBoard) snapshot() ReceiverView {
	v := b.view
	v.Requests = make([]models.OrganRequest, len(b.view.Requests))
	copy(v.Requests, b.view.Requests)
	return v
}
