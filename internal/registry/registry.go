// Package registry is the in-memory record keeper behind the development
// API server.
package registry

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/lifelink/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInvalidTransition indicates a status change from a non-pending record.
var ErrInvalidTransition = errors.New("only pending records can change status")

// Account is a registered user with credentials.
type Account struct {
	models.User
	PasswordHash string
}

type donation struct {
	models.Donation
	owner string
}

type organRequest struct {
	models.OrganRequest
	owner string
}

// Registry keeps accounts, profiles, donations and requests in memory.
type Registry struct {
	mu          sync.RWMutex
	now         func() time.Time
	nextID      int64
	accounts    map[string]*Account
	profiles    map[string]models.Profile
	donations   []*donation
	requests    []*organRequest
	resetTokens map[string]string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		now:         time.Now,
		accounts:    make(map[string]*Account),
		profiles:    make(map[string]models.Profile),
		resetTokens: make(map[string]string),
	}
}

func (r *Registry) id() int64 {
	r.nextID++
	return r.nextID
}

// CreateAccount stores a new account; usernames and emails are unique.
func (r *Registry) CreateAccount(a Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.Username]; ok {
		return Account{}, ErrAlreadyExists
	}
	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return Account{}, ErrAlreadyExists
		}
	}
	a.ID = r.id()
	stored := a
	r.accounts[a.Username] = &stored
	return stored, nil
}

func (r *Registry) FindAccount(username string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[username]
	if !ok {
		return Account{}, ErrNotFound
	}
	return *a, nil
}

func (r *Registry) SetPasswordHash(username, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[username]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

// IssueResetToken creates a one-time reset token for the account with email.
func (r *Registry) IssueResetToken(email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			token := uuid.NewString()
			r.resetTokens[token] = a.Username
			return token, nil
		}
	}
	return "", ErrNotFound
}

// ResetTokenOwner returns the username a reset token was issued for.
func (r *Registry) ResetTokenOwner(token string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	username, ok := r.resetTokens[token]
	if !ok {
		return "", ErrNotFound
	}
	return username, nil
}

func (r *Registry) ConsumeResetToken(token string) {
	r.mu.Lock()
	delete(r.resetTokens, token)
	r.mu.Unlock()
}

func (r *Registry) Profile(username string) (models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[username]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return p, nil
}

// CreateProfile fails with ErrAlreadyExists when the user has a profile.
func (r *Registry) CreateProfile(username string, p models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[username]; ok {
		return ErrAlreadyExists
	}
	r.profiles[username] = p
	return nil
}

// UpdateProfile fails with ErrNotFound when the user has no profile.
func (r *Registry) UpdateProfile(username string, p models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[username]; !ok {
		return ErrNotFound
	}
	r.profiles[username] = p
	return nil
}

func (r *Registry) party(username string) *models.Party {
	a, ok := r.accounts[username]
	if !ok {
		return nil
	}
	user := a.User
	p := r.profiles[username]
	return &models.Party{ID: a.ID, BloodType: p.BloodType, MedicalHistory: p.MedicalHistory, User: &user}
}

// AddDonation records a pending donation owned by username.
func (r *Registry) AddDonation(username string, organ models.OrganType, notes string) models.Donation {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	d := &donation{
		Donation: models.Donation{
			ID:           r.id(),
			OrganType:    organ,
			MedicalNotes: notes,
			Status:       models.StatusPending,
			CreatedAt:    &now,
			UpdatedAt:    &now,
		},
		owner: username,
	}
	r.donations = append(r.donations, d)
	return r.donationView(d)
}

func (r *Registry) donationView(d *donation) models.Donation {
	out := d.Donation
	out.Donor = r.party(d.owner)
	return out
}

// Donations lists donations owned by username, or all when username is empty.
func (r *Registry) Donations(username string) []models.Donation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Donation, 0, len(r.donations))
	for _, d := range r.donations {
		if username == "" || d.owner == username {
			out = append(out, r.donationView(d))
		}
	}
	return out
}

// TransitionDonation moves a pending donation to status. A non-empty owner
// restricts the change to that donor's records.
func (r *Registry) TransitionDonation(id int64, owner string, status models.Status) (models.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.donations {
		if d.ID != id || (owner != "" && d.owner != owner) {
			continue
		}
		if d.Status != models.StatusPending {
			return models.Donation{}, ErrInvalidTransition
		}
		now := r.now()
		d.Status = status
		d.UpdatedAt = &now
		return r.donationView(d), nil
	}
	return models.Donation{}, ErrNotFound
}

// AddRequest records a pending organ request owned by username.
func (r *Registry) AddRequest(username string, organ models.OrganType, urgency models.Urgency, notes string, doctorApproval bool) models.OrganRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	req := &organRequest{
		OrganRequest: models.OrganRequest{
			ID:             r.id(),
			OrganType:      organ,
			UrgencyLevel:   urgency,
			MedicalNotes:   notes,
			DoctorApproval: doctorApproval,
			RequestStatus:  models.StatusPending,
			CreatedAt:      &now,
			UpdatedAt:      &now,
		},
		owner: username,
	}
	r.requests = append(r.requests, req)
	return r.requestView(req)
}

func (r *Registry) requestView(req *organRequest) models.OrganRequest {
	out := req.OrganRequest
	out.Receiver = r.party(req.owner)
	if out.Receiver != nil {
		out.Receiver.WaitingSince = req.CreatedAt
	}
	return out
}

// Requests lists requests owned by username, or all when username is empty.
func (r *Registry) Requests(username string) []models.OrganRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.OrganRequest, 0, len(r.requests))
	for _, req := range r.requests {
		if username == "" || req.owner == username {
			out = append(out, r.requestView(req))
		}
	}
	return out
}

// TransitionRequest moves a pending request to status. A non-empty owner
// restricts the change to that receiver's records.
func (r *Registry) TransitionRequest(id int64, owner string, status models.Status) (models.OrganRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID != id || (owner != "" && req.owner != owner) {
			continue
		}
		if req.RequestStatus != models.StatusPending {
			return models.OrganRequest{}, ErrInvalidTransition
		}
		now := r.now()
		req.RequestStatus = status
		req.UpdatedAt = &now
		return r.requestView(req), nil
	}
	return models.OrganRequest{}, ErrNotFound
}

// Matches pairs approved donations with approved requests for the same
// organ whose blood types are compatible, best scores first.
func (r *Registry) Matches() []models.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Match
	for _, d := range r.donations {
		if d.Status != models.StatusApproved {
			continue
		}
		for _, req := range r.requests {
			if req.RequestStatus != models.StatusApproved || req.OrganType != d.OrganType {
				continue
			}
			donor, receiver := r.profiles[d.owner].BloodType, r.profiles[req.owner].BloodType
			score, ok := compatibility(donor, receiver)
			if !ok {
				continue
			}
			dv, rv := r.donationView(d), r.requestView(req)
			out = append(out, models.Match{
				ID:                 d.ID<<32 | req.ID,
				Donation:           &dv,
				Request:            &rv,
				CompatibilityScore: score,
				MatchNotes:         matchNote(donor, receiver),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompatibilityScore > out[j].CompatibilityScore
	})
	return out
}

// Stats counts what the registry holds.
type Stats struct {
	Accounts  int `json:"accounts"`
	Donations int `json:"donations"`
	Requests  int `json:"requests"`
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Accounts:  len(r.accounts),
		Donations: len(r.donations),
		Requests:  len(r.requests),
	}
}
