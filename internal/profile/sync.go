// Package profile keeps the user's profile in step between the local cache
// and the backend. The cache is written before any server call so a failed
// sync never loses the user's input.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/lifelink/internal/api"
	"github.com/hongminglow/lifelink/internal/forms"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/noise"
	"github.com/hongminglow/lifelink/internal/session"
	"github.com/hongminglow/lifelink/internal/storage"
)

const (
	NoticeSynced         = "Profile updated successfully!"
	NoticeServerFailed   = "Profile saved locally. Server update failed, but your data is safe."
	NoticeNotReflected   = "Profile saved locally. Changes may not be reflected on the server."
	NoticeCompleteFirst  = "Please complete your profile to continue using the platform."
	msgLoadFailed        = "Could not retrieve profile from server."
	msgPasswordChanged   = "Password changed successfully!"
	msgPasswordNoFeature = "Password change feature is not available yet. Please contact support."
	msgPasswordWrong     = "Current password is incorrect"
	msgPasswordFailed    = "Failed to change password. Please try again later."
)

// Backend is the slice of the API client profile sync needs.
type Backend interface {
	Profile(ctx context.Context) (api.ProfileDocument, error)
	RoleProfile(ctx context.Context, role models.Role) (api.ProfileDocument, error)
	CreateProfile(ctx context.Context, role models.Role, p models.Profile) error
	UpdateProfile(ctx context.Context, role models.Role, p models.Profile) error
	UpdateProfileGeneric(ctx context.Context, p models.Profile) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// Identity yields the logged-in user.
type Identity interface {
	Current() (models.Session, bool)
}

// Source tells where the profile shown in a View came from.
type Source int

const (
	SourceNone Source = iota
	SourceLocal
	SourceServer
)

// View is the state of the profile screen after Load.
type View struct {
	Profile models.Profile
	Roles   models.RoleSet
	Source  Source
	// Complete holds when every field required for Roles is filled.
	Complete bool
	// ForceEdit opens the editor; set whenever the profile is incomplete.
	ForceEdit bool
	Error     string
}

// Outcome distinguishes a server-confirmed save from a local-only one.
type Outcome int

const (
	Synced Outcome = iota + 1
	SavedLocally
)

func (o Outcome) String() string {
	switch o {
	case Synced:
		return "synced"
	case SavedLocally:
		return "saved-locally"
	default:
		return "unknown"
	}
}

// Result reports a Submit.
type Result struct {
	Outcome  Outcome
	Strategy string
	Profile  models.Profile
	Complete bool
	Notice   string
	// ServerError is the backend's explanation of the last failed write,
	// when it is worth showing.
	ServerError string
}

// cacheRecord is what the userProfile key holds. Owner scopes the cache to
// one account on a shared machine.
type cacheRecord struct {
	Owner   string         `json:"owner"`
	Profile models.Profile `json:"profile"`
}

// Sync loads and saves the profile of the current user.
type Sync struct {
	backend  Backend
	local    storage.LocalStore
	identity Identity
	filter   *noise.Filter
	logger   *zap.Logger
	now      func() time.Time
}

func NewSync(backend Backend, local storage.LocalStore, identity Identity, filter *noise.Filter, logger *zap.Logger) *Sync {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filter == nil {
		filter = noise.NewFilter(nil)
	}
	return &Sync{
		backend:  backend,
		local:    local,
		identity: identity,
		filter:   filter,
		logger:   logger,
		now:      time.Now,
	}
}

// Complete reports whether p fills every field required for roles.
func Complete(p models.Profile, roles models.RoleSet) bool {
	return len(p.Missing(roles)) == 0
}

// writeRole picks the role-specific routes used for reads and writes.
func writeRole(roles models.RoleSet) models.Role {
	switch {
	case roles.Has(models.RoleDonor):
		return models.RoleDonor
	case roles.Has(models.RoleReceiver):
		return models.RoleReceiver
	default:
		return ""
	}
}

// Load shows the cached profile first and replaces it with the server copy
// when the server has usable data. If ctx ends while the server is being
// asked, nothing is written and ctx's error is returned.
func (s *Sync) Load(ctx context.Context) (View, error) {
	sess, ok := s.identity.Current()
	if !ok {
		return View{}, session.ErrNotAuthenticated
	}
	user := sess.User
	view := View{Roles: user.Roles}

	cached, found, err := s.Cached(ctx, user.Username)
	if err != nil {
		s.logger.Warn("read cached profile", zap.Error(err))
	}
	if found {
		view.Profile = withIdentity(cached, user)
		view.Source = SourceLocal
	}

	doc, fetchErr := s.fetch(ctx, writeRole(user.Roles))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return View{}, ctxErr
	}
	// A 401 has already ended the session; the cached copy is not shown.
	if _, ok := s.identity.Current(); !ok || unauthorized(fetchErr) {
		return View{}, session.ErrNotAuthenticated
	}

	switch {
	case doc.Usable():
		view.Profile = withIdentity(doc.Profile, user)
		view.Source = SourceServer
		if err := s.store(ctx, user.Username, view.Profile); err != nil {
			s.logger.Warn("cache server profile", zap.Error(err))
		}
		if s.filter.Show(doc.Message) {
			view.Error = doc.Message
		}
	case fetchErr != nil && view.Source == SourceNone:
		view.Error = s.filter.Message(fetchErr, msgLoadFailed)
	case fetchErr != nil:
		s.logger.Info("server profile unavailable; showing cached copy", zap.Error(fetchErr))
	}

	if view.Source == SourceNone {
		view.Profile = withIdentity(models.Profile{}, user)
	}
	view.Complete = Complete(view.Profile, user.Roles)
	view.ForceEdit = !view.Complete
	if view.ForceEdit && view.Error == "" {
		view.Error = NoticeCompleteFirst
	}
	return view, nil
}

// fetch asks the generic endpoint, then the role endpoint when the first
// answer is an error or carries nothing usable.
func (s *Sync) fetch(ctx context.Context, role models.Role) (api.ProfileDocument, error) {
	doc, err := s.backend.Profile(ctx)
	if err == nil && doc.Usable() {
		return doc, nil
	}
	if role == "" || ctx.Err() != nil || unauthorized(err) {
		return doc, err
	}
	s.logger.Debug("generic profile unusable; trying role endpoint", zap.String("role", string(role)), zap.Error(err))

	roleDoc, roleErr := s.backend.RoleProfile(ctx, role)
	if roleErr == nil {
		return roleDoc, nil
	}
	if err == nil {
		return doc, roleErr
	}
	return doc, err
}

// Submit validates p, caches it, then tries the server write strategies in
// order. Validation failures are *forms.Error and happen before any write.
func (s *Sync) Submit(ctx context.Context, p models.Profile) (Result, error) {
	sess, ok := s.identity.Current()
	if !ok {
		return Result{}, session.ErrNotAuthenticated
	}
	roles := sess.User.Roles
	if err := forms.Profile(p, roles, s.now()); err != nil {
		return Result{}, err
	}

	if err := s.store(ctx, sess.User.Username, p); err != nil {
		return Result{}, fmt.Errorf("save profile locally: %w", err)
	}

	res := Result{Profile: p, Complete: Complete(p, roles)}
	role := writeRole(roles)
	strategies := []struct {
		name string
		run  func(context.Context) error
	}{
		{"create", func(ctx context.Context) error { return s.backend.CreateProfile(ctx, role, p) }},
		{"update", func(ctx context.Context) error { return s.backend.UpdateProfile(ctx, role, p) }},
		{"generic", func(ctx context.Context) error { return s.backend.UpdateProfileGeneric(ctx, p) }},
	}

	var lastErr error
	for _, st := range strategies {
		if ctx.Err() != nil {
			break
		}
		err := st.run(ctx)
		if err == nil {
			s.logger.Info("profile synced",
				zap.String("username", sess.User.Username),
				zap.String("strategy", st.name))
			res.Outcome = Synced
			res.Strategy = st.name
			res.Notice = NoticeSynced
			return res, nil
		}
		s.logger.Debug("profile write strategy failed", zap.String("strategy", st.name), zap.Error(err))
		lastErr = err
		if unauthorized(err) {
			break
		}
	}

	res.Outcome = SavedLocally
	res.Notice = NoticeNotReflected
	if api.StatusOf(lastErr) == http.StatusInternalServerError {
		res.Notice = NoticeServerFailed
	}
	if msg := api.ServerMessageOf(lastErr); s.filter.Show(msg) {
		res.ServerError = msg
	}
	s.logger.Warn("profile saved locally only",
		zap.String("username", sess.User.Username),
		zap.Int("status_code", api.StatusOf(lastErr)),
		zap.Error(lastErr))
	return res, nil
}

func unauthorized(err error) bool {
	return api.StatusOf(err) == http.StatusUnauthorized
}

// Cached returns the profile cached for owner. A cache written for another
// account, or one that does not decode, reads as absent.
func (s *Sync) Cached(ctx context.Context, owner string) (models.Profile, bool, error) {
	raw, err := s.local.Get(ctx, storage.KeyProfile)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, false, nil
	}
	if err != nil {
		return models.Profile{}, false, err
	}
	var rec cacheRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Warn("discarding malformed cached profile", zap.Error(err))
		return models.Profile{}, false, nil
	}
	if rec.Owner != owner {
		return models.Profile{}, false, nil
	}
	return rec.Profile, true, nil
}

func (s *Sync) store(ctx context.Context, owner string, p models.Profile) error {
	raw, err := json.Marshal(cacheRecord{Owner: owner, Profile: p})
	if err != nil {
		return err
	}
	return s.local.Set(ctx, storage.KeyProfile, raw)
}

// ChangePassword validates and submits a password change and returns the
// message to show on success.
func (s *Sync) ChangePassword(ctx context.Context, current, password, confirm string) (string, error) {
	if _, ok := s.identity.Current(); !ok {
		return "", session.ErrNotAuthenticated
	}
	if err := forms.ChangePassword(current, password, confirm); err != nil {
		return "", err
	}
	err := s.backend.ChangePassword(ctx, current, password)
	if err == nil {
		return msgPasswordChanged, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	switch status := api.StatusOf(err); {
	case status == http.StatusNotFound:
		return "", errors.New(msgPasswordNoFeature)
	case status == http.StatusUnauthorized:
		return "", errors.New(msgPasswordWrong)
	}
	if msg := api.ServerMessageOf(err); s.filter.Show(msg) {
		return "", errors.New(msg)
	}
	return "", errors.New(msgPasswordFailed)
}

// withIdentity fills the name and email from the account when the profile
// lacks them. Medical fields are never invented.
func withIdentity(p models.Profile, user models.User) models.Profile {
	first, last := user.NameParts()
	if p.FirstName == "" {
		p.FirstName = first
	}
	if p.LastName == "" {
		p.LastName = last
	}
	if p.Email == "" {
		p.Email = user.Email
	}
	return p
}
