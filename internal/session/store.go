package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/lifelink/internal/auth"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
	"github.com/hongminglow/lifelink/internal/router"
	"github.com/hongminglow/lifelink/internal/storage"
)

// ErrInsufficientRole is returned by an admin login for an account without
// the admin role.
var ErrInsufficientRole = errors.New("you do not have administrator privileges")

// ErrNotAuthenticated is returned by operations that need a session.
var ErrNotAuthenticated = errors.New("you must be logged in")

// Authenticator performs the credential exchanges against the backend.
type Authenticator interface {
	Signin(ctx context.Context, username, password string) (dto.SigninResponse, error)
	Signup(ctx context.Context, req dto.SignupRequest) (dto.MessageResponse, error)
}

// Navigator moves the front-end to another view.
type Navigator interface {
	Navigate(path string)
}

// Store is the single source of truth for who is logged in.
type Store struct {
	local  storage.LocalStore
	auth   Authenticator
	nav    Navigator
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *models.Session
}

// New builds a Store. Initialize must run before views are rendered.
func New(local storage.LocalStore, authn Authenticator, nav Navigator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{local: local, auth: authn, nav: nav, logger: logger, now: time.Now}
}

// Initialize rehydrates the persisted session. Missing, inconsistent or
// expired state leaves the store unauthenticated and clears the keys.
func (s *Store) Initialize(ctx context.Context) error {
	token, err := s.local.Get(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		s.set(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	rawUser, err := s.local.Get(ctx, storage.KeyUser)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("read user: %w", err)
	}

	var user models.User
	switch {
	case err != nil:
		s.logger.Warn("persisted token without user record; discarding session")
		return s.clear(ctx)
	case json.Unmarshal(rawUser, &user) != nil:
		s.logger.Warn("persisted user record is malformed; discarding session")
		return s.clear(ctx)
	case strings.TrimSpace(string(token)) == "":
		return s.clear(ctx)
	case auth.Expired(string(token), s.now()):
		s.logger.Info("persisted token has expired; discarding session", zap.String("username", user.Username))
		return s.clear(ctx)
	}

	s.set(&models.Session{Token: string(token), User: user})
	return nil
}

// Login exchanges credentials for a session. With asAdmin the account must
// hold the admin role, otherwise ErrInsufficientRole is returned and nothing
// is persisted. Backend errors are returned untouched.
func (s *Store) Login(ctx context.Context, username, password string, asAdmin bool) (models.Session, error) {
	resp, err := s.auth.Signin(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return models.Session{}, errors.New("sign-in response carried no token")
	}

	sess := models.Session{Token: resp.Token, User: resp.User()}
	if asAdmin && !sess.User.Roles.Has(models.RoleAdmin) {
		return models.Session{}, ErrInsufficientRole
	}

	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return models.Session{}, fmt.Errorf("encode user: %w", err)
	}
	if err := s.local.Set(ctx, storage.KeyUser, rawUser); err != nil {
		return models.Session{}, fmt.Errorf("persist user: %w", err)
	}
	if err := s.local.Set(ctx, storage.KeyToken, []byte(sess.Token)); err != nil {
		_ = s.local.Delete(ctx, storage.KeyUser)
		return models.Session{}, fmt.Errorf("persist token: %w", err)
	}

	s.set(&sess)
	s.logger.Info("logged in", zap.String("username", sess.User.Username), zap.Bool("admin", asAdmin))
	s.nav.Navigate(router.LandingFor(sess.User.Roles))
	return sess, nil
}

// Register creates an account. It does not log the user in.
func (s *Store) Register(ctx context.Context, req dto.SignupRequest) (dto.MessageResponse, error) {
	return s.auth.Signup(ctx, req)
}

// Logout clears the session and returns to the home view. Calling it
// without a session is a no-op apart from the navigation.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	s.nav.Navigate(router.Home)
	return nil
}

// Expire is invoked by the API layer when the backend rejects the token.
func (s *Store) Expire() {
	if err := s.clear(context.Background()); err != nil {
		s.logger.Error("clear expired session", zap.Error(err))
	}
	s.nav.Navigate(router.Login)
}

// IsAuthenticated reports whether a token is persisted.
func (s *Store) IsAuthenticated() bool {
	_, err := s.local.Get(context.Background(), storage.KeyToken)
	return err == nil
}

// Current returns the in-memory session.
func (s *Store) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

// Token returns the bearer token of the current session, if any.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Roles returns the roles of the current session.
func (s *Store) Roles() models.RoleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	return s.current.User.Roles
}

// RoleOf classifies the user by the highest-precedence role held.
func (s *Store) RoleOf() (models.Role, bool) {
	return s.Roles().Primary()
}

// HasRole reports whether the logged-in user holds r.
func (s *Store) HasRole(r models.Role) bool {
	return s.Roles().Has(r)
}

func (s *Store) clear(ctx context.Context) error {
	s.set(nil)
	if err := s.local.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) set(sess *models.Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
}
