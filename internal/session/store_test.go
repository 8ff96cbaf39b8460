package session_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hongminglow/lifelink/internal/api"
	"github.com/hongminglow/lifelink/internal/auth"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
	"github.com/hongminglow/lifelink/internal/router"
	"github.com/hongminglow/lifelink/internal/session"
	"github.com/hongminglow/lifelink/internal/storage"
	"github.com/hongminglow/lifelink/internal/stubtest"
)

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

func (n *recordingNavigator) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.paths)
}

type fixture struct {
	stub   *stubtest.Stub
	client *api.Client
	local  *storage.Memory
	nav    *recordingNavigator
	store  *session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stub := stubtest.Start(t)
	logger := zaptest.NewLogger(t)
	client := api.New(stub.BaseURL(), logger)
	local := storage.NewMemory()
	nav := &recordingNavigator{}
	store := session.New(local, client, nav, logger)
	client.UseSession(store)
	require.NoError(t, store.Initialize(context.Background()))
	return &fixture{stub: stub, client: client, local: local, nav: nav, store: store}
}

func (f *fixture) register(t *testing.T, username string, userType models.UserType) {
	t.Helper()
	_, err := f.store.Register(context.Background(), dto.SignupRequest{
		FullName: "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: username + "-password",
		UserType: userType,
	})
	require.NoError(t, err)
}

func TestAdminLoginWithoutAdminRolePersistsNothing(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dora", models.UserTypeDonor)

	_, err := f.store.Login(context.Background(), "dora", "dora-password", true)
	require.ErrorIs(t, err, session.ErrInsufficientRole)

	assert.False(t, f.store.IsAuthenticated())
	_, ok := f.store.Current()
	assert.False(t, ok)
	_, err = f.local.Get(context.Background(), storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = f.local.Get(context.Background(), storage.KeyUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Zero(t, f.nav.Count())
}

func TestLoginLandsOnRoleDashboard(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		userType models.UserType
		asAdmin  bool
		want     string
	}{
		{name: "admin", username: stubtest.AdminUsername, password: stubtest.AdminPassword, asAdmin: true, want: router.AdminDashboard},
		{name: "donor", username: "dora", password: "dora-password", userType: models.UserTypeDonor, want: router.DonorDashboard},
		{name: "receiver", username: "rita", password: "rita-password", userType: models.UserTypeReceiver, want: router.ReceiverDashboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.userType != "" {
				f.register(t, tt.username, tt.userType)
			}

			sess, err := f.store.Login(context.Background(), tt.username, tt.password, tt.asAdmin)
			require.NoError(t, err)
			assert.Equal(t, tt.username, sess.User.Username)
			assert.Equal(t, tt.want, f.nav.Last())
			assert.True(t, f.store.IsAuthenticated())
			assert.Equal(t, sess.Token, f.store.Token())

			rawToken, err := f.local.Get(context.Background(), storage.KeyToken)
			require.NoError(t, err)
			assert.Equal(t, sess.Token, string(rawToken))
		})
	}
}

func TestBackendErrorsPropagate(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Login(context.Background(), "nobody", "wrong-password", false)
	require.Error(t, err)
	assert.Equal(t, 401, api.StatusOf(err))
	assert.False(t, f.store.IsAuthenticated())
	// A rejected sign-in runs the same expiry policy as any other call.
	assert.Equal(t, router.Login, f.nav.Last())
}

func TestInitializeRestoresPersistedSession(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dora", models.UserTypeDonor)
	sess, err := f.store.Login(context.Background(), "dora", "dora-password", false)
	require.NoError(t, err)

	restored := session.New(f.local, f.client, &recordingNavigator{}, zaptest.NewLogger(t))
	require.NoError(t, restored.Initialize(context.Background()))

	got, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, sess, got)
	role, ok := restored.RoleOf()
	require.True(t, ok)
	assert.Equal(t, models.RoleDonor, role)
	assert.True(t, restored.HasRole(models.RoleDonor))
	assert.False(t, restored.HasRole(models.RoleAdmin))
}

func TestInitializeDiscardsUnusableState(t *testing.T) {
	user, err := json.Marshal(models.User{Username: "dora", Roles: models.NewRoleSet(models.RoleDonor)})
	require.NoError(t, err)

	expired, err := auth.NewTokenManager("secret", "test", -time.Minute).Generate(models.User{Username: "dora"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		user  []byte
	}{
		{name: "expired token", token: expired, user: user},
		{name: "malformed user", token: "opaque-token", user: []byte("{not json")},
		{name: "missing user", token: "opaque-token"},
		{name: "blank token", token: "  ", user: user},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			local := storage.NewMemory()
			require.NoError(t, local.Set(ctx, storage.KeyToken, []byte(tt.token)))
			if tt.user != nil {
				require.NoError(t, local.Set(ctx, storage.KeyUser, tt.user))
			}

			store := session.New(local, nil, &recordingNavigator{}, zaptest.NewLogger(t))
			require.NoError(t, store.Initialize(ctx))

			_, ok := store.Current()
			assert.False(t, ok)
			assert.False(t, store.IsAuthenticated())
			_, err := local.Get(ctx, storage.KeyUser)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Login(context.Background(), stubtest.AdminUsername, stubtest.AdminPassword, true)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, f.store.Logout(context.Background()))
		assert.False(t, f.store.IsAuthenticated())
		assert.Empty(t, f.store.Token())
		assert.Nil(t, f.store.Roles())
		assert.Equal(t, router.Home, f.nav.Last())
	}
}

func TestUnauthorizedResponseExpiresSession(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dora", models.UserTypeDonor)
	_, err := f.store.Login(context.Background(), "dora", "dora-password", false)
	require.NoError(t, err)

	// The second stub shares the signing key but has never heard of dora.
	other := stubtest.Start(t)
	stranger := api.New(other.BaseURL(), zaptest.NewLogger(t))
	stranger.UseSession(f.store)

	_, err = stranger.Donations(context.Background())
	require.Error(t, err)
	assert.Equal(t, 401, api.StatusOf(err))

	assert.False(t, f.store.IsAuthenticated())
	_, ok := f.store.Current()
	assert.False(t, ok)
	_, err = f.local.Get(context.Background(), storage.KeyUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, router.Login, f.nav.Last())
}
