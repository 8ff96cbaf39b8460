package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/lifelink/internal/models"
)

func TestGenerateAndVerify(t *testing.T) {
	tm := NewTokenManager("secret", "lifelink-test", time.Hour)
	token, err := tm.Generate(models.User{ID: 7, Username: "alice", Roles: models.NewRoleSet(models.RoleDonor)})
	require.NoError(t, err)

	sub, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	other := NewTokenManager("other", "lifelink-test", time.Hour)
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	tm := NewTokenManager("secret", "lifelink-test", time.Minute)
	token, err := tm.Generate(models.User{Username: "bob"})
	require.NoError(t, err)

	exp, ok := ExpiresAt(token)
	require.True(t, ok)
	assert.False(t, Expired(token, time.Now()))
	assert.True(t, Expired(token, exp))
	assert.True(t, Expired(token, time.Now().Add(2*time.Minute)))

	assert.False(t, Expired("opaque-session-token", time.Now()))
}
