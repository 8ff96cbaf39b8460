package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/lifelink/internal/storage"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, storage.KeyToken, []byte("abc")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}

func TestStoreDeleteMissingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, storage.KeyUser, []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, storage.KeyToken, storage.KeyUser))
	require.NoError(t, s.Delete(ctx, storage.KeyToken, storage.KeyUser))

	_, err = s.Get(ctx, storage.KeyUser)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
