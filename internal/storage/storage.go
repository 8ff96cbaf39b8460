package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound indicates a key has no stored value.
var ErrNotFound = errors.New("record not found")

// Keys persisted by the client.
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeyProfile = "userProfile"
)

// LocalStore is the durable key/value storage that survives restarts of the
// client.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Ensure Memory satisfies the LocalStore interface at compile time.
var _ LocalStore = (*Memory)(nil)

// Memory is a process-local LocalStore.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
