package session

import (
	"context"
	"errors"
	"sync"
)

// UserKey is the single well-known key holding the durable session record.
const UserKey = "user"

// ErrNotFound is returned by Storage.Get when nothing is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is durable per-client key/value storage.
type Storage interface {
	Get(ctx context.Context, clientID, key string) ([]byte, error)
	Set(ctx context.Context, clientID, key string, value []byte) error
	Delete(ctx context.Context, clientID, key string) error
}

// MemoryStorage keeps records in process memory. Records do not survive a restart.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func memoryKey(clientID, key string) string {
	return clientID + "\x00" + key
}

func (m *MemoryStorage) Get(_ context.Context, clientID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[memoryKey(clientID, key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Set(_ context.Context, clientID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[memoryKey(clientID, key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, clientID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memoryKey(clientID, key))
	return nil
}
