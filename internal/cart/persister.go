package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrSnapshotNotFound is returned by Load when nothing was saved for a namespace.
var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// Persister stores one serialized cart per namespace.
type Persister interface {
	Load(ctx context.Context, namespace string) ([]byte, error)
	Save(ctx context.Context, namespace string, payload []byte) error
	Name() string
}

// MemoryPersister keeps snapshots in process memory.
type MemoryPersister struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{snapshots: map[string][]byte{}}
}

func (m *MemoryPersister) Load(_ context.Context, namespace string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.snapshots[namespace]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemoryPersister) Save(_ context.Context, namespace string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[namespace] = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryPersister) Name() string {
	return "memory"
}

// Ping always succeeds.
func (m *MemoryPersister) Ping(context.Context) error {
	return nil
}
