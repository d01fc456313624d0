package state

import (
	"context"
	"sync"
)

// MemoryPersister keeps the snapshot in memory. Used in tests and as a
// fallback when no database is configured.
type MemoryPersister struct {
	mu   sync.Mutex
	data []byte

	// FailNext makes the next Save return FailErr, then clears itself
	FailNext bool
	FailErr  error
}

// NewMemoryPersister creates an empty in-memory persister
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// Load returns the stored blob or ErrNotFound
func (m *MemoryPersister) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save stores the blob
func (m *MemoryPersister) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext {
		m.FailNext = false
		return m.FailErr
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}
