package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
)

// ErrNoSavedCart is returned by Persister.Load when the slot holds no
// record. It is an expected condition, not a failure: the store starts
// from an empty cart.
var ErrNoSavedCart = errors.New("no saved cart")

// Persister is the storage strategy for the persisted cart record. Each
// cart occupies one slot keyed by its cart identifier; the payload is the
// encoded record, opaque to the persister.
type Persister interface {
	Save(ctx context.Context, cartID string, payload []byte) error
	Load(ctx context.Context, cartID string) ([]byte, error)
	Clear(ctx context.Context, cartID string) error
}

// MemoryPersister is an in-process Persister for tests and
// dependency-free runs.
type MemoryPersister struct {
	mu    sync.Mutex
	slots map[string][]byte
}

var _ Persister = (*MemoryPersister)(nil)

// NewMemoryPersister creates an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{slots: make(map[string][]byte)}
}

// Save stores a copy of the payload in the slot.
func (m *MemoryPersister) Save(_ context.Context, cartID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.slots[cartID] = buf
	return nil
}

// Load returns the stored payload or ErrNoSavedCart.
func (m *MemoryPersister) Load(_ context.Context, cartID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.slots[cartID]
	if !ok {
		return nil, ErrNoSavedCart
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return buf, nil
}

// Clear removes the slot. Clearing an absent slot is a no-op.
func (m *MemoryPersister) Clear(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, cartID)
	return nil
}
