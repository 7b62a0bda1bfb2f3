package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/shopfront/cartcore/internal/domain/catalog"
)

// Store is the sole owner of the cart state. Items keep insertion order
// and are unique by ProductID; the version increases monotonically with
// every mutation. Every mutation synchronously writes the full record to
// the persister before returning.
//
// The original cart lived in ambient shared storage; here it is an
// explicit instance with persistence injected, so tests run against
// MemoryPersister.
type Store struct {
	cartID    string
	persister Persister

	mu      sync.Mutex
	items   []Item
	version int64
}

// NewStore creates an empty store bound to one persistence slot. Call
// Load to rehydrate a previously saved cart.
func NewStore(cartID string, persister Persister) *Store {
	return &Store{
		cartID:    cartID,
		persister: persister,
	}
}

// Load rehydrates the cart from its slot. An absent record yields an
// empty cart. A corrupt or incompatible record is discarded, the slot is
// cleared, and the cart starts empty; corruption is never fatal. Only a
// storage transport failure is returned as an error.
func (s *Store) Load(ctx context.Context) error {
	payload, err := s.persister.Load(ctx, s.cartID)
	if err != nil {
		if errors.Is(err, ErrNoSavedCart) {
			return nil
		}
		return errors.Wrap(err, "load cart")
	}

	rec, err := DecodeRecord(payload)
	if err != nil {
		// Unparsable record: treated as no saved cart.
		if clearErr := s.persister.Clear(ctx, s.cartID); clearErr != nil {
			return errors.Wrap(clearErr, "clear corrupt cart slot")
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = rec.Items
	s.version = rec.Version
	return nil
}

// AddItem puts a product into the cart. A new product gets
// clamp(requestedQty, 1, ceiling); a product already present has its
// quantity incremented by requestedQty and then clamped. The clamp is
// silent: no error is raised for an over-stock request. The returned Item
// carries the quantity actually applied.
func (s *Store) AddItem(ctx context.Context, snapshot catalog.Snapshot, requestedQty int) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ceiling := stockCeiling(snapshot)

	for i := range s.items {
		if s.items[i].ProductID == snapshot.ID {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity+requestedQty, ceiling)
			if err := s.persistLocked(ctx); err != nil {
				return Item{}, err
			}
			return s.items[i], nil
		}
	}

	item := Item{
		ProductID: snapshot.ID,
		Snapshot:  snapshot,
		Quantity:  clampQuantity(requestedQty, ceiling),
	}
	s.items = append(s.items, item)
	if err := s.persistLocked(ctx); err != nil {
		return Item{}, err
	}
	return item, nil
}

// RemoveItem deletes the matching line. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// SetQuantity replaces a line's quantity. qty <= 0 removes the line
// entirely: a cart never holds a zero-quantity item. Setting the quantity
// of an absent product is a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if qty <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = clampQuantity(qty, stockCeiling(s.items[i].Snapshot))
		}
		return s.persistLocked(ctx)
	}
	return nil
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistLocked(ctx)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of distinct product lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// ItemCount returns the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Version returns the current state version.
func (s *Store) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// persistLocked bumps the version and writes the full record. Callers must
// hold s.mu.
func (s *Store) persistLocked(ctx context.Context) error {
	s.version++
	payload := EncodeRecord(Record{Items: s.items, Version: s.version})
	if err := s.persister.Save(ctx, s.cartID, payload); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	return nil
}
