// Package redis implements the cart persistence slot on Redis: one key
// per cart, holding the encoded record.
package redis

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/shopfront/cartcore/internal/domain/cart"
)

var _ cart.Persister = (*CartPersister)(nil)

// CartPersister stores each cart record under "cart:<id>" with a TTL.
// A zero TTL keeps records forever.
type CartPersister struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartPersister creates a CartPersister on the given client.
func NewCartPersister(client *redis.Client, ttl time.Duration) *CartPersister {
	return &CartPersister{client: client, ttl: ttl}
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}

// Save writes the record payload, refreshing the TTL.
func (p *CartPersister) Save(ctx context.Context, cartID string, payload []byte) error {
	if err := p.client.Set(ctx, cartKey(cartID), payload, p.ttl).Err(); err != nil {
		return errors.Wrap(err, "save cart record")
	}
	return nil
}

// Load reads the record payload. An absent key maps to
// cart.ErrNoSavedCart.
func (p *CartPersister) Load(ctx context.Context, cartID string) ([]byte, error) {
	payload, err := p.client.Get(ctx, cartKey(cartID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cart.ErrNoSavedCart
		}
		return nil, errors.Wrap(err, "load cart record")
	}
	return payload, nil
}

// Clear deletes the slot. Deleting an absent key is a no-op.
func (p *CartPersister) Clear(ctx context.Context, cartID string) error {
	if err := p.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return errors.Wrap(err, "clear cart record")
	}
	return nil
}
