// Package auth holds shopper identity: token lookup and the request
// context flag the checkout gate polls.
package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrTokenNotFound is returned when no shopper matches a token hash.
var ErrTokenNotFound = errors.New("shopper token not found")

// TokenInfo identifies an authenticated shopper.
type TokenInfo struct {
	ID        string
	TokenHash string
	Name      string
}

// Repository provides shopper token lookup by HMAC-SHA256 hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*TokenInfo, error)
}

type shopperKey struct{}

// WithShopper returns a context carrying the authenticated shopper.
func WithShopper(ctx context.Context, info *TokenInfo) context.Context {
	return context.WithValue(ctx, shopperKey{}, info)
}

// ShopperFrom extracts the authenticated shopper, if any.
func ShopperFrom(ctx context.Context) (*TokenInfo, bool) {
	info, ok := ctx.Value(shopperKey{}).(*TokenInfo)
	return info, ok
}

// ContextAuth reports authentication from the request context. It is the
// production AuthService: the security middleware stores the shopper on
// the context and the checkout gate polls this.
type ContextAuth struct{}

// IsAuthenticated reports whether the context carries a shopper.
func (ContextAuth) IsAuthenticated(ctx context.Context) bool {
	_, ok := ShopperFrom(ctx)
	return ok
}
