package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/cartcore/internal/domain/auth"
)

var _ auth.Repository = (*TokenRepository)(nil)

// TokenRepository provides shopper token lookups backed by PostgreSQL.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a TokenRepository that uses the given pool.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// FindByHash looks up an active shopper token by its HMAC-SHA256 hash.
// Returns auth.ErrTokenNotFound when no matching token exists.
func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*auth.TokenInfo, error) {
	const query = `
		SELECT id, token_hash, name
		FROM shopper_tokens
		WHERE token_hash = $1 AND active`

	var info auth.TokenInfo
	err := r.pool.QueryRow(ctx, query, hash).Scan(
		&info.ID,
		&info.TokenHash,
		&info.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, fmt.Errorf("finding shopper token by hash: %w", err)
	}

	return &info, nil
}
