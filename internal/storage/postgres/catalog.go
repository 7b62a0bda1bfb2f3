package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/cartcore/internal/domain/catalog"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given
// pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// GetByID captures a snapshot of a single product. Returns
// catalog.ErrNotFound when no matching product exists.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*catalog.Snapshot, error) {
	const query = `
		SELECT id, name, unit_price, stock_available, thumbnail, seller_id
		FROM products
		WHERE id = $1`

	var s catalog.Snapshot
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.UnitPrice,
		&s.StockAvailable,
		&s.Thumbnail,
		&s.SellerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	return &s, nil
}
