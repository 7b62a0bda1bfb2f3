package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/cartcore/internal/domain/promo"
)

var _ promo.Repository = (*PromoRepository)(nil)

// PromoRepository implements promo.Repository backed by PostgreSQL.
type PromoRepository struct {
	pool *pgxpool.Pool
}

// NewPromoRepository returns a PromoRepository that uses the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// FindByCode looks up a promo rule by its code. Codes are matched
// case-insensitively by uppercasing the parameter against stored
// uppercase codes. Returns promo.ErrUnknownCode when no rule exists.
func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*promo.StoredRule, error) {
	const query = `
		SELECT code, kind, value, active, valid_from, valid_until
		FROM promo_rules
		WHERE code = UPPER($1)`

	var (
		stored promo.StoredRule
		kind   string
	)
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&stored.Code,
		&kind,
		&stored.Value,
		&stored.Active,
		&stored.ValidFrom,
		&stored.ValidUntil,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promo.ErrUnknownCode
		}
		return nil, fmt.Errorf("finding promo rule %q: %w", code, err)
	}

	stored.Kind = promo.Kind(kind)
	return &stored, nil
}

// Upsert inserts or replaces a promo rule. Used by the ingest tool.
func (r *PromoRepository) Upsert(ctx context.Context, rule promo.StoredRule) error {
	const query = `
		INSERT INTO promo_rules (code, kind, value, active, valid_from, valid_until)
		VALUES (UPPER($1), $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE SET
			kind = EXCLUDED.kind,
			value = EXCLUDED.value,
			active = EXCLUDED.active,
			valid_from = EXCLUDED.valid_from,
			valid_until = EXCLUDED.valid_until,
			updated_at = now()`

	_, err := r.pool.Exec(ctx, query,
		rule.Code,
		string(rule.Kind),
		rule.Value,
		rule.Active,
		rule.ValidFrom,
		rule.ValidUntil,
	)
	if err != nil {
		return fmt.Errorf("upserting promo rule %q: %w", rule.Code, err)
	}
	return nil
}
