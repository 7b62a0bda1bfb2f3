package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfront/cartcore/internal/domain/checkout"
)

var _ checkout.OrderService = (*OrderRepository)(nil)

// OrderRepository implements checkout.OrderService backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// orderLine is the persisted shape of one submitted cart line.
type orderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Submit persists the finalized cart as an order. The line items are
// serialized to JSON for the JSONB column.
func (r *OrderRepository) Submit(ctx context.Context, sub checkout.Submission) (*checkout.Confirmation, error) {
	lines := make([]orderLine, len(sub.Items))
	for i, item := range sub.Items {
		lines[i] = orderLine{
			ProductID: item.ProductID,
			Name:      item.Snapshot.Name,
			UnitPrice: item.Snapshot.UnitPrice.String(),
			Quantity:  item.Quantity,
		}
	}

	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshaling order items: %w", err)
	}

	const query = `
		INSERT INTO orders (id, items, shipping_option, promo_code,
			subtotal, shipping_cost, tax, discount, grand_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	totals := sub.Totals.Rounded()
	orderID := uuid.New().String()

	_, err = r.pool.Exec(ctx, query,
		orderID,
		itemsJSON,
		sub.ShippingOptionID,
		sub.PromoCode,
		totals.Subtotal,
		totals.ShippingCost,
		totals.Tax,
		totals.DiscountAmount,
		totals.GrandTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("creating order %q: %w", orderID, err)
	}

	return &checkout.Confirmation{
		OrderID:    orderID,
		GrandTotal: totals.GrandTotal,
	}, nil
}
