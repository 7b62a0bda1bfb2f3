// Package cart owns the shopping-cart state: an ordered collection of
// product lines with quantity and identity invariants, persisted as a
// single record in a durable key-value slot.
package cart

import (
	"github.com/shopfront/cartcore/internal/domain/catalog"
)

// defaultStockCeiling bounds the quantity of an item whose snapshot does
// not report available stock.
const defaultStockCeiling = 10

// Item is one product line in the cart: a captured catalog snapshot plus a
// mutable quantity. ProductID is the identity key within the cart; adding a
// product already present increments the existing line instead of
// duplicating it.
type Item struct {
	ProductID string
	Snapshot  catalog.Snapshot
	Quantity  int
}

// stockCeiling returns the upper quantity bound for a snapshot.
func stockCeiling(s catalog.Snapshot) int {
	if s.StockAvailable > 0 {
		return s.StockAvailable
	}
	return defaultStockCeiling
}

// clampQuantity bounds qty to [1, ceiling]. Over-quantity requests are
// corrected, not rejected.
func clampQuantity(qty, ceiling int) int {
	if qty < 1 {
		return 1
	}
	if qty > ceiling {
		return ceiling
	}
	return qty
}
