package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Snapshot is an immutable view of a catalog item at the moment it enters
// the cart. If the live catalog price changes later, the cart keeps the
// snapshot price until the item is re-added.
type Snapshot struct {
	ID             string
	Name           string
	UnitPrice      decimal.Decimal
	StockAvailable int
	Thumbnail      string
	SellerID       string
}

// Repository defines the read operation the cart core needs from the
// product catalog. Search, filtering and pagination belong to the catalog
// service itself.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Snapshot, error)
}
