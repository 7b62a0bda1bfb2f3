package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shopfront/cartcore/internal/domain/cart"
	"github.com/shopfront/cartcore/internal/domain/pricing"
	"github.com/shopfront/cartcore/internal/domain/promo"
)

// Submission is the finalized cart snapshot handed to the order service.
type Submission struct {
	Items            []cart.Item
	ShippingOptionID string
	PromoCode        string
	Totals           pricing.Totals
}

// Confirmation acknowledges a successfully submitted order.
type Confirmation struct {
	OrderID    string
	GrandTotal decimal.Decimal
}

// OrderService submits a finalized cart. It is an external collaborator;
// a failed submission is recoverable and must leave the cart intact so
// the shopper can retry without re-entering items.
type OrderService interface {
	Submit(ctx context.Context, sub Submission) (*Confirmation, error)
}

// SubmitError wraps an order submission failure. The cart was not
// cleared.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return "order submission failed: " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Service runs the checkout flow: gate, pricing, submission, and the
// clear-on-success contract.
type Service struct {
	gate   *Gate
	store  *cart.Store
	engine *pricing.Engine
	orders OrderService
}

// NewService creates a checkout Service.
func NewService(gate *Gate, store *cart.Store, engine *pricing.Engine, orders OrderService) *Service {
	return &Service{
		gate:   gate,
		store:  store,
		engine: engine,
		orders: orders,
	}
}

// Request describes a checkout attempt.
type Request struct {
	// Destination is where the shopper was heading, carried through a
	// login redirect when the gate blocks on authentication.
	Destination string
	// ShippingOptionID is the shopper's selection; an absent or
	// ineligible selection falls back to the cheapest eligible option.
	ShippingOptionID string
	// Rule is the active discount rule, if any.
	Rule *promo.Rule
}

// Result is the outcome of a checkout attempt. Exactly one of
// Confirmation (gate allowed, order placed) or a blocked Decision is
// populated.
type Result struct {
	Decision     Decision
	Confirmation *Confirmation
}

// Checkout evaluates the gate and, when allowed, prices the cart and
// submits the order. A blocked gate is a normal outcome, not an error.
// On successful submission the cart is cleared; on failure it is kept so
// the attempt can be retried.
func (s *Service) Checkout(ctx context.Context, req Request) (*Result, error) {
	decision := s.gate.Evaluate(ctx, s.store.ItemCount(), req.Destination)
	if !decision.Allowed {
		return &Result{Decision: decision}, nil
	}

	items := s.store.Items()
	subtotal := pricing.Subtotal(items)
	option, _ := s.engine.Policy().Resolve(req.ShippingOptionID, subtotal)
	totals := s.engine.Compute(items, &option, req.Rule)

	promoCode := ""
	if req.Rule != nil {
		promoCode = req.Rule.Code
	}

	conf, err := s.orders.Submit(ctx, Submission{
		Items:            items,
		ShippingOptionID: option.ID,
		PromoCode:        promoCode,
		Totals:           totals,
	})
	if err != nil {
		return nil, &SubmitError{Err: err}
	}

	if err := s.store.Clear(ctx); err != nil {
		return nil, errors.Wrap(err, "clear cart after order")
	}

	return &Result{
		Decision:     decision,
		Confirmation: conf,
	}, nil
}
