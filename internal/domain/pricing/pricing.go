// Package pricing derives monetary totals from cart contents. The
// derivation is pure: no side effects, no I/O, recomputed from current
// state on every read and never cached across mutations.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/shopfront/cartcore/internal/domain/cart"
	"github.com/shopfront/cartcore/internal/domain/promo"
)

var zero = decimal.Zero

// Totals is the derived pricing result. Amounts are unrounded; call
// Rounded before presenting them.
type Totals struct {
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	Tax            decimal.Decimal
	DiscountAmount decimal.Decimal
	GrandTotal     decimal.Decimal
	ItemsCount     int
}

// Rounded returns a copy with every amount rounded to 2 decimal places.
// Rounding happens only here, at the presentation edge, so intermediate
// arithmetic never compounds rounding error.
func (t Totals) Rounded() Totals {
	t.Subtotal = t.Subtotal.Round(2)
	t.ShippingCost = t.ShippingCost.Round(2)
	t.Tax = t.Tax.Round(2)
	t.DiscountAmount = t.DiscountAmount.Round(2)
	t.GrandTotal = t.GrandTotal.Round(2)
	return t
}

// Engine computes totals from cart items, a selected shipping option and
// an active discount rule. The tax rate is a flat externally configured
// constant, not a jurisdictional lookup.
type Engine struct {
	taxRate decimal.Decimal
	policy  Policy
}

// NewEngine creates an Engine with the given flat tax rate and shipping
// policy.
func NewEngine(taxRate decimal.Decimal, policy Policy) *Engine {
	return &Engine{taxRate: taxRate, policy: policy}
}

// Policy exposes the engine's shipping catalog.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Subtotal returns the sum of unit price times quantity across all items.
func Subtotal(items []cart.Item) decimal.Decimal {
	sum := zero
	for _, item := range items {
		line := item.Snapshot.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// Compute derives totals for the given state. option may be nil (no
// shipping selected yet) and rule may be nil (no active discount).
//
// The discount is always applied against the current subtotal, so a rule
// resolved before a cart edit cannot discount more than the cart is now
// worth: a fixed discount is capped at the subtotal and the grand total is
// floored at zero against malformed external rules.
func (e *Engine) Compute(items []cart.Item, option *Option, rule *promo.Rule) Totals {
	subtotal := Subtotal(items)

	itemsCount := 0
	for _, item := range items {
		itemsCount += item.Quantity
	}

	shippingCost := zero
	if option != nil {
		shippingCost = option.Price
	}

	tax := subtotal.Mul(e.taxRate)

	discount := zero
	if rule != nil {
		switch rule.Kind {
		case promo.KindPercent:
			discount = subtotal.Mul(rule.Value)
		case promo.KindFixed:
			discount = decimal.Min(rule.Value, subtotal)
		}
		if discount.IsNegative() {
			discount = zero
		}
	}

	grand := subtotal.Add(shippingCost).Add(tax).Sub(discount)
	if grand.IsNegative() {
		grand = zero
	}

	return Totals{
		Subtotal:       subtotal,
		ShippingCost:   shippingCost,
		Tax:            tax,
		DiscountAmount: discount,
		GrandTotal:     grand,
		ItemsCount:     itemsCount,
	}
}
