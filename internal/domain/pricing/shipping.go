package pricing

import (
	"github.com/shopspring/decimal"
)

// Option is one entry in the externally supplied shipping catalog.
// MinOrderValue, when set, makes the option selectable only once the cart
// subtotal reaches it.
type Option struct {
	ID            string
	Label         string
	Price         decimal.Decimal
	ETALabel      string
	MinOrderValue *decimal.Decimal
}

// EligibleFor reports whether the option may be selected at the given
// subtotal.
func (o Option) EligibleFor(subtotal decimal.Decimal) bool {
	if o.MinOrderValue == nil {
		return true
	}
	return subtotal.GreaterThanOrEqual(*o.MinOrderValue)
}

// Quote pairs an option with its eligibility at a given subtotal.
type Quote struct {
	Option   Option
	Eligible bool
}

// Policy is the ordered shipping option catalog. Selection is UI state,
// not cart state: it resets to the best eligible default each session.
type Policy struct {
	options []Option
}

// NewPolicy creates a policy from an ordered option list.
func NewPolicy(options []Option) Policy {
	return Policy{options: options}
}

// DefaultPolicy returns the built-in three-tier catalog used when no
// shipping configuration is supplied.
func DefaultPolicy() Policy {
	freeThreshold := decimal.NewFromInt(50)
	return NewPolicy([]Option{
		{
			ID:       "standard",
			Label:    "Standard Delivery",
			Price:    decimal.NewFromFloat(4.99),
			ETALabel: "3-5 business days",
		},
		{
			ID:       "express",
			Label:    "Express Delivery",
			Price:    decimal.NewFromFloat(12.99),
			ETALabel: "1-2 business days",
		},
		{
			ID:            "free",
			Label:         "Free Shipping",
			Price:         decimal.Zero,
			ETALabel:      "5-7 business days",
			MinOrderValue: &freeThreshold,
		},
	})
}

// Options returns the catalog in its configured order.
func (p Policy) Options() []Option {
	out := make([]Option, len(p.options))
	copy(out, p.options)
	return out
}

// Quotes reports eligibility for every option at the given subtotal.
func (p Policy) Quotes(subtotal decimal.Decimal) []Quote {
	out := make([]Quote, len(p.options))
	for i, o := range p.options {
		out[i] = Quote{Option: o, Eligible: o.EligibleFor(subtotal)}
	}
	return out
}

// ByID looks up an option by its identifier.
func (p Policy) ByID(id string) (Option, bool) {
	for _, o := range p.options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// CheapestEligible returns the lowest-priced option selectable at the
// given subtotal. The second result is false when no option qualifies,
// which only happens with an empty catalog.
func (p Policy) CheapestEligible(subtotal decimal.Decimal) (Option, bool) {
	var best Option
	found := false
	for _, o := range p.options {
		if !o.EligibleFor(subtotal) {
			continue
		}
		if !found || o.Price.LessThan(best.Price) {
			best = o
			found = true
		}
	}
	return best, found
}

// Resolve returns the requested option when it exists and is eligible at
// the subtotal; otherwise it falls back to the cheapest eligible option.
// The second result reports whether a fallback happened. This is caller
// policy: the engine itself only reports eligibility.
func (p Policy) Resolve(id string, subtotal decimal.Decimal) (Option, bool) {
	if opt, ok := p.ByID(id); ok && opt.EligibleFor(subtotal) {
		return opt, false
	}
	opt, _ := p.CheapestEligible(subtotal)
	return opt, true
}
