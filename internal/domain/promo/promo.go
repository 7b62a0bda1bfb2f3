// Package promo resolves discount codes into discount rules. Rejections
// are messages surfaced to the shopper, not failures: cart state is never
// affected by a rejected code.
package promo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported discount strategies.
type Kind string

const (
	// KindPercent discounts a fraction of the subtotal; Value is the
	// fraction in (0, 1].
	KindPercent Kind = "percent"
	// KindFixed discounts a fixed amount, capped at the subtotal.
	KindFixed Kind = "fixed"
)

// ErrUnknownCode is returned by a Repository when no rule exists for a
// code.
var ErrUnknownCode = errors.New("unknown promo code")

// Rule is a resolved, currently-active promotional adjustment. Only one
// rule is active at a time; resolving a new code replaces, never composes
// with, the previous rule.
type Rule struct {
	Code  string
	Kind  Kind
	Value decimal.Decimal
}

// RejectionError explains why a code did not resolve to a rule. The
// reason is shown to the shopper; nothing is retried automatically.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("promo code rejected: %s", e.Reason)
}

// Reject creates a RejectionError with the given reason.
func Reject(format string, args ...any) *RejectionError {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}

// Resolver maps a code string to a discount rule or a rejection
// (*RejectionError). Lookups may suspend on a network round trip; any
// caller-supplied timeout wraps the context.
type Resolver interface {
	Resolve(ctx context.Context, code string) (*Rule, error)
}

// StoredRule is a rule as the rule table holds it, with activation and
// validity constraints the resolver enforces.
type StoredRule struct {
	Rule
	Active     bool
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// Repository provides rule lookup. FindByCode returns ErrUnknownCode when
// the code has no rule.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*StoredRule, error)
}
