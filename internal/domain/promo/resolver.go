package promo

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// RepoResolver implements Resolver by looking rules up in a Repository
// and checking activation, validity window and value sanity. Violations
// become rejections, not errors; only storage failures propagate as
// errors.
type RepoResolver struct {
	repo Repository
	now  func() time.Time
}

var _ Resolver = (*RepoResolver)(nil)

// NewRepoResolver creates a RepoResolver backed by the given Repository.
func NewRepoResolver(repo Repository) *RepoResolver {
	return &RepoResolver{repo: repo, now: time.Now}
}

// Resolve looks up the rule for code and validates it.
func (r *RepoResolver) Resolve(ctx context.Context, code string) (*Rule, error) {
	stored, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrUnknownCode) {
			return nil, Reject("code %q is not recognized", code)
		}
		return nil, errors.Wrap(err, "lookup promo code")
	}

	now := r.now()

	if !stored.Active {
		return nil, Reject("code %q is no longer active", code)
	}
	if stored.ValidFrom != nil && now.Before(*stored.ValidFrom) {
		return nil, Reject("code %q is not valid yet", code)
	}
	if stored.ValidUntil != nil && now.After(*stored.ValidUntil) {
		return nil, Reject("code %q has expired", code)
	}

	if err := validateRule(stored.Rule); err != nil {
		return nil, err
	}

	rule := stored.Rule
	return &rule, nil
}

// validateRule guards against malformed external rules before they reach
// the pricing engine.
func validateRule(rule Rule) error {
	switch rule.Kind {
	case KindPercent:
		if rule.Value.LessThanOrEqual(decimal.Zero) || rule.Value.GreaterThan(one) {
			return Reject("code %q carries an invalid discount", rule.Code)
		}
	case KindFixed:
		if rule.Value.LessThanOrEqual(decimal.Zero) {
			return Reject("code %q carries an invalid discount", rule.Code)
		}
	default:
		return Reject("code %q has an unsupported discount kind", rule.Code)
	}
	return nil
}
