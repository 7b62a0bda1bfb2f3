package promo

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPromoRepo struct {
	stored *StoredRule
	err    error
}

func (m *mockPromoRepo) FindByCode(_ context.Context, _ string) (*StoredRule, error) {
	return m.stored, m.err
}

func newFixedResolver(repo Repository, now time.Time) *RepoResolver {
	r := NewRepoResolver(repo)
	r.now = func() time.Time { return now }
	return r
}

func TestRepoResolver_Resolve(t *testing.T) {
	fixedNow := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := fixedNow.Add(-24 * time.Hour)
	future := fixedNow.Add(24 * time.Hour)

	tests := []struct {
		name       string
		repo       *mockPromoRepo
		code       string
		wantRule   bool
		wantReason string
	}{
		{
			name: "valid percent rule resolves",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:   Rule{Code: "WELCOME20", Kind: KindPercent, Value: decimal.RequireFromString("0.20")},
				Active: true,
			}},
			code:     "WELCOME20",
			wantRule: true,
		},
		{
			name: "valid fixed rule resolves",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:   Rule{Code: "FIVER", Kind: KindFixed, Value: decimal.NewFromInt(5)},
				Active: true,
			}},
			code:     "FIVER",
			wantRule: true,
		},
		{
			name: "rule inside validity window resolves",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:       Rule{Code: "SPRING", Kind: KindPercent, Value: decimal.RequireFromString("0.15")},
				Active:     true,
				ValidFrom:  &past,
				ValidUntil: &future,
			}},
			code:     "SPRING",
			wantRule: true,
		},
		{
			name:       "unknown code is rejected",
			repo:       &mockPromoRepo{err: ErrUnknownCode},
			code:       "BOGUS",
			wantReason: `code "BOGUS" is not recognized`,
		},
		{
			name: "inactive rule is rejected",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:   Rule{Code: "RETIRED", Kind: KindPercent, Value: decimal.RequireFromString("0.10")},
				Active: false,
			}},
			code:       "RETIRED",
			wantReason: `code "RETIRED" is no longer active`,
		},
		{
			name: "not yet valid rule is rejected",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:      Rule{Code: "SOON", Kind: KindPercent, Value: decimal.RequireFromString("0.10")},
				Active:    true,
				ValidFrom: &future,
			}},
			code:       "SOON",
			wantReason: `code "SOON" is not valid yet`,
		},
		{
			name: "expired rule is rejected",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:       Rule{Code: "GONE", Kind: KindPercent, Value: decimal.RequireFromString("0.10")},
				Active:     true,
				ValidUntil: &past,
			}},
			code:       "GONE",
			wantReason: `code "GONE" has expired`,
		},
		{
			name: "percent above one is rejected",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:   Rule{Code: "DOUBLE", Kind: KindPercent, Value: decimal.RequireFromString("1.5")},
				Active: true,
			}},
			code:       "DOUBLE",
			wantReason: `code "DOUBLE" carries an invalid discount`,
		},
		{
			name: "zero percent is rejected",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:   Rule{Code: "NOTHING", Kind: KindPercent, Value: decimal.Zero},
				Active: true,
			}},
			code:       "NOTHING",
			wantReason: `code "NOTHING" carries an invalid discount`,
		},
		{
			name: "negative fixed value is rejected",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:   Rule{Code: "NEGATIVE", Kind: KindFixed, Value: decimal.NewFromInt(-3)},
				Active: true,
			}},
			code:       "NEGATIVE",
			wantReason: `code "NEGATIVE" carries an invalid discount`,
		},
		{
			name: "unsupported kind is rejected",
			repo: &mockPromoRepo{stored: &StoredRule{
				Rule:   Rule{Code: "MYSTERY", Kind: Kind("bogo"), Value: decimal.NewFromInt(1)},
				Active: true,
			}},
			code:       "MYSTERY",
			wantReason: `code "MYSTERY" has an unsupported discount kind`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newFixedResolver(tt.repo, fixedNow)
			rule, err := resolver.Resolve(context.Background(), tt.code)

			if tt.wantRule {
				require.NoError(t, err)
				require.NotNil(t, rule)
				assert.Equal(t, tt.code, rule.Code)
				return
			}

			require.Error(t, err)
			var rej *RejectionError
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, tt.wantReason, rej.Reason)
			assert.Nil(t, rule)
		})
	}
}

func TestRepoResolver_StorageFailureIsNotARejection(t *testing.T) {
	storageErr := errors.New("connection reset")
	resolver := NewRepoResolver(&mockPromoRepo{err: storageErr})

	_, err := resolver.Resolve(context.Background(), "ANYCODE")
	require.ErrorIs(t, err, storageErr)

	var rej *RejectionError
	assert.False(t, errors.As(err, &rej))
}
