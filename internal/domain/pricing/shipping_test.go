package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionEligibleFor(t *testing.T) {
	threshold := dec("50")

	tests := []struct {
		name     string
		option   Option
		subtotal string
		want     bool
	}{
		{
			name:     "no threshold is always eligible",
			option:   Option{ID: "standard", Price: dec("4.99")},
			subtotal: "0",
			want:     true,
		},
		{
			name:     "below threshold",
			option:   Option{ID: "free", MinOrderValue: &threshold},
			subtotal: "49.99",
			want:     false,
		},
		{
			name:     "exactly at threshold",
			option:   Option{ID: "free", MinOrderValue: &threshold},
			subtotal: "50",
			want:     true,
		},
		{
			name:     "above threshold",
			option:   Option{ID: "free", MinOrderValue: &threshold},
			subtotal: "50.01",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.option.EligibleFor(dec(tt.subtotal)))
		})
	}
}

func TestDefaultPolicyQuotes(t *testing.T) {
	policy := DefaultPolicy()

	quotes := policy.Quotes(dec("20"))
	require.Len(t, quotes, 3)
	assert.True(t, quotes[0].Eligible, "standard")
	assert.True(t, quotes[1].Eligible, "express")
	assert.False(t, quotes[2].Eligible, "free below threshold")

	quotes = policy.Quotes(dec("60"))
	assert.True(t, quotes[2].Eligible, "free above threshold")
}

func TestPolicyByID(t *testing.T) {
	policy := DefaultPolicy()

	opt, ok := policy.ByID("express")
	require.True(t, ok)
	assert.Equal(t, "express", opt.ID)
	assert.True(t, opt.Price.Equal(dec("12.99")))

	_, ok = policy.ByID("teleport")
	assert.False(t, ok)
}

func TestCheapestEligible(t *testing.T) {
	policy := DefaultPolicy()

	// Below the free threshold the cheapest eligible option is standard.
	opt, ok := policy.CheapestEligible(dec("10"))
	require.True(t, ok)
	assert.Equal(t, "standard", opt.ID)

	// Once free shipping unlocks it wins on price.
	opt, ok = policy.CheapestEligible(dec("75"))
	require.True(t, ok)
	assert.Equal(t, "free", opt.ID)

	// Empty catalog has nothing to offer.
	_, ok = NewPolicy(nil).CheapestEligible(dec("100"))
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name         string
		id           string
		subtotal     string
		wantID       string
		wantFallback bool
	}{
		{
			name:         "requested option kept when eligible",
			id:           "express",
			subtotal:     "10",
			wantID:       "express",
			wantFallback: false,
		},
		{
			name:         "ineligible selection falls back to cheapest eligible",
			id:           "free",
			subtotal:     "30",
			wantID:       "standard",
			wantFallback: true,
		},
		{
			name:         "unknown id falls back",
			id:           "overnight",
			subtotal:     "30",
			wantID:       "standard",
			wantFallback: true,
		},
		{
			name:         "empty id falls back to default",
			id:           "",
			subtotal:     "80",
			wantID:       "free",
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, fallback := policy.Resolve(tt.id, decimal.RequireFromString(tt.subtotal))
			assert.Equal(t, tt.wantID, opt.ID)
			assert.Equal(t, tt.wantFallback, fallback)
		})
	}
}
