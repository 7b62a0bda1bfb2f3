package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/cartcore/internal/domain/cart"
	"github.com/shopfront/cartcore/internal/domain/catalog"
	"github.com/shopfront/cartcore/internal/domain/promo"
)

// --- Helpers ---

func item(id, price string, qty int) cart.Item {
	return cart.Item{
		ProductID: id,
		Snapshot: catalog.Snapshot{
			ID:        id,
			UnitPrice: decimal.RequireFromString(price),
		},
		Quantity: qty,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

// --- Tests ---

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []cart.Item
		want  string
	}{
		{name: "empty cart", items: nil, want: "0"},
		{name: "single line", items: []cart.Item{item("p1", "9.99", 2)}, want: "19.98"},
		{
			name: "multiple lines",
			items: []cart.Item{
				item("p1", "20.00", 3),
				item("p2", "0.01", 7),
			},
			want: "60.07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimalEqual(t, tt.want, Subtotal(tt.items))
		})
	}
}

func TestCompute_FullScenario(t *testing.T) {
	// Three units at 20.00 with WELCOME20 (20% off), free shipping
	// unlocked at a 50.00 subtotal, and a flat 7% tax.
	engine := NewEngine(dec("0.07"), DefaultPolicy())
	items := []cart.Item{item("p1", "20.00", 3)}

	free, ok := engine.Policy().ByID("free")
	require.True(t, ok)
	require.True(t, free.EligibleFor(Subtotal(items)))

	rule := &promo.Rule{Code: "WELCOME20", Kind: promo.KindPercent, Value: dec("0.20")}
	totals := engine.Compute(items, &free, rule)

	assertDecimalEqual(t, "60.00", totals.Subtotal)
	assertDecimalEqual(t, "0", totals.ShippingCost)
	assertDecimalEqual(t, "4.20", totals.Tax)
	assertDecimalEqual(t, "12.00", totals.DiscountAmount)
	assertDecimalEqual(t, "52.20", totals.GrandTotal)
	assert.Equal(t, 3, totals.ItemsCount)
}

func TestCompute_Discounts(t *testing.T) {
	engine := NewEngine(decimal.Zero, DefaultPolicy())

	tests := []struct {
		name         string
		items        []cart.Item
		rule         *promo.Rule
		wantDiscount string
		wantGrand    string
	}{
		{
			name:         "no rule means no discount",
			items:        []cart.Item{item("p1", "10.00", 1)},
			rule:         nil,
			wantDiscount: "0",
			wantGrand:    "10.00",
		},
		{
			name:         "percent rule is a fraction of the subtotal",
			items:        []cart.Item{item("p1", "50.00", 2)},
			rule:         &promo.Rule{Code: "TENOFF", Kind: promo.KindPercent, Value: dec("0.10")},
			wantDiscount: "10.00",
			wantGrand:    "90.00",
		},
		{
			name:         "fixed rule subtracts its value",
			items:        []cart.Item{item("p1", "30.00", 1)},
			rule:         &promo.Rule{Code: "FIVER", Kind: promo.KindFixed, Value: dec("5")},
			wantDiscount: "5",
			wantGrand:    "25.00",
		},
		{
			name:         "fixed rule larger than subtotal is capped",
			items:        []cart.Item{item("p1", "8.00", 1)},
			rule:         &promo.Rule{Code: "BIGOFF", Kind: promo.KindFixed, Value: dec("20")},
			wantDiscount: "8.00",
			wantGrand:    "0",
		},
		{
			name:         "negative rule value is neutralized",
			items:        []cart.Item{item("p1", "10.00", 1)},
			rule:         &promo.Rule{Code: "WEIRD", Kind: promo.KindFixed, Value: dec("-5")},
			wantDiscount: "0",
			wantGrand:    "10.00",
		},
		{
			name:         "empty cart with rule stays at zero",
			items:        nil,
			rule:         &promo.Rule{Code: "TENOFF", Kind: promo.KindPercent, Value: dec("0.10")},
			wantDiscount: "0",
			wantGrand:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := engine.Compute(tt.items, nil, tt.rule)
			assertDecimalEqual(t, tt.wantDiscount, totals.DiscountAmount)
			assertDecimalEqual(t, tt.wantGrand, totals.GrandTotal)
			assert.False(t, totals.GrandTotal.IsNegative())
		})
	}
}

func TestCompute_StaleRuleRecomputedAgainstCurrentSubtotal(t *testing.T) {
	// A rule resolved while the cart was worth 100 must discount the
	// current subtotal after the cart shrinks, never the old one.
	engine := NewEngine(decimal.Zero, DefaultPolicy())
	rule := &promo.Rule{Code: "TENOFF", Kind: promo.KindPercent, Value: dec("0.10")}

	before := engine.Compute([]cart.Item{item("p1", "100.00", 1)}, nil, rule)
	assertDecimalEqual(t, "10.00", before.DiscountAmount)

	shrunk := engine.Compute([]cart.Item{item("p2", "10.00", 1)}, nil, rule)
	assertDecimalEqual(t, "1.00", shrunk.DiscountAmount)
}

func TestCompute_Idempotent(t *testing.T) {
	engine := NewEngine(dec("0.07"), DefaultPolicy())
	items := []cart.Item{item("p1", "19.99", 2), item("p2", "3.50", 1)}
	opt, ok := engine.Policy().ByID("standard")
	require.True(t, ok)
	rule := &promo.Rule{Code: "FIVER", Kind: promo.KindFixed, Value: dec("5")}

	first := engine.Compute(items, &opt, rule)
	second := engine.Compute(items, &opt, rule)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
}

func TestTotalsRounded(t *testing.T) {
	totals := Totals{
		Subtotal:       dec("10.005"),
		ShippingCost:   dec("4.999"),
		Tax:            dec("0.70035"),
		DiscountAmount: dec("1.0049"),
		GrandTotal:     dec("14.69925"),
	}

	rounded := totals.Rounded()
	assert.Equal(t, "10.01", rounded.Subtotal.StringFixed(2))
	assert.Equal(t, "5.00", rounded.ShippingCost.StringFixed(2))
	assert.Equal(t, "0.70", rounded.Tax.StringFixed(2))
	assert.Equal(t, "1.00", rounded.DiscountAmount.StringFixed(2))
	assert.Equal(t, "14.70", rounded.GrandTotal.StringFixed(2))

	// Rounding returns a copy; the unrounded totals are untouched.
	assert.Equal(t, "10.005", totals.Subtotal.String())
}
