package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/cartcore/internal/domain/catalog"
)

func TestRecordRoundTrip(t *testing.T) {
	rec := Record{
		Items: []Item{
			{
				ProductID: "p1",
				Snapshot: catalog.Snapshot{
					ID:             "p1",
					Name:           "Waffle with Berries",
					UnitPrice:      decimal.RequireFromString("6.50"),
					StockAvailable: 12,
					Thumbnail:      "waffle-thumb.jpg",
					SellerID:       "seller-9",
				},
				Quantity: 2,
			},
			{
				ProductID: "p2",
				Snapshot: catalog.Snapshot{
					ID:        "p2",
					Name:      "Vanilla Panna Cotta",
					UnitPrice: decimal.RequireFromString("7.99"),
				},
				Quantity: 1,
			},
		},
		Version: 17,
	}

	decoded, err := DecodeRecord(EncodeRecord(rec))
	require.NoError(t, err)

	assert.Equal(t, int64(17), decoded.Version)
	require.Len(t, decoded.Items, 2)

	first := decoded.Items[0]
	assert.Equal(t, "p1", first.ProductID)
	assert.Equal(t, "Waffle with Berries", first.Snapshot.Name)
	assert.True(t, first.Snapshot.UnitPrice.Equal(decimal.RequireFromString("6.50")))
	assert.Equal(t, 12, first.Snapshot.StockAvailable)
	assert.Equal(t, "waffle-thumb.jpg", first.Snapshot.Thumbnail)
	assert.Equal(t, "seller-9", first.Snapshot.SellerID)
	assert.Equal(t, 2, first.Quantity)

	// Optional fields omitted when empty still decode to zero values.
	second := decoded.Items[1]
	assert.Empty(t, second.Snapshot.Thumbnail)
	assert.Empty(t, second.Snapshot.SellerID)
}

func TestRecordDecimalExactness(t *testing.T) {
	// Prices that lose precision as float64 must survive the round trip.
	prices := []string{"0.1", "19.99", "123456789.123456789", "0.005"}

	for _, p := range prices {
		rec := Record{
			Items: []Item{{
				ProductID: "p1",
				Snapshot:  catalog.Snapshot{ID: "p1", UnitPrice: decimal.RequireFromString(p)},
				Quantity:  1,
			}},
			Version: 1,
		}

		decoded, err := DecodeRecord(EncodeRecord(rec))
		require.NoError(t, err)
		assert.Equal(t, p, decoded.Items[0].Snapshot.UnitPrice.String())
	}
}

func TestDecodeRecordEmpty(t *testing.T) {
	decoded, err := DecodeRecord(EncodeRecord(Record{Version: 1}))
	require.NoError(t, err)
	assert.Empty(t, decoded.Items)
	assert.Equal(t, int64(1), decoded.Version)
}

func TestDecodeRecordIgnoresUnknownKeys(t *testing.T) {
	payload := []byte(`{"items":[],"version":2,"legacyField":{"a":1}}`)
	decoded, err := DecodeRecord(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(2), decoded.Version)
}

func TestDecodeRecordInvalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "garbage", payload: `not json at all`},
		{name: "version as string", payload: `{"version":"seven"}`},
		{name: "item missing product id", payload: `{"items":[{"quantity":1}],"version":1}`},
		{name: "zero quantity item", payload: `{"items":[{"productId":"p1","quantity":0}],"version":1}`},
		{name: "unparsable price", payload: `{"items":[{"productId":"p1","snapshot":{"unitPrice":"abc"},"quantity":1}],"version":1}`},
		{
			name:    "duplicate product lines",
			payload: `{"items":[{"productId":"p1","snapshot":{"id":"p1","stockAvailable":5},"quantity":1},{"productId":"p1","snapshot":{"id":"p1","stockAvailable":5},"quantity":2}],"version":1}`,
		},
		{
			name:    "quantity above reported stock",
			payload: `{"items":[{"productId":"p1","snapshot":{"id":"p1","stockAvailable":2},"quantity":3}],"version":1}`,
		},
		{
			name:    "quantity above default ceiling with unknown stock",
			payload: `{"items":[{"productId":"p1","snapshot":{"id":"p1","stockAvailable":0},"quantity":11}],"version":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord([]byte(tt.payload))
			require.Error(t, err)
		})
	}
}
