package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shopfront/cartcore/internal/domain/catalog"
	"github.com/shopfront/cartcore/internal/domain/pricing"
)

func intToDecimal(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// itemView is one cart line in responses. Amounts are strings rounded to
// 2 decimal places.
type itemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	Thumbnail string `json:"thumbnail,omitempty"`
	SellerID  string `json:"seller_id,omitempty"`
}

type totalsView struct {
	Subtotal       string `json:"subtotal"`
	ShippingCost   string `json:"shipping_cost"`
	Tax            string `json:"tax"`
	DiscountAmount string `json:"discount_amount"`
	GrandTotal     string `json:"grand_total"`
	ItemsCount     int    `json:"items_count"`
}

type shippingView struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Price         string `json:"price"`
	ETA           string `json:"eta"`
	MinOrderValue string `json:"min_order_value,omitempty"`
	Eligible      bool   `json:"eligible"`
	Selected      bool   `json:"selected"`
}

type promoView struct {
	Code      string `json:"code,omitempty"`
	Applied   bool   `json:"applied"`
	Rejection string `json:"rejection,omitempty"`
}

type cartView struct {
	Items    []itemView     `json:"items"`
	Totals   totalsView     `json:"totals"`
	Shipping []shippingView `json:"shipping"`
	Promo    promoView      `json:"promo"`
	Version  int64          `json:"version"`
}

// cartView assembles the full derived view: items, shipping eligibility
// for the requested selection, active promo, and totals recomputed from
// current state.
func (h *Handler) cartView(requestedShipping string) cartView {
	items := h.store.Items()
	subtotal := pricing.Subtotal(items)

	policy := h.engine.Policy()
	selected, _ := policy.Resolve(requestedShipping, subtotal)

	rule, rejection := h.session.Active()

	// An empty cart prices to zero: no shipping is charged on nothing.
	var option *pricing.Option
	if len(items) > 0 {
		option = &selected
	}
	totals := h.engine.Compute(items, option, rule).Rounded()

	view := cartView{
		Items:   make([]itemView, len(items)),
		Version: h.store.Version(),
		Totals: totalsView{
			Subtotal:       totals.Subtotal.StringFixed(2),
			ShippingCost:   totals.ShippingCost.StringFixed(2),
			Tax:            totals.Tax.StringFixed(2),
			DiscountAmount: totals.DiscountAmount.StringFixed(2),
			GrandTotal:     totals.GrandTotal.StringFixed(2),
			ItemsCount:     totals.ItemsCount,
		},
		Promo: promoView{
			Applied:   rule != nil,
			Rejection: rejection,
		},
	}
	if rule != nil {
		view.Promo.Code = rule.Code
	}

	for i, item := range items {
		line := item.Snapshot.UnitPrice.Mul(intToDecimal(item.Quantity))
		view.Items[i] = itemView{
			ProductID: item.ProductID,
			Name:      item.Snapshot.Name,
			UnitPrice: item.Snapshot.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			LineTotal: line.StringFixed(2),
			Thumbnail: item.Snapshot.Thumbnail,
			SellerID:  item.Snapshot.SellerID,
		}
	}

	for _, q := range policy.Quotes(subtotal) {
		sv := shippingView{
			ID:       q.Option.ID,
			Label:    q.Option.Label,
			Price:    q.Option.Price.StringFixed(2),
			ETA:      q.Option.ETALabel,
			Eligible: q.Eligible,
			Selected: q.Option.ID == selected.ID,
		}
		if q.Option.MinOrderValue != nil {
			sv.MinOrderValue = q.Option.MinOrderValue.StringFixed(2)
		}
		view.Shipping = append(view.Shipping, sv)
	}

	return view
}

// GetCart returns the cart with totals derived for the shipping option in
// the shipping_option query parameter. An absent or ineligible selection
// falls back to the cheapest eligible option.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartView(r.URL.Query().Get("shipping_option")))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem captures a catalog snapshot and puts it in the cart. An
// over-stock quantity is clamped, not rejected.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	snapshot, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusUnprocessableEntity, "product "+req.ProductID+" not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	if _, err := h.store.AddItem(r.Context(), *snapshot, req.Quantity); err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartView(""))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity replaces a line's quantity; zero or negative removes the
// line.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	productID := r.PathValue("productID")
	if err := h.store.SetQuantity(r.Context(), productID, req.Quantity); err != nil {
		respondInternal(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartView(""))
}

// RemoveItem deletes a line. Removing an absent product succeeds: the
// end state is the same.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveItem(r.Context(), r.PathValue("productID")); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartView(""))
}

// ClearCart empties the cart and drops any active promo.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		respondInternal(w, r, err)
		return
	}
	h.session.Clear()
	respondJSON(w, http.StatusOK, h.cartView(""))
}
