package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/shopfront/cartcore/internal/domain/checkout"
)

type checkoutRequest struct {
	ShippingOptionID string `json:"shipping_option_id"`
	Destination      string `json:"destination"`
}

type blockedResponse struct {
	Reason   string `json:"reason"`
	Redirect string `json:"redirect,omitempty"`
}

type confirmationResponse struct {
	OrderID    string `json:"order_id"`
	GrandTotal string `json:"grand_total"`
}

// Checkout attempts the cart-to-order transition. A blocked gate is a
// navigable state: 401 with a login redirect carrying the destination, or
// 409 for an empty cart with no redirect. A failed submission is 502 and
// keeps the cart so the shopper can retry.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Destination == "" {
		req.Destination = "/checkout"
	}

	rule, _ := h.session.Active()
	result, err := h.checkout.Checkout(r.Context(), checkout.Request{
		Destination:      req.Destination,
		ShippingOptionID: req.ShippingOptionID,
		Rule:             rule,
	})
	if err != nil {
		var submitErr *checkout.SubmitError
		if errors.As(err, &submitErr) {
			respondError(w, http.StatusBadGateway, "order submission failed, your cart is unchanged")
			return
		}
		respondInternal(w, r, err)
		return
	}

	if !result.Decision.Allowed {
		switch result.Decision.Reason {
		case checkout.ReasonUnauthenticated:
			respondJSON(w, http.StatusUnauthorized, blockedResponse{
				Reason:   string(result.Decision.Reason),
				Redirect: result.Decision.Redirect,
			})
		default:
			respondJSON(w, http.StatusConflict, blockedResponse{
				Reason: string(result.Decision.Reason),
			})
		}
		return
	}

	h.session.Clear()
	respondJSON(w, http.StatusOK, confirmationResponse{
		OrderID:    result.Confirmation.OrderID,
		GrandTotal: result.Confirmation.GrandTotal.StringFixed(2),
	})
}
