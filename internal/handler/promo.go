package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/shopfront/cartcore/internal/domain/promo"
)

type applyPromoRequest struct {
	Code string `json:"code"`
}

type applyPromoResponse struct {
	Applied bool   `json:"applied"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ApplyPromo submits a code to the promo session. A rejection is surfaced
// as a message with the cart untouched; when a newer code was submitted
// while this one resolved, the stale result is reported as superseded.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req applyPromoRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "code required")
		return
	}

	rule, err := h.session.Submit(r.Context(), req.Code)
	if err != nil {
		var rej *promo.RejectionError
		switch {
		case errors.As(err, &rej):
			respondJSON(w, http.StatusUnprocessableEntity, applyPromoResponse{
				Message: rej.Reason,
			})
		case errors.Is(err, promo.ErrSuperseded):
			respondJSON(w, http.StatusConflict, applyPromoResponse{
				Message: "a newer code was submitted",
			})
		default:
			respondInternal(w, r, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, applyPromoResponse{
		Applied: true,
		Code:    rule.Code,
	})
}
