// Package handler exposes the cart core over HTTP. The original system's
// UI actions map onto JSON endpoints; all pricing shown to the client is
// recomputed from current cart state on every read.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/shopfront/cartcore/internal/domain/cart"
	"github.com/shopfront/cartcore/internal/domain/catalog"
	"github.com/shopfront/cartcore/internal/domain/checkout"
	"github.com/shopfront/cartcore/internal/domain/pricing"
	"github.com/shopfront/cartcore/internal/domain/promo"
)

// Handler wires the cart store, pricing engine, promo session and
// checkout service to the HTTP surface.
type Handler struct {
	store    *cart.Store
	engine   *pricing.Engine
	session  *promo.Session
	catalog  catalog.Repository
	checkout *checkout.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	store *cart.Store,
	engine *pricing.Engine,
	session *promo.Session,
	catalogRepo catalog.Repository,
	checkoutSvc *checkout.Service,
) *Handler {
	return &Handler{
		store:    store,
		engine:   engine,
		session:  session,
		catalog:  catalogRepo,
		checkout: checkoutSvc,
	}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{productID}", h.SetQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{productID}", h.RemoveItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)
	mux.HandleFunc("POST /api/cart/promo", h.ApplyPromo)
	mux.HandleFunc("POST /api/checkout", h.Checkout)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Code: status, Message: message})
}

// respondInternal logs the error and hides details from the client.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
