package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thisdjs/breakfast-menu-app/internal/models"
	"github.com/thisdjs/breakfast-menu-app/internal/order"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	orders *order.Store
	log    *slog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders *order.Store, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		log:    log,
	}
}

// GetOrder handles GET /api/order
// Returns the selected items, their ids and the running total.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.orders.State(), h.log)
}

// ToggleItem handles POST /api/order/toggle/{itemId}
// Flips the selection state of a catalog item and returns the updated order.
func (h *OrderHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "itemId")

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.log.Warn("invalid item ID format", "itemId", rawID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	if err := h.orders.Toggle(id); err != nil {
		if errors.Is(err, order.ErrItemNotFound) {
			h.log.Info("toggle for unknown item", "itemId", id)
			WriteError(w, http.StatusNotFound, "Item not found", h.log)
			return
		}

		h.log.Error("failed to toggle item", "itemId", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, h.orders.State(), h.log)
}

// Checkout handles POST /api/order/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log.Error("failed to decode checkout request", "error", err)
			WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
			return
		}
	}

	receipt, err := h.orders.Checkout(req.PromoCode)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyOrder):
			WriteError(w, http.StatusBadRequest, "Order must contain at least one item", h.log)
		case errors.Is(err, order.ErrInvalidPromo):
			WriteError(w, http.StatusBadRequest, "Promo code is not valid", h.log)
		default:
			h.log.Error("failed to check out order", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, receipt, h.log)
	h.log.Info("order checked out", "receipt_id", receipt.ID, "items_count", len(receipt.Items))
}
