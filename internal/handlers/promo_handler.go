package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// promoValidator is the interface for promo code validation.
type promoValidator interface {
	IsValid(code string) bool
	Stats() map[string]interface{}
}

// PromoHandler handles HTTP requests for promo code validation.
type PromoHandler struct {
	validator promoValidator
	log       *slog.Logger
}

// NewPromoHandler creates a new PromoHandler.
func NewPromoHandler(validator promoValidator, log *slog.Logger) *PromoHandler {
	return &PromoHandler{
		validator: validator,
		log:       log,
	}
}

// ValidatePromo handles GET /api/promo/{promoCode}
func (h *PromoHandler) ValidatePromo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "promoCode")

	if h.validator.IsValid(code) {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"valid": true,
			"code":  code,
		}, h.log)
		return
	}

	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"valid":   false,
		"code":    code,
		"message": "Promo code not found or invalid",
	}, h.log)
}

// GetStats handles GET /api/promo/stats (for debugging/monitoring)
func (h *PromoHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.validator.Stats(), h.log)
}
