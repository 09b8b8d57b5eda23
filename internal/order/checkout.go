package order

import (
	"github.com/google/uuid"

	"github.com/thisdjs/breakfast-menu-app/internal/models"
)

// Discount applied to the subtotal when a valid promo code is presented.
const promoDiscountRate = 0.10

// Checkout turns the current selection into a receipt and clears the order.
// An empty order returns ErrEmptyOrder. A non-empty promo code must validate
// or the checkout is refused with ErrInvalidPromo and the order is left
// untouched.
func (s *Store) Checkout(promoCode string) (*models.Receipt, error) {
	if promoCode != "" {
		if s.promo == nil || !s.promo.IsValid(promoCode) {
			return nil, ErrInvalidPromo
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil, ErrEmptyOrder
	}

	receipt := &models.Receipt{
		ID:        uuid.New().String(),
		Items:     make([]models.MenuItem, len(s.items)),
		Subtotal:  s.total,
		Total:     s.total,
		PromoCode: promoCode,
	}
	copy(receipt.Items, s.items)

	if promoCode != "" {
		receipt.Discount = receipt.Subtotal * promoDiscountRate
		receipt.Total = clampTotal(receipt.Subtotal - receipt.Discount)
	}

	s.items = nil
	s.total = 0
	s.persistLocked()

	s.log.Info("checkout completed",
		"receipt_id", receipt.ID,
		"items_count", len(receipt.Items),
		"total", receipt.Total,
	)
	return receipt, nil
}
