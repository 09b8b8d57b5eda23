package models

// OrderState is the full state of the current order as served to clients.
type OrderState struct {
	Items           []MenuItem `json:"items"`
	SelectedItemIDs []int64    `json:"selectedItemIds"`
	TotalPrice      float64    `json:"totalPrice"`
}

// CheckoutRequest represents an incoming checkout submission.
type CheckoutRequest struct {
	PromoCode string `json:"promoCode,omitempty"`
}

// Receipt represents a completed checkout.
type Receipt struct {
	ID        string     `json:"id"`
	Items     []MenuItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Discount  float64    `json:"discount,omitempty"`
	Total     float64    `json:"total"`
	PromoCode string     `json:"promoCode,omitempty"`
}
