package order

import (
	"errors"
	"math"
	"testing"

	"github.com/thisdjs/breakfast-menu-app/internal/catalog"
	"github.com/thisdjs/breakfast-menu-app/internal/storage"
	"github.com/thisdjs/breakfast-menu-app/pkg/logger"
)

// stubPromo accepts a fixed set of codes.
type stubPromo struct {
	valid map[string]bool
}

func (s *stubPromo) IsValid(code string) bool { return s.valid[code] }

func TestCheckout_EmptyOrder(t *testing.T) {
	_, orders, _ := newTestStores(t, testBase())

	if _, err := orders.Checkout(""); !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("Checkout() error = %v, want ErrEmptyOrder", err)
	}
}

func TestCheckout_ClearsOrder(t *testing.T) {
	_, orders, kv := newTestStores(t, testBase())

	if err := orders.Toggle(1); err != nil {
		t.Fatalf("Toggle(1) error = %v", err)
	}

	receipt, err := orders.Checkout("")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if receipt.ID == "" {
		t.Error("receipt.ID is empty")
	}
	if len(receipt.Items) != 1 || receipt.Items[0].ID != 1 {
		t.Errorf("receipt.Items = %+v, want [item 1]", receipt.Items)
	}
	if receipt.Total != 5.5 {
		t.Errorf("receipt.Total = %v, want 5.5", receipt.Total)
	}

	if items := orders.Items(); len(items) != 0 {
		t.Errorf("Items() = %+v after checkout, want empty", items)
	}
	if total := orders.Total(); total != 0 {
		t.Errorf("Total() = %v after checkout, want 0", total)
	}

	// Cleared state must be durable.
	var storedTotal float64 = -1
	if !kv.Load(totalPriceKey, &storedTotal) {
		t.Fatal("total not persisted after checkout")
	}
	if storedTotal != 0 {
		t.Errorf("persisted total = %v after checkout, want 0", storedTotal)
	}
}

func TestCheckout_InvalidPromo(t *testing.T) {
	log := logger.New("error")
	kv := storage.NewMemStore(log)
	cat := catalog.New(testBase(), kv, 0, log)
	orders := New(cat, kv, &stubPromo{valid: map[string]bool{}}, log)

	if err := orders.Toggle(1); err != nil {
		t.Fatalf("Toggle(1) error = %v", err)
	}

	if _, err := orders.Checkout("BADCODE99"); !errors.Is(err, ErrInvalidPromo) {
		t.Errorf("Checkout() error = %v, want ErrInvalidPromo", err)
	}

	// A refused checkout leaves the order intact.
	if items := orders.Items(); len(items) != 1 {
		t.Errorf("Items() = %+v after refused checkout, want [item 1]", items)
	}
}

func TestCheckout_PromoWithoutValidator(t *testing.T) {
	_, orders, _ := newTestStores(t, testBase())

	if err := orders.Toggle(1); err != nil {
		t.Fatalf("Toggle(1) error = %v", err)
	}

	if _, err := orders.Checkout("HAPPYHOUR1"); !errors.Is(err, ErrInvalidPromo) {
		t.Errorf("Checkout() error = %v with nil validator, want ErrInvalidPromo", err)
	}
}

func TestCheckout_ValidPromoAppliesDiscount(t *testing.T) {
	log := logger.New("error")
	kv := storage.NewMemStore(log)
	cat := catalog.New(testBase(), kv, 0, log)
	orders := New(cat, kv, &stubPromo{valid: map[string]bool{"HAPPYHOUR1": true}}, log)

	if err := orders.Toggle(1); err != nil {
		t.Fatalf("Toggle(1) error = %v", err)
	}

	receipt, err := orders.Checkout("HAPPYHOUR1")
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if receipt.Subtotal != 5.5 {
		t.Errorf("receipt.Subtotal = %v, want 5.5", receipt.Subtotal)
	}
	if math.Abs(receipt.Discount-0.55) > 1e-9 {
		t.Errorf("receipt.Discount = %v, want 0.55", receipt.Discount)
	}
	if math.Abs(receipt.Total-4.95) > 1e-9 {
		t.Errorf("receipt.Total = %v, want 4.95", receipt.Total)
	}
	if receipt.PromoCode != "HAPPYHOUR1" {
		t.Errorf("receipt.PromoCode = %q, want HAPPYHOUR1", receipt.PromoCode)
	}
}
