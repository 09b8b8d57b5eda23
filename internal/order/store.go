package order

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/thisdjs/breakfast-menu-app/internal/catalog"
	"github.com/thisdjs/breakfast-menu-app/internal/models"
	"github.com/thisdjs/breakfast-menu-app/internal/storage"
)

// Storage keys. Items and total are saved independently; a crash between the
// two writes is healed by reconciliation at next load.
const (
	orderItemsKey = "orderItems"
	totalPriceKey = "totalPrice"
)

// Totals below this are snapped to zero so repeated add/subtract cycles never
// leave floating-point residue on display.
const priceEpsilon = 0.005

var (
	// ErrItemNotFound means the toggled id is not in the current catalog.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrEmptyOrder means checkout was attempted with nothing selected.
	ErrEmptyOrder = errors.New("order is empty")
	// ErrInvalidPromo means the supplied promo code did not validate.
	ErrInvalidPromo = errors.New("promo code is not valid")
)

// Store owns the active order: the selected items and the running total. The
// total is persisted independently of the item list and re-derived from item
// prices during reconciliation to bound incremental drift.
type Store struct {
	mu    sync.Mutex
	items []models.MenuItem
	total float64

	catalog *catalog.Store
	kv      storage.Store
	promo   PromoValidator
	log     *slog.Logger
}

// PromoValidator checks promo codes at checkout.
type PromoValidator interface {
	IsValid(code string) bool
}

// New creates an order store, restores persisted state, reconciles it against
// the current catalog and subscribes to future catalog changes. promo may be
// nil, in which case every promo code is rejected.
func New(cat *catalog.Store, kv storage.Store, promo PromoValidator, log *slog.Logger) *Store {
	s := &Store{
		catalog: cat,
		kv:      kv,
		promo:   promo,
		log:     log,
	}

	// Corrupt or missing values fall back to an empty order and a zero
	// total; reconciliation below re-derives the total when items survive.
	s.kv.Load(orderItemsKey, &s.items)
	s.kv.Load(totalPriceKey, &s.total)

	s.Reconcile()
	cat.Subscribe(s.Reconcile)
	return s
}

// Items returns a copy of the currently selected items, in selection order.
func (s *Store) Items() []models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total returns the running total price.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// SelectedIDs returns the ids of the selected items, in selection order.
func (s *Store) SelectedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	return ids
}

// State returns the full order state for serving to clients.
func (s *Store) State() models.OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := models.OrderState{
		Items:           make([]models.MenuItem, len(s.items)),
		SelectedItemIDs: make([]int64, len(s.items)),
		TotalPrice:      s.total,
	}
	copy(state.Items, s.items)
	for i, item := range s.items {
		state.SelectedItemIDs[i] = item.ID
	}
	return state
}

// Toggle flips the selection state of the item with the given id. Unknown ids
// return ErrItemNotFound. Selecting appends the item and adds its price;
// deselecting removes it and subtracts, snapping near-zero totals to zero.
func (s *Store) Toggle(id int64) error {
	item, ok := s.catalog.ItemByID(id)
	if !ok {
		return ErrItemNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, existing := range s.items {
		if existing.ID == id {
			idx = i
			break
		}
	}

	if idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		s.total = clampTotal(s.total - item.Price)
	} else {
		s.items = append(s.items, item)
		s.total += item.Price
	}

	s.persistLocked()
	return nil
}

// Reconcile drops order entries whose item no longer exists in the catalog
// and, when anything was dropped, re-derives the total from the surviving
// items' prices. An empty catalog clears the order entirely. Runs at startup
// and on every catalog change; inconsistency is corrected, never surfaced.
func (s *Store) Reconcile() {
	items := s.catalog.Items()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return
	}

	if len(items) == 0 {
		s.log.Warn("catalog is empty, clearing order", "dropped", len(s.items))
		s.items = nil
		s.total = 0
		s.persistLocked()
		return
	}

	known := make(map[int64]struct{}, len(items))
	for _, item := range items {
		known[item.ID] = struct{}{}
	}

	valid := s.items[:0:len(s.items)]
	for _, item := range s.items {
		if _, ok := known[item.ID]; ok {
			valid = append(valid, item)
		}
	}

	if len(valid) == len(s.items) {
		return
	}

	dropped := len(s.items) - len(valid)
	s.items = valid
	var total float64
	for _, item := range s.items {
		total += item.Price
	}
	s.total = clampTotal(total)
	s.persistLocked()

	s.log.Info("order reconciled against catalog",
		"dropped", dropped,
		"remaining", len(s.items),
		"total", s.total,
	)
}

// persistLocked saves both order keys. Callers must hold s.mu. The two saves
// are independent; there is no cross-key transaction.
func (s *Store) persistLocked() {
	s.kv.Save(orderItemsKey, s.items)
	s.kv.Save(totalPriceKey, s.total)
}

func clampTotal(total float64) float64 {
	if total < priceEpsilon {
		return 0
	}
	return total
}
