package catalog

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/thisdjs/breakfast-menu-app/internal/models"
	"github.com/thisdjs/breakfast-menu-app/internal/storage"
)

// Storage key for the user-created portion of the catalog. Base items are
// never persisted.
const userItemsKey = "userCreatedItems"

// Store owns the combined menu catalog: a fixed base list merged with
// persisted user-created items, plus the derived category list. Derived state
// is recomputed synchronously on every mutation, in dependency order:
// user items, then the combined list, then categories, then subscribers.
type Store struct {
	mu         sync.Mutex
	base       []models.MenuItem
	userItems  []models.MenuItem
	allItems   []models.MenuItem
	categories []string

	loading     bool
	settleDelay time.Duration
	settleTimer *time.Timer

	subscribers []func()

	kv       storage.Store
	validate *validator.Validate
	log      *slog.Logger
}

// New creates a catalog store over the given base items, loading any
// persisted user-created items and computing derived state before returning.
// A settleDelay of zero clears the loading flag synchronously.
func New(base []models.MenuItem, kv storage.Store, settleDelay time.Duration, log *slog.Logger) *Store {
	s := &Store{
		base:        base,
		settleDelay: settleDelay,
		kv:          kv,
		validate:    validator.New(),
		log:         log,
	}

	var stored []models.MenuItem
	if s.kv.Load(userItemsKey, &stored) {
		s.userItems = sanitizeItems(stored, log)
		if len(s.userItems) != len(stored) {
			// Persist the cleaned list so the bad entries don't come back.
			s.kv.Save(userItemsKey, s.userItems)
		}
	}

	s.recomputeLocked()
	return s
}

// Subscribe registers fn to run after every catalog change, in registration
// order. Callbacks run outside the store's lock and may read catalog state.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Items returns a copy of the combined catalog, base items first.
func (s *Store) Items() []models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MenuItem, len(s.allItems))
	copy(out, s.allItems)
	return out
}

// ItemByID looks up an item in the combined catalog.
func (s *Store) ItemByID(id int64) (models.MenuItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.allItems {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

// Categories returns the sorted distinct categories of the combined catalog.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// Loading reports whether the catalog is still settling after a change.
// Consumers should not render category groupings while this is true.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// recomputeLocked rebuilds allItems and categories from base and userItems
// and restarts the settle timer. Callers must hold s.mu.
func (s *Store) recomputeLocked() {
	all := make([]models.MenuItem, 0, len(s.base)+len(s.userItems))
	all = append(all, s.base...)
	all = append(all, s.userItems...)
	s.allItems = all

	if len(all) == 0 {
		s.categories = nil
	} else {
		seen := make(map[string]struct{}, len(all))
		categories := make([]string, 0, len(all))
		for _, item := range all {
			if _, ok := seen[item.Category]; ok {
				continue
			}
			seen[item.Category] = struct{}{}
			categories = append(categories, item.Category)
		}
		sort.Strings(categories)
		s.categories = categories
	}

	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
	if s.settleDelay <= 0 {
		s.loading = false
		return
	}
	s.loading = true
	s.settleTimer = time.AfterFunc(s.settleDelay, func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	})
}

// notify invokes subscribers outside the lock so they can call back into the
// store.
func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// sanitizeItems drops persisted entries that no longer look like menu items
// rather than trusting stored JSON shape.
func sanitizeItems(items []models.MenuItem, log *slog.Logger) []models.MenuItem {
	out := items[:0:len(items)]
	for _, item := range items {
		if item.ID <= 0 || item.Name == "" || item.Price <= 0 || item.Category == "" {
			log.Warn("dropping malformed stored menu item", "id", item.ID, "name", item.Name)
			continue
		}
		out = append(out, item)
	}
	return out
}
