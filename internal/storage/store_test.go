package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thisdjs/breakfast-menu-app/pkg/logger"
)

func TestFileStore_SaveLoad(t *testing.T) {
	log := logger.New("error")
	store, err := NewFileStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	type payload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	store.Save("test", payload{Name: "Pancakes", Price: 5.5})

	var loaded payload
	if !store.Load("test", &loaded) {
		t.Fatal("Load() = false, want true")
	}

	if loaded.Name != "Pancakes" || loaded.Price != 5.5 {
		t.Errorf("Load() = %+v, want {Pancakes 5.5}", loaded)
	}
}

func TestFileStore_MissingKey(t *testing.T) {
	log := logger.New("error")
	store, err := NewFileStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	var value float64 = 42
	if store.Load("nope", &value) {
		t.Error("Load() = true for missing key, want false")
	}

	// The destination must be untouched so callers keep their default.
	if value != 42 {
		t.Errorf("Load() modified dst to %v on miss", value)
	}
}

func TestFileStore_CorruptValue(t *testing.T) {
	dir := t.TempDir()
	log := logger.New("error")
	store, err := NewFileStore(dir, log)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	// Stored total price is not a number: the caller must get "absent",
	// never a parse error or NaN.
	if err := os.WriteFile(filepath.Join(dir, "totalPrice.json"), []byte(`"abc"`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	var total float64
	if store.Load("totalPrice", &total) {
		t.Error("Load() = true for corrupt value, want false")
	}
	if total != 0 {
		t.Errorf("total = %v after corrupt load, want 0", total)
	}
}

func TestFileStore_OverwritesPreviousValue(t *testing.T) {
	log := logger.New("error")
	store, err := NewFileStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	store.Save("total", 5.5)
	store.Save("total", 0.0)

	var total float64 = -1
	if !store.Load("total", &total) {
		t.Fatal("Load() = false, want true")
	}
	if total != 0 {
		t.Errorf("total = %v, want 0", total)
	}
}

func TestMemStore_FailWrites(t *testing.T) {
	log := logger.New("error")
	store := NewMemStore(log)
	store.FailWrites = true

	// A refused write must not panic or error out; the value simply stays
	// absent, like a filled-up quota.
	store.Save("key", []int{1, 2, 3})

	var v []int
	if store.Load("key", &v) {
		t.Error("Load() = true after refused write, want false")
	}
}
