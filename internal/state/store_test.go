package state

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMappingRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.PutMapping("/overlay/proj", "/home/user/proj"); err != nil {
		t.Fatal(err)
	}

	original, err := store.GetMapping("/overlay/proj")
	if err != nil {
		t.Fatal(err)
	}
	if original != "/home/user/proj" {
		t.Errorf("original = %q, want /home/user/proj", original)
	}
}

func TestGetMappingMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetMapping("/never/recorded")
	if !errors.Is(err, ErrNoMapping) {
		t.Errorf("expected ErrNoMapping, got %v", err)
	}
}

func TestPutMappingReplaces(t *testing.T) {
	store := openTestStore(t)

	if err := store.PutMapping("/overlay", "/first"); err != nil {
		t.Fatal(err)
	}
	if err := store.PutMapping("/overlay", "/second"); err != nil {
		t.Fatal(err)
	}

	original, err := store.GetMapping("/overlay")
	if err != nil {
		t.Fatal(err)
	}
	if original != "/second" {
		t.Errorf("original = %q, want /second", original)
	}
}

func TestDeleteMapping(t *testing.T) {
	store := openTestStore(t)

	if err := store.PutMapping("/overlay", "/orig"); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteMapping("/overlay"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetMapping("/overlay"); !errors.Is(err, ErrNoMapping) {
		t.Errorf("expected ErrNoMapping after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := store.DeleteMapping("/overlay"); err != nil {
		t.Errorf("double delete: %v", err)
	}
}

func TestMappingSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.PutMapping("/overlay", "/orig"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	original, err := store.GetMapping("/overlay")
	if err != nil {
		t.Fatal(err)
	}
	if original != "/orig" {
		t.Errorf("original = %q, want /orig", original)
	}
}
