package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.json")

	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.Set("test:7:deadline", "1700000000"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A new handle over the same file sees the value, like a page reload.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, err := reopened.Get("test:7:deadline")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "1700000000" {
		t.Errorf("value = %q", v)
	}
}

func TestFileStoreRemove(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := fs.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := fs.Remove("k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := fs.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove = %v, want ErrNotFound", err)
	}

	// Removing a missing key is not an error.
	if err := fs.Remove("k"); err != nil {
		t.Errorf("Remove missing key: %v", err)
	}
}

func TestMemoryStoreBasics(t *testing.T) {
	m := NewMemoryStore()

	if _, err := m.Get("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get absent = %v, want ErrNotFound", err)
	}
	if err := m.Set("k", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set("k", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, err := m.Get("k")
	if err != nil || v != "2" {
		t.Errorf("Get = %q, %v", v, err)
	}
	if err := m.Remove("k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := m.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove = %v, want ErrNotFound", err)
	}
}
