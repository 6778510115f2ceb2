package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshav-jajoriya/bill-tracker/internal/storage"
)

func TestStore(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("missing key reports ErrKeyNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "billingLists")
		if !errors.Is(err, storage.ErrKeyNotFound) {
			t.Errorf("Get error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		want := []byte(`[{"id":"1","title":"Groceries"}]`)
		if err := store.Set(ctx, "billingLists", want); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		got, err := store.Get(ctx, "billingLists")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != string(want) {
			t.Errorf("Get = %q, want %q", got, want)
		}
	})

	t.Run("set overwrites and leaves no temp files", func(t *testing.T) {
		if err := store.Set(ctx, "billingLists", []byte("v2")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		got, err := store.Get(ctx, "billingLists")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "v2" {
			t.Errorf("Get = %q, want v2", got)
		}

		entries, err := os.ReadDir(store.dir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		for _, e := range entries {
			if e.Name() != "billingLists.json" {
				t.Errorf("unexpected file left behind: %s", e.Name())
			}
		}
	})

	t.Run("keys with unsafe characters map to safe file names", func(t *testing.T) {
		if err := store.Set(ctx, "a/b:c", []byte("x")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := store.Get(ctx, "a/b:c")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "x" {
			t.Errorf("Get = %q, want x", got)
		}
	})
}
