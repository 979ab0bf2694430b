package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
	"github.com/mmynk/basket/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestSQLiteStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newTestStore(t)
	})
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "basket.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	user := models.NewUser("demo@example.com", "demo", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := store.CreateItem(ctx, &models.Item{OwnerID: user.ID, Name: "Milk", Category: models.CategoryDairy}); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	store.Close()

	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	items, err := store.ListItems(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Milk" {
		t.Errorf("expected Milk after reopen, got %+v", items)
	}
}

func TestItemsRequireOwner(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	err := store.CreateItem(context.Background(), &models.Item{OwnerID: "ghost", Name: "Milk", Category: models.CategoryDairy})
	if err == nil {
		t.Error("expected foreign key violation for unknown owner")
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
