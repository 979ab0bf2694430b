// Package storagetest holds the behavior every storage.Store must share.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
)

// Run exercises newStore against the storage.Store contract.
// newStore must return an empty store; Run closes it.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"Users", testUsers},
		{"Items", testItems},
		{"DeleteItems", testDeleteItems},
		{"ItemsAreOwnerScoped", testItemsOwnerScoped},
		{"Friends", testFriends},
		{"APILogs", testAPILogs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func mustCreateUser(t *testing.T, s storage.Store, email, username string) *models.User {
	t.Helper()
	u := models.NewUser(email, username, "hash")
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return u
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()

	bob := mustCreateUser(t, s, "bob@example.com", "bob")
	alice := mustCreateUser(t, s, "alice@example.com", "Alice")

	got, err := s.GetUserByEmail(ctx, "BOB@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if diff := cmp.Diff(bob, got); diff != "" {
		t.Errorf("GetUserByEmail mismatch (-want +got):\n%s", diff)
	}

	got, err = s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if got == nil || got.ID != alice.ID {
		t.Errorf("GetUserByUsername(alice) = %+v, want %s", got, alice.ID)
	}

	got, err = s.GetUserByID(ctx, bob.ID)
	if err != nil || got == nil || got.Email != bob.Email {
		t.Errorf("GetUserByID = %+v, %v", got, err)
	}

	got, err = s.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || got != nil {
		t.Errorf("missing user lookup = %+v, %v; want nil, nil", got, err)
	}

	exists, err := s.UsernameExists(ctx, "BOB")
	if err != nil || !exists {
		t.Errorf("UsernameExists(BOB) = %v, %v", exists, err)
	}
	exists, err = s.UsernameExists(ctx, "carol")
	if err != nil || exists {
		t.Errorf("UsernameExists(carol) = %v, %v", exists, err)
	}

	dup := models.NewUser("Bob@Example.com", "bobby", "hash")
	if err := s.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate email: got %v, want ErrAlreadyExists", err)
	}
	dup = models.NewUser("other@example.com", "ALICE", "hash")
	if err := s.CreateUser(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate username: got %v, want ErrAlreadyExists", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	var names []string
	for _, u := range users {
		names = append(names, u.Username)
	}
	if diff := cmp.Diff([]string{"Alice", "bob"}, names); diff != "" {
		t.Errorf("ListUsers order mismatch (-want +got):\n%s", diff)
	}
}

func testItems(t *testing.T, s storage.Store) {
	ctx := context.Background()
	owner := mustCreateUser(t, s, "owner@example.com", "owner")

	items, err := s.ListItems(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("ListItems on empty list = %#v, want empty non-nil slice", items)
	}

	milk := &models.Item{OwnerID: owner.ID, Name: "Milk", Category: models.CategoryDairy, Price: 3.49, CreatedAt: 1000}
	bread := &models.Item{OwnerID: owner.ID, Name: "Bread", Category: models.CategoryBakery, CreatedAt: 2000}
	for _, item := range []*models.Item{milk, bread} {
		if err := s.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem(%s) failed: %v", item.Name, err)
		}
		if item.ID == "" {
			t.Errorf("CreateItem(%s) did not assign an ID", item.Name)
		}
	}

	// Same timestamp as bread; the later insert sorts first.
	eggs := &models.Item{OwnerID: owner.ID, Name: "Eggs", Category: models.CategoryDairy, CreatedAt: 2000}
	if err := s.CreateItem(ctx, eggs); err != nil {
		t.Fatalf("CreateItem(Eggs) failed: %v", err)
	}

	items, err = s.ListItems(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	want := []models.Item{*eggs, *bread, *milk}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("ListItems mismatch (-want +got):\n%s", diff)
	}

	again := &models.Item{ID: milk.ID, OwnerID: owner.ID, Name: "Milk", Category: models.CategoryDairy}
	if err := s.CreateItem(ctx, again); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate item ID: got %v, want ErrAlreadyExists", err)
	}

	updated := *milk
	updated.Name = "Oat milk"
	updated.Completed = true
	updated.Price = 4.25
	updated.CreatedAt = 99 // ignored
	if err := s.UpdateItem(ctx, &updated); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	items, _ = s.ListItems(ctx, owner.ID)
	wantMilk := *milk
	wantMilk.Name = "Oat milk"
	wantMilk.Completed = true
	wantMilk.Price = 4.25
	if diff := cmp.Diff(wantMilk, items[2]); diff != "" {
		t.Errorf("updated item mismatch (-want +got):\n%s", diff)
	}

	missing := models.Item{ID: "missing", OwnerID: owner.ID, Name: "x", Category: models.CategoryOther}
	if err := s.UpdateItem(ctx, &missing); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateItem(missing): got %v, want ErrNotFound", err)
	}

	if err := s.DeleteItem(ctx, owner.ID, bread.ID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if err := s.DeleteItem(ctx, owner.ID, bread.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteItem: got %v, want ErrNotFound", err)
	}

	items, _ = s.ListItems(ctx, owner.ID)
	if len(items) != 2 {
		t.Errorf("expected 2 items after delete, got %d", len(items))
	}
}

func testDeleteItems(t *testing.T, s storage.Store) {
	ctx := context.Background()
	owner := mustCreateUser(t, s, "owner@example.com", "owner")

	var ids []string
	for i, name := range []string{"a", "b", "c", "d"} {
		item := &models.Item{OwnerID: owner.ID, Name: name, Category: models.CategoryOther, CreatedAt: int64(i + 1)}
		if err := s.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		ids = append(ids, item.ID)
	}

	n, err := s.DeleteItems(ctx, owner.ID, []string{ids[0], ids[2], "unknown"})
	if err != nil {
		t.Fatalf("DeleteItems failed: %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteItems removed %d, want 2", n)
	}

	n, err = s.DeleteItems(ctx, owner.ID, nil)
	if err != nil || n != 0 {
		t.Errorf("DeleteItems(nil) = %d, %v; want 0, nil", n, err)
	}

	items, _ := s.ListItems(ctx, owner.ID)
	got := make([]string, len(items))
	for i, item := range items {
		got[i] = item.Name
	}
	if diff := cmp.Diff([]string{"d", "b"}, got); diff != "" {
		t.Errorf("remaining items mismatch (-want +got):\n%s", diff)
	}
}

func testItemsOwnerScoped(t *testing.T, s storage.Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice@example.com", "alice")
	bob := mustCreateUser(t, s, "bob@example.com", "bob")

	item := &models.Item{OwnerID: alice.ID, Name: "Apples", Category: models.CategoryProduce}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	items, _ := s.ListItems(ctx, bob.ID)
	if len(items) != 0 {
		t.Errorf("bob sees %d of alice's items", len(items))
	}

	if err := s.DeleteItem(ctx, bob.ID, item.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-owner delete: got %v, want ErrNotFound", err)
	}

	stolen := *item
	stolen.OwnerID = bob.ID
	stolen.Completed = true
	if err := s.UpdateItem(ctx, &stolen); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-owner update: got %v, want ErrNotFound", err)
	}

	items, _ = s.ListItems(ctx, alice.ID)
	if len(items) != 1 || items[0].Completed {
		t.Errorf("alice's item changed by bob: %+v", items)
	}
}

func testFriends(t *testing.T, s storage.Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice@example.com", "alice")
	bob := mustCreateUser(t, s, "bob@example.com", "bob")
	carol := mustCreateUser(t, s, "carol@example.com", "carol")

	if err := s.AddFriend(ctx, alice.ID, carol.ID, 10); err != nil {
		t.Fatalf("AddFriend(carol) failed: %v", err)
	}
	if err := s.AddFriend(ctx, alice.ID, bob.ID, 20); err != nil {
		t.Fatalf("AddFriend(bob) failed: %v", err)
	}

	if err := s.AddFriend(ctx, alice.ID, bob.ID, 30); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate friend: got %v, want ErrAlreadyExists", err)
	}
	if err := s.AddFriend(ctx, alice.ID, "ghost", 30); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown friend: got %v, want ErrNotFound", err)
	}

	friends, err := s.ListFriends(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	want := []models.Friend{
		{ID: carol.ID, Username: "carol", AvatarURL: carol.AvatarURL, Email: carol.Email, CreatedAt: 10},
		{ID: bob.ID, Username: "bob", AvatarURL: bob.AvatarURL, Email: bob.Email, CreatedAt: 20},
	}
	if diff := cmp.Diff(want, friends); diff != "" {
		t.Errorf("ListFriends mismatch (-want +got):\n%s", diff)
	}

	// Relationships are directed.
	friends, _ = s.ListFriends(ctx, bob.ID)
	if len(friends) != 0 {
		t.Errorf("bob has %d friends, want 0", len(friends))
	}

	if err := s.RemoveFriend(ctx, alice.ID, carol.ID); err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}
	if err := s.RemoveFriend(ctx, alice.ID, carol.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second RemoveFriend: got %v, want ErrNotFound", err)
	}

	friends, _ = s.ListFriends(ctx, alice.ID)
	if len(friends) != 1 || friends[0].ID != bob.ID {
		t.Errorf("after remove: %+v", friends)
	}
}

func testAPILogs(t *testing.T, s storage.Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice@example.com", "alice")
	bob := mustCreateUser(t, s, "bob@example.com", "bob")

	for i, owner := range []string{alice.ID, bob.ID, alice.ID, alice.ID} {
		log := &models.APILog{
			UserID:    owner,
			Timestamp: int64(1000 + i),
			Endpoint:  "https://api.example.com/v1/chat/completions",
			Method:    "POST",
			Status:    200,
		}
		if err := s.CreateAPILog(ctx, log); err != nil {
			t.Fatalf("CreateAPILog failed: %v", err)
		}
		if log.ID == "" {
			t.Error("CreateAPILog did not assign an ID")
		}
	}

	logs, err := s.ListAPILogs(ctx, alice.ID, 0)
	if err != nil {
		t.Fatalf("ListAPILogs failed: %v", err)
	}
	var stamps []int64
	for _, l := range logs {
		stamps = append(stamps, l.Timestamp)
	}
	if diff := cmp.Diff([]int64{1003, 1002, 1000}, stamps); diff != "" {
		t.Errorf("ListAPILogs order mismatch (-want +got):\n%s", diff)
	}

	logs, _ = s.ListAPILogs(ctx, alice.ID, 2)
	if len(logs) != 2 {
		t.Errorf("ListAPILogs(limit=2) returned %d", len(logs))
	}

	n, err := s.ClearAPILogs(ctx, alice.ID)
	if err != nil || n != 3 {
		t.Errorf("ClearAPILogs = %d, %v; want 3, nil", n, err)
	}

	logs, _ = s.ListAPILogs(ctx, bob.ID, 0)
	want := []models.APILog{{UserID: bob.ID, Timestamp: 1001, Endpoint: "https://api.example.com/v1/chat/completions", Method: "POST", Status: 200}}
	if diff := cmp.Diff(want, logs, cmpopts.IgnoreFields(models.APILog{}, "ID")); diff != "" {
		t.Errorf("bob's logs mismatch (-want +got):\n%s", diff)
	}
}
