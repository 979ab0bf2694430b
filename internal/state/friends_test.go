package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/basket/internal/models"
)

var (
	alice = models.User{ID: owner, Username: "alice", Email: "alice@example.com"}
	bob   = models.User{ID: "bob-id", Username: "bob", Email: "bob@example.com"}
	carol = models.User{ID: "carol-id", Username: "carol", Email: "Carol@Example.com"}
	dave  = models.User{ID: "dave-id", Username: "dave", Email: "dave@example.com"}
)

func loadedFriendStore(t *testing.T, backend *memFriends) *FriendStore {
	t.Helper()
	s := NewFriendStore(backend, testOptions()...)
	require.NoError(t, s.Load(context.Background(), owner))
	return s
}

func friendIDs(friends []models.Friend) []string {
	var ids []string
	for _, f := range friends {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestAddFriendByUsernameOrEmail(t *testing.T) {
	backend := newMemFriends(alice, bob, carol)
	s := loadedFriendStore(t, backend)

	f, err := s.AddFriend(context.Background(), "BOB")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, f.ID)
	assert.Equal(t, "bob", f.Username)
	assert.Positive(t, f.CreatedAt)

	f, err = s.AddFriend(context.Background(), "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, carol.ID, f.ID)

	assert.Equal(t, []string{bob.ID, carol.ID}, friendIDs(s.Friends()))
	assert.Equal(t, s.Friends(), backend.stored(owner))
}

func TestAddFriendSelf(t *testing.T) {
	backend := newMemFriends(alice, bob)
	s := loadedFriendStore(t, backend)

	_, err := s.AddFriend(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, ErrSelfReference)
	assert.Empty(t, s.Friends())
	assert.Zero(t, backend.count("add"))
}

func TestAddFriendTwice(t *testing.T) {
	backend := newMemFriends(alice, bob)
	s := loadedFriendStore(t, backend)

	_, err := s.AddFriend(context.Background(), "bob")
	require.NoError(t, err)

	_, err = s.AddFriend(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, ErrAlreadyFriends)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, s.Friends(), 1)
	assert.Equal(t, 1, backend.count("add"))
}

func TestAddFriendUnknownRefreshesDirectoryOnce(t *testing.T) {
	backend := newMemFriends(alice, bob)
	s := loadedFriendStore(t, backend)
	before := backend.count("users")

	_, err := s.AddFriend(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before+1, backend.count("users"))
	assert.Empty(t, s.Friends())
}

func TestAddFriendFindsUserAfterRefresh(t *testing.T) {
	backend := newMemFriends(alice, bob)
	s := loadedFriendStore(t, backend)
	backend.addUser(dave)

	f, err := s.AddFriend(context.Background(), "dave")
	require.NoError(t, err)
	assert.Equal(t, dave.ID, f.ID)

	u, ok := s.FindByUsername("Dave")
	require.True(t, ok)
	assert.Equal(t, dave.ID, u.ID)
}

func TestAddFriendRollsBackExactEntry(t *testing.T) {
	backend := newMemFriends(alice, bob, carol)
	s := loadedFriendStore(t, backend)
	_, err := s.AddFriend(context.Background(), "bob")
	require.NoError(t, err)

	cause := errors.New("offline")
	backend.setHook(failOn("add", cause))
	_, err = s.AddFriend(context.Background(), "carol")
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{bob.ID}, friendIDs(s.Friends()))
}

func TestRemoveFriend(t *testing.T) {
	backend := newMemFriends(alice, bob, carol)
	s := loadedFriendStore(t, backend)
	for _, c := range []string{"bob", "carol"} {
		_, err := s.AddFriend(context.Background(), c)
		require.NoError(t, err)
	}

	require.NoError(t, s.RemoveFriend(context.Background(), bob.ID))
	assert.Equal(t, []string{carol.ID}, friendIDs(s.Friends()))
	assert.Equal(t, []string{carol.ID}, friendIDs(backend.stored(owner)))

	err := s.RemoveFriend(context.Background(), bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{carol.ID}, friendIDs(s.Friends()))
}

func TestRemoveFriendRestoresPosition(t *testing.T) {
	backend := newMemFriends(alice, bob, carol, dave)
	s := loadedFriendStore(t, backend)
	for _, c := range []string{"bob", "carol", "dave"} {
		_, err := s.AddFriend(context.Background(), c)
		require.NoError(t, err)
	}
	before := s.Friends()

	backend.setHook(failOn("remove", errors.New("offline")))
	err := s.RemoveFriend(context.Background(), carol.ID)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, before, s.Friends())
}

func TestDirectoryLookups(t *testing.T) {
	s := loadedFriendStore(t, newMemFriends(alice, bob, carol))

	u, ok := s.FindByEmail("CAROL@example.COM")
	require.True(t, ok)
	assert.Equal(t, carol.ID, u.ID)

	_, ok = s.FindByUsername("zed")
	assert.False(t, ok)

	assert.Len(t, s.ListAllKnownUsers(), 3)
}

func TestFriendsRequireOwner(t *testing.T) {
	s := NewFriendStore(newMemFriends(alice, bob), testOptions()...)
	_, err := s.AddFriend(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestFriendLoadOvertakenByResetIsDiscarded(t *testing.T) {
	backend := newMemFriends(alice, bob)
	require.NoError(t, backend.AddFriend(context.Background(), owner, models.FriendFromUser(&bob)))
	g := newGate("list")
	backend.setHook(g.hook)
	s := NewFriendStore(backend, testOptions()...)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background(), owner) }()
	<-g.entered
	s.Reset("")
	close(g.release)
	require.NoError(t, <-done)

	assert.Empty(t, s.Friends())
	assert.Empty(t, s.ListAllKnownUsers())
	assert.Zero(t, backend.count("users"))

	_, err := s.AddFriend(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestFriendLoadWaitsForPendingAdd(t *testing.T) {
	backend := newMemFriends(alice, bob)
	s := loadedFriendStore(t, backend)
	g := newGate("add")
	backend.setHook(g.hook)

	added := make(chan error, 1)
	go func() {
		_, err := s.AddFriend(context.Background(), "bob")
		added <- err
	}()
	<-g.entered

	loaded := make(chan error, 1)
	go func() { loaded <- s.Load(context.Background(), owner) }()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, backend.count("list"))

	close(g.release)
	require.NoError(t, <-added)
	require.NoError(t, <-loaded)
	assert.Equal(t, []string{bob.ID}, friendIDs(s.Friends()))
}
