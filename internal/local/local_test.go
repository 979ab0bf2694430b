package local

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/basket/internal/auth"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/storage/filestore"
)

type fixture struct {
	store   *filestore.Store
	backend *Backend
	app     *state.App
}

func setup(t *testing.T, dir string) *fixture {
	t.Helper()
	store, err := filestore.Open(filepath.Join(dir, "data"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	authn := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	backend := New(store, authn, filepath.Join(dir, "session.json"))
	app := state.NewApp(backend, backend, backend)
	t.Cleanup(app.Close)
	return &fixture{store: store, backend: backend, app: app}
}

func TestSignUpDerivesUniqueHandle(t *testing.T) {
	f := setup(t, t.TempDir())
	ctx := context.Background()

	first, err := f.app.Session.SignUp(ctx, "demo@other.org", "password123")
	require.NoError(t, err)
	assert.Equal(t, "demo", first.Username)
	require.NoError(t, f.app.Session.Logout(ctx))

	second, err := f.app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "demo1", second.Username)
}

func TestSignUpErrors(t *testing.T) {
	f := setup(t, t.TempDir())
	ctx := context.Background()

	_, err := f.app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.app.Session.Logout(ctx))

	_, err = f.app.Session.SignUp(ctx, "demo@example.com", "password123")
	assert.ErrorIs(t, err, state.ErrDuplicate)

	_, err = f.app.Session.SignUp(ctx, "short@example.com", "short")
	assert.ErrorIs(t, err, state.ErrValidation)
}

func TestSignInErrors(t *testing.T) {
	f := setup(t, t.TempDir())
	ctx := context.Background()
	_, err := f.app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.app.Session.Logout(ctx))

	_, err = f.app.Session.SignIn(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, state.ErrNotFound)

	_, err = f.app.Session.SignIn(ctx, "demo@example.com", "wrong-password")
	assert.ErrorIs(t, err, state.ErrInvalidCredential)

	id, err := f.app.Session.SignIn(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "demo", id.Username)
}

func TestItemsPersistAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	f := setup(t, dir)
	_, err := f.app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	milk, err := f.app.Items.AddItem(ctx, "Milk", models.CategoryDairy, 3.5)
	require.NoError(t, err)
	_, err = f.app.Items.ToggleItem(ctx, milk.ID)
	require.NoError(t, err)
	f.app.Close()
	require.NoError(t, f.store.Close())

	g := setup(t, dir)
	id, err := g.app.Session.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "demo", id.Username)

	items := g.app.Items.Items()
	require.Len(t, items, 1)
	assert.Equal(t, milk.ID, items[0].ID)
	assert.True(t, items[0].Completed)
}

func TestLogoutForgetsSession(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	f := setup(t, dir)
	_, err := f.app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.app.Session.Logout(ctx))

	id, err := f.backend.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestFriendsThroughStore(t *testing.T) {
	f := setup(t, t.TempDir())
	ctx := context.Background()

	_, err := f.app.Session.SignUp(ctx, "bob@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.app.Session.Logout(ctx))
	_, err = f.app.Session.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	friend, err := f.app.Friends.AddFriend(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", friend.Username)

	_, err = f.app.Friends.AddFriend(ctx, "alice")
	assert.ErrorIs(t, err, state.ErrSelfReference)

	stored, err := f.store.ListFriends(ctx, f.app.Session.Identity().ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, friend.ID, stored[0].ID)

	for _, u := range f.app.Friends.ListAllKnownUsers() {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestBackendSessionIsSafeForConcurrentUse(t *testing.T) {
	store, err := filestore.Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	backend := New(store, auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost), "")
	ctx := context.Background()

	user, err := backend.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 10 {
				assert.NoError(t, backend.SignOut(ctx))
				_, err := backend.SignIn(ctx, "demo@example.com", "password123")
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for range 10 {
				_, err := backend.CurrentSession(ctx)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	current, err := backend.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
}
