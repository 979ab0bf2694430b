package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/basket/internal/models"
)

func newTestApp(t *testing.T) (*App, *fakeIdentity, *memItems, *memFriends) {
	t.Helper()
	provider := newFakeIdentity()
	provider.register(owner, "alice@example.com", "secret")
	provider.register(bob.ID, "bob@example.com", "secret")

	items := newMemItems(
		seedItem("a", "Apples", models.CategoryProduce, 1, false, 100),
		models.Item{ID: "b", OwnerID: bob.ID, Name: "Beer", Category: models.CategoryOther, Price: 9, CreatedAt: 100},
	)
	friends := newMemFriends(alice, bob)

	app := NewApp(provider, items, friends, testOptions()...)
	t.Cleanup(app.Close)
	return app, provider, items, friends
}

func TestSignInLoadsSessionData(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	_, err := app.Session.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, owner, app.Items.Owner())
	require.Len(t, app.Items.Items(), 1)
	assert.Equal(t, "Apples", app.Items.Items()[0].Name)
	assert.Len(t, app.Friends.ListAllKnownUsers(), 2)
}

func TestLogoutClearsSessionData(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.Session.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	_, err = app.Friends.AddFriend(context.Background(), "bob")
	require.NoError(t, err)

	require.NoError(t, app.Session.Logout(context.Background()))
	assert.Empty(t, app.Items.Items())
	assert.Empty(t, app.Friends.Friends())
	assert.Empty(t, app.Friends.ListAllKnownUsers())

	_, err = app.Items.AddItem(context.Background(), "Milk", models.CategoryDairy, 1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSwitchingUsersScopesItems(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.Session.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, app.Session.Logout(context.Background()))

	_, err = app.Session.SignIn(context.Background(), "bob@example.com", "secret")
	require.NoError(t, err)
	items := app.Items.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Beer", items[0].Name)
}

func TestRejectedSessionExpires(t *testing.T) {
	app, _, items, _ := newTestApp(t)
	_, err := app.Session.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	items.setHook(failOn("create", ErrSessionExpired))
	_, err = app.Items.AddItem(context.Background(), "Milk", models.CategoryDairy, 1)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, ErrSessionExpired)

	assert.Equal(t, Anonymous, app.Session.Status())
	assert.Empty(t, app.Items.Items())
	assert.Empty(t, app.Items.Owner())
}

func TestReload(t *testing.T) {
	app, _, items, _ := newTestApp(t)
	assert.ErrorIs(t, app.Reload(context.Background()), ErrNotAuthenticated)

	_, err := app.Session.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, items.CreateItem(context.Background(),
		seedItem("z", "Zucchini", models.CategoryProduce, 1, false, 900)))

	require.NoError(t, app.Reload(context.Background()))
	assert.Equal(t, "z", app.Items.Items()[0].ID)
}

func TestReloadOvertakenByLogout(t *testing.T) {
	app, _, items, _ := newTestApp(t)
	_, err := app.Session.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	g := newGate("list")
	items.setHook(g.hook)
	done := make(chan error, 1)
	go func() { done <- app.Reload(context.Background()) }()
	<-g.entered

	require.NoError(t, app.Session.Logout(context.Background()))
	close(g.release)
	require.NoError(t, <-done)

	assert.Empty(t, app.Items.Owner())
	assert.Empty(t, app.Items.Items())
	_, err = app.Items.AddItem(context.Background(), "Milk", models.CategoryDairy, 1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Len(t, items.stored(owner), 1)
}

func TestExpiryWhileSigningInCompletes(t *testing.T) {
	app, _, items, _ := newTestApp(t)
	_, err := app.Session.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	items.setHook(func(_ context.Context, op string) error {
		if op != "create" {
			return nil
		}
		close(entered)
		<-release
		return ErrSessionExpired
	})

	added := make(chan error, 1)
	go func() {
		_, err := app.Items.AddItem(context.Background(), "Milk", models.CategoryDairy, 1)
		added <- err
	}()
	<-entered

	signedIn := make(chan error, 1)
	go func() {
		_, err := app.Session.SignIn(context.Background(), "bob@example.com", "secret")
		signedIn <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	select {
	case err := <-added:
		assert.ErrorIs(t, err, ErrSessionExpired)
	case <-time.After(time.Second):
		t.Fatal("rejected mutation never returned")
	}
	select {
	case err := <-signedIn:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sign in never returned")
	}
}
