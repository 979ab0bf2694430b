package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/basket/internal/auth"
	"github.com/mmynk/basket/internal/chat"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/service"
	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/storage/sqlite"
)

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, messages []chat.Message) (string, error) {
	return "echo: " + messages[len(messages)-1].Content, nil
}

func startServer(t *testing.T, completer chat.Completer) string {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "basket.db"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	service.Mount(mux, service.Deps{
		Store:         store,
		Authenticator: auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		JWT:           auth.NewJWTManager("test-secret", time.Hour),
		Completer:     completer,
		ChatTimeout:   time.Second,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server.URL
}

func newApp(t *testing.T, client *Client) *state.App {
	t.Helper()
	app := state.NewApp(client, client, client)
	t.Cleanup(app.Close)
	return app
}

func TestItemsRoundTrip(t *testing.T) {
	url := startServer(t, nil)
	client := New(http.DefaultClient, url, "")
	app := newApp(t, client)
	ctx := context.Background()

	id, err := app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "demo", id.Username)

	milk, err := app.Items.AddItem(ctx, "Milk", models.CategoryDairy, 3.5)
	require.NoError(t, err)
	bread, err := app.Items.AddItem(ctx, "Bread", models.CategoryBakery, 2)
	require.NoError(t, err)
	_, err = app.Items.ToggleItem(ctx, bread.ID)
	require.NoError(t, err)

	n, err := app.Items.ClearCompletedItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, app.Reload(ctx))
	items := app.Items.Items()
	require.Len(t, items, 1)
	assert.Equal(t, milk.ID, items[0].ID)
	assert.Equal(t, milk.CreatedAt, items[0].CreatedAt)
}

func TestClearCompletedReloadsWhenServerDisagrees(t *testing.T) {
	url := startServer(t, nil)
	ctx := context.Background()

	phone := newApp(t, New(http.DefaultClient, url, ""))
	_, err := phone.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	eggs, err := phone.Items.AddItem(ctx, "Eggs", models.CategoryDairy, 4)
	require.NoError(t, err)
	_, err = phone.Items.ToggleItem(ctx, eggs.ID)
	require.NoError(t, err)

	// another session puts the eggs back on the list
	laptop := newApp(t, New(http.DefaultClient, url, ""))
	_, err = laptop.Session.SignIn(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	_, err = laptop.Items.ToggleItem(ctx, eggs.ID)
	require.NoError(t, err)

	n, err := phone.Items.ClearCompletedItems(ctx)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, state.ErrPersistence)
	assert.ErrorIs(t, err, ErrPartialClear)

	items := phone.Items.Items()
	require.Len(t, items, 1)
	assert.Equal(t, eggs.ID, items[0].ID)
	assert.False(t, items[0].Completed)
}

func TestSignInErrors(t *testing.T) {
	url := startServer(t, nil)
	app := newApp(t, New(http.DefaultClient, url, ""))
	ctx := context.Background()

	_, err := app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, app.Session.Logout(ctx))

	_, err = app.Session.SignIn(ctx, "demo@example.com", "wrong-password")
	assert.ErrorIs(t, err, state.ErrInvalidCredential)

	_, err = app.Session.SignIn(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, state.ErrNotFound)

	_, err = app.Session.SignUp(ctx, "demo@example.com", "password123")
	assert.ErrorIs(t, err, state.ErrDuplicate)
}

func TestTokenPersists(t *testing.T) {
	url := startServer(t, nil)
	tokenPath := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first := newApp(t, New(http.DefaultClient, url, tokenPath))
	_, err := first.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)
	_, err = first.Items.AddItem(ctx, "Milk", models.CategoryDairy, 3.5)
	require.NoError(t, err)

	second := newApp(t, New(http.DefaultClient, url, tokenPath))
	id, err := second.Session.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "demo", id.Username)
	assert.Len(t, second.Items.Items(), 1)

	require.NoError(t, second.Session.Logout(ctx))
	_, err = os.Stat(tokenPath)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRejectedTokenExpiresSession(t *testing.T) {
	url := startServer(t, nil)
	tokenPath := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(tokenPath, []byte(`{"token":"not-a-jwt"}`), 0600))
	ctx := context.Background()

	client := New(http.DefaultClient, url, tokenPath)
	app := newApp(t, client)
	id, err := app.Session.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, state.Anonymous, app.Session.Status())

	_, err = client.ListItems(ctx, "")
	assert.ErrorIs(t, err, state.ErrSessionExpired)
}

func TestFriendsThroughServer(t *testing.T) {
	url := startServer(t, nil)
	ctx := context.Background()

	bob := newApp(t, New(http.DefaultClient, url, ""))
	_, err := bob.Session.SignUp(ctx, "bob@example.com", "password123")
	require.NoError(t, err)

	alice := newApp(t, New(http.DefaultClient, url, ""))
	_, err = alice.Session.SignUp(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	friend, err := alice.Friends.AddFriend(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", friend.Username)

	require.NoError(t, alice.Reload(ctx))
	friends := alice.Friends.Friends()
	require.Len(t, friends, 1)
	assert.Equal(t, friend.ID, friends[0].ID)

	require.NoError(t, alice.Friends.RemoveFriend(ctx, friend.ID))
	require.NoError(t, alice.Reload(ctx))
	assert.Empty(t, alice.Friends.Friends())
}

func TestCompleterProxiesThroughServer(t *testing.T) {
	url := startServer(t, echoCompleter{})
	client := New(http.DefaultClient, url, "")
	app := newApp(t, client)
	ctx := context.Background()
	_, err := app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)

	assistant := chat.NewAssistant(client.Completer(), app.Items)
	reply := assistant.Ask(ctx, nil, "hello")
	assert.False(t, reply.Fallback)
	assert.Equal(t, "echo: hello", reply.Content)

	logs, err := client.APILogs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCompleterWithoutUpstreamFallsBack(t *testing.T) {
	url := startServer(t, nil)
	client := New(http.DefaultClient, url, "")
	app := newApp(t, client)
	ctx := context.Background()
	_, err := app.Session.SignUp(ctx, "demo@example.com", "password123")
	require.NoError(t, err)

	_, err = client.Completer().Complete(ctx, []chat.Message{{Role: chat.RoleUser, Content: "hi"}})
	require.Error(t, err)

	assistant := chat.NewAssistant(client.Completer(), app.Items)
	reply := assistant.Ask(ctx, nil, "how many calories in an apple")
	assert.True(t, reply.Fallback)
	assert.Contains(t, reply.Content, "apple")
}
