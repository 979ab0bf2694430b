package state

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/basket/internal/models"
)

// App wires the session to the stores it scopes: signing in loads the
// user's items and friends, signing out or expiring clears them.
type App struct {
	Session *Session
	Items   *ItemStore
	Friends *FriendStore

	logger      *slog.Logger
	unsubscribe func()
}

func NewApp(identity IdentityProvider, items ItemBackend, friends FriendBackend, opts ...Option) *App {
	c := newConfig(opts)
	a := &App{
		Session: NewSession(identity, opts...),
		Items:   NewItemStore(items, opts...),
		Friends: NewFriendStore(friends, opts...),
		logger:  c.logger,
	}
	a.Items.onExpired = a.Session.Expire
	a.Friends.onExpired = a.Session.Expire
	a.unsubscribe = a.Session.Subscribe(a.onSessionChange)
	return a
}

func (a *App) onSessionChange(identity *models.Identity) {
	if identity == nil {
		a.Items.Reset("")
		a.Friends.Reset("")
		return
	}
	a.Items.Reset(identity.ID)
	a.Friends.Reset(identity.ID)
	if err := a.load(context.Background(), identity.ID); err != nil {
		a.logger.Warn("Failed to load session data", "user_id", identity.ID, "error", err)
	}
}

// Reload fetches items and friends for the signed-in user concurrently.
func (a *App) Reload(ctx context.Context) error {
	identity := a.Session.Identity()
	if identity == nil {
		return ErrNotAuthenticated
	}
	return a.load(ctx, identity.ID)
}

func (a *App) load(ctx context.Context, ownerID string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Items.Load(ctx, ownerID) })
	g.Go(func() error { return a.Friends.Load(ctx, ownerID) })
	return g.Wait()
}

// Close detaches the stores from the session.
func (a *App) Close() {
	a.unsubscribe()
}
