package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/basket/internal/models"
)

type recorder struct {
	mu     sync.Mutex
	events []*models.Identity
}

func (r *recorder) record(id *models.Identity) {
	r.mu.Lock()
	r.events = append(r.events, id)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []*models.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Identity(nil), r.events...)
}

func TestSignInPublishesIdentity(t *testing.T) {
	provider := newFakeIdentity()
	provider.register("u1", "demo@example.com", "secret")
	s := NewSession(provider, testOptions()...)
	var rec recorder
	s.Subscribe(rec.record)

	id, err := s.SignIn(context.Background(), "demo@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, Authenticated, s.Status())
	assert.Equal(t, id, s.Identity())

	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "u1", events[0].ID)
}

func TestSignInFailures(t *testing.T) {
	provider := newFakeIdentity()
	provider.register("u1", "demo@example.com", "secret")
	s := NewSession(provider, testOptions()...)
	var rec recorder
	s.Subscribe(rec.record)

	_, err := s.SignIn(context.Background(), "demo@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = s.SignIn(context.Background(), "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, Anonymous, s.Status())
	assert.Nil(t, s.Identity())
	assert.Empty(t, rec.snapshot())
}

func TestSignUpDuplicateEmail(t *testing.T) {
	provider := newFakeIdentity()
	provider.register("u1", "demo@example.com", "secret")
	s := NewSession(provider, testOptions()...)

	_, err := s.SignUp(context.Background(), "demo@example.com", "other")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, Anonymous, s.Status())

	id, err := s.SignUp(context.Background(), "new@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", id.Email)
	assert.Equal(t, Authenticated, s.Status())
}

func TestSecondAttemptWhileAuthenticating(t *testing.T) {
	provider := newFakeIdentity()
	provider.register("u1", "demo@example.com", "secret")
	g := newGate("signin")
	provider.setHook(g.hook)
	s := NewSession(provider, testOptions()...)

	done := make(chan error, 1)
	go func() {
		_, err := s.SignIn(context.Background(), "demo@example.com", "secret")
		done <- err
	}()
	<-g.entered
	assert.Equal(t, Authenticating, s.Status())

	_, err := s.SignIn(context.Background(), "demo@example.com", "secret")
	assert.ErrorIs(t, err, ErrAuthInProgress)
	_, err = s.SignUp(context.Background(), "x@example.com", "secret")
	assert.ErrorIs(t, err, ErrAuthInProgress)

	close(g.release)
	require.NoError(t, <-done)
	assert.Equal(t, Authenticated, s.Status())
}

func TestLogoutClearsEvenWhenProviderFails(t *testing.T) {
	provider := newFakeIdentity()
	provider.register("u1", "demo@example.com", "secret")
	s := NewSession(provider, testOptions()...)
	_, err := s.SignIn(context.Background(), "demo@example.com", "secret")
	require.NoError(t, err)

	var rec recorder
	s.Subscribe(rec.record)
	provider.setHook(failOn("signout", errors.New("offline")))

	assert.Error(t, s.Logout(context.Background()))
	assert.Equal(t, Anonymous, s.Status())
	assert.Nil(t, s.Identity())
	assert.Equal(t, []*models.Identity{nil}, rec.snapshot())
}

func TestRestore(t *testing.T) {
	provider := newFakeIdentity()
	provider.register("u1", "demo@example.com", "secret")
	s := NewSession(provider, testOptions()...)

	id, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, Anonymous, s.Status())

	_, err = provider.SignIn(context.Background(), "demo@example.com", "secret")
	require.NoError(t, err)
	id, err = s.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, Authenticated, s.Status())
}

func TestRestoreExpiredSession(t *testing.T) {
	provider := newFakeIdentity()
	provider.setHook(failOn("current", ErrSessionExpired))
	s := NewSession(provider, testOptions()...)

	id, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, Anonymous, s.Status())
}

func TestExpire(t *testing.T) {
	provider := newFakeIdentity()
	provider.register("u1", "demo@example.com", "secret")
	s := NewSession(provider, testOptions()...)
	var rec recorder
	s.Subscribe(rec.record)

	s.Expire()
	assert.Empty(t, rec.snapshot())

	_, err := s.SignIn(context.Background(), "demo@example.com", "secret")
	require.NoError(t, err)
	s.Expire()
	assert.Nil(t, s.Identity())
	events := rec.snapshot()
	require.Len(t, events, 2)
	assert.Nil(t, events[1])
}

func TestUnsubscribe(t *testing.T) {
	provider := newFakeIdentity()
	provider.register("u1", "demo@example.com", "secret")
	s := NewSession(provider, testOptions()...)
	var first, second recorder
	unsubscribe := s.Subscribe(first.record)
	s.Subscribe(second.record)

	unsubscribe()
	_, err := s.SignIn(context.Background(), "demo@example.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, first.snapshot())
	assert.Len(t, second.snapshot(), 1)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticating", Authenticating.String())
	assert.Equal(t, "authenticated", Authenticated.String())
}
