package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/basket/internal/models"
)

// Status is the Session state.
type Status int

const (
	Anonymous Status = iota
	Authenticating
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Session tracks who is signed in and tells subscribers about every change.
type Session struct {
	provider IdentityProvider
	timeout  time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	status   Status
	identity *models.Identity
	subs     []subscription
	nextSub  int

	// publishing keeps notifications in transition order.
	publishing sync.Mutex
}

type subscription struct {
	id int
	fn func(*models.Identity)
}

func NewSession(provider IdentityProvider, opts ...Option) *Session {
	c := newConfig(opts)
	return &Session{
		provider: provider,
		timeout:  c.timeout,
		logger:   c.logger,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Identity returns a copy of the signed-in identity, or nil.
func (s *Session) Identity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIdentity(s.identity)
}

// Subscribe registers fn for every transition. fn receives the new identity,
// or nil once signed out. Callbacks run synchronously, in subscription order,
// and must not start another transition.
func (s *Session) Subscribe(fn func(*models.Identity)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// SignUp creates an account and signs it in.
func (s *Session) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	return s.authenticate(ctx, "sign up", func(ctx context.Context) (*models.Identity, error) {
		return s.provider.SignUp(ctx, email, password)
	})
}

// SignIn authenticates an existing account.
func (s *Session) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	return s.authenticate(ctx, "sign in", func(ctx context.Context) (*models.Identity, error) {
		return s.provider.SignIn(ctx, email, password)
	})
}

func (s *Session) authenticate(ctx context.Context, op string, attempt func(context.Context) (*models.Identity, error)) (*models.Identity, error) {
	s.mu.Lock()
	if s.status == Authenticating {
		s.mu.Unlock()
		return nil, ErrAuthInProgress
	}
	prevStatus, prevIdentity := s.status, s.identity
	s.status = Authenticating
	s.mu.Unlock()

	actx, cancel := context.WithTimeout(ctx, s.timeout)
	identity, err := attempt(actx)
	cancel()
	if err == nil && identity == nil {
		err = errors.New("identity provider returned no identity")
	}
	if err != nil {
		s.logger.Info("Authentication failed", "op", op, "error", err)
		s.mu.Lock()
		s.status, s.identity = prevStatus, prevIdentity
		s.mu.Unlock()
		return nil, err
	}

	s.transition(Authenticated, identity)
	s.logger.Info("Signed in", "user_id", identity.ID, "username", identity.Username)
	return cloneIdentity(identity), nil
}

// Restore resumes a persisted session, if the provider has one.
func (s *Session) Restore(ctx context.Context) (*models.Identity, error) {
	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	identity, err := s.provider.CurrentSession(rctx)
	cancel()
	if errors.Is(err, ErrSessionExpired) {
		s.Expire()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, nil
	}
	s.transition(Authenticated, identity)
	return cloneIdentity(identity), nil
}

// Logout signs out and clears every session-scoped store. The local state is
// cleared even when the provider fails to sign out.
func (s *Session) Logout(ctx context.Context) error {
	lctx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.provider.SignOut(lctx)
	cancel()
	if err != nil {
		s.logger.Warn("Sign out failed", "error", err)
	}
	s.transition(Anonymous, nil)
	return err
}

// Expire drops the identity after the backend has rejected the session.
func (s *Session) Expire() {
	s.mu.Lock()
	signedIn := s.identity != nil
	s.mu.Unlock()
	if signedIn {
		s.logger.Info("Session expired")
		s.transition(Anonymous, nil)
	}
}

func (s *Session) transition(status Status, identity *models.Identity) {
	s.publishing.Lock()
	defer s.publishing.Unlock()

	s.mu.Lock()
	s.status = status
	s.identity = cloneIdentity(identity)
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(cloneIdentity(identity))
	}
}

func cloneIdentity(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
