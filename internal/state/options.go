package state

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every durable call made by the stores.
const DefaultTimeout = 10 * time.Second

type config struct {
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a store or an App.
type Option func(*config)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces time.Now for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithIDGenerator replaces the UUID generator used for new items.
func WithIDGenerator(newID func() string) Option {
	return func(c *config) { c.newID = newID }
}

func newConfig(opts []Option) config {
	c := config{
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
