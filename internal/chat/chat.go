// Package chat answers nutrition questions. An upstream completion model is
// tried once per message; when it fails for any reason a deterministic
// responder built from the grocery list and a fixed fact table answers instead.
package chat

import (
	"context"
	"errors"
	"time"
)

// Role is who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

var (
	// ErrEmptyMessage is returned when a blank message is sent.
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrMalformedResponse means the upstream answered without a usable message.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrNotConfigured means no upstream credential is available.
	ErrNotConfigured = errors.New("chat upstream not configured")

	ErrResponseTooLarge = errors.New("completion response too large")
)

// Completer produces the next assistant message for a conversation.
// Implementations add their own system prompt.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Exchange describes one upstream call, successful or not.
type Exchange struct {
	Endpoint string
	Method   string
	Request  string
	Response string
	// Status is the HTTP status, or 0 when no response arrived.
	Status   int
	Started  time.Time
	Duration time.Duration
}

// Observer receives every Exchange made under a context.
type Observer func(ctx context.Context, ex Exchange)

type observerKey struct{}

// WithObserver returns a context whose upstream calls are reported to fn.
func WithObserver(ctx context.Context, fn Observer) context.Context {
	return context.WithValue(ctx, observerKey{}, fn)
}

// Observe reports ex to the observer installed with WithObserver, if any.
// Completer implementations call it once per upstream attempt.
func Observe(ctx context.Context, ex Exchange) {
	if fn, ok := ctx.Value(observerKey{}).(Observer); ok && fn != nil {
		fn(ctx, ex)
	}
}
