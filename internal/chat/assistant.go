package chat

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/basket/internal/models"
)

// DefaultTimeout bounds one upstream attempt.
const DefaultTimeout = 10 * time.Second

// ItemSource exposes the current grocery list to the fallback responder.
type ItemSource interface {
	Items() []models.Item
}

// Reply is the assistant's answer. Fallback is set when the deterministic
// responder produced it.
type Reply struct {
	Content  string
	Fallback bool
}

// Assistant answers messages, upstream first and locally on any failure.
type Assistant struct {
	completer Completer
	responder *Responder
	items     ItemSource
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithTimeout bounds the upstream attempt.
func WithTimeout(d time.Duration) Option {
	return func(a *Assistant) { a.timeout = d }
}

// WithResponder replaces the fallback responder.
func WithResponder(r *Responder) Option {
	return func(a *Assistant) { a.responder = r }
}

// WithLogger sets the logger used to report upstream failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// NewAssistant returns an assistant. A nil completer always falls back;
// a nil items source means an empty list.
func NewAssistant(completer Completer, items ItemSource, opts ...Option) *Assistant {
	a := &Assistant{
		completer: completer,
		items:     items,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.responder == nil {
		a.responder = NewResponder(nil)
	}
	return a
}

// Ask makes one upstream attempt with history plus message. It never fails:
// any upstream error is logged and answered by the fallback responder.
func (a *Assistant) Ask(ctx context.Context, history []Message, message string) Reply {
	if a.completer != nil {
		messages := append(slices.Clone(history), Message{Role: RoleUser, Content: message})

		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		content, err := a.completer.Complete(callCtx, messages)
		cancel()

		if err == nil {
			return Reply{Content: content}
		}
		a.logger.Warn("Chat upstream failed, using fallback", "error", err)
	}

	var items []models.Item
	if a.items != nil {
		items = a.items.Items()
	}
	return Reply{Content: a.responder.Respond(message, items), Fallback: true}
}

// Conversation is an append-only message history bound to an assistant.
type Conversation struct {
	assistant *Assistant

	mu       sync.Mutex
	messages []Message
}

// NewConversation starts an empty conversation.
func NewConversation(a *Assistant) *Conversation {
	return &Conversation{assistant: a}
}

// Send appends text and the assistant's reply. Concurrent sends are
// answered one at a time so the history stays in turn order.
func (c *Conversation) Send(ctx context.Context, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	history := slices.Clone(c.messages)
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})

	reply := c.assistant.Ask(ctx, history, text)
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: reply.Content})
	return reply, nil
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}
