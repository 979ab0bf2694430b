package state

import (
	"context"
	"errors"
	"sync"
	"time"
)

// mutation describes one optimistic change. apply runs under the store's write
// lock and returns what revert needs to undo exactly that change.
type mutation[S any] struct {
	op      string
	apply   func() (S, error)
	persist func(ctx context.Context) error
	revert  func(S)

	// reload, when set, replaces revert as the first recovery step. revert
	// still runs if the reload fails.
	reload func(ctx context.Context) error
}

// commit applies m locally, persists it with a bounded timeout and rolls the
// local change back if persistence fails. The local change is visible to
// readers while persist runs.
func commit[S any](ctx context.Context, mu *sync.RWMutex, timeout time.Duration, m mutation[S]) error {
	mu.Lock()
	undo, err := m.apply()
	mu.Unlock()
	if err != nil {
		return err
	}

	pctx, cancel := context.WithTimeout(ctx, timeout)
	err = m.persist(pctx)
	cancel()
	if err == nil {
		return nil
	}

	recovered := false
	if m.reload != nil {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		recovered = m.reload(rctx) == nil
		cancel()
	}
	if !recovered {
		mu.Lock()
		m.revert(undo)
		mu.Unlock()
	}
	return &PersistenceError{Op: m.op, Err: err}
}

// expiredHook calls fn when err reports a rejected session.
func expiredHook(err error, fn func()) {
	if fn != nil && errors.Is(err, ErrSessionExpired) {
		fn()
	}
}

// fifo serializes callers in the order they call enter.
type fifo struct {
	mu   sync.Mutex
	tail chan struct{}
}

// enter blocks until every earlier caller has released, and returns the release func.
func (q *fifo) enter() func() {
	done := make(chan struct{})
	q.mu.Lock()
	prev := q.tail
	q.tail = done
	q.mu.Unlock()
	if prev != nil {
		<-prev
	}
	return func() { close(done) }
}
