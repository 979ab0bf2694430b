package state

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmynk/basket/internal/models"
)

// hookFunc runs before every backend call. A non-nil error fails the call.
type hookFunc func(ctx context.Context, op string) error

type memItems struct {
	mu    sync.Mutex
	items map[string][]models.Item
	calls map[string]int
	hook  hookFunc
}

func newMemItems(seed ...models.Item) *memItems {
	b := &memItems{items: make(map[string][]models.Item), calls: make(map[string]int)}
	for _, item := range seed {
		b.items[item.OwnerID] = append(b.items[item.OwnerID], item)
	}
	return b
}

func (b *memItems) before(ctx context.Context, op string) error {
	b.mu.Lock()
	b.calls[op]++
	hook := b.hook
	b.mu.Unlock()
	if hook != nil {
		return hook(ctx, op)
	}
	return nil
}

func (b *memItems) setHook(h hookFunc) {
	b.mu.Lock()
	b.hook = h
	b.mu.Unlock()
}

func (b *memItems) count(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *memItems) stored(owner string) []models.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items[owner])
}

func (b *memItems) ListItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	if err := b.before(ctx, "list"); err != nil {
		return nil, err
	}
	return b.stored(ownerID), nil
}

func (b *memItems) CreateItem(ctx context.Context, item models.Item) error {
	if err := b.before(ctx, "create"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[item.OwnerID] = slices.Insert(b.items[item.OwnerID], 0, item)
	return nil
}

func (b *memItems) UpdateItem(ctx context.Context, item models.Item) error {
	if err := b.before(ctx, "update"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.items[item.OwnerID]
	for i := range list {
		if list[i].ID == item.ID {
			list[i] = item
			return nil
		}
	}
	return ErrNotFound
}

func (b *memItems) DeleteItem(ctx context.Context, ownerID, id string) error {
	return b.DeleteItems(ctx, ownerID, []string{id})
}

func (b *memItems) DeleteItems(ctx context.Context, ownerID string, ids []string) error {
	if err := b.before(ctx, "delete"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[ownerID] = slices.DeleteFunc(b.items[ownerID], func(item models.Item) bool {
		return slices.Contains(ids, item.ID)
	})
	return nil
}

type memFriends struct {
	mu      sync.Mutex
	users   []models.User
	friends map[string][]models.Friend
	calls   map[string]int
	hook    hookFunc
}

func newMemFriends(users ...models.User) *memFriends {
	return &memFriends{
		users:   users,
		friends: make(map[string][]models.Friend),
		calls:   make(map[string]int),
	}
}

func (b *memFriends) before(ctx context.Context, op string) error {
	b.mu.Lock()
	b.calls[op]++
	hook := b.hook
	b.mu.Unlock()
	if hook != nil {
		return hook(ctx, op)
	}
	return nil
}

func (b *memFriends) setHook(h hookFunc) {
	b.mu.Lock()
	b.hook = h
	b.mu.Unlock()
}

func (b *memFriends) count(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *memFriends) addUser(u models.User) {
	b.mu.Lock()
	b.users = append(b.users, u)
	b.mu.Unlock()
}

func (b *memFriends) stored(owner string) []models.Friend {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.friends[owner])
}

func (b *memFriends) ListFriends(ctx context.Context, ownerID string) ([]models.Friend, error) {
	if err := b.before(ctx, "list"); err != nil {
		return nil, err
	}
	return b.stored(ownerID), nil
}

func (b *memFriends) AddFriend(ctx context.Context, ownerID string, friend models.Friend) error {
	if err := b.before(ctx, "add"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.friends[ownerID] = append(b.friends[ownerID], friend)
	return nil
}

func (b *memFriends) RemoveFriend(ctx context.Context, ownerID, friendID string) error {
	if err := b.before(ctx, "remove"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.friends[ownerID] = slices.DeleteFunc(b.friends[ownerID], func(f models.Friend) bool { return f.ID == friendID })
	return nil
}

func (b *memFriends) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := b.before(ctx, "users"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.users), nil
}

type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount
	current  *models.Identity
	hook     hookFunc
}

type fakeAccount struct {
	password string
	identity models.Identity
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: make(map[string]fakeAccount)}
}

func (p *fakeIdentity) register(id, email, password string) models.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	identity := models.Identity{ID: id, Username: id, Email: email, Authenticated: true}
	p.accounts[email] = fakeAccount{password: password, identity: identity}
	return identity
}

func (p *fakeIdentity) setHook(h hookFunc) {
	p.mu.Lock()
	p.hook = h
	p.mu.Unlock()
}

func (p *fakeIdentity) before(ctx context.Context, op string) error {
	p.mu.Lock()
	hook := p.hook
	p.mu.Unlock()
	if hook != nil {
		return hook(ctx, op)
	}
	return nil
}

func (p *fakeIdentity) CurrentSession(ctx context.Context) (*models.Identity, error) {
	if err := p.before(ctx, "current"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneIdentity(p.current), nil
}

func (p *fakeIdentity) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	if err := p.before(ctx, "signup"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	_, taken := p.accounts[email]
	p.mu.Unlock()
	if taken {
		return nil, ErrDuplicate
	}
	identity := p.register(fmt.Sprintf("user-%s", email), email, password)
	p.mu.Lock()
	p.current = &identity
	p.mu.Unlock()
	return cloneIdentity(&identity), nil
}

func (p *fakeIdentity) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	if err := p.before(ctx, "signin"); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	account, ok := p.accounts[email]
	if !ok {
		return nil, ErrNotFound
	}
	if account.password != password {
		return nil, ErrInvalidCredential
	}
	identity := account.identity
	p.current = &identity
	return cloneIdentity(&identity), nil
}

func (p *fakeIdentity) SignOut(ctx context.Context) error {
	if err := p.before(ctx, "signout"); err != nil {
		return err
	}
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	return nil
}

// failOn fails every call to op with err.
func failOn(op string, err error) hookFunc {
	return func(_ context.Context, got string) error {
		if got == op {
			return err
		}
		return nil
	}
}

// gate blocks calls to op until release is closed, signalling entered first.
type gate struct {
	op      string
	entered chan struct{}
	release chan struct{}
}

func newGate(op string) *gate {
	return &gate{op: op, entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) hook(ctx context.Context, op string) error {
	if op != g.op {
		return nil
	}
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// testClock returns a clock that advances one millisecond per reading.
func testClock() func() time.Time {
	var ticks atomic.Int64
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		return start.Add(time.Duration(ticks.Add(1)) * time.Millisecond)
	}
}

func testIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("item-%d", n.Add(1)) }
}

func testOptions() []Option {
	return []Option{WithClock(testClock()), WithIDGenerator(testIDs()), WithTimeout(2 * time.Second)}
}
