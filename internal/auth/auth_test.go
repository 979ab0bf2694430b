package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/basket/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// memoryUsers is a minimal UserStorage for authenticator tests.
type memoryUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, user)
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func newTestAuthenticator() (*PasswordAuthenticator, *memoryUsers) {
	store := &memoryUsers{}
	return NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost), store
}

func TestRegister_DerivesUniqueUsername(t *testing.T) {
	a, store := newTestAuthenticator()
	ctx := context.Background()

	// An existing user already holds the handle "demo"
	store.users = append(store.users, &models.User{ID: "x", Email: "demo@other.org", Username: "demo"})

	user, err := a.Register(ctx, "demo@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Username != "demo1" {
		t.Errorf("Username = %q, want demo1", user.Username)
	}
	if !strings.Contains(user.AvatarURL, "name=demo1") {
		t.Errorf("AvatarURL = %q, want generated avatar for demo1", user.AvatarURL)
	}

	second, err := a.Register(ctx, "demo@third.net", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if second.Username != "demo2" {
		t.Errorf("Username = %q, want demo2", second.Username)
	}
}

func TestRegister_Errors(t *testing.T) {
	a, _ := newTestAuthenticator()
	ctx := context.Background()

	if _, err := a.Register(ctx, "a@example.com", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"duplicate email is case-insensitive", "A@Example.com", "password123", ErrEmailExists},
		{"weak password", "b@example.com", "short", ErrWeakPassword},
		{"missing at sign", "nobody", "password123", ErrInvalidEmail},
		{"empty local part", "@example.com", "password123", ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register(%q) error = %v, want %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	a, _ := newTestAuthenticator()
	ctx := context.Background()

	registered, err := a.Register(ctx, "carol@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := a.Authenticate(ctx, "carol@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("ID = %s, want %s", user.ID, registered.ID)
	}

	if _, err := a.Authenticate(ctx, "carol@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown email error = %v, want ErrUserNotFound", err)
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u-1", Email: "u@example.com", Username: "u"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "u" {
		t.Errorf("claims = %+v", claims)
	}

	other := NewJWTManager("other-secret", time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token error = %v, want ErrInvalidToken", err)
	}

	expired := NewJWTManager("test-secret", -time.Minute)
	old, _ := expired.Generate(user)
	if _, err := m.Validate(old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}
