package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/basket/internal/auth"
	"github.com/mmynk/basket/internal/chat"
	"github.com/mmynk/basket/internal/storage/sqlite"
	"github.com/mmynk/basket/pkg/api"
	"github.com/mmynk/basket/pkg/api/apiconnect"
)

type testClients struct {
	auth   apiconnect.AuthServiceClient
	items  apiconnect.ItemServiceClient
	friend apiconnect.FriendServiceClient
	chat   apiconnect.ChatServiceClient
	store  *sqlite.SQLiteStore
}

// setupTestServer mounts every service over a fresh SQLite database.
func setupTestServer(t *testing.T, completer chat.Completer) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	Mount(mux, Deps{
		Store:         store,
		Authenticator: auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		JWT:           auth.NewJWTManager("test-secret", time.Hour),
		Completer:     completer,
		ChatTimeout:   time.Second,
		Logger:        logger,
	})

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		auth:   apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		items:  apiconnect.NewItemServiceClient(http.DefaultClient, server.URL),
		friend: apiconnect.NewFriendServiceClient(http.DefaultClient, server.URL),
		chat:   apiconnect.NewChatServiceClient(http.DefaultClient, server.URL),
		store:  store,
	}
}

// signUp registers email and returns the user and its token.
func (c *testClients) signUp(t *testing.T, email string) (*api.User, string) {
	t.Helper()
	resp, err := c.auth.SignUp(context.Background(), connect.NewRequest(&api.SignUpRequest{
		Email:    email,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("SignUp(%s) failed: %v", email, err)
	}
	return resp.Msg.User, resp.Msg.Token
}

// authed wraps msg in a request carrying token.
func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func expectCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil error", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("expected %v, got %v (%v)", code, got, err)
	}
}
