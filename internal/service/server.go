package service

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/basket/internal/auth"
	"github.com/mmynk/basket/internal/chat"
	"github.com/mmynk/basket/internal/middleware"
	"github.com/mmynk/basket/internal/storage"
	"github.com/mmynk/basket/pkg/api/apiconnect"
)

// Deps are the collaborators the Connect services need.
type Deps struct {
	Store         storage.Store
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Completer     chat.Completer // nil disables the upstream
	ChatTimeout   time.Duration
	Logger        *slog.Logger

	// Interceptors run outside authentication, e.g. metrics.
	Interceptors []connect.Interceptor
}

// Mount registers every service on mux. AuthService accepts anonymous
// callers; the others require a bearer token.
func Mount(mux *http.ServeMux, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	chain := func(authn connect.Interceptor) connect.HandlerOption {
		all := append([]connect.Interceptor{}, deps.Interceptors...)
		all = append(all, authn, middleware.LoggingInterceptor(logger))
		return connect.WithInterceptors(all...)
	}
	optional := chain(middleware.OptionalAuth(deps.JWT))
	required := chain(middleware.RequireAuth(deps.JWT))

	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(deps.Authenticator, deps.JWT, deps.Store, logger), optional))
	mux.Handle(apiconnect.NewItemServiceHandler(NewItemService(deps.Store), required))
	mux.Handle(apiconnect.NewFriendServiceHandler(NewFriendService(deps.Store), required))
	mux.Handle(apiconnect.NewChatServiceHandler(
		NewChatService(deps.Completer, deps.Store, deps.ChatTimeout), required))
}
