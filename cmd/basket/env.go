package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mmynk/basket/internal/auth"
	"github.com/mmynk/basket/internal/chat"
	"github.com/mmynk/basket/internal/local"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/remote"
	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/storage"
	"github.com/mmynk/basket/internal/storage/filestore"
	"github.com/mmynk/basket/pkg/logging"
)

var errNotSignedIn = errors.New("not signed in; run 'basket login' or 'basket signup'")

type envOptions struct {
	serverURL string
	offline   bool
	dataDir   string
	timeout   time.Duration
	logLevel  string
}

// clientEnv is everything a command needs: the state stores, the chat
// completer and, when online, the server client.
type clientEnv struct {
	app       *state.App
	completer chat.Completer
	remote    *remote.Client
	store     storage.Store
	timeout   time.Duration
}

func openEnv(opts envOptions) (*clientEnv, error) {
	logging.Configure(opts.logLevel, logging.FormatText)
	logger := slog.Default()

	if err := os.MkdirAll(opts.dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	stateOpts := []state.Option{state.WithTimeout(opts.timeout), state.WithLogger(logger)}
	e := &clientEnv{timeout: opts.timeout}

	if opts.offline {
		store, err := filestore.Open(filepath.Join(opts.dataDir, "collections"))
		if err != nil {
			return nil, err
		}
		backend := local.New(store, auth.NewPasswordAuthenticator(store), filepath.Join(opts.dataDir, "offline-session.json"))
		e.store = store
		e.app = state.NewApp(backend, backend, backend, stateOpts...)
		return e, nil
	}

	httpClient := &http.Client{Timeout: opts.timeout}
	client := remote.New(httpClient, opts.serverURL, filepath.Join(opts.dataDir, "session.json"))
	e.remote = client
	e.completer = client.Completer()
	e.app = state.NewApp(client, client, client, stateOpts...)
	return e, nil
}

// requireSession restores the persisted session and loads its data.
func (e *clientEnv) requireSession(ctx context.Context) (*models.Identity, error) {
	if id := e.app.Session.Identity(); id != nil {
		return id, nil
	}
	id, err := e.app.Session.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errNotSignedIn
	}
	return id, nil
}

func (e *clientEnv) Close() error {
	e.app.Close()
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}
