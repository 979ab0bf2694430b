package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/basket/internal/auth"
	"github.com/mmynk/basket/internal/middleware"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
)

// ErrSelfFriend is returned when a user tries to befriend themselves.
var ErrSelfFriend = errors.New("cannot add yourself as a friend")

// ownerID returns the authenticated caller, set by the auth interceptor.
func ownerID(ctx context.Context) (string, error) {
	id := middleware.GetUserID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}

// toConnectError maps storage and validation errors onto Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, ErrSelfFriend):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
