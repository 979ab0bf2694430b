package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
	"github.com/mmynk/basket/pkg/api"
	"github.com/mmynk/basket/pkg/api/apiconnect"
)

// FriendService implements the Connect FriendService.
type FriendService struct {
	apiconnect.UnimplementedFriendServiceHandler
	store storage.Store
}

// NewFriendService creates a new FriendService with the given storage backend.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

// ListFriends returns the caller's friends in the order they were added.
func (s *FriendService) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.store.ListFriends(ctx, owner)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", owner, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Friend, len(friends))
	for i := range friends {
		out[i] = friendToAPI(&friends[i])
	}
	return connect.NewResponse(&api.ListFriendsResponse{Friends: out}), nil
}

// resolve finds a user by username, then by email, case-insensitively.
func (s *FriendService) resolve(ctx context.Context, query string) (*models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("username or email required"))
	}

	user, err := s.store.GetUserByUsername(ctx, query)
	if err != nil {
		return nil, toConnectError(err)
	}
	if user == nil {
		user, err = s.store.GetUserByEmail(ctx, query)
		if err != nil {
			return nil, toConnectError(err)
		}
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	return user, nil
}

// AddFriend records a relationship to the user named by FriendID or Candidate.
func (s *FriendService) AddFriend(ctx context.Context, req *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("AddFriend request received", "user_id", owner, "friend_id", req.Msg.FriendID, "candidate", req.Msg.Candidate)

	var target *models.User
	if req.Msg.FriendID != "" {
		target, err = s.store.GetUserByID(ctx, req.Msg.FriendID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if target == nil {
			return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
		}
	} else if target, err = s.resolve(ctx, req.Msg.Candidate); err != nil {
		return nil, err
	}

	if target.ID == owner {
		return nil, toConnectError(ErrSelfFriend)
	}

	createdAt := time.Now().Unix()
	if err := s.store.AddFriend(ctx, owner, target.ID, createdAt); err != nil {
		slog.Warn("AddFriend failed", "user_id", owner, "friend_id", target.ID, "error", err)
		return nil, toConnectError(err)
	}

	friend := models.FriendFromUser(target)
	friend.CreatedAt = createdAt
	slog.Info("Friend added", "user_id", owner, "friend_id", target.ID)
	return connect.NewResponse(&api.AddFriendResponse{Friend: friendToAPI(&friend)}), nil
}

// RemoveFriend deletes a relationship.
func (s *FriendService) RemoveFriend(ctx context.Context, req *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.RemoveFriend(ctx, owner, req.Msg.FriendID); err != nil {
		slog.Warn("RemoveFriend failed", "user_id", owner, "friend_id", req.Msg.FriendID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Friend removed", "user_id", owner, "friend_id", req.Msg.FriendID)
	return connect.NewResponse(&api.RemoveFriendResponse{}), nil
}

// ListUsers returns the whole directory, for add-friend suggestions.
func (s *FriendService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	if _, err := ownerID(ctx); err != nil {
		return nil, err
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = userToAPI(u)
	}
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

// FindUser resolves a username or email to a profile.
func (s *FriendService) FindUser(ctx context.Context, req *connect.Request[api.FindUserRequest]) (*connect.Response[api.FindUserResponse], error) {
	if _, err := ownerID(ctx); err != nil {
		return nil, err
	}

	user, err := s.resolve(ctx, req.Msg.Query)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.FindUserResponse{User: userToAPI(user)}), nil
}
