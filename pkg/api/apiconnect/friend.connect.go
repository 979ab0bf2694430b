package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/basket/pkg/api"
)

const (
	// FriendServiceName is the fully-qualified name of the FriendService service.
	FriendServiceName = "basket.v1.FriendService"
)

const (
	FriendServiceListFriendsProcedure  = "/basket.v1.FriendService/ListFriends"
	FriendServiceAddFriendProcedure    = "/basket.v1.FriendService/AddFriend"
	FriendServiceRemoveFriendProcedure = "/basket.v1.FriendService/RemoveFriend"
	FriendServiceListUsersProcedure    = "/basket.v1.FriendService/ListUsers"
	FriendServiceFindUserProcedure     = "/basket.v1.FriendService/FindUser"
)

// FriendServiceClient is a client for the basket.v1.FriendService service.
type FriendServiceClient interface {
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
	AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error)
	RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	FindUser(context.Context, *connect.Request[api.FindUserRequest]) (*connect.Response[api.FindUserResponse], error)
}

// NewFriendServiceClient constructs a client for the basket.v1.FriendService service.
func NewFriendServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FriendServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &friendServiceClient{
		listFriends: connect.NewClient[api.ListFriendsRequest, api.ListFriendsResponse](
			httpClient, baseURL+FriendServiceListFriendsProcedure, opts...),
		addFriend: connect.NewClient[api.AddFriendRequest, api.AddFriendResponse](
			httpClient, baseURL+FriendServiceAddFriendProcedure, opts...),
		removeFriend: connect.NewClient[api.RemoveFriendRequest, api.RemoveFriendResponse](
			httpClient, baseURL+FriendServiceRemoveFriendProcedure, opts...),
		listUsers: connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](
			httpClient, baseURL+FriendServiceListUsersProcedure, opts...),
		findUser: connect.NewClient[api.FindUserRequest, api.FindUserResponse](
			httpClient, baseURL+FriendServiceFindUserProcedure, opts...),
	}
}

type friendServiceClient struct {
	listFriends  *connect.Client[api.ListFriendsRequest, api.ListFriendsResponse]
	addFriend    *connect.Client[api.AddFriendRequest, api.AddFriendResponse]
	removeFriend *connect.Client[api.RemoveFriendRequest, api.RemoveFriendResponse]
	listUsers    *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
	findUser     *connect.Client[api.FindUserRequest, api.FindUserResponse]
}

func (c *friendServiceClient) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	return c.listFriends.CallUnary(ctx, req)
}

func (c *friendServiceClient) AddFriend(ctx context.Context, req *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	return c.addFriend.CallUnary(ctx, req)
}

func (c *friendServiceClient) RemoveFriend(ctx context.Context, req *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	return c.removeFriend.CallUnary(ctx, req)
}

func (c *friendServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *friendServiceClient) FindUser(ctx context.Context, req *connect.Request[api.FindUserRequest]) (*connect.Response[api.FindUserResponse], error) {
	return c.findUser.CallUnary(ctx, req)
}

// FriendServiceHandler is an implementation of the basket.v1.FriendService service.
type FriendServiceHandler interface {
	ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error)
	AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error)
	RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	FindUser(context.Context, *connect.Request[api.FindUserRequest]) (*connect.Response[api.FindUserResponse], error)
}

// NewFriendServiceHandler builds an HTTP handler from the service implementation.
func NewFriendServiceHandler(svc FriendServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listFriends := connect.NewUnaryHandler(FriendServiceListFriendsProcedure, svc.ListFriends, opts...)
	addFriend := connect.NewUnaryHandler(FriendServiceAddFriendProcedure, svc.AddFriend, opts...)
	removeFriend := connect.NewUnaryHandler(FriendServiceRemoveFriendProcedure, svc.RemoveFriend, opts...)
	listUsers := connect.NewUnaryHandler(FriendServiceListUsersProcedure, svc.ListUsers, opts...)
	findUser := connect.NewUnaryHandler(FriendServiceFindUserProcedure, svc.FindUser, opts...)
	return "/basket.v1.FriendService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case FriendServiceListFriendsProcedure:
			listFriends.ServeHTTP(w, r)
		case FriendServiceAddFriendProcedure:
			addFriend.ServeHTTP(w, r)
		case FriendServiceRemoveFriendProcedure:
			removeFriend.ServeHTTP(w, r)
		case FriendServiceListUsersProcedure:
			listUsers.ServeHTTP(w, r)
		case FriendServiceFindUserProcedure:
			findUser.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedFriendServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedFriendServiceHandler struct{}

func (UnimplementedFriendServiceHandler) ListFriends(context.Context, *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.FriendService.ListFriends is not implemented"))
}

func (UnimplementedFriendServiceHandler) AddFriend(context.Context, *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.FriendService.AddFriend is not implemented"))
}

func (UnimplementedFriendServiceHandler) RemoveFriend(context.Context, *connect.Request[api.RemoveFriendRequest]) (*connect.Response[api.RemoveFriendResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.FriendService.RemoveFriend is not implemented"))
}

func (UnimplementedFriendServiceHandler) ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.FriendService.ListUsers is not implemented"))
}

func (UnimplementedFriendServiceHandler) FindUser(context.Context, *connect.Request[api.FindUserRequest]) (*connect.Response[api.FindUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.FriendService.FindUser is not implemented"))
}
