// Package remote backs the state stores with the basket Connect services.
package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/state"
	"github.com/mmynk/basket/internal/storage/filestore"
	"github.com/mmynk/basket/pkg/api"
	"github.com/mmynk/basket/pkg/api/apiconnect"
)

// ErrPartialClear reports that the server removed fewer items than asked.
var ErrPartialClear = errors.New("server cleared fewer items than requested")

var (
	_ state.IdentityProvider = (*Client)(nil)
	_ state.ItemBackend      = (*Client)(nil)
	_ state.FriendBackend    = (*Client)(nil)
)

// tokenFile is the persisted session.
type tokenFile struct {
	Token string `json:"token"`
}

// Client talks to a basket server and keeps the session token.
type Client struct {
	auth    apiconnect.AuthServiceClient
	items   apiconnect.ItemServiceClient
	friends apiconnect.FriendServiceClient
	chat    apiconnect.ChatServiceClient

	tokens *filestore.Blob[tokenFile]

	mu     sync.RWMutex
	token  string
	loaded bool
}

// New returns a client for the server at baseURL. The token is kept in a
// JSON file at tokenPath, or only in memory when tokenPath is empty.
func New(httpClient connect.HTTPClient, baseURL, tokenPath string, opts ...connect.ClientOption) *Client {
	c := &Client{}
	if tokenPath != "" {
		c.tokens = filestore.NewBlob[tokenFile](tokenPath)
	}
	opts = append([]connect.ClientOption{connect.WithInterceptors(c.bearer())}, opts...)
	c.auth = apiconnect.NewAuthServiceClient(httpClient, baseURL, opts...)
	c.items = apiconnect.NewItemServiceClient(httpClient, baseURL, opts...)
	c.friends = apiconnect.NewFriendServiceClient(httpClient, baseURL, opts...)
	c.chat = apiconnect.NewChatServiceClient(httpClient, baseURL, opts...)
	return c
}

// bearer attaches the session token to every outgoing call.
func (c *Client) bearer() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token := c.currentToken(); token != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	token, loaded := c.token, c.loaded
	c.mu.RUnlock()
	if loaded || c.tokens == nil {
		return token
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		if tf, err := c.tokens.Load(); err == nil {
			c.token = tf.Token
		}
		c.loaded = true
	}
	return c.token
}

func (c *Client) setToken(token string) error {
	c.mu.Lock()
	c.token = token
	c.loaded = true
	c.mu.Unlock()

	if c.tokens == nil {
		return nil
	}
	if token == "" {
		return c.tokens.Remove()
	}
	if err := c.tokens.Save(tokenFile{Token: token}); err != nil {
		return fmt.Errorf("saving session token: %w", err)
	}
	return nil
}

func (c *Client) CurrentSession(ctx context.Context) (*models.Identity, error) {
	if c.currentToken() == "" {
		return nil, nil
	}
	resp, err := c.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		err = mapError(err)
		if errors.Is(err, state.ErrSessionExpired) {
			_ = c.setToken("")
		}
		return nil, err
	}
	return identityFromAPI(resp.Msg.User), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	resp, err := c.auth.SignUp(ctx, connect.NewRequest(&api.SignUpRequest{Email: email, Password: password}))
	if err != nil {
		return nil, mapError(err)
	}
	if err := c.setToken(resp.Msg.Token); err != nil {
		return nil, err
	}
	return identityFromAPI(resp.Msg.User), nil
}

// SignIn authenticates against the server. Unlike other calls, an
// Unauthenticated answer here means a wrong password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	resp, err := c.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Email: email, Password: password}))
	if err != nil {
		if connect.CodeOf(err) == connect.CodeUnauthenticated {
			return nil, fmt.Errorf("%w: %w", state.ErrInvalidCredential, err)
		}
		return nil, mapError(err)
	}
	if err := c.setToken(resp.Msg.Token); err != nil {
		return nil, err
	}
	return identityFromAPI(resp.Msg.User), nil
}

// SignOut tells the server and forgets the token whether or not the server answered.
func (c *Client) SignOut(ctx context.Context) error {
	var rpcErr error
	if c.currentToken() != "" {
		_, rpcErr = c.auth.Logout(ctx, connect.NewRequest(&api.LogoutRequest{}))
	}
	if err := c.setToken(""); err != nil {
		return err
	}
	if rpcErr != nil && connect.CodeOf(rpcErr) != connect.CodeUnauthenticated {
		return mapError(rpcErr)
	}
	return nil
}

func (c *Client) ListItems(ctx context.Context, ownerID string) ([]models.Item, error) {
	resp, err := c.items.ListItems(ctx, connect.NewRequest(&api.ListItemsRequest{}))
	if err != nil {
		return nil, mapError(err)
	}
	items := make([]models.Item, 0, len(resp.Msg.Items))
	for _, item := range resp.Msg.Items {
		items = append(items, itemFromAPI(item, ownerID))
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, item models.Item) error {
	_, err := c.items.AddItem(ctx, connect.NewRequest(&api.AddItemRequest{
		ID:        item.ID,
		Name:      item.Name,
		Category:  string(item.Category),
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
	}))
	return mapError(err)
}

func (c *Client) UpdateItem(ctx context.Context, item models.Item) error {
	_, err := c.items.UpdateItem(ctx, connect.NewRequest(&api.UpdateItemRequest{
		ID:        item.ID,
		Name:      item.Name,
		Category:  string(item.Category),
		Completed: item.Completed,
		Price:     item.Price,
	}))
	return mapError(err)
}

func (c *Client) DeleteItem(ctx context.Context, _ string, id string) error {
	_, err := c.items.DeleteItem(ctx, connect.NewRequest(&api.DeleteItemRequest{ID: id}))
	return mapError(err)
}

// DeleteItems clears the given completed items. The server skips items that
// are no longer completed there; a short count is reported as ErrPartialClear.
func (c *Client) DeleteItems(ctx context.Context, _ string, ids []string) error {
	resp, err := c.items.ClearCompleted(ctx, connect.NewRequest(&api.ClearCompletedRequest{IDs: ids}))
	if err != nil {
		return mapError(err)
	}
	if resp.Msg.Removed != len(ids) {
		return fmt.Errorf("%w: removed %d of %d", ErrPartialClear, resp.Msg.Removed, len(ids))
	}
	return nil
}

func (c *Client) ListFriends(ctx context.Context, _ string) ([]models.Friend, error) {
	resp, err := c.friends.ListFriends(ctx, connect.NewRequest(&api.ListFriendsRequest{}))
	if err != nil {
		return nil, mapError(err)
	}
	friends := make([]models.Friend, 0, len(resp.Msg.Friends))
	for _, f := range resp.Msg.Friends {
		friends = append(friends, friendFromAPI(f))
	}
	return friends, nil
}

func (c *Client) AddFriend(ctx context.Context, _ string, friend models.Friend) error {
	_, err := c.friends.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{FriendID: friend.ID}))
	return mapError(err)
}

func (c *Client) RemoveFriend(ctx context.Context, _ string, friendID string) error {
	_, err := c.friends.RemoveFriend(ctx, connect.NewRequest(&api.RemoveFriendRequest{FriendID: friendID}))
	return mapError(err)
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	resp, err := c.friends.ListUsers(ctx, connect.NewRequest(&api.ListUsersRequest{}))
	if err != nil {
		return nil, mapError(err)
	}
	users := make([]models.User, 0, len(resp.Msg.Users))
	for _, u := range resp.Msg.Users {
		users = append(users, userFromAPI(u))
	}
	return users, nil
}

// APILogs returns the signed-in user's upstream chat calls, newest first.
func (c *Client) APILogs(ctx context.Context, limit int) ([]models.APILog, error) {
	resp, err := c.chat.ListAPILogs(ctx, connect.NewRequest(&api.ListAPILogsRequest{Limit: limit}))
	if err != nil {
		return nil, mapError(err)
	}
	logs := make([]models.APILog, 0, len(resp.Msg.Logs))
	for _, l := range resp.Msg.Logs {
		logs = append(logs, apiLogFromAPI(l))
	}
	return logs, nil
}

// ClearAPILogs deletes the signed-in user's upstream chat calls.
func (c *Client) ClearAPILogs(ctx context.Context) (int, error) {
	resp, err := c.chat.ClearAPILogs(ctx, connect.NewRequest(&api.ClearAPILogsRequest{}))
	if err != nil {
		return 0, mapError(err)
	}
	return resp.Msg.Removed, nil
}

// mapError translates Connect codes into state errors, keeping the original in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch connect.CodeOf(err) {
	case connect.CodeUnauthenticated:
		sentinel = state.ErrSessionExpired
	case connect.CodeNotFound:
		sentinel = state.ErrNotFound
	case connect.CodeAlreadyExists:
		sentinel = state.ErrDuplicate
	case connect.CodeInvalidArgument:
		sentinel = state.ErrValidation
	default:
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
