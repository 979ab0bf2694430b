package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/basket/internal/calculator"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
	"github.com/mmynk/basket/pkg/api"
	"github.com/mmynk/basket/pkg/api/apiconnect"
)

// ItemService implements the Connect ItemService. Every call is scoped to the caller.
type ItemService struct {
	apiconnect.UnimplementedItemServiceHandler
	store storage.ItemStore
}

// NewItemService creates a new ItemService with the given storage backend.
func NewItemService(store storage.ItemStore) *ItemService {
	return &ItemService{store: store}
}

// ListItems returns the caller's items newest first, with totals.
func (s *ItemService) ListItems(ctx context.Context, req *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListItems(ctx, owner)
	if err != nil {
		slog.Error("ListItems failed", "user_id", owner, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Item, len(items))
	for i := range items {
		out[i] = itemToAPI(&items[i])
	}

	return connect.NewResponse(&api.ListItemsResponse{
		Items:   out,
		Summary: summaryToAPI(calculator.Summarize(items)),
	}), nil
}

// AddItem validates and stores a new item. A client-chosen ID is kept.
func (s *ItemService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("AddItem request received", "user_id", owner, "name", req.Msg.Name, "category", req.Msg.Category)

	category, err := models.ParseCategory(req.Msg.Category)
	if err != nil || category == models.CategoryAll {
		return nil, connect.NewError(connect.CodeInvalidArgument, models.ErrInvalidCategory)
	}

	item := &models.Item{
		ID:        req.Msg.ID,
		OwnerID:   owner,
		Name:      strings.TrimSpace(req.Msg.Name),
		Category:  category,
		Price:     req.Msg.Price,
		CreatedAt: req.Msg.CreatedAt,
	}
	if err := item.Validate(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		slog.Error("AddItem failed", "user_id", owner, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Item created", "item_id", item.ID)
	return connect.NewResponse(&api.AddItemResponse{Item: itemToAPI(item)}), nil
}

// UpdateItem overwrites an item's editable fields. CreatedAt is not echoed.
func (s *ItemService) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	category, err := models.ParseCategory(req.Msg.Category)
	if err != nil || category == models.CategoryAll {
		return nil, connect.NewError(connect.CodeInvalidArgument, models.ErrInvalidCategory)
	}

	item := &models.Item{
		ID:        req.Msg.ID,
		OwnerID:   owner,
		Name:      strings.TrimSpace(req.Msg.Name),
		Category:  category,
		Completed: req.Msg.Completed,
		Price:     req.Msg.Price,
	}
	if err := item.Validate(); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		slog.Warn("UpdateItem failed", "user_id", owner, "item_id", item.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpdateItemResponse{Item: itemToAPI(item)}), nil
}

// DeleteItem removes one of the caller's items.
func (s *ItemService) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteItem(ctx, owner, req.Msg.ID); err != nil {
		slog.Warn("DeleteItem failed", "user_id", owner, "item_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Item deleted", "item_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteItemResponse{}), nil
}

// ClearCompleted deletes the named items that are completed. With no IDs it
// deletes every completed item.
func (s *ItemService) ClearCompleted(ctx context.Context, req *connect.Request[api.ClearCompletedRequest]) (*connect.Response[api.ClearCompletedResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.store.ListItems(ctx, owner)
	if err != nil {
		return nil, toConnectError(err)
	}

	wanted := make(map[string]bool, len(req.Msg.IDs))
	for _, id := range req.Msg.IDs {
		wanted[id] = true
	}

	var ids []string
	for _, item := range items {
		if item.Completed && (len(wanted) == 0 || wanted[item.ID]) {
			ids = append(ids, item.ID)
		}
	}

	removed, err := s.store.DeleteItems(ctx, owner, ids)
	if err != nil {
		slog.Error("ClearCompleted failed", "user_id", owner, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Completed items cleared", "user_id", owner, "removed", removed)
	return connect.NewResponse(&api.ClearCompletedResponse{Removed: removed}), nil
}
