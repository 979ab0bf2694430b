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
	// ItemServiceName is the fully-qualified name of the ItemService service.
	ItemServiceName = "basket.v1.ItemService"
)

const (
	ItemServiceListItemsProcedure      = "/basket.v1.ItemService/ListItems"
	ItemServiceAddItemProcedure        = "/basket.v1.ItemService/AddItem"
	ItemServiceUpdateItemProcedure     = "/basket.v1.ItemService/UpdateItem"
	ItemServiceDeleteItemProcedure     = "/basket.v1.ItemService/DeleteItem"
	ItemServiceClearCompletedProcedure = "/basket.v1.ItemService/ClearCompleted"
)

// ItemServiceClient is a client for the basket.v1.ItemService service.
type ItemServiceClient interface {
	ListItems(context.Context, *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error)
	ClearCompleted(context.Context, *connect.Request[api.ClearCompletedRequest]) (*connect.Response[api.ClearCompletedResponse], error)
}

// NewItemServiceClient constructs a client for the basket.v1.ItemService service.
func NewItemServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ItemServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &itemServiceClient{
		listItems: connect.NewClient[api.ListItemsRequest, api.ListItemsResponse](
			httpClient, baseURL+ItemServiceListItemsProcedure, opts...),
		addItem: connect.NewClient[api.AddItemRequest, api.AddItemResponse](
			httpClient, baseURL+ItemServiceAddItemProcedure, opts...),
		updateItem: connect.NewClient[api.UpdateItemRequest, api.UpdateItemResponse](
			httpClient, baseURL+ItemServiceUpdateItemProcedure, opts...),
		deleteItem: connect.NewClient[api.DeleteItemRequest, api.DeleteItemResponse](
			httpClient, baseURL+ItemServiceDeleteItemProcedure, opts...),
		clearCompleted: connect.NewClient[api.ClearCompletedRequest, api.ClearCompletedResponse](
			httpClient, baseURL+ItemServiceClearCompletedProcedure, opts...),
	}
}

type itemServiceClient struct {
	listItems      *connect.Client[api.ListItemsRequest, api.ListItemsResponse]
	addItem        *connect.Client[api.AddItemRequest, api.AddItemResponse]
	updateItem     *connect.Client[api.UpdateItemRequest, api.UpdateItemResponse]
	deleteItem     *connect.Client[api.DeleteItemRequest, api.DeleteItemResponse]
	clearCompleted *connect.Client[api.ClearCompletedRequest, api.ClearCompletedResponse]
}

func (c *itemServiceClient) ListItems(ctx context.Context, req *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error) {
	return c.listItems.CallUnary(ctx, req)
}

func (c *itemServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *itemServiceClient) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *itemServiceClient) DeleteItem(ctx context.Context, req *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	return c.deleteItem.CallUnary(ctx, req)
}

func (c *itemServiceClient) ClearCompleted(ctx context.Context, req *connect.Request[api.ClearCompletedRequest]) (*connect.Response[api.ClearCompletedResponse], error) {
	return c.clearCompleted.CallUnary(ctx, req)
}

// ItemServiceHandler is an implementation of the basket.v1.ItemService service.
type ItemServiceHandler interface {
	ListItems(context.Context, *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error)
	ClearCompleted(context.Context, *connect.Request[api.ClearCompletedRequest]) (*connect.Response[api.ClearCompletedResponse], error)
}

// NewItemServiceHandler builds an HTTP handler from the service implementation.
func NewItemServiceHandler(svc ItemServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listItems := connect.NewUnaryHandler(ItemServiceListItemsProcedure, svc.ListItems, opts...)
	addItem := connect.NewUnaryHandler(ItemServiceAddItemProcedure, svc.AddItem, opts...)
	updateItem := connect.NewUnaryHandler(ItemServiceUpdateItemProcedure, svc.UpdateItem, opts...)
	deleteItem := connect.NewUnaryHandler(ItemServiceDeleteItemProcedure, svc.DeleteItem, opts...)
	clearCompleted := connect.NewUnaryHandler(ItemServiceClearCompletedProcedure, svc.ClearCompleted, opts...)
	return "/basket.v1.ItemService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ItemServiceListItemsProcedure:
			listItems.ServeHTTP(w, r)
		case ItemServiceAddItemProcedure:
			addItem.ServeHTTP(w, r)
		case ItemServiceUpdateItemProcedure:
			updateItem.ServeHTTP(w, r)
		case ItemServiceDeleteItemProcedure:
			deleteItem.ServeHTTP(w, r)
		case ItemServiceClearCompletedProcedure:
			clearCompleted.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedItemServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedItemServiceHandler struct{}

func (UnimplementedItemServiceHandler) ListItems(context.Context, *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.ItemService.ListItems is not implemented"))
}

func (UnimplementedItemServiceHandler) AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.ItemService.AddItem is not implemented"))
}

func (UnimplementedItemServiceHandler) UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.ItemService.UpdateItem is not implemented"))
}

func (UnimplementedItemServiceHandler) DeleteItem(context.Context, *connect.Request[api.DeleteItemRequest]) (*connect.Response[api.DeleteItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.ItemService.DeleteItem is not implemented"))
}

func (UnimplementedItemServiceHandler) ClearCompleted(context.Context, *connect.Request[api.ClearCompletedRequest]) (*connect.Response[api.ClearCompletedResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.ItemService.ClearCompleted is not implemented"))
}
