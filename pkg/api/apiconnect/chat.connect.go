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
	// ChatServiceName is the fully-qualified name of the ChatService service.
	ChatServiceName = "basket.v1.ChatService"
)

const (
	ChatServiceCompleteProcedure     = "/basket.v1.ChatService/Complete"
	ChatServiceListAPILogsProcedure  = "/basket.v1.ChatService/ListAPILogs"
	ChatServiceClearAPILogsProcedure = "/basket.v1.ChatService/ClearAPILogs"
)

// ChatServiceClient is a client for the basket.v1.ChatService service.
type ChatServiceClient interface {
	Complete(context.Context, *connect.Request[api.CompleteRequest]) (*connect.Response[api.CompleteResponse], error)
	ListAPILogs(context.Context, *connect.Request[api.ListAPILogsRequest]) (*connect.Response[api.ListAPILogsResponse], error)
	ClearAPILogs(context.Context, *connect.Request[api.ClearAPILogsRequest]) (*connect.Response[api.ClearAPILogsResponse], error)
}

// NewChatServiceClient constructs a client for the basket.v1.ChatService service.
func NewChatServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ChatServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &chatServiceClient{
		complete: connect.NewClient[api.CompleteRequest, api.CompleteResponse](
			httpClient, baseURL+ChatServiceCompleteProcedure, opts...),
		listAPILogs: connect.NewClient[api.ListAPILogsRequest, api.ListAPILogsResponse](
			httpClient, baseURL+ChatServiceListAPILogsProcedure, opts...),
		clearAPILogs: connect.NewClient[api.ClearAPILogsRequest, api.ClearAPILogsResponse](
			httpClient, baseURL+ChatServiceClearAPILogsProcedure, opts...),
	}
}

type chatServiceClient struct {
	complete     *connect.Client[api.CompleteRequest, api.CompleteResponse]
	listAPILogs  *connect.Client[api.ListAPILogsRequest, api.ListAPILogsResponse]
	clearAPILogs *connect.Client[api.ClearAPILogsRequest, api.ClearAPILogsResponse]
}

func (c *chatServiceClient) Complete(ctx context.Context, req *connect.Request[api.CompleteRequest]) (*connect.Response[api.CompleteResponse], error) {
	return c.complete.CallUnary(ctx, req)
}

func (c *chatServiceClient) ListAPILogs(ctx context.Context, req *connect.Request[api.ListAPILogsRequest]) (*connect.Response[api.ListAPILogsResponse], error) {
	return c.listAPILogs.CallUnary(ctx, req)
}

func (c *chatServiceClient) ClearAPILogs(ctx context.Context, req *connect.Request[api.ClearAPILogsRequest]) (*connect.Response[api.ClearAPILogsResponse], error) {
	return c.clearAPILogs.CallUnary(ctx, req)
}

// ChatServiceHandler is an implementation of the basket.v1.ChatService service.
type ChatServiceHandler interface {
	Complete(context.Context, *connect.Request[api.CompleteRequest]) (*connect.Response[api.CompleteResponse], error)
	ListAPILogs(context.Context, *connect.Request[api.ListAPILogsRequest]) (*connect.Response[api.ListAPILogsResponse], error)
	ClearAPILogs(context.Context, *connect.Request[api.ClearAPILogsRequest]) (*connect.Response[api.ClearAPILogsResponse], error)
}

// NewChatServiceHandler builds an HTTP handler from the service implementation.
func NewChatServiceHandler(svc ChatServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	complete := connect.NewUnaryHandler(ChatServiceCompleteProcedure, svc.Complete, opts...)
	listAPILogs := connect.NewUnaryHandler(ChatServiceListAPILogsProcedure, svc.ListAPILogs, opts...)
	clearAPILogs := connect.NewUnaryHandler(ChatServiceClearAPILogsProcedure, svc.ClearAPILogs, opts...)
	return "/basket.v1.ChatService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ChatServiceCompleteProcedure:
			complete.ServeHTTP(w, r)
		case ChatServiceListAPILogsProcedure:
			listAPILogs.ServeHTTP(w, r)
		case ChatServiceClearAPILogsProcedure:
			clearAPILogs.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedChatServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedChatServiceHandler struct{}

func (UnimplementedChatServiceHandler) Complete(context.Context, *connect.Request[api.CompleteRequest]) (*connect.Response[api.CompleteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.ChatService.Complete is not implemented"))
}

func (UnimplementedChatServiceHandler) ListAPILogs(context.Context, *connect.Request[api.ListAPILogsRequest]) (*connect.Response[api.ListAPILogsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.ChatService.ListAPILogs is not implemented"))
}

func (UnimplementedChatServiceHandler) ClearAPILogs(context.Context, *connect.Request[api.ClearAPILogsRequest]) (*connect.Response[api.ClearAPILogsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("basket.v1.ChatService.ClearAPILogs is not implemented"))
}
