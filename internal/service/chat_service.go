package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/basket/internal/chat"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/internal/storage"
	"github.com/mmynk/basket/pkg/api"
	"github.com/mmynk/basket/pkg/api/apiconnect"
)

// ChatService proxies completions to the configured upstream so the
// credential never leaves the server, and keeps a log of every call.
type ChatService struct {
	apiconnect.UnimplementedChatServiceHandler
	completer chat.Completer
	logs      storage.APILogStore
	timeout   time.Duration
}

// NewChatService creates a ChatService. A nil completer answers every
// Complete with Unavailable, which clients treat as "use the fallback".
func NewChatService(completer chat.Completer, logs storage.APILogStore, timeout time.Duration) *ChatService {
	if timeout <= 0 {
		timeout = chat.DefaultTimeout
	}
	return &ChatService{completer: completer, logs: logs, timeout: timeout}
}

func validateConversation(msgs []*api.ChatMessage) ([]chat.Message, error) {
	if len(msgs) == 0 {
		return nil, errors.New("messages required")
	}
	out := make([]chat.Message, len(msgs))
	for i, m := range msgs {
		if m == nil {
			return nil, fmt.Errorf("message %d is empty", i)
		}
		role := chat.Role(m.Role)
		if role != chat.RoleUser && role != chat.RoleAssistant {
			return nil, fmt.Errorf("message %d: unsupported role %q", i, m.Role)
		}
		out[i] = chat.Message{Role: role, Content: m.Content}
	}
	if out[len(out)-1].Role != chat.RoleUser {
		return nil, errors.New("last message must come from the user")
	}
	return out, nil
}

// Complete forwards the conversation upstream once.
func (s *ChatService) Complete(ctx context.Context, req *connect.Request[api.CompleteRequest]) (*connect.Response[api.CompleteResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	messages, err := validateConversation(req.Msg.Messages)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if s.completer == nil {
		return nil, connect.NewError(connect.CodeUnavailable, chat.ErrNotConfigured)
	}

	ctx = chat.WithObserver(ctx, s.record(owner))
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.completer.Complete(ctx, messages)
	if err != nil {
		slog.Warn("Chat upstream failed", "user_id", owner, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	return connect.NewResponse(&api.CompleteResponse{Content: content}), nil
}

// record stores each upstream exchange for owner. Failures to log are
// logged and otherwise ignored.
func (s *ChatService) record(owner string) chat.Observer {
	return func(ctx context.Context, ex chat.Exchange) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		entry := &models.APILog{
			UserID:     owner,
			Timestamp:  ex.Started.UnixMilli(),
			Endpoint:   ex.Endpoint,
			Method:     ex.Method,
			Request:    ex.Request,
			Response:   ex.Response,
			Status:     ex.Status,
			DurationMs: ex.Duration.Milliseconds(),
		}
		if err := s.logs.CreateAPILog(ctx, entry); err != nil {
			slog.Error("Failed to record api log", "user_id", owner, "error", err)
		}
	}
}

// ListAPILogs returns the caller's upstream calls, most recent first.
func (s *ChatService) ListAPILogs(ctx context.Context, req *connect.Request[api.ListAPILogsRequest]) (*connect.Response[api.ListAPILogsResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.ListAPILogs(ctx, owner, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.APILog, len(logs))
	for i := range logs {
		out[i] = apiLogToAPI(&logs[i])
	}
	return connect.NewResponse(&api.ListAPILogsResponse{Logs: out}), nil
}

// ClearAPILogs deletes the caller's log.
func (s *ChatService) ClearAPILogs(ctx context.Context, req *connect.Request[api.ClearAPILogsRequest]) (*connect.Response[api.ClearAPILogsResponse], error) {
	owner, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	removed, err := s.logs.ClearAPILogs(ctx, owner)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("API logs cleared", "user_id", owner, "removed", removed)
	return connect.NewResponse(&api.ClearAPILogsResponse{Removed: removed}), nil
}
