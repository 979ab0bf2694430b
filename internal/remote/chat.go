package remote

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/basket/internal/chat"
	"github.com/mmynk/basket/pkg/api"
)

var _ chat.Completer = (*Completer)(nil)

// Completer asks the server's ChatService, which holds the upstream credential.
type Completer struct {
	client *Client
}

// Completer returns a chat.Completer that proxies through the server.
func (c *Client) Completer() *Completer {
	return &Completer{client: c}
}

func (r *Completer) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	req := &api.CompleteRequest{Messages: make([]*api.ChatMessage, 0, len(messages))}
	for _, m := range messages {
		if m.Role == chat.RoleSystem {
			continue
		}
		req.Messages = append(req.Messages, &api.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	resp, err := r.client.chat.Complete(ctx, connect.NewRequest(req))
	if err != nil {
		return "", mapError(err)
	}
	if resp.Msg.Content == "" {
		return "", chat.ErrMalformedResponse
	}
	return resp.Msg.Content, nil
}
