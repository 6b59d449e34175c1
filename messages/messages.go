package messages

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/waigel/messengerpeople-go/auth"
	"github.com/waigel/messengerpeople-go/mpclient"
)

// ErrInvalidUUID is returned by Get and Delete before any request is sent.
var ErrInvalidUUID = errors.New("messages: invalid message uuid")

// ErrMissingPayload is returned by Send for a nil payload.
var ErrMissingPayload = errors.New("messages: payload is required")

// Module binds the messages endpoints to a client.
type Module struct {
	r mpclient.Requester
}

// New creates a Module.
func New(r mpclient.Requester) *Module {
	return &Module{r: r}
}

// Send delivers payload to recipient through the channel channelID.
// Requires the messages:send scope.
func (m *Module) Send(ctx context.Context, channelID, recipient string, payload Payload) (*SendResponse, error) {
	if payload == nil {
		return nil, ErrMissingPayload
	}
	if err := m.r.RequireScopes(auth.ScopeMessagesSend); err != nil {
		return nil, fmt.Errorf("messages: send: %w", err)
	}

	resp, err := mpclient.Post[SendResponse](ctx, m.r, "/messages", sendRequest{
		Identifier: Identifier(channelID, recipient),
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("messages: send: %w", err)
	}
	return &resp, nil
}

// List returns messages, newest first. params may be nil.
// Requires the messages:read scope.
func (m *Module) List(ctx context.Context, params *FilterParams) ([]Message, error) {
	if err := m.r.RequireScopes(auth.ScopeMessagesRead); err != nil {
		return nil, fmt.Errorf("messages: list: %w", err)
	}

	var opts []mpclient.RequestOption
	if params != nil {
		opts = append(opts, mpclient.WithQuery(params))
	}

	list, err := mpclient.Get[[]Message](ctx, m.r, "/messages", opts...)
	if err != nil {
		return nil, fmt.Errorf("messages: list: %w", err)
	}
	return list, nil
}

// Get returns a single message. Requires the messages:read scope.
func (m *Module) Get(ctx context.Context, id string) (*Message, error) {
	path, err := messagePath(id)
	if err != nil {
		return nil, err
	}
	if err := m.r.RequireScopes(auth.ScopeMessagesRead); err != nil {
		return nil, fmt.Errorf("messages: get: %w", err)
	}

	msg, err := mpclient.Get[Message](ctx, m.r, path)
	if err != nil {
		return nil, fmt.Errorf("messages: get %s: %w", id, err)
	}
	return &msg, nil
}

// Delete removes the content of a message and returns what remains.
// The message stays on the recipient's device and is kept for statistics.
// Requires the messages:delete scope.
func (m *Module) Delete(ctx context.Context, id string) (*Message, error) {
	path, err := messagePath(id)
	if err != nil {
		return nil, err
	}
	if err := m.r.RequireScopes(auth.ScopeMessagesDelete); err != nil {
		return nil, fmt.Errorf("messages: delete: %w", err)
	}

	msg, err := mpclient.Delete[Message](ctx, m.r, path)
	if err != nil {
		return nil, fmt.Errorf("messages: delete %s: %w", id, err)
	}
	return &msg, nil
}

// Conversations returns the outgoing chats grouped per channel and user.
// params may be nil. Requires the messages:read scope.
func (m *Module) Conversations(ctx context.Context, params *ConversationParams) ([]Conversation, error) {
	if err := m.r.RequireScopes(auth.ScopeMessagesRead); err != nil {
		return nil, fmt.Errorf("messages: conversations: %w", err)
	}

	var opts []mpclient.RequestOption
	if params != nil {
		opts = append(opts, mpclient.WithQuery(params))
	}

	conversations, err := mpclient.Get[[]Conversation](ctx, m.r, "/messages/conversations", opts...)
	if err != nil {
		return nil, fmt.Errorf("messages: conversations: %w", err)
	}
	return conversations, nil
}

// Identifier joins a channel and a recipient the way Send addresses them.
func Identifier(channelID, recipient string) string {
	return channelID + ":" + recipient
}

func messagePath(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidUUID, id, err)
	}
	return "/messages/" + parsed.String(), nil
}
