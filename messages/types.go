package messages

import (
	"time"
)

// Message is a single inbound or outbound message.
type Message struct {
	UUID           string     `json:"uuid"`
	Sender         string     `json:"sender"`
	Recipient      string     `json:"recipient"`
	Messenger      string     `json:"messenger"`
	MessengerID    string     `json:"messenger_id"`
	Payload        any        `json:"payload"`
	Outgoing       bool       `json:"outgoing"`
	StatusCode     int        `json:"statuscode"`
	WebhookRequest any        `json:"webhook_request,omitempty"`
	Result         string     `json:"result"`
	Processed      time.Time  `json:"processed"`
	Sent           time.Time  `json:"sent"`
	Received       time.Time  `json:"received"`
	Read           *time.Time `json:"read,omitempty"`
	Created        time.Time  `json:"created"`
}

// SendResponse is returned when a message has been accepted for delivery.
type SendResponse struct {
	ID            string `json:"id"`
	Messenger     string `json:"messenger"`
	MessageAmount int    `json:"message_amount"`
	Split         bool   `json:"split"`
	Status        string `json:"status"`
}

// Conversation groups the chats between a channel and one user.
type Conversation struct {
	User     string    `json:"user"`
	Channel  string    `json:"channel"`
	LastChat time.Time `json:"last_chat"`
	Chats    []Message `json:"chats"`
}

// FilterParams narrows List. Zero values are omitted from the query.
type FilterParams struct {
	// Limit defaults to 500 on the platform.
	Limit  int `url:"limit,omitempty"`
	Offset int `url:"offset,omitempty"`

	// Sort takes field:direction pairs, e.g. "sender:desc,recipient:asc".
	Sort string `url:"sort,omitempty"`

	// Filter takes comma-joined field-operator-value expressions.
	Filter string `url:"filter,omitempty"`

	// Query searches sender, recipient and messenger ID.
	Query string `url:"query,omitempty"`

	// Deprecated: use Filter instead.
	Recipient string `url:"recipient,omitempty"`
	// Deprecated: use Filter instead.
	Sender string `url:"sender,omitempty"`
	// Deprecated: use Filter instead. Nil means both directions.
	Outgoing *bool `url:"outgoing,omitempty"`
}

// ConversationParams narrows Conversations.
type ConversationParams struct {
	// Channel is a channel UUID; empty means all channels.
	Channel string `url:"channel,omitempty"`
	// User only applies together with Channel.
	User string `url:"user,omitempty"`
	// Limit defaults to 100 on the platform.
	Limit int `url:"limit,omitempty"`
	// LimitChats caps the chats per conversation, 100 by default.
	LimitChats int `url:"limitchats,omitempty"`
}

type sendRequest struct {
	Identifier string  `json:"identifier"`
	Payload    Payload `json:"payload"`
}
