package webhook

import (
	"fmt"
	"io"
	"net/http"

	"github.com/waigel/messengerpeople-go/messages"
	"github.com/waigel/messengerpeople-go/normalize"
)

// DefaultMaxBodyBytes caps the webhook body read by Handler.
const DefaultMaxBodyBytes = 1 << 20

// Event is a message delivered to a webhook.
//
// Date fields arrive as time.Time. Raw holds the whole normalized body,
// including fields Event does not model.
type Event struct {
	messages.Message

	// Type is the notification kind when the platform sends one.
	Type string `json:"type,omitempty"`

	Raw map[string]any `json:"-"`
}

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	maxBodyBytes int64
	logger       Logger
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(c *handlerConfig) {
		c.maxBodyBytes = n
	}
}

// WithHandlerLogger sets a logger for decode failures.
func WithHandlerLogger(logger Logger) HandlerOption {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// Handler decodes the webhook body into an Event, stores it in the request
// context and calls fn. Bodies that are not a JSON object get HTTP 400.
func Handler(fn http.HandlerFunc, opts ...HandlerOption) http.Handler {
	config := &handlerConfig{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(config)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event, err := readEvent(w, r, config.maxBodyBytes)
		if err != nil {
			if config.logger != nil {
				config.logger.Printf("webhook: bad request %s %s: %v", r.Method, r.URL.Path, err)
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		fn(w, r.WithContext(WithEvent(r.Context(), event)))
	})
}

// ParseEvent decodes a webhook body.
func ParseEvent(data []byte) (*Event, error) {
	tree, err := normalize.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}

	raw, ok := tree.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("webhook: event body must be a JSON object, got %T", tree)
	}

	event := &Event{Raw: raw}
	if err := normalize.Into(raw, event); err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}
	return event, nil
}

func readEvent(w http.ResponseWriter, r *http.Request, limit int64) (*Event, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("webhook: empty body")
	}
	defer r.Body.Close()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("webhook: read body: %w", err)
	}
	return ParseEvent(data)
}
