package webhook

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	eventKey    contextKey = "webhook.event"
	sourceIPKey contextKey = "webhook.source_ip"
)

// WithEvent returns a new context carrying the decoded webhook event.
func WithEvent(ctx context.Context, event *Event) context.Context {
	return context.WithValue(ctx, eventKey, event)
}

// EventFromContext extracts the webhook event stored by Handler.
// Returns the event and true if found, or nil and false if not present.
//
// Example:
//
//	func onMessage(w http.ResponseWriter, r *http.Request) {
//	    event, ok := webhook.EventFromContext(r.Context())
//	    if !ok {
//	        http.Error(w, "no event", http.StatusBadRequest)
//	        return
//	    }
//	    log.Printf("message %s from %s", event.UUID, event.Sender)
//	}
func EventFromContext(ctx context.Context) (*Event, bool) {
	event, ok := ctx.Value(eventKey).(*Event)
	return event, ok
}

// MustEventFromContext extracts the webhook event and panics if not found.
// Use it only in handlers wrapped by Handler.
func MustEventFromContext(ctx context.Context) *Event {
	event, ok := EventFromContext(ctx)
	if !ok {
		panic("webhook: event not found in context")
	}
	return event
}

// WithSourceIP returns a new context carrying the sender's address.
func WithSourceIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, sourceIPKey, ip)
}

// SourceIPFromContext returns the address admitted by Middleware.
func SourceIPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(sourceIPKey).(string)
	return ip, ok && ip != ""
}
