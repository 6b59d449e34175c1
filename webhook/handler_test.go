package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const inboundEvent = `{
	"type": "message",
	"uuid": "a3c4d0a4-4f3b-4b0c-9d3e-0f1c2b3a4d5e",
	"sender": "4917612345678",
	"recipient": "channel-uuid",
	"messenger": "WA",
	"messenger_id": "wamid.123",
	"outgoing": false,
	"statuscode": 0,
	"payload": {"type": "text", "text": "hello", "sent_at": "2024-03-01T09:30:00+01:00"},
	"created": "2024-03-01T08:30:00Z",
	"read": null,
	"extra": "kept"
}`

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent([]byte(inboundEvent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Type != "message" {
		t.Errorf("expected type message, got %s", event.Type)
	}
	if event.UUID != "a3c4d0a4-4f3b-4b0c-9d3e-0f1c2b3a4d5e" {
		t.Errorf("unexpected uuid: %s", event.UUID)
	}
	if event.Sender != "4917612345678" || event.Messenger != "WA" || event.MessengerID != "wamid.123" {
		t.Errorf("unexpected message fields: %+v", event.Message)
	}
	if event.Outgoing {
		t.Error("expected inbound event")
	}

	wantCreated := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	if !event.Created.Equal(wantCreated) {
		t.Errorf("expected created %v, got %v", wantCreated, event.Created)
	}
	if event.Read != nil {
		t.Errorf("expected nil read, got %v", event.Read)
	}

	payload, ok := event.Payload.(map[string]any)
	if !ok {
		t.Fatalf("expected payload map, got %T", event.Payload)
	}
	if payload["text"] != "hello" {
		t.Errorf("unexpected payload text: %v", payload["text"])
	}
	if _, ok := payload["sent_at"].(string); !ok {
		t.Errorf("expected payload date re-read as string after typed decode, got %T", payload["sent_at"])
	}

	if event.Raw["extra"] != "kept" {
		t.Errorf("expected unmodelled field in Raw, got %v", event.Raw["extra"])
	}
	sentAt, ok := event.Raw["payload"].(map[string]any)["sent_at"].(time.Time)
	if !ok {
		t.Fatalf("expected nested date in Raw as time.Time, got %T", event.Raw["payload"].(map[string]any)["sent_at"])
	}
	if !sentAt.Equal(time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected nested date: %v", sentAt)
	}
}

func TestParseEvent_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty", "", "must be a JSON object"},
		{"array", `[1,2]`, "must be a JSON object"},
		{"string", `"hello"`, "must be a JSON object"},
		{"malformed", `{"uuid":`, "webhook: normalize: decode body"},
		{"wrong field type", `{"outgoing": "yes"}`, "webhook: normalize: decode into"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	var got *Event
	handler := Handler(func(w http.ResponseWriter, r *http.Request) {
		got = MustEventFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(inboundEvent))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if got == nil || got.Sender != "4917612345678" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestHandler_BadRequest(t *testing.T) {
	logger := &stubLogger{}
	handler := Handler(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}, WithHandlerLogger(logger))

	for _, body := range []string{"", "not json", "[]"} {
		req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected status 400, got %d", body, rr.Code)
		}
	}

	if !logger.contains("webhook: bad request POST /webhook") {
		t.Errorf("expected log line, got %v", logger.lines)
	}
}

func TestHandler_NilBody(t *testing.T) {
	handler := Handler(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest("POST", "/webhook", nil)
	req.Body = nil
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandler_MaxBodyBytes(t *testing.T) {
	handler := Handler(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}, WithMaxBodyBytes(16))

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(inboundEvent))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "read body") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestHandler_BehindMiddleware(t *testing.T) {
	allowlist := newTestAllowlist(t, "203.0.113.10")

	var sourceIP string
	handler := Middleware(allowlist)(Handler(func(w http.ResponseWriter, r *http.Request) {
		sourceIP, _ = SourceIPFromContext(r.Context())
		if _, ok := EventFromContext(r.Context()); !ok {
			t.Error("expected event in context")
		}
	}))

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(inboundEvent))
	req.RemoteAddr = "203.0.113.10:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if sourceIP != "203.0.113.10" {
		t.Errorf("expected source ip 203.0.113.10, got %s", sourceIP)
	}
}

func TestEventFromContext(t *testing.T) {
	ctx := context.Background()

	if _, ok := EventFromContext(ctx); ok {
		t.Error("expected no event in empty context")
	}
	if _, ok := SourceIPFromContext(ctx); ok {
		t.Error("expected no source ip in empty context")
	}
	if _, ok := SourceIPFromContext(WithSourceIP(ctx, "")); ok {
		t.Error("expected empty source ip to be reported as missing")
	}

	event := &Event{Type: "message"}
	got, ok := EventFromContext(WithEvent(ctx, event))
	if !ok || got != event {
		t.Errorf("expected stored event, got %v", got)
	}
}

func TestMustEventFromContext_Panics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if r != "webhook: event not found in context" {
			t.Errorf("unexpected panic value: %v", r)
		}
	}()
	MustEventFromContext(context.Background())
}
