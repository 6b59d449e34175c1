package messages_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waigel/messengerpeople-go/messages"
)

func TestPayloadEncoding(t *testing.T) {
	index := 0

	tests := []struct {
		name    string
		payload messages.Payload
		want    string
	}{
		{
			name:    "text",
			payload: messages.TextPayload{Text: "Hello"},
			want:    `{"type":"text","text":"Hello"}`,
		},
		{
			name:    "attachment",
			payload: messages.AttachmentPayload{Kind: messages.AttachmentVideo, Attachment: "https://cdn.example.com/a.mp4"},
			want:    `{"type":"video","attachment":"https://cdn.example.com/a.mp4"}`,
		},
		{
			name:    "attachment defaults to image",
			payload: messages.AttachmentPayload{Text: "caption", Attachment: "https://cdn.example.com/a.png"},
			want:    `{"type":"image","text":"caption","attachment":"https://cdn.example.com/a.png"}`,
		},
		{
			name: "currency",
			payload: messages.CurrencyPayload{Currency: messages.Currency{
				Code: "USD", FallbackValue: "$100.99", Amount1000: 100990,
			}},
			want: `{"type":"currency","currency":{"code":"USD","fallback_value":"$100.99","amount_1000":100990}}`,
		},
		{
			name: "date time",
			payload: messages.DateTimePayload{DateTime: messages.DateTime{
				FallbackValue: "June 1st", DayOfWeek: 2, DayOfMonth: 1, Year: 2021, Month: 6, Hour: 10, Minute: 30,
			}},
			want: `{"type":"date_time","date_time":{"fallback_value":"June 1st","day_of_week":2,"day_of_month":1,"year":2021,"month":6,"hour":10,"minute":30}}`,
		},
		{
			name: "contacts",
			payload: messages.ContactsPayload{Contacts: []messages.Contact{{
				Name:   messages.ContactName{FormattedName: "Jane Doe", FirstName: "Jane"},
				Phones: []messages.Phone{{Phone: "+49 151 1234", Type: "CELL"}},
			}}},
			want: `{"type":"contact","contacts":[{"name":{"formatted_name":"Jane Doe","first_name":"Jane"},"phones":[{"phone":"+49 151 1234","type":"CELL"}]}]}`,
		},
		{
			name:    "location",
			payload: messages.LocationPayload{Location: messages.Location{Longitude: 11.57, Latitude: 48.13, Name: "Munich"}},
			want:    `{"type":"location","location":{"longitude":11.57,"latitude":48.13,"name":"Munich"}}`,
		},
		{
			name: "template",
			payload: messages.TemplatePayload{Template: messages.Template{
				Type: "notification",
				Notification: &messages.TemplateObject{
					Name:     "order_update",
					Language: "de",
					Components: []messages.TemplateComponent{
						{Type: "body", Parameters: messages.TextPayload{Text: "4711"}},
						{Type: "button", SubType: "url", Index: &index, Parameters: messages.URLButton{Text: "track", URL: "https://example.com"}},
						{Type: "button", SubType: "quick_reply", Index: &index, Parameters: messages.PayloadButton{Payload: "yes"}},
					},
				},
			}},
			want: `{"type":"template","template":{"type":"notification","notification":{"ttl":0,"name":"order_update","language":"de","components":[
				{"type":"body","parameters":{"type":"text","text":"4711"}},
				{"type":"button","subtype":"url","index":0,"parameters":{"type":"text","text":"track","url":"https://example.com"}},
				{"type":"button","subtype":"quick_reply","index":0,"parameters":{"type":"payload","payload":"yes"}}
			]}}}`,
		},
		{
			name:    "raw",
			payload: messages.RawPayload{"type": "sticker", "sticker": "abc"},
			want:    `{"type":"sticker","sticker":"abc"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.payload)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestPayloadEncoding_TypeComesFirst(t *testing.T) {
	data, err := json.Marshal(messages.TextPayload{Text: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"text","text":"Hello"}`, string(data))
}

func TestPayloadType(t *testing.T) {
	assert.Equal(t, "text", messages.TextPayload{}.PayloadType())
	assert.Equal(t, "audio", messages.AttachmentPayload{Kind: messages.AttachmentAudio}.PayloadType())
	assert.Equal(t, "contact", messages.ContactsPayload{}.PayloadType())
	assert.Equal(t, "sticker", messages.RawPayload{"type": "sticker"}.PayloadType())
	assert.Empty(t, messages.RawPayload{}.PayloadType())
}
