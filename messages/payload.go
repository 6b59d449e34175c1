package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is the content of an outgoing message.
//
// Every payload type encodes its "type" discriminator itself. RawPayload
// passes arbitrary JSON objects through for types not modeled here.
type Payload interface {
	PayloadType() string
}

// AttachmentKind is the media type of an AttachmentPayload.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentAudio AttachmentKind = "audio"
	AttachmentVideo AttachmentKind = "video"
)

// TextPayload is a plain text message.
type TextPayload struct {
	Text string `json:"text"`
}

// AttachmentPayload sends media by URL with an optional caption.
type AttachmentPayload struct {
	Kind       AttachmentKind `json:"-"`
	Text       string         `json:"text,omitempty"`
	Attachment string         `json:"attachment"`
}

// CurrencyPayload is a localized currency amount.
type CurrencyPayload struct {
	Currency Currency `json:"currency"`
}

// Currency is an amount in thousandths of the currency unit.
type Currency struct {
	Code          string `json:"code"`
	FallbackValue string `json:"fallback_value"`
	Amount1000    int64  `json:"amount_1000"`
}

// DateTimePayload is a localized date and time.
type DateTimePayload struct {
	DateTime DateTime `json:"date_time"`
}

// DateTime is the component form of a localized date.
type DateTime struct {
	FallbackValue string `json:"fallback_value"`
	DayOfWeek     int    `json:"day_of_week"`
	DayOfMonth    int    `json:"day_of_month"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Hour          int    `json:"hour"`
	Minute        int    `json:"minute"`
}

// ContactsPayload shares one or more contact cards.
type ContactsPayload struct {
	Contacts []Contact `json:"contacts"`
}

// Contact follows the WhatsApp contacts object.
type Contact struct {
	Addresses []Address    `json:"addresses,omitempty"`
	Birthday  string       `json:"birthday,omitempty"` // YYYY-MM-DD
	Emails    []Email      `json:"emails,omitempty"`
	Name      ContactName  `json:"name"`
	Org       *Org         `json:"org,omitempty"`
	Phones    []Phone      `json:"phones,omitempty"`
	URLs      []ContactURL `json:"urls,omitempty"`
}

// Address is a postal address. Type is HOME or WORK.
type Address struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Email is an email address. Type is HOME or WORK.
type Email struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
}

// ContactName needs FormattedName plus at least one other field.
type ContactName struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty"`
	Suffix        string `json:"suffix,omitempty"`
	Prefix        string `json:"prefix,omitempty"`
}

// Org is the contact's company.
type Org struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
}

// Phone is a phone number. Type is one of CELL, MAIN, IPHONE, HOME, WORK.
type Phone struct {
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"`
	WaID  string `json:"wa_id,omitempty"`
}

// ContactURL is a web address. Type is HOME or WORK.
type ContactURL struct {
	URL  string `json:"url,omitempty"`
	Type string `json:"type,omitempty"`
}

// LocationPayload shares a map location.
type LocationPayload struct {
	Location Location `json:"location"`
}

// Location is a point on the map. Address is only shown when Name is set.
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// TemplatePayload sends a pre-approved template.
type TemplatePayload struct {
	Template Template `json:"template"`
}

// Template selects the template type, e.g. "notification".
type Template struct {
	Type         string          `json:"type"`
	Notification *TemplateObject `json:"notification,omitempty"`
}

// TemplateObject names a reviewed template and fills its parameters.
type TemplateObject struct {
	// Deprecated: the platform ignores ttl from API v2.35.
	TTL        int                 `json:"ttl"`
	Name       string              `json:"name,omitempty"`
	Language   string              `json:"language,omitempty"`
	Components []TemplateComponent `json:"components,omitempty"`
}

// TemplateComponent fills a header, body, footer or button of a template.
// Parameters is a Payload for text components, or a URLButton or PayloadButton
// for buttons.
type TemplateComponent struct {
	Type       string `json:"type"`
	SubType    string `json:"subtype,omitempty"`
	Index      *int   `json:"index,omitempty"`
	Parameters any    `json:"parameters,omitempty"`
}

// URLButton appends Text to a dynamic URL button.
type URLButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// PayloadButton is returned to you when a quick reply button is clicked.
type PayloadButton struct {
	Payload string `json:"payload"`
}

// RawPayload is sent as-is. It must contain a "type" key.
type RawPayload map[string]any

func (TextPayload) PayloadType() string         { return "text" }
func (p AttachmentPayload) PayloadType() string { return string(p.Kind) }
func (CurrencyPayload) PayloadType() string     { return "currency" }
func (DateTimePayload) PayloadType() string     { return "date_time" }
func (ContactsPayload) PayloadType() string     { return "contact" }
func (LocationPayload) PayloadType() string     { return "location" }
func (TemplatePayload) PayloadType() string     { return "template" }

// PayloadType returns the "type" entry, or "" when it is missing.
func (p RawPayload) PayloadType() string {
	t, _ := p["type"].(string)
	return t
}

func (p TextPayload) MarshalJSON() ([]byte, error) {
	type plain TextPayload
	return marshalTyped(p.PayloadType(), plain(p))
}

func (p AttachmentPayload) MarshalJSON() ([]byte, error) {
	if p.Kind == "" {
		p.Kind = AttachmentImage
	}
	type plain AttachmentPayload
	return marshalTyped(p.PayloadType(), plain(p))
}

func (p CurrencyPayload) MarshalJSON() ([]byte, error) {
	type plain CurrencyPayload
	return marshalTyped(p.PayloadType(), plain(p))
}

func (p DateTimePayload) MarshalJSON() ([]byte, error) {
	type plain DateTimePayload
	return marshalTyped(p.PayloadType(), plain(p))
}

func (p ContactsPayload) MarshalJSON() ([]byte, error) {
	type plain ContactsPayload
	return marshalTyped(p.PayloadType(), plain(p))
}

func (p LocationPayload) MarshalJSON() ([]byte, error) {
	type plain LocationPayload
	return marshalTyped(p.PayloadType(), plain(p))
}

func (p TemplatePayload) MarshalJSON() ([]byte, error) {
	type plain TemplatePayload
	return marshalTyped(p.PayloadType(), plain(p))
}

func (b URLButton) MarshalJSON() ([]byte, error) {
	type plain URLButton
	return marshalTyped("text", plain(b))
}

func (b PayloadButton) MarshalJSON() ([]byte, error) {
	type plain PayloadButton
	return marshalTyped("payload", plain(b))
}

// marshalTyped encodes v as a JSON object with a leading "type" member.
func marshalTyped(typ string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("messages: payload %q is not a JSON object", typ)
	}

	typeJSON, err := json.Marshal(typ)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + len(typeJSON) + 8)
	buf.WriteString(`{"type":`)
	buf.Write(typeJSON)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
