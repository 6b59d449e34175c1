package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrAuthentication matches every *AuthenticationError via errors.Is.
var ErrAuthentication = errors.New("auth: authentication failed")

// AuthenticationError reports a failed credential resolution.
//
// Reason is the platform's error text when the auth server returned an error
// envelope. StatusCode is zero when no HTTP response was received.
type AuthenticationError struct {
	Reason     string
	StatusCode int
	API        *APIError
	Err        error
}

// Error returns a message in the form "auth: <reason> - status <code>".
func (e *AuthenticationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "authentication failed"
	}

	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("auth: %s - status %d", reason, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("auth: %s: %v", reason, e.Err)
	default:
		return "auth: " + reason
	}
}

// Unwrap returns the underlying transport or OAuth2 error.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is enables errors.Is(err, ErrAuthentication).
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// APIError is the error envelope the platform returns on failed requests.
type APIError struct {
	Message       string     `json:"error"`
	Errors        []APIError `json:"errors,omitempty"`
	Hint          string     `json:"hint,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	StatusCode    int        `json:"status_code,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	if e.CorrelationID != "" {
		msg += " [correlation_id=" + e.CorrelationID + "]"
	}
	return msg
}

// ParseAPIError decodes an error envelope from a response body.
// It reports false when the body is empty, not JSON, or carries none of the envelope fields.
func ParseAPIError(body []byte) (*APIError, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, false
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return nil, false
	}
	if apiErr.Message == "" && len(apiErr.Errors) == 0 && apiErr.StatusCode == 0 {
		return nil, false
	}

	return &apiErr, true
}
