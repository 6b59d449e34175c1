package mpclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/waigel/messengerpeople-go/auth"
)

// TransportError reports a non-2xx response.
//
// The body is kept verbatim; APIError parses the platform's error envelope
// on demand.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("mpclient: %s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// APIError parses the response body as the platform's error envelope.
func (e *TransportError) APIError() (*auth.APIError, bool) {
	return auth.ParseAPIError(e.Body)
}

// NetworkError reports a request that never produced a response,
// such as a DNS failure, connection reset, timeout or cancellation.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("mpclient: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of a *TransportError in err's chain, or 0.
func StatusCode(err error) int {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode
	}
	return 0
}
