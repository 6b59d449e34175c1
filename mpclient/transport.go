package mpclient

import (
	"net/http"
)

// HeaderClient is the header carrying the JSON platform descriptor.
const HeaderClient = "X-Client"

// HeaderTransport is an http.RoundTripper that adds the platform's default
// headers to outgoing requests.
//
// It sets Authorization, Accept, Content-Type and X-Client on a clone of each
// request. Headers already present on the request are left untouched, so
// per-request values win over the defaults.
type HeaderTransport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Authorization is the fixed "Bearer <token>" value.
	Authorization string

	// Client is the X-Client value. Empty means the header is not sent.
	Client string
}

// NewHeaderTransport creates a HeaderTransport for the given bearer header.
// The base transport defaults to http.DefaultTransport if not specified.
func NewHeaderTransport(authorization, client string, base http.RoundTripper) *HeaderTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &HeaderTransport{
		Base:          base,
		Authorization: authorization,
		Client:        client,
	}
}

// RoundTrip implements http.RoundTripper interface.
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	reqClone := req.Clone(req.Context())

	setDefault(reqClone.Header, "Authorization", t.Authorization)
	setDefault(reqClone.Header, "Accept", "application/json")
	setDefault(reqClone.Header, "Content-Type", "application/json")
	setDefault(reqClone.Header, HeaderClient, t.Client)

	// Use base transport or default
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(reqClone)
}

func setDefault(header http.Header, key, value string) {
	if value == "" || header.Get(key) != "" {
		return
	}
	header.Set(key, value)
}
