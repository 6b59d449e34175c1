package mpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/waigel/messengerpeople-go/auth"
	"github.com/waigel/messengerpeople-go/authz"
	"github.com/waigel/messengerpeople-go/normalize"
)

// Requester is the part of Client that resource packages depend on.
type Requester interface {
	Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (any, error)
	RequireScopes(scopes ...string) error
}

// Client is an authenticated API client.
//
// Its bearer header is fixed at Build time and never refreshed: once the token
// expires, build a new Client. A Client is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	grant      auth.Grant
	platform   Platform
	logger     Logger
	scopeCheck bool
}

var _ Requester = (*Client)(nil)

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// AuthorizationHeader returns the "Bearer <token>" value sent with every request.
func (c *Client) AuthorizationHeader() string {
	return c.grant.Header
}

// Grant returns what is known about the client's access token.
func (c *Client) Grant() auth.Grant {
	grant := c.grant
	grant.Scopes = append([]string(nil), c.grant.Scopes...)
	return grant
}

// TokenInfo decodes the client's access token claims. Opaque tokens yield auth.ErrOpaqueToken.
func (c *Client) TokenInfo() (*auth.TokenInfo, error) {
	return auth.InspectToken(c.grant.AccessToken)
}

// Platform returns the descriptor sent in the X-Client header.
func (c *Client) Platform() Platform {
	return c.platform
}

// HTTPClient returns the underlying authenticated http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// RequireScopes checks the granted scopes against scopes when scope checking is
// enabled. It is a no-op when checking is disabled or the granted scopes are unknown.
func (c *Client) RequireScopes(scopes ...string) error {
	if !c.scopeCheck || c.grant.Scopes == nil {
		return nil
	}
	return authz.Evaluate(authz.Require(scopes...), c.grant.Scopes)
}

// Do sends a request to baseURL + path and returns the normalized response body.
//
// body is encoded as JSON unless it is nil, []byte, json.RawMessage or an io.Reader.
// Non-2xx responses return *TransportError; failures without a response return *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := newRequestConfig(opts)
	if cfg.err != nil {
		return nil, cfg.err
	}

	endpoint, err := c.resolve(path, cfg.query)
	if err != nil {
		return nil, err
	}

	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("mpclient: create request: %w", err)
	}
	for key, values := range cfg.header {
		req.Header[key] = values
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("mpclient: %s %s failed: %v", method, endpoint, err)
		}
		return nil, &NetworkError{Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.logger != nil {
			c.logger.Printf("mpclient: %s %s returned status %d", method, endpoint, resp.StatusCode)
		}
		return nil, &TransportError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       data,
		}
	}

	tree, err := normalize.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("mpclient: decode %s %s response: %w", method, endpoint, err)
	}

	return tree, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (any, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (any, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (any, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (any, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (any, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// CheckIfAuthorized probes GET / and reports whether the API answered {"status": "ok"}.
// Every failure, including network errors and malformed bodies, yields false.
func (c *Client) CheckIfAuthorized(ctx context.Context) bool {
	tree, err := c.Get(ctx, "/")
	if err != nil {
		return false
	}

	body, ok := tree.(map[string]any)
	if !ok {
		return false
	}
	status, ok := body["status"].(string)
	return ok && status == "ok"
}

func (c *Client) resolve(path string, extra url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("mpclient: invalid path %q: %w", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("mpclient: path %q must be relative to the base URL", path)
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + ref.Path
	u.RawPath = ""

	query := ref.Query()
	for key, values := range extra {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("mpclient: encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Get sends a GET request and decodes the normalized body into T.
func Get[T any](ctx context.Context, r Requester, path string, opts ...RequestOption) (T, error) {
	return do[T](ctx, r, http.MethodGet, path, nil, opts...)
}

// Post sends a POST request and decodes the normalized body into T.
func Post[T any](ctx context.Context, r Requester, path string, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, r, http.MethodPost, path, body, opts...)
}

// Put sends a PUT request and decodes the normalized body into T.
func Put[T any](ctx context.Context, r Requester, path string, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, r, http.MethodPut, path, body, opts...)
}

// Patch sends a PATCH request and decodes the normalized body into T.
func Patch[T any](ctx context.Context, r Requester, path string, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, r, http.MethodPatch, path, body, opts...)
}

// Delete sends a DELETE request and decodes the normalized body into T.
func Delete[T any](ctx context.Context, r Requester, path string, opts ...RequestOption) (T, error) {
	return do[T](ctx, r, http.MethodDelete, path, nil, opts...)
}

func do[T any](ctx context.Context, r Requester, method, path string, body any, opts ...RequestOption) (T, error) {
	var out T

	tree, err := r.Do(ctx, method, path, body, opts...)
	if err != nil {
		return out, err
	}

	if err := normalize.Into(tree, &out); err != nil {
		return out, fmt.Errorf("mpclient: decode %s %s response into %T: %w", method, path, out, err)
	}
	return out, nil
}
