package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/waigel/messengerpeople-go/authz"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultAuthURL is the production auth server.
const DefaultAuthURL = "https://auth.messengerpeople.dev"

// TokenPath is the client-credentials token route on the auth server.
const TokenPath = "/token"

// Logger is an interface for optional logging in Resolver.
// Implementations can log token exchanges if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// TokenResponse is the auth server's answer to a successful exchange.
type TokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	AccessToken string `json:"access_token"`

	// Scope is the granted scope string, when the auth server reports one.
	Scope string `json:"scope,omitempty"`
}

// Grant is the outcome of resolving credentials.
type Grant struct {
	// Header is the ready-to-send Authorization value ("Bearer <token>").
	Header      string
	AccessToken string

	// Scopes are the granted scopes, or nil when they cannot be determined.
	Scopes []string

	// Expiry is zero when the token lifetime is unknown.
	Expiry time.Time
}

// Resolver turns Credentials into a bearer Authorization header.
//
// A Resolver holds no token state: every ClientCredentials resolution performs exactly
// one exchange, and nothing is cached or refreshed. It is safe for concurrent use.
type Resolver struct {
	tokenURL   string
	httpClient *http.Client
	headers    http.Header
	logger     Logger // optional logger
}

// Option is a functional option for configuring Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the HTTP client used for token exchanges.
// Its Timeout applies to the exchange; a nil Transport means http.DefaultTransport.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = client
	}
}

// WithHeader adds a header to every token request, such as the client-identification header.
func WithHeader(key, value string) Option {
	return func(r *Resolver) {
		r.headers.Set(key, value)
	}
}

// WithLogger sets a custom logger for token exchange events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
func WithLoggingEnabled() Option {
	return func(r *Resolver) {
		r.logger = log.Default()
	}
}

// NewResolver creates a Resolver that exchanges client credentials at authURL + TokenPath.
// An empty authURL selects DefaultAuthURL.
func NewResolver(authURL string, opts ...Option) *Resolver {
	if authURL == "" {
		authURL = DefaultAuthURL
	}

	r := &Resolver{
		tokenURL: strings.TrimRight(authURL, "/") + TokenPath,
		headers:  make(http.Header),
	}
	r.headers.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// TokenURL returns the token endpoint this resolver posts to.
func (r *Resolver) TokenURL() string {
	return r.tokenURL
}

// Resolve returns the Authorization header value for creds.
//
// BearerCredentials resolve locally without any network call. ClientCredentials are
// exchanged once against the auth server. Failures are *AuthenticationError values.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (string, error) {
	grant, err := r.Grant(ctx, creds)
	if err != nil {
		return "", err
	}
	return grant.Header, nil
}

// Grant resolves creds like Resolve and also reports what is known about the token.
func (r *Resolver) Grant(ctx context.Context, creds Credentials) (*Grant, error) {
	switch c := creds.(type) {
	case BearerCredentials:
		return bearerGrant(c.AccessToken)
	case *BearerCredentials:
		if c == nil {
			return nil, &AuthenticationError{Reason: "credentials are nil"}
		}
		return bearerGrant(c.AccessToken)
	case ClientCredentials:
		return r.clientGrant(ctx, c)
	case *ClientCredentials:
		if c == nil {
			return nil, &AuthenticationError{Reason: "credentials are nil"}
		}
		return r.clientGrant(ctx, *c)
	default:
		return nil, &AuthenticationError{Reason: fmt.Sprintf("unsupported credentials %T", creds)}
	}
}

// Exchange performs the OAuth2 client-credentials grant.
//
// The form body carries grant_type, client_id, client_secret and the scopes joined by a
// single space. The request context controls cancellation and deadlines.
func (r *Resolver) Exchange(ctx context.Context, creds ClientCredentials) (*TokenResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if creds.ClientID == "" {
		return nil, &AuthenticationError{Reason: "client id is required"}
	}

	config := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     r.tokenURL,
		Scopes:       creds.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.exchangeClient())

	token, err := config.Token(ctx)
	if err != nil {
		authErr := toAuthenticationError(err)
		if r.logger != nil {
			r.logger.Printf("auth: token request for client %s failed: %v", creds.ClientID, authErr)
		}
		return nil, authErr
	}

	resp := &TokenResponse{
		TokenType:   token.TokenType,
		ExpiresIn:   expiresIn(token),
		AccessToken: token.AccessToken,
		Scope:       extraString(token, "scope"),
	}

	// Log only if logger is configured
	if r.logger != nil {
		r.logger.Printf("auth: obtained access token for client %s (expires in %ds)", creds.ClientID, resp.ExpiresIn)
	}

	return resp, nil
}

func (r *Resolver) clientGrant(ctx context.Context, creds ClientCredentials) (*Grant, error) {
	resp, err := r.Exchange(ctx, creds)
	if err != nil {
		return nil, err
	}

	grant := &Grant{
		Header:      "Bearer " + resp.AccessToken,
		AccessToken: resp.AccessToken,
	}
	if resp.ExpiresIn > 0 {
		grant.Expiry = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	switch {
	case resp.Scope != "":
		grant.Scopes = authz.ParseScopes(resp.Scope)
	default:
		if info, err := InspectToken(resp.AccessToken); err == nil && len(info.Scopes) > 0 {
			grant.Scopes = info.Scopes
		} else {
			// RFC 6749 §5.1: an omitted scope means the requested scope was granted.
			grant.Scopes = authz.ParseScopes(strings.Join(creds.Scopes, " "))
		}
	}

	return grant, nil
}

func bearerGrant(token string) (*Grant, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &AuthenticationError{Reason: "access token is empty"}
	}

	grant := &Grant{
		Header:      "Bearer " + token,
		AccessToken: token,
	}
	if info, err := InspectToken(token); err == nil {
		grant.Scopes = info.Scopes
		grant.Expiry = info.ExpiresAt
	}

	return grant, nil
}

// exchangeClient returns the client handed to x/oauth2, wrapped so that token requests
// carry the resolver's extra headers.
func (r *Resolver) exchangeClient() *http.Client {
	var (
		base    http.RoundTripper
		timeout time.Duration
	)
	if r.httpClient != nil {
		base = r.httpClient.Transport
		timeout = r.httpClient.Timeout
	}

	return &http.Client{
		Transport: &headerTransport{base: base, headers: r.headers},
		Timeout:   timeout,
	}
}

func toAuthenticationError(err error) *AuthenticationError {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return &AuthenticationError{Reason: "token request failed", Err: err}
	}

	authErr := &AuthenticationError{Err: err}
	if retrieveErr.Response != nil {
		authErr.StatusCode = retrieveErr.Response.StatusCode
	}
	if apiErr, ok := ParseAPIError(retrieveErr.Body); ok {
		authErr.Reason = apiErr.Message
		authErr.API = apiErr
		if authErr.StatusCode == 0 {
			authErr.StatusCode = apiErr.StatusCode
		}
	}

	return authErr
}

func expiresIn(token *oauth2.Token) int64 {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}

	if !token.Expiry.IsZero() {
		return int64(time.Until(token.Expiry).Round(time.Second) / time.Second)
	}
	return 0
}

func extraString(token *oauth2.Token, key string) string {
	if v, ok := token.Extra(key).(string); ok {
		return v
	}
	return ""
}

// headerTransport sets fixed headers on outgoing requests that do not already carry them.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqClone := req.Clone(req.Context())
	for key, values := range t.headers {
		if reqClone.Header.Get(key) == "" && len(values) > 0 {
			reqClone.Header.Set(key, values[0])
		}
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(reqClone)
}
