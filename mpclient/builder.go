package mpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/waigel/messengerpeople-go/auth"
)

const (
	// DefaultBaseURL is the production API.
	DefaultBaseURL = "https://api.messengerpeople.dev"

	// DefaultAuthURL is the production auth server.
	DefaultAuthURL = auth.DefaultAuthURL

	// DefaultTimeout bounds every request made by a built Client.
	DefaultTimeout = 30 * time.Second
)

// Logger is an interface for optional logging in Client.
type Logger interface {
	Printf(format string, args ...any)
}

// Builder provides a fluent interface for constructing API clients
// with TLS/mTLS support and optional instrumentation.
type Builder struct {
	credentials auth.Credentials
	baseURL     string
	authURL     string

	// TLS configuration
	tlsEnabled    bool
	tlsCAFile     string
	tlsCertFile   string
	tlsKeyFile    string
	tlsSkipVerify bool

	// HTTP client configuration
	timeout         time.Duration
	baseTransport   http.RoundTripper
	followRedirects bool

	platform   *Platform
	logger     Logger
	registerer prometheus.Registerer
	scopeCheck bool
}

// NewBuilder creates a new client builder targeting the production endpoints.
func NewBuilder() *Builder {
	return &Builder{
		baseURL:         DefaultBaseURL,
		authURL:         DefaultAuthURL,
		timeout:         DefaultTimeout,
		followRedirects: true,
	}
}

// WithCredentials sets the credentials resolved by Build.
func (b *Builder) WithCredentials(creds auth.Credentials) *Builder {
	b.credentials = creds
	return b
}

// WithBaseURL overrides the API base URL.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.baseURL = baseURL
	return b
}

// WithAuthURL overrides the auth server used for client-credentials exchanges.
func (b *Builder) WithAuthURL(authURL string) *Builder {
	b.authURL = authURL
	return b
}

// WithTLS enables TLS for the connection.
//
// Parameters:
//   - caFile: Path to CA certificate for server verification (optional, uses system roots if empty)
//   - certFile: Path to client certificate for mTLS (optional, must be paired with keyFile)
//   - keyFile: Path to client private key for mTLS (optional, must be paired with certFile)
func (b *Builder) WithTLS(caFile, certFile, keyFile string) *Builder {
	b.tlsEnabled = true
	b.tlsCAFile = caFile
	b.tlsCertFile = certFile
	b.tlsKeyFile = keyFile
	return b
}

// WithInsecureSkipVerify disables TLS certificate verification (NOT RECOMMENDED for production).
// This should only be used for testing or development purposes.
func (b *Builder) WithInsecureSkipVerify() *Builder {
	b.tlsSkipVerify = true
	return b
}

// WithTimeout sets the timeout applied to each request, including the token exchange.
// Default is 30 seconds; zero disables it.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithBaseTransport sets a custom base transport.
// It carries both API calls and the token exchange.
func (b *Builder) WithBaseTransport(transport http.RoundTripper) *Builder {
	b.baseTransport = transport
	return b
}

// WithoutRedirects disables automatic redirect following.
// By default, the client follows up to 10 redirects.
func (b *Builder) WithoutRedirects() *Builder {
	b.followRedirects = false
	return b
}

// WithPlatform overrides the descriptor sent in the X-Client header.
// If not set, DetectPlatform is called once during Build.
func (b *Builder) WithPlatform(platform Platform) *Builder {
	b.platform = &platform
	return b
}

// WithLogger sets a custom logger for the client and the token exchange.
// If not set, no logging will occur.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// WithLoggingEnabled enables logging using the default Go log package.
func (b *Builder) WithLoggingEnabled() *Builder {
	b.logger = log.Default()
	return b
}

// WithMetrics instruments API calls with Prometheus collectors registered on reg.
// Building several clients against the same registerer shares the collectors.
func (b *Builder) WithMetrics(reg prometheus.Registerer) *Builder {
	b.registerer = reg
	return b
}

// WithScopeCheck makes resource calls fail fast with authz.ErrInsufficientScope
// when the granted scopes are known and do not cover the operation.
func (b *Builder) WithScopeCheck() *Builder {
	b.scopeCheck = true
	return b
}

// Build resolves the credentials and constructs the Client.
//
// A ClientCredentials exchange happens exactly once, here. Authentication
// failures are returned as *auth.AuthenticationError.
func (b *Builder) Build(ctx context.Context) (*Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	baseURL, err := parseBaseURL(b.baseURL)
	if err != nil {
		return nil, err
	}

	transport, err := b.buildTransport()
	if err != nil {
		return nil, err
	}

	platform := b.platform
	if platform == nil {
		detected := DetectPlatform()
		platform = &detected
	}
	clientHeader := platform.Header()

	resolverOpts := []auth.Option{
		auth.WithHTTPClient(&http.Client{Transport: transport, Timeout: b.timeout}),
		auth.WithHeader(HeaderClient, clientHeader),
	}
	if b.logger != nil {
		resolverOpts = append(resolverOpts, auth.WithLogger(b.logger))
	}

	grant, err := auth.NewResolver(b.authURL, resolverOpts...).Grant(ctx, b.credentials)
	if err != nil {
		return nil, fmt.Errorf("mpclient: resolve credentials: %w", err)
	}

	if b.registerer != nil {
		transport, err = instrumentTransport(b.registerer, transport)
		if err != nil {
			return nil, fmt.Errorf("mpclient: register metrics: %w", err)
		}
	}

	httpClient := &http.Client{
		Transport: NewHeaderTransport(grant.Header, clientHeader, transport),
		Timeout:   b.timeout,
	}

	// Configure redirect policy
	if !b.followRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		grant:      *grant,
		platform:   *platform,
		logger:     b.logger,
		scopeCheck: b.scopeCheck,
	}, nil
}

// buildTransport constructs the base transport shared by the API and the token exchange.
func (b *Builder) buildTransport() (http.RoundTripper, error) {
	if b.baseTransport != nil {
		return b.baseTransport, nil
	}

	httpTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		// Fallback to whatever default transport is configured (e.g., a test stub)
		return http.DefaultTransport, nil
	}
	httpTransport = httpTransport.Clone()

	if b.tlsEnabled || b.tlsSkipVerify {
		tlsConfig, err := b.buildTLSConfig()
		if err != nil {
			return nil, fmt.Errorf("mpclient: TLS config failed: %w", err)
		}
		httpTransport.TLSClientConfig = tlsConfig
	} else {
		// Set secure TLS defaults even when TLS is not explicitly configured
		httpTransport.TLSClientConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return httpTransport, nil
}

// buildTLSConfig constructs the TLS configuration for the HTTP client.
func (b *Builder) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: b.tlsSkipVerify, // #nosec G402
	}

	// Load CA certificate for server verification
	if b.tlsCAFile != "" {
		caCert, err := os.ReadFile(b.tlsCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}

		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = certPool
	}

	// Load client certificate for mTLS (if both cert and key are provided)
	if b.tlsCertFile != "" && b.tlsKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(b.tlsCertFile, b.tlsKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	} else if b.tlsCertFile != "" || b.tlsKeyFile != "" {
		return nil, errors.New("both TLS cert and key files must be provided for mTLS")
	}

	return tlsConfig, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}

	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("mpclient: invalid base URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("mpclient: invalid base URL %q: scheme and host are required", raw)
	}

	return u, nil
}

// New is a convenience function that builds a Client for the production endpoints.
// For more configuration options, use Builder instead.
//
// Example:
//
//	client, err := mpclient.New(ctx, auth.BearerCredentials{AccessToken: token})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok := client.CheckIfAuthorized(ctx)
func New(ctx context.Context, creds auth.Credentials) (*Client, error) {
	return NewBuilder().WithCredentials(creds).Build(ctx)
}
