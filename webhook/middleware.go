package webhook

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Logger is an interface for optional logging in the webhook receiver.
// It is compatible with the standard library's log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// ErrSourceNotAllowed is passed to the rejection handler for requests from
// addresses outside the allowlist.
var ErrSourceNotAllowed = errors.New("webhook: source address not allowed")

// MiddlewareConfig holds configuration for the allowlist middleware.
type MiddlewareConfig struct {
	allowlist          *Allowlist
	exemptPaths        map[string]bool // Exact path matches
	exemptPathPrefixes []string        // Prefix matches
	trustedProxies     []netip.Prefix
	logger             Logger
	rejectionHandler   RejectionHandler
}

// MiddlewareOption is a functional option for configuring middleware.
type MiddlewareOption func(*MiddlewareConfig)

// RejectionHandler handles requests from addresses outside the allowlist.
type RejectionHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithExemptPaths specifies HTTP paths that skip the source check.
// These paths must match exactly.
//
// Example:
//
//	WithExemptPaths("/health", "/metrics")
func WithExemptPaths(paths ...string) MiddlewareOption {
	return func(c *MiddlewareConfig) {
		if c.exemptPaths == nil {
			c.exemptPaths = make(map[string]bool)
		}
		for _, path := range paths {
			c.exemptPaths[path] = true
		}
	}
}

// WithExemptPathPrefixes specifies HTTP path prefixes that skip the source check.
func WithExemptPathPrefixes(prefixes ...string) MiddlewareOption {
	return func(c *MiddlewareConfig) {
		c.exemptPathPrefixes = append(c.exemptPathPrefixes, prefixes...)
	}
}

// WithMiddlewareLogger sets a logger for the middleware.
func WithMiddlewareLogger(logger Logger) MiddlewareOption {
	return func(c *MiddlewareConfig) {
		c.logger = logger
	}
}

// WithRejectionHandler sets a custom handler for rejected requests.
// By default, returns HTTP 403 with a plain text error message.
func WithRejectionHandler(handler RejectionHandler) MiddlewareOption {
	return func(c *MiddlewareConfig) {
		c.rejectionHandler = handler
	}
}

// WithTrustedProxies enables X-Forwarded-For handling for requests arriving
// from the given addresses or CIDR prefixes. The client address is the
// right-most forwarded entry that is not itself a trusted proxy.
// Invalid entries are ignored.
//
// Example:
//
//	WithTrustedProxies("10.0.0.0/8", "127.0.0.1")
func WithTrustedProxies(proxies ...string) MiddlewareOption {
	return func(c *MiddlewareConfig) {
		for _, proxy := range proxies {
			prefix, err := parsePrefix(strings.TrimSpace(proxy))
			if err != nil {
				continue
			}
			c.trustedProxies = append(c.trustedProxies, prefix)
		}
	}
}

// Middleware returns an HTTP middleware that admits only requests from the
// platform's webhook source addresses.
//
// The client address is stored in the request context (accessible via
// SourceIPFromContext). Requests from other addresses get HTTP 403.
//
// Usage:
//
//	allowlist := webhook.NewAllowlist(health.New(client))
//	go allowlist.Run(ctx, time.Hour)
//
//	mux := http.NewServeMux()
//	mux.Handle("/webhook", webhook.Handler(onMessage))
//	http.ListenAndServe(":8080", webhook.Middleware(allowlist)(mux))
func Middleware(allowlist *Allowlist, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	config := &MiddlewareConfig{
		allowlist:   allowlist,
		exemptPaths: make(map[string]bool),
		rejectionHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusForbidden)
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExempt(r.URL.Path, config) {
				if config.logger != nil {
					config.logger.Printf("webhook: path %s is exempt from source check", r.URL.Path)
				}
				next.ServeHTTP(w, r)
				return
			}

			ip, ok := clientIP(r, config.trustedProxies)
			if !ok || config.allowlist == nil || !config.allowlist.contains(ip) {
				err := ErrSourceNotAllowed
				if ok {
					err = fmt.Errorf("%w: %s", ErrSourceNotAllowed, ip)
				}
				if config.logger != nil {
					config.logger.Printf("webhook: rejected %s %s: %v", r.Method, r.URL.Path, err)
				}
				config.rejectionHandler(w, r, err)
				return
			}

			r = r.WithContext(WithSourceIP(r.Context(), ip.String()))

			if config.logger != nil {
				config.logger.Printf("webhook: accepted %s %s from %s", r.Method, r.URL.Path, ip)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isExempt checks if a path skips the source check.
func isExempt(path string, config *MiddlewareConfig) bool {
	if config.exemptPaths[path] {
		return true
	}

	for _, prefix := range config.exemptPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// clientIP returns the address the request originates from.
func clientIP(r *http.Request, trusted []netip.Prefix) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	remote, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	remote = remote.Unmap()

	if !containsAny(trusted, remote) {
		return remote, true
	}

	var hops []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(header, ",")...)
	}

	client := remote
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return netip.Addr{}, false
		}
		client = hop.Unmap()
		if !containsAny(trusted, client) {
			break
		}
	}
	return client, true
}

func containsAny(prefixes []netip.Prefix, addr netip.Addr) bool {
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
