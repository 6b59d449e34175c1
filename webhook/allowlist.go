package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"sync"
	"time"
)

// IPSource reports the addresses the platform sends webhooks from.
// *health.Module implements it.
type IPSource interface {
	GetIPAddresses(ctx context.Context) ([]string, error)
}

// ErrNoSource is returned by Refresh on an allowlist created without an IPSource.
var ErrNoSource = errors.New("webhook: allowlist has no ip source")

// Allowlist holds the platform's webhook source addresses.
//
// Entries may be single addresses or CIDR prefixes. The set is replaced as a
// whole on every refresh; a failed refresh keeps the previous set. It is safe
// for concurrent use.
type Allowlist struct {
	source IPSource
	logger Logger

	mu       sync.RWMutex
	prefixes []netip.Prefix
	updated  time.Time
}

// AllowlistOption is a functional option for configuring Allowlist.
type AllowlistOption func(*Allowlist)

// WithAllowlistLogger sets a logger for refresh events.
func WithAllowlistLogger(logger Logger) AllowlistOption {
	return func(a *Allowlist) {
		a.logger = logger
	}
}

// NewAllowlist creates an empty allowlist filled by Refresh from source.
// An empty allowlist admits nobody.
func NewAllowlist(source IPSource, opts ...AllowlistOption) *Allowlist {
	a := &Allowlist{source: source}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewStaticAllowlist creates an allowlist from fixed addresses or CIDR prefixes.
func NewStaticAllowlist(addrs ...string) (*Allowlist, error) {
	a := NewAllowlist(nil)
	if err := a.Set(addrs); err != nil {
		return nil, err
	}
	return a, nil
}

// Refresh replaces the allowlist with the addresses reported by the source.
func (a *Allowlist) Refresh(ctx context.Context) error {
	if a.source == nil {
		return ErrNoSource
	}

	addrs, err := a.source.GetIPAddresses(ctx)
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("webhook: allowlist refresh failed: %v", err)
		}
		return fmt.Errorf("webhook: refresh allowlist: %w", err)
	}

	if err := a.Set(addrs); err != nil {
		if a.logger != nil {
			a.logger.Printf("webhook: allowlist refresh failed: %v", err)
		}
		return err
	}

	if a.logger != nil {
		a.logger.Printf("webhook: allowlist refreshed with %d entries", len(addrs))
	}
	return nil
}

// Run refreshes the allowlist immediately and then every interval until ctx is done.
// Refresh failures are logged and retried on the next tick.
func (a *Allowlist) Run(ctx context.Context, interval time.Duration) {
	_ = a.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = a.Refresh(ctx)
		}
	}
}

// Set replaces the allowlist. Nothing changes if any entry is invalid.
func (a *Allowlist) Set(addrs []string) error {
	prefixes := make([]netip.Prefix, 0, len(addrs))
	for _, addr := range addrs {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}

		prefix, err := parsePrefix(addr)
		if err != nil {
			return fmt.Errorf("webhook: invalid allowlist entry %q: %w", addr, err)
		}
		prefixes = append(prefixes, prefix)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.prefixes = prefixes
	a.updated = time.Now()
	return nil
}

// Allowed reports whether ip is on the allowlist.
func (a *Allowlist) Allowed(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	return a.contains(addr.Unmap())
}

// Addresses returns the current entries in CIDR notation.
func (a *Allowlist) Addresses() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]string, len(a.prefixes))
	for i, prefix := range a.prefixes {
		out[i] = prefix.String()
	}
	return out
}

// LastRefresh returns when the entries were last replaced, or the zero time.
func (a *Allowlist) LastRefresh() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.updated
}

func (a *Allowlist) contains(addr netip.Addr) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, prefix := range a.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func parsePrefix(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return prefix.Masked(), nil
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
