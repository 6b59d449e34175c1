// Package health exposes the platform's health resource.
//
//	h := health.New(client)
//	ips, err := h.GetIPAddresses(ctx)
//
// The returned addresses are the ones the platform currently uses to deliver
// webhooks; see the webhook package for an allowlist built on them.
package health
