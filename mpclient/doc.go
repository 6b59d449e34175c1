// Package mpclient is the authenticated transport for the MessengerPeople API.
//
// A Builder resolves credentials once through auth.Resolver, then produces a Client whose
// every request carries the resulting bearer header together with the platform's default
// headers. Response bodies are decoded with normalize.Decode, so date-like strings arrive as
// time.Time values, and the generic helpers Get, Post, Put, Patch and Delete decode them into
// typed results.
//
// # Features
//
//   - Fluent builder with OAuth2 client-credentials or pre-issued bearer tokens
//   - TLS 1.2+ by default, with custom CA/mTLS and optional InsecureSkipVerify
//   - Per-request timeout, base transport override, and redirect disabling
//   - Query parameters from tagged structs, url.Values or maps, with repeated keys for slices
//   - Structured TransportError and NetworkError values
//   - CheckIfAuthorized liveness probe that never fails
//   - Optional Prometheus instrumentation and client-side scope checks
//
// # Quick Start
//
//	client, err := mpclient.NewBuilder().
//	    WithCredentials(auth.ClientCredentials{
//	        ClientID:     "client-id",
//	        ClientSecret: "client-secret",
//	        Scopes:       []string{auth.ScopeMessagesSend},
//	    }).
//	    WithTimeout(10 * time.Second).
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ips, err := mpclient.Get[[]string](ctx, client, "/ip")
//
// # Query Parameters
//
//	type filter struct {
//	    Filter []string `url:"filter,omitempty"`
//	}
//	tree, err := client.Get(ctx, "/messages", mpclient.WithQuery(filter{Filter: []string{"x", "y"}}))
//	// GET /messages?filter=x&filter=y
//
// The token is never refreshed. Build a new Client once it expires.
package mpclient
