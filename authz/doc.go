// Package authz checks OAuth2 scopes on the client side before a request is sent.
//
// Every platform operation needs a scope (messages:send, messages:read, ...). When the
// granted scopes of a token are known, ScopePolicy lets a client fail fast with a
// MissingScopesError instead of waiting for the platform to reject the call.
//
//	err := authz.Evaluate(authz.Require("messages:send"), []string{"messages:read messages:send"})
//	if errors.Is(err, authz.ErrInsufficientScope) {
//	    // token cannot send messages
//	}
//
// Granted scopes can be read from token claims with ScopesFromClaims, which understands
// space-delimited strings, arrays, and dotted claim paths.
package authz
