// Package auth resolves platform credentials into a bearer Authorization header.
//
// Two kinds of credentials are supported. BearerCredentials carry a pre-issued access
// token and resolve without any network call. ClientCredentials are exchanged once for an
// access token using the OAuth2 client-credentials grant (golang.org/x/oauth2).
//
// # Features
//
//   - Closed Credentials union checked with a type switch
//   - Form-encoded token request with space-joined scopes
//   - Structured AuthenticationError carrying the platform reason and HTTP status
//   - APIError envelope parsing shared with the transport layer
//   - Unverified JWT inspection to read expiry and granted scopes
//   - Optional logging (WithLogger, WithLoggingEnabled)
//
// # Quick Start
//
//	resolver := auth.NewResolver(auth.DefaultAuthURL)
//	header, err := resolver.Resolve(ctx, auth.ClientCredentials{
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	    Scopes:       []string{auth.ScopeMessagesSend, auth.ScopeMessagesRead},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// header == "Bearer <access_token>"
//
// # Notes
//
//   - Tokens are not cached or refreshed; build a new client when a token expires.
//   - Resolver is safe for concurrent use.
package auth
