// Package testutil provides JWT fixtures for messengerpeople-go tests.
//
// # Utilities
//
//   - GenerateTestKeyPair: RSA key pair for signing test tokens
//   - JWTClaims: builder for claim sets (expiry, scope, scp, custom claims)
//   - CreatePlatformToken: signed access token carrying the given scopes
package testutil
