// Package testutil provides test helpers for code built on messengerpeople-go.
//
// # Utilities
//
//   - NewLocalHTTPServer: start an httptest server bound to 127.0.0.1
//   - MockOAuth2Server: stub token endpoint installed as http.DefaultTransport, recording form bodies
//   - MockPlatform: token endpoint plus API handler behind one in-memory RoundTripper
//   - RoundTripFunc, StaticJSONResponse, JSONResponse, ServeHandler: inline transports and responses
//   - WriteTestCACert / WriteTestCertAndKey: temporary CA and leaf certificates for TLS tests
//
// MockOAuth2Server mutates http.DefaultClient/Transport and restores them via tb.Cleanup,
// so tests using it must not run in parallel with each other.
package testutil
