package testutil

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTokenResponse is the body served by mock token endpoints when no handler is given.
const DefaultTokenResponse = `{
	"access_token": "mock-access-token",
	"token_type": "Bearer",
	"expires_in": 3600
}`

// NewLocalHTTPServer starts an HTTP server bound to IPv4 loopback only.
// The sandbox blocks IPv6 listeners, so force tcp4 to keep tests runnable.
func NewLocalHTTPServer(tb testing.TB, handler http.Handler) *httptest.Server {
	tb.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("failed to create IPv4 listener: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()
	tb.Cleanup(server.Close)

	return server
}

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// MockOAuth2Server simulates an OAuth2 token endpoint without real sockets.
// It records requests and their decoded form bodies, and serves responses through a
// RoundTripper installed as http.DefaultTransport for the duration of the test.
type MockOAuth2Server struct {
	URL string
	Ctx context.Context

	mu       sync.Mutex
	requests []*http.Request
	forms    []url.Values
}

// NewMockOAuth2Server builds a mock OAuth2 endpoint backed by an in-memory RoundTripper.
// If handler is nil, it returns DefaultTokenResponse.
func NewMockOAuth2Server(tb testing.TB, handler RoundTripFunc) *MockOAuth2Server {
	tb.Helper()

	server := &MockOAuth2Server{
		URL: "https://mock-auth.example.com",
	}

	if handler == nil {
		handler = StaticJSONResponse(DefaultTokenResponse)
	}

	rt := RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		server.record(req)
		return handler(req)
	})

	prevTransport := http.DefaultTransport
	prevClient := http.DefaultClient
	http.DefaultTransport = rt
	http.DefaultClient = &http.Client{Transport: rt}
	tb.Cleanup(func() {
		http.DefaultTransport = prevTransport
		http.DefaultClient = prevClient
	})

	server.Ctx = context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Transport: rt,
	})

	return server
}

// Close is a no-op to mirror httptest.Server usage in tests.
func (m *MockOAuth2Server) Close() {}

// Requests returns the requests received so far.
func (m *MockOAuth2Server) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*http.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Forms returns the decoded form bodies of the requests received so far.
func (m *MockOAuth2Server) Forms() []url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]url.Values, len(m.forms))
	copy(out, m.forms)
	return out
}

func (m *MockOAuth2Server) record(req *http.Request) {
	form := readForm(req)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	m.forms = append(m.forms, form)
}

// MockPlatform serves a token endpoint and an API handler through one in-memory
// RoundTripper. Pass Transport to a client builder; no global state is touched.
type MockPlatform struct {
	AuthURL   string
	APIURL    string
	Transport RoundTripFunc

	mu          sync.Mutex
	tokenForms  []url.Values
	apiRequests []*http.Request
}

// NewMockPlatform builds a MockPlatform. A nil token handler serves DefaultTokenResponse;
// a nil api handler answers 404 for every API call.
func NewMockPlatform(tb testing.TB, token RoundTripFunc, api http.Handler) *MockPlatform {
	tb.Helper()

	platform := &MockPlatform{
		AuthURL: "https://mock-auth.example.com",
		APIURL:  "https://mock-api.example.com",
	}

	if token == nil {
		token = StaticJSONResponse(DefaultTokenResponse)
	}
	if api == nil {
		api = http.NotFoundHandler()
	}

	authHost := mustHost(tb, platform.AuthURL)
	platform.Transport = func(req *http.Request) (*http.Response, error) {
		if err := req.Context().Err(); err != nil {
			return nil, err
		}
		if req.URL.Host == authHost {
			form := readForm(req)
			platform.mu.Lock()
			platform.tokenForms = append(platform.tokenForms, form)
			platform.mu.Unlock()
			return token(req)
		}

		platform.mu.Lock()
		platform.apiRequests = append(platform.apiRequests, req)
		platform.mu.Unlock()
		return ServeHandler(api, req), nil
	}

	return platform
}

// TokenForms returns the form bodies posted to the token endpoint.
func (p *MockPlatform) TokenForms() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]url.Values, len(p.tokenForms))
	copy(out, p.tokenForms)
	return out
}

// APIRequests returns the requests sent to the API host.
func (p *MockPlatform) APIRequests() []*http.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*http.Request, len(p.apiRequests))
	copy(out, p.apiRequests)
	return out
}

// ServeHandler answers an outgoing client request with an in-process http.Handler.
func ServeHandler(handler http.Handler, req *http.Request) *http.Response {
	srvReq := req.Clone(req.Context())
	srvReq.RequestURI = req.URL.RequestURI()
	srvReq.RemoteAddr = "192.0.2.10:40000"
	if srvReq.Body == nil {
		srvReq.Body = http.NoBody
	}
	if srvReq.Host == "" {
		srvReq.Host = req.URL.Host
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, srvReq)

	resp := rec.Result()
	resp.Request = req
	return resp
}

// StaticJSONResponse returns a RoundTripper that always responds with the provided JSON body.
func StaticJSONResponse(body string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return JSONResponse(req, http.StatusOK, body), nil
	}
}

// JSONResponse builds a response with the given status and JSON body.
func JSONResponse(req *http.Request, status int, body string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

// WriteTestCACert writes a self-signed CA certificate to the provided path for TLS tests.
func WriteTestCACert(tb testing.TB, path string) {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		Subject:               pkix.Name{CommonName: "test-ca"},
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		tb.Fatalf("failed to create CA certificate: %v", err)
	}

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		tb.Fatalf("failed to write CA certificate: %v", err)
	}
}

// WriteTestCertAndKey writes a self-signed certificate and key to the provided paths.
func WriteTestCertAndKey(tb testing.TB, certPath, keyPath string) {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		Subject:      pkix.Name{CommonName: "test-cert"},
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		tb.Fatalf("failed to create certificate: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		tb.Fatalf("failed to write certificate: %v", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)})
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		tb.Fatalf("failed to write key: %v", err)
	}
}

// readForm decodes a form-encoded request body and restores it for the next reader.
func readForm(req *http.Request) url.Values {
	if req.Body == nil || req.Body == http.NoBody {
		return url.Values{}
	}

	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return url.Values{}
	}

	form, err := url.ParseQuery(string(data))
	if err != nil {
		return url.Values{}
	}
	return form
}

func mustHost(tb testing.TB, rawURL string) string {
	tb.Helper()

	u, err := url.Parse(rawURL)
	if err != nil {
		tb.Fatalf("invalid URL %q: %v", rawURL, err)
	}
	return u.Host
}
