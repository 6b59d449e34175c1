package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestKeyPair holds an RSA key pair for JWT testing.
type TestKeyPair struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

// GenerateTestKeyPair generates a new RSA key pair for testing.
func GenerateTestKeyPair(tb testing.TB) *TestKeyPair {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate RSA key pair: %v", err)
	}

	return &TestKeyPair{
		PrivateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
	}
}

// JWTClaims provides a builder pattern for creating test JWT claims.
type JWTClaims struct {
	claims jwt.MapClaims
}

// NewJWTClaims creates a new JWTClaims builder with an hour of validity.
func NewJWTClaims(issuer, subject string) *JWTClaims {
	return &JWTClaims{
		claims: jwt.MapClaims{
			"iss": issuer,
			"sub": subject,
			"exp": time.Now().Add(time.Hour).Unix(),
			"iat": time.Now().Add(-time.Minute).Unix(),
		},
	}
}

// WithExpiry sets a custom expiry time.
func (c *JWTClaims) WithExpiry(exp time.Time) *JWTClaims {
	c.claims["exp"] = exp.Unix()
	return c
}

// WithIssuedAt sets a custom issued at time.
func (c *JWTClaims) WithIssuedAt(iat time.Time) *JWTClaims {
	c.claims["iat"] = iat.Unix()
	return c
}

// WithScope sets the scope claim (space-separated string).
func (c *JWTClaims) WithScope(scope string) *JWTClaims {
	c.claims["scope"] = scope
	return c
}

// WithScopeArray sets the scope claim as an array.
func (c *JWTClaims) WithScopeArray(scopes []string) *JWTClaims {
	values := make([]any, len(scopes))
	for i, s := range scopes {
		values[i] = s
	}
	c.claims["scope"] = values
	return c
}

// WithScp sets the scp claim (alternative scope format).
func (c *JWTClaims) WithScp(scp string) *JWTClaims {
	c.claims["scp"] = scp
	return c
}

// WithoutClaim removes a specific claim.
func (c *JWTClaims) WithoutClaim(key string) *JWTClaims {
	delete(c.claims, key)
	return c
}

// WithCustomClaim adds a custom claim.
func (c *JWTClaims) WithCustomClaim(key string, value any) *JWTClaims {
	c.claims[key] = value
	return c
}

// Build returns the underlying jwt.MapClaims.
func (c *JWTClaims) Build() jwt.MapClaims {
	return c.claims
}

// SignToken signs the claims with the given private key and returns the token string.
func (c *JWTClaims) SignToken(tb testing.TB, privateKey *rsa.PrivateKey) string {
	tb.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, c.claims)
	token.Header["kid"] = "test-key-1"

	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		tb.Fatalf("failed to sign token: %v", err)
	}

	return tokenString
}

// CreatePlatformToken signs a token issued by the mock auth server with the given scopes.
func CreatePlatformToken(tb testing.TB, scopes string) string {
	tb.Helper()

	return NewJWTClaims("https://mock-auth.example.com", "client-id").
		WithScope(scopes).
		SignToken(tb, GenerateTestKeyPair(tb).PrivateKey)
}
