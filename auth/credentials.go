package auth

import (
	"fmt"
	"strings"
)

// Credentials identifies a caller to the platform.
//
// It is a closed union: the only implementations are BearerCredentials and
// ClientCredentials (values or pointers).
type Credentials interface {
	isCredentials()
}

// BearerCredentials carries a pre-issued access token.
//
// Platform tokens are long-lived (about ten years) and are never renewed by this
// library; replace the token yourself before it expires.
type BearerCredentials struct {
	AccessToken string
}

func (BearerCredentials) isCredentials() {}

// String redacts the token so credentials can be logged safely.
func (c BearerCredentials) String() string {
	return "BearerCredentials{AccessToken: " + redact(c.AccessToken) + "}"
}

// ClientCredentials are exchanged for an access token using the OAuth2
// client-credentials grant.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
}

func (ClientCredentials) isCredentials() {}

// String redacts the secret so credentials can be logged safely.
func (c ClientCredentials) String() string {
	return fmt.Sprintf("ClientCredentials{ClientID: %s, ClientSecret: %s, Scopes: [%s]}",
		c.ClientID, redact(c.ClientSecret), strings.Join(c.Scopes, " "))
}

func redact(secret string) string {
	if secret == "" {
		return `""`
	}
	return "<redacted>"
}
