// Package auth provides credential sources for authenticating outbound
// backend requests: static API keys and short-lived HS256 service tokens.
package auth

import "net/http"

// Credential attaches authentication to an outbound backend request.
// Implementations must be safe for concurrent use.
type Credential interface {
	Apply(req *http.Request) error
}

// StaticKey is a fixed API key sent on every request.
type StaticKey struct {
	// Key is the secret value. Empty means no authentication: Apply is
	// a no-op, so a zero StaticKey is a valid anonymous credential.
	Key string

	// Header is the header name. Default: "Authorization".
	Header string

	// Scheme prefixes the key in the header value. Default: "Bearer".
	// Set to "-" to send the bare key (e.g. for "X-Api-Key" headers).
	Scheme string
}

// Apply sets the configured header on the request.
func (k *StaticKey) Apply(req *http.Request) error {
	if k.Key == "" {
		return nil
	}
	header := k.Header
	if header == "" {
		header = "Authorization"
	}
	scheme := k.Scheme
	if scheme == "" {
		scheme = "Bearer"
	}
	value := k.Key
	if scheme != "-" {
		value = scheme + " " + k.Key
	}
	req.Header.Set(header, value)
	return nil
}
