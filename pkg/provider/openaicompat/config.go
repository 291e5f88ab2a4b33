package openaicompat

import (
	"net/http"
	"time"

	"github.com/modelgate/modelgate/pkg/auth"
)

// Config holds the adapter configuration.
type Config struct {
	// BaseURL is the backend base URL, e.g. "https://api.openai.com" or
	// "http://localhost:8000". Required.
	BaseURL string

	// Credential authenticates outbound requests. Nil means anonymous.
	Credential auth.Credential

	// HTTPClient is a caller-owned HTTP client used for all backend
	// requests. Nil means the adapter builds its own.
	HTTPClient *http.Client

	// Timeout is the HTTP client timeout when the adapter builds its own
	// client. Default: 120s. Ignored when HTTPClient is set.
	Timeout time.Duration

	// DefaultMaxTokens is applied as "max_tokens" when the caller's
	// extras don't set one. Zero means no default.
	DefaultMaxTokens int
}
