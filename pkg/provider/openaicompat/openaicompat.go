package openaicompat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/modelgate/modelgate/pkg/api"
	"github.com/modelgate/modelgate/pkg/provider"
)

// Provider adapts Chat-Completions-compatible backends to the provider
// contract. It holds its HTTP client for the process lifetime, so the
// per-call CallParams.Client handle is not consulted; callers that own the
// connection inject it once via Config.HTTPClient instead.
type Provider struct {
	cfg    Config
	client *http.Client
	fn     *chatCallFunc
}

// Ensure Provider implements provider.Provider at compile time.
var _ provider.Provider = (*Provider)(nil)

// New creates a new adapter with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("openaicompat: BaseURL is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	p := &Provider{
		cfg:    cfg,
		client: client,
	}
	p.fn = &chatCallFunc{p: p}
	return p, nil
}

// Name returns the adapter identifier.
func (p *Provider) Name() string {
	return "openaicompat"
}

// CallFunction returns the Chat Completions call function. The adapter has a
// single call variant, so the hint is not consulted; returning the same
// instance keeps the parameter-spec cache effective.
func (p *Provider) CallFunction(hint map[string]any) provider.CallFunc {
	return p.fn
}

// DisallowedParams returns the standard derived-parameter set.
func (p *Provider) DisallowedParams() map[string]struct{} {
	return provider.DefaultDisallowedParams()
}

// TranslateToBackend assembles the native parameter map: model, messages,
// and tools derived from the call description, the configured max_tokens
// default, and the caller's extras layered last so none is dropped.
func (p *Provider) TranslateToBackend(call *provider.CallParams) (map[string]any, error) {
	native := map[string]any{
		"model":    call.Model,
		"messages": translateMessages(call.Messages),
	}
	if len(call.Tools) > 0 {
		native["tools"] = translateTools(call.Tools)
	}
	if p.cfg.DefaultMaxTokens > 0 {
		native["max_tokens"] = p.cfg.DefaultMaxTokens
	}
	for k, v := range call.Extra {
		native[k] = v
	}
	return native, nil
}

// TranslateFromBackend converts the raw Chat Completions response into
// normalized messages and metadata, stamping text with originID when given.
func (p *Provider) TranslateFromBackend(ctx context.Context, raw any, call *provider.CallParams, originID string, logger *slog.Logger) ([]api.Message, api.Metadata, error) {
	resp, err := coerceResponse(raw)
	if err != nil {
		return nil, nil, err
	}

	messages, metadata := translateResponse(resp, originID)
	if logger != nil {
		logger.Debug("translated backend response",
			"provider", p.Name(),
			"response_id", resp.ID,
			"choices", len(resp.Choices),
			"origin_id", originID)
	}
	return messages, metadata, nil
}
