package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for consistency. Called as the last
// loading step; an error here is a startup failure.
func (c *Config) Validate() error {
	for name, b := range c.Backends {
		if b.BaseURL == "" {
			return fmt.Errorf("backend %q: base_url is required", name)
		}
		u, err := url.Parse(b.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend %q: base_url %q is not a valid URL", name, b.BaseURL)
		}
		if b.Timeout < 0 {
			return fmt.Errorf("backend %q: timeout must not be negative", name)
		}
		if b.MaxTokens < 0 {
			return fmt.Errorf("backend %q: max_tokens must not be negative", name)
		}
		if b.APIKey != "" && b.ServiceToken != nil {
			return fmt.Errorf("backend %q: api_key and service_token are mutually exclusive", name)
		}
		if b.ServiceToken != nil && b.ServiceToken.Secret == "" && b.ServiceToken.SecretFile == "" {
			return fmt.Errorf("backend %q: service_token requires secret or secret_file", name)
		}
	}

	for i, s := range c.Tools.MCP {
		if s.Name == "" {
			return fmt.Errorf("tools.mcp[%d]: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("tools.mcp[%d] (%s): url is required", i, s.Name)
		}
		switch s.Transport {
		case "", "sse", "streamable-http":
		default:
			return fmt.Errorf("tools.mcp[%d] (%s): unsupported transport %q", i, s.Name, s.Transport)
		}
	}

	return nil
}
