// Package config provides unified configuration for modelgate.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (MODELGATE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for modelgate.
type Config struct {
	Backends map[string]BackendConfig `yaml:"backends"`
	Tools    ToolsConfig              `yaml:"tools"`
	Debug    DebugConfig              `yaml:"debug"`
}

// BackendConfig describes one named backend adapter.
type BackendConfig struct {
	// BaseURL is the backend base URL. Required.
	BaseURL string `yaml:"base_url"`

	// APIKey is a static bearer key. Optional.
	APIKey string `yaml:"api_key"`

	// APIKeyFile is the _file variant for api_key.
	APIKeyFile string `yaml:"api_key_file"`

	// ServiceToken mints HS256 bearer tokens instead of a static key.
	ServiceToken *ServiceTokenConfig `yaml:"service_token"`

	// DefaultModel is used when the caller doesn't name a model.
	DefaultModel string `yaml:"default_model"`

	// Timeout is the HTTP client timeout. Default: 120s.
	Timeout time.Duration `yaml:"timeout"`

	// MaxTokens is the default max_tokens applied by the adapter.
	MaxTokens int `yaml:"max_tokens"`
}

// ServiceTokenConfig holds service-token minting settings.
type ServiceTokenConfig struct {
	Secret     string        `yaml:"secret"`
	SecretFile string        `yaml:"secret_file"` // _file variant for secret
	Issuer     string        `yaml:"issuer"`
	Subject    string        `yaml:"subject"`
	Audience   string        `yaml:"audience"`
	TTL        time.Duration `yaml:"ttl"`
}

// ToolsConfig holds tool source settings.
type ToolsConfig struct {
	MCP []MCPServerConfig `yaml:"mcp"`
}

// MCPServerConfig describes a single MCP server connection.
type MCPServerConfig struct {
	Name      string            `yaml:"name"`
	Transport string            `yaml:"transport"` // "sse" or "streamable-http"
	URL       string            `yaml:"url"`
	Headers   map[string]string `yaml:"headers"`
}

// DebugConfig holds debug logging settings (see pkg/debug).
type DebugConfig struct {
	Categories string `yaml:"categories"`
	Level      string `yaml:"level"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Backends: map[string]BackendConfig{},
		Debug: DebugConfig{
			Level: "INFO",
		},
	}
}
