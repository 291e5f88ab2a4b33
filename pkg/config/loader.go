package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, MODELGATE_CONFIG env, ./modelgate.yaml, /etc/modelgate/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. MODELGATE_CONFIG environment variable
// 3. ./modelgate.yaml in the current directory
// 4. /etc/modelgate/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("MODELGATE_CONFIG"); envPath != "" {
		return envPath
	}
	candidates := []string{
		"modelgate.yaml",
		"/etc/modelgate/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps MODELGATE_* environment variables onto the config.
// The shorthand variables configure a backend named "default", creating it
// if the file didn't declare one.
func applyEnvOverrides(cfg *Config) {
	backendEnv := map[string]string{
		"MODELGATE_BACKEND_URL":   os.Getenv("MODELGATE_BACKEND_URL"),
		"MODELGATE_API_KEY":       os.Getenv("MODELGATE_API_KEY"),
		"MODELGATE_DEFAULT_MODEL": os.Getenv("MODELGATE_DEFAULT_MODEL"),
	}
	overridden := false
	for _, v := range backendEnv {
		if v != "" {
			overridden = true
		}
	}
	if overridden {
		if cfg.Backends == nil {
			cfg.Backends = map[string]BackendConfig{}
		}
		b := cfg.Backends["default"]
		if v := backendEnv["MODELGATE_BACKEND_URL"]; v != "" {
			b.BaseURL = v
		}
		if v := backendEnv["MODELGATE_API_KEY"]; v != "" {
			b.APIKey = v
		}
		if v := backendEnv["MODELGATE_DEFAULT_MODEL"]; v != "" {
			b.DefaultModel = v
		}
		cfg.Backends["default"] = b
	}

	if v := os.Getenv("MODELGATE_DEBUG"); v != "" {
		cfg.Debug.Categories = v
	}
	if v := os.Getenv("MODELGATE_LOG_LEVEL"); v != "" {
		cfg.Debug.Level = v
	}
}

// resolveFileReferences loads secret values referenced via _file fields.
// The file content is trimmed of trailing whitespace.
func resolveFileReferences(cfg *Config) error {
	for name, b := range cfg.Backends {
		if b.APIKeyFile != "" {
			value, err := readSecretFile(b.APIKeyFile)
			if err != nil {
				return fmt.Errorf("backend %q api_key_file: %w", name, err)
			}
			b.APIKey = value
		}
		if b.ServiceToken != nil && b.ServiceToken.SecretFile != "" {
			value, err := readSecretFile(b.ServiceToken.SecretFile)
			if err != nil {
				return fmt.Errorf("backend %q service_token.secret_file: %w", name, err)
			}
			b.ServiceToken.Secret = value
		}
		cfg.Backends[name] = b
	}
	return nil
}

func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
