// Package config persists tool-level settings under ~/.tether/config.json.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Defaults for the cloud and registry endpoints.
const (
	DefaultCloudURL    = "https://cloud.tether.dev"
	DefaultRegistryURL = "https://registry.tether.dev"
)

// Config holds the persisted tool settings. Environment variables
// TETHER_API_TOKEN, TETHER_CLOUD_URL, and TETHER_REGISTRY_URL override the
// file for a single invocation.
type Config struct {
	APIToken    string `json:"api_token,omitempty"`
	CloudURL    string `json:"cloud_url,omitempty"`
	RegistryURL string `json:"registry_url,omitempty"`
}

// Load reads the config file, applies defaults and environment overrides.
// A missing file yields the defaults rather than an error.
func Load() (*Config, error) {
	cfg := &Config{}

	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("TETHER_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("TETHER_CLOUD_URL"); v != "" {
		cfg.CloudURL = v
	}
	if v := os.Getenv("TETHER_REGISTRY_URL"); v != "" {
		cfg.RegistryURL = v
	}
	if cfg.CloudURL == "" {
		cfg.CloudURL = DefaultCloudURL
	}
	if cfg.RegistryURL == "" {
		cfg.RegistryURL = DefaultRegistryURL
	}

	if err := validateEndpoint("cloud URL", cfg.CloudURL); err != nil {
		return nil, err
	}
	if err := validateEndpoint("registry URL", cfg.RegistryURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateEndpoint rejects endpoints that would fail confusingly deep inside
// an HTTP client.
func validateEndpoint(what, endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", what, endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", what, endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", what, endpoint)
	}
	return nil
}

// Save writes the config file, creating the config directory if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the config file location, honoring TETHER_CONFIG_FILE.
func Path() (string, error) {
	if path := os.Getenv("TETHER_CONFIG_FILE"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tether", "config.json"), nil
}
