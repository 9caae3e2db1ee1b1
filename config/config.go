// Package config handles loading and managing xogen configuration.
//
// This package provides both file-based and programmatic configuration
// management for xogen. Files follow the XDG Base Directory specification
// and may be written in TOML (default) or YAML. Environment variables are
// layered on top by ApplyEnv.
//
// Example TOML configuration:
//
//	default_provider = "ollama"
//	request_timeout_seconds = 120
//
//	[llms.ollama]
//	base_url = "http://localhost:11434"
//	model = "deepseek-coder:6.7b"
//
//	[llms.groq]
//	api_key = "gsk_..."
//	model = "llama-3.1-8b-instant"
//
// Example programmatic usage:
//
//	cfg := config.NewConfig("groq", 30, map[string]config.LLMConfig{
//		"groq": {APIKey: "key"},
//	})
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/xostack/xogen/provider"
)

const (
	appName         = "xogen"
	configFileName  = "config.toml"
	DefaultDirPerm  = 0750 // rwxr-x---
	DefaultFilePerm = 0600 // rw------- (Contains potential secrets)
)

// Config holds the application's configuration.
type Config struct {
	// DefaultProvider specifies which LLM provider to use by default.
	// Must match a key in the LLMs map, ignoring case.
	DefaultProvider string `toml:"default_provider" yaml:"default_provider"`

	// RequestTimeoutSeconds sets the per-call timeout in seconds.
	// If <= 0, the client default of 120 seconds is used.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" yaml:"request_timeout_seconds"`

	// LLMs contains provider-specific configurations keyed by provider name.
	LLMs map[string]LLMConfig `toml:"llms" yaml:"llms"`
}

// LLMConfig holds configuration specific to an LLM provider.
//
// Hosted providers (github, groq, openrouter, openai, gemini) require APIKey.
// Local providers (ollama, lmstudio) accept an optional BaseURL.
type LLMConfig struct {
	// BaseURL overrides the endpoint of a local provider.
	// Example: "http://localhost:11434"
	BaseURL string `toml:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is the credential for hosted providers.
	// This field contains sensitive information and should be handled securely.
	APIKey string `toml:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is an optional model name override for the provider.
	Model string `toml:"model,omitempty" yaml:"model,omitempty"`

	// Referer replaces the HTTP-Referer header sent to OpenRouter.
	Referer string `toml:"referer,omitempty" yaml:"referer,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DefaultProvider:       "ollama",
		RequestTimeoutSeconds: 120,
		LLMs: map[string]LLMConfig{
			"ollama": {
				BaseURL: "http://localhost:11434",
			},
			"lmstudio": {
				BaseURL: "http://127.0.0.1:1234/v1",
			},
		},
	}
}

// GetConfigFilePath determines the appropriate configuration file path based on XDG specs:
//   - If XDG_CONFIG_HOME is set, uses $XDG_CONFIG_HOME/xogen/config.toml
//   - Otherwise, uses $HOME/.config/xogen/config.toml
//
// The returned path may not exist.
func GetConfigFilePath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine user home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configHome, appName, configFileName), nil
}

// Load reads the configuration at path, or at the XDG path when path is empty. A missing
// file at the XDG path yields Default(); a missing explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := GetConfigFilePath()
		if err != nil {
			return Config{}, fmt.Errorf("failed to determine config path: %w", err)
		}
		path = p
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path. Only the sections present in
// the file are configured; Default() applies when no file exists at all (see Load).
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
//
// The function validates that:
//   - The file exists and is readable
//   - The format is valid and has no unknown keys
//   - The default provider is configured
func LoadFromFile(filePath string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("configuration file not found at %s: %w", filePath, err)
		}
		return Config{}, fmt.Errorf("failed to access config file %s: %w", filePath, err)
	}

	if isYAML(filePath) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode YAML config file %s: %w", filePath, err)
		}
	} else {
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to decode TOML config file %s: %w", filePath, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("unknown configuration keys in %s: %s", filePath, strings.Join(keys, ", "))
		}
	}
	if cfg.LLMs == nil {
		cfg.LLMs = map[string]LLMConfig{}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration in %s: %w", filePath, err)
	}
	return cfg, nil
}

// Save writes cfg to filePath, creating parent directories. The file is written with
// DefaultFilePerm since it may hold API keys.
func Save(filePath string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(filePath), DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", filepath.Dir(filePath), err)
	}

	var buf bytes.Buffer
	if isYAML(filePath) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode configuration to YAML: %w", err)
		}
	} else if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode configuration to TOML: %w", err)
	}

	if err := os.WriteFile(filePath, buf.Bytes(), DefaultFilePerm); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filePath, err)
	}
	return nil
}

// Validate checks that the default provider has a section and that base URLs parse.
func (c *Config) Validate() error {
	if c.DefaultProvider == "" {
		return errors.New("no default provider specified")
	}
	if _, exists := c.GetLLMConfig(c.DefaultProvider); !exists {
		return fmt.Errorf("default provider '%s' is specified but has no configuration section in [llms]", c.DefaultProvider)
	}
	for _, name := range c.Providers() {
		if base := c.LLMs[name].BaseURL; base != "" {
			if err := ValidateBaseURL(base); err != nil {
				return fmt.Errorf("provider '%s': %w", name, err)
			}
		}
	}
	return nil
}

// ValidateBaseURL checks that rawURL is an absolute http or https URL.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("URL cannot be empty")
	}

	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("URL scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

// GetLLMConfig retrieves the specific configuration for a given provider. Names are
// matched the way provider identifiers are: case-insensitive, surrounding space ignored.
func (c *Config) GetLLMConfig(name string) (LLMConfig, bool) {
	key, ok := c.sectionKey(name)
	if !ok {
		return LLMConfig{}, false
	}
	return c.LLMs[key], true
}

// SetLLMConfig stores llmCfg under the existing section matching name, or under the
// normalized name when there is none.
func (c *Config) SetLLMConfig(name string, llmCfg LLMConfig) {
	if c.LLMs == nil {
		c.LLMs = map[string]LLMConfig{}
	}
	key, ok := c.sectionKey(name)
	if !ok {
		key = string(provider.Normalize(name))
	}
	c.LLMs[key] = llmCfg
}

// sectionKey returns the LLMs key for name. An exact key wins over a normalized match.
func (c *Config) sectionKey(name string) (string, bool) {
	if _, ok := c.LLMs[name]; ok {
		return name, true
	}
	want := provider.Normalize(name)
	for _, key := range c.Providers() {
		if provider.Normalize(key) == want {
			return key, true
		}
	}
	return "", false
}

// Providers returns the configured provider names sorted.
func (c *Config) Providers() []string {
	names := make([]string, 0, len(c.LLMs))
	for name := range c.LLMs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewConfig creates a new configuration programmatically (library-friendly approach).
//
// Example:
//
//	cfg := NewConfig("groq", 30, map[string]LLMConfig{
//		"groq":   {APIKey: "your-key"},
//		"ollama": {BaseURL: "http://localhost:11434"},
//	})
func NewConfig(defaultProvider string, timeoutSeconds int, providers map[string]LLMConfig) Config {
	return Config{
		DefaultProvider:       defaultProvider,
		RequestTimeoutSeconds: timeoutSeconds,
		LLMs:                  providers,
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
