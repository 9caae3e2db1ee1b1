package xogen

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xostack/xogen/config"
	"github.com/xostack/xogen/provider"
)

// GetClient is a factory function that returns a client for the DefaultProvider
// specified in the configuration.
//
// RequestTimeoutSeconds becomes the client's default per-call timeout; values <= 0
// keep the 120 second default. With debugMode set, a debug-level text logger on stderr
// is installed unless opts supply their own logger.
//
// Example:
//
//	cfg := config.NewConfig("ollama", 60, map[string]config.LLMConfig{
//		"ollama": {BaseURL: "http://localhost:11434"},
//	})
//	client, err := GetClient(cfg, false)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Making it a variable to allow for easy mocking in tests.
var GetClient func(cfg config.Config, debugMode bool, opts ...ClientOption) (*Client, error) = func(cfg config.Config, debugMode bool, opts ...ClientOption) (*Client, error) {
	providerName := cfg.DefaultProvider
	if providerName == "" {
		return nil, provider.Configf("", "no default LLM provider specified in configuration")
	}

	llmCfg, exists := cfg.GetLLMConfig(providerName)
	if !exists {
		return nil, provider.Configf(provider.Normalize(providerName), "configuration for provider '%s' not found", providerName)
	}

	base := []ClientOption{}
	if debugMode {
		base = append(base, WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	if cfg.RequestTimeoutSeconds > 0 {
		base = append(base, WithDefaultTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second))
	}

	client, err := NewClientWithDefaults(providerName, Config{
		Endpoint:   llmCfg.BaseURL,
		Model:      llmCfg.Model,
		Credential: provider.Secret(llmCfg.APIKey),
		Referer:    llmCfg.Referer,
	}, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", providerName, err)
	}
	return client, nil
}
