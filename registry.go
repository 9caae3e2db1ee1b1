package xogen

import "github.com/xostack/xogen/provider"

// ApplyDefaults fills a missing model from the provider's profile. Unknown identifiers get the
// placeholder provider.DefaultModel; NewClient rejects them afterwards, so both paths agree that
// an unknown provider cannot be constructed.
func ApplyDefaults(providerID string, cfg Config) Config {
	if cfg.Model != "" {
		return cfg
	}
	if p, ok := provider.Lookup(providerID); ok {
		cfg.Model = p.DefaultModel
	} else {
		cfg.Model = provider.DefaultModel
	}
	return cfg
}

// NewClientWithDefaults applies registry defaults and builds a client.
func NewClientWithDefaults(providerID string, cfg Config, opts ...ClientOption) (*Client, error) {
	return NewClient(providerID, ApplyDefaults(providerID, cfg), opts...)
}
