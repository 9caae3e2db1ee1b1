package xogen

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/xostack/xogen/gemini"
	"github.com/xostack/xogen/metrics"
	"github.com/xostack/xogen/ollama"
	"github.com/xostack/xogen/openai"
	"github.com/xostack/xogen/provider"
)

// Config is the caller-supplied configuration bag for NewClient.
type Config struct {
	// Endpoint overrides the base URL for local providers. Hosted providers ignore it.
	Endpoint string
	// Model overrides the provider's default model.
	Model string
	// Credential is required by hosted providers.
	Credential provider.Secret
	// Referer replaces the HTTP-Referer header sent to OpenRouter.
	Referer string
}

// ClientConfig is the resolved, immutable configuration of a Client.
type ClientConfig struct {
	Provider   provider.ID
	Endpoint   string
	Model      string
	Credential provider.Secret
}

const (
	connectionTestPrompt  = "Hello, respond with 'OK'"
	connectionTestTimeout = 30 * time.Second
)

// Client dispatches generation calls to one provider and keeps their history.
// It is safe for concurrent use.
type Client struct {
	cfg     ClientConfig
	profile provider.Profile
	adapter provider.Adapter

	logger         *slog.Logger
	metrics        *metrics.Recorder
	now            func() time.Time
	defaultTimeout time.Duration

	mu      sync.Mutex
	calls   int
	history []Record
}

// NewClient builds a client for providerID (case-insensitive). It fails with a
// provider.ErrConfiguration error for unknown providers, for hosted providers without a
// credential and for malformed endpoint overrides.
func NewClient(providerID string, cfg Config, opts ...ClientOption) (*Client, error) {
	o := defaultClientOptions()
	for _, opt := range opts {
		opt(&o)
	}

	profile, ok := provider.Lookup(providerID)
	if !ok {
		return nil, provider.Configf(provider.Normalize(providerID), "unsupported provider %q", providerID)
	}

	credential := provider.Secret(strings.TrimSpace(cfg.Credential.Reveal()))
	if profile.CredentialRequired && credential.Empty() {
		return nil, provider.Configf(profile.ID, "%s requires a credential (API key)", profile.ID)
	}

	endpoint, err := resolveEndpoint(profile, cfg.Endpoint, o.logger)
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = profile.DefaultModel
	}

	resolved := ClientConfig{
		Provider:   profile.ID,
		Endpoint:   endpoint,
		Model:      model,
		Credential: credential,
	}

	adapter, err := newAdapter(profile, resolved, cfg.Referer, o)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("client created",
		"provider", profile.ID,
		"shape", profile.Shape.String(),
		"endpoint", endpoint,
		"model", model,
	)

	return &Client{
		cfg:            resolved,
		profile:        profile,
		adapter:        adapter,
		logger:         o.logger,
		metrics:        o.metrics,
		now:            o.now,
		defaultTimeout: o.defaultTimeout,
	}, nil
}

func resolveEndpoint(p provider.Profile, override string, logger *slog.Logger) (string, error) {
	override = strings.TrimSpace(override)
	if override == "" {
		return p.DefaultEndpoint, nil
	}
	if !p.EndpointOverride {
		logger.Warn("endpoint override ignored for hosted provider", "provider", p.ID)
		return p.DefaultEndpoint, nil
	}

	parsed, err := url.Parse(override)
	if err != nil {
		return "", &provider.Error{Kind: provider.KindConfiguration, Provider: p.ID, Message: "invalid endpoint " + override, Cause: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", provider.Configf(p.ID, "endpoint scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", provider.Configf(p.ID, "endpoint %q has no host", override)
	}
	return strings.TrimSuffix(parsed.String(), "/"), nil
}

func newAdapter(p provider.Profile, cfg ClientConfig, referer string, o clientOptions) (provider.Adapter, error) {
	switch p.Shape {
	case provider.ShapeLocal:
		return ollama.New(p.ID, cfg.Endpoint, o.httpClient), nil
	case provider.ShapeChat:
		return openai.New(p, openai.Config{
			Endpoint:   cfg.Endpoint,
			Credential: cfg.Credential,
			Referer:    referer,
		}, o.httpClient), nil
	case provider.ShapeGemini:
		return gemini.New(context.Background(), cfg.Credential, o.logger)
	default:
		return nil, provider.Configf(p.ID, "no adapter for shape %s", p.Shape)
	}
}

// ProviderName returns the provider identifier.
func (c *Client) ProviderName() string {
	return string(c.cfg.Provider)
}

// Config returns the resolved configuration.
func (c *Client) Config() ClientConfig {
	return c.cfg
}

// Generate sends prompt to the provider and returns the full response text. Every call is
// recorded in the history, whether it succeeds or not, before Generate returns.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	o := provider.DefaultOptions()
	o.Timeout = c.defaultTimeout
	for _, opt := range opts {
		opt(&o)
	}
	o, fixed := o.Sanitize(c.defaultTimeout)
	if len(fixed) > 0 {
		c.logger.Warn("out-of-range generation options replaced by defaults",
			"provider", c.cfg.Provider,
			"fields", fixed,
		)
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	start := c.now()
	text, err := c.adapter.Generate(ctx, provider.Request{
		Model:   c.cfg.Model,
		Prompt:  prompt,
		Options: o,
	})
	end := c.now()

	rec := Record{
		ID:           uuid.NewString(),
		Timestamp:    end,
		Provider:     c.cfg.Provider,
		Model:        c.cfg.Model,
		PromptLength: utf8.RuneCountInString(prompt),
		Duration:     end.Sub(start),
	}

	if err != nil {
		perr := c.asProviderError(err)
		rec.Error = perr.Error()
		rec.Kind = perr.Kind
		c.record(rec)
		c.metrics.Observe(string(c.cfg.Provider), c.cfg.Model, false, perr.Kind.String(), rec.PromptLength, rec.Duration)
		c.logger.Warn("generation failed",
			"provider", c.cfg.Provider,
			"model", c.cfg.Model,
			"id", rec.ID,
			"kind", perr.Kind.String(),
			"duration", rec.Duration,
			"error", perr,
		)
		return "", perr
	}

	rec.Success = true
	rec.ResponseLength = utf8.RuneCountInString(text)
	c.record(rec)
	c.metrics.Observe(string(c.cfg.Provider), c.cfg.Model, true, "", rec.PromptLength, rec.Duration)
	c.logger.Debug("generation succeeded",
		"provider", c.cfg.Provider,
		"model", c.cfg.Model,
		"id", rec.ID,
		"prompt_length", rec.PromptLength,
		"response_length", rec.ResponseLength,
		"duration", rec.Duration,
	)
	return text, nil
}

// asProviderError guarantees callers only ever see the taxonomy, without credentials.
func (c *Client) asProviderError(err error) *provider.Error {
	var perr *provider.Error
	if !errors.As(err, &perr) {
		perr = &provider.Error{Kind: provider.KindProvider, Provider: c.cfg.Provider, Message: "generation failed", Cause: err}
	}
	return c.redact(perr)
}

// redact strips the credential from an error whose provider echoed it back.
func (c *Client) redact(perr *provider.Error) *provider.Error {
	secret := c.cfg.Credential.Reveal()
	if secret == "" || !strings.Contains(perr.Error(), secret) {
		return perr
	}
	masked := c.cfg.Credential.String()
	out := *perr
	out.Message = strings.ReplaceAll(out.Message, secret, masked)
	if out.Cause != nil {
		out.Cause = &redactedError{msg: strings.ReplaceAll(out.Cause.Error(), secret, masked), cause: out.Cause}
	}
	return &out
}

// redactedError reports a masked message but still unwraps to the original cause.
type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.cause }

// record appends rec and bumps the call counter in one critical section, so history order is
// completion order.
func (c *Client) record(rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	c.history = append(c.history, rec)
}

// History returns a copy of all records in completion order.
func (c *Client) History() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Record, len(c.history))
	copy(out, c.history)
	return out
}

// Stats derives aggregate statistics from the history.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return computeStats(c.cfg.Provider, c.cfg.Model, c.calls, c.history)
}

// TestConnection sends a short fixed prompt and reports whether a non-empty answer came back.
// Failures are logged, never returned. The probe is recorded like any other call.
func (c *Client) TestConnection(ctx context.Context) bool {
	text, err := c.Generate(ctx, connectionTestPrompt, WithTimeout(connectionTestTimeout))
	if err != nil {
		c.logger.Warn("connection test failed", "provider", c.cfg.Provider, "error", err)
		return false
	}
	return len(text) > 0
}

// Close releases adapter resources. Stats and History remain available.
func (c *Client) Close() error {
	return c.adapter.Close()
}
