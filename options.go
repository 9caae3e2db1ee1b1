package xogen

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/xostack/xogen/metrics"
	"github.com/xostack/xogen/provider"
)

// ClientOption customizes a Client at construction.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient     *http.Client
	logger         *slog.Logger
	metrics        *metrics.Recorder
	now            func() time.Time
	defaultTimeout time.Duration
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		logger:         slog.Default(),
		now:            time.Now,
		defaultTimeout: provider.DefaultTimeout,
	}
}

// WithHTTPClient sets the HTTP client used by HTTP adapters. Per-call timeouts are applied
// through the request context, so the client itself needs no timeout.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records every call on r.
func WithMetrics(r *metrics.Recorder) ClientOption {
	return func(o *clientOptions) { o.metrics = r }
}

// WithClock replaces time.Now for record timestamps and durations.
func WithClock(now func() time.Time) ClientOption {
	return func(o *clientOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithDefaultTimeout changes the per-call timeout used when Generate gets no WithTimeout.
// Non-positive values are ignored.
func WithDefaultTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d > 0 {
			o.defaultTimeout = d
		}
	}
}

// GenerateOption sets one sampling parameter of a Generate call.
type GenerateOption func(*provider.Options)

// WithTemperature sets the sampling temperature (0-2, default 0.7).
func WithTemperature(t float64) GenerateOption {
	return func(o *provider.Options) { o.Temperature = t }
}

// WithMaxTokens caps the generated tokens (default 4000).
func WithMaxTokens(n int) GenerateOption {
	return func(o *provider.Options) { o.MaxTokens = n }
}

// WithTopP sets nucleus sampling (0-1, default 0.9).
func WithTopP(p float64) GenerateOption {
	return func(o *provider.Options) { o.TopP = p }
}

// WithTimeout bounds the call (default 120s).
func WithTimeout(d time.Duration) GenerateOption {
	return func(o *provider.Options) { o.Timeout = d }
}
