package provider

import "time"

// Generation defaults applied when an option is absent or out of range.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
	DefaultTopP        = 0.9
	DefaultTimeout     = 120 * time.Second
)

// Options are the resolved sampling parameters of one generation call.
type Options struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
	Timeout     time.Duration
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		TopP:        DefaultTopP,
		Timeout:     DefaultTimeout,
	}
}

// Sanitize replaces out-of-range values with defaults and returns the names of the fields
// it replaced. A non-positive timeout becomes fallbackTimeout, or DefaultTimeout when
// fallbackTimeout is not positive either.
func (o Options) Sanitize(fallbackTimeout time.Duration) (Options, []string) {
	var fixed []string
	if o.Temperature < 0 || o.Temperature > 2 {
		o.Temperature = DefaultTemperature
		fixed = append(fixed, "temperature")
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
		fixed = append(fixed, "max_tokens")
	}
	if o.TopP < 0 || o.TopP > 1 {
		o.TopP = DefaultTopP
		fixed = append(fixed, "top_p")
	}
	if o.Timeout <= 0 {
		o.Timeout = fallbackTimeout
		if o.Timeout <= 0 {
			o.Timeout = DefaultTimeout
		}
		fixed = append(fixed, "timeout")
	}
	return o, fixed
}

// Request is one generation call as seen by an adapter.
type Request struct {
	Model   string
	Prompt  string
	Options Options
}
