package provider

import "log/slog"

const redacted = "[REDACTED]"

// Secret is an opaque credential. It formats as [REDACTED] everywhere except Reveal.
type Secret string

// Reveal returns the raw credential for use in an auth header.
func (s Secret) Reveal() string { return string(s) }

// Empty reports whether no credential was supplied.
func (s Secret) Empty() bool { return s == "" }

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// GoString keeps %#v from printing the value.
func (s Secret) GoString() string { return s.String() }

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value { return slog.StringValue(s.String()) }

// MarshalText keeps encoders (JSON, TOML, YAML) from writing the value.
func (s Secret) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
