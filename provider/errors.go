package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a generation failure.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindConnection
	KindTimeout
	KindAuthentication
	KindRateLimit
	KindProvider
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindAuthentication:
		return "authentication"
	case KindRateLimit:
		return "rate_limit"
	case KindProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches exactly one of them.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrConnection     = errors.New("connection error")
	ErrTimeout        = errors.New("timeout error")
	ErrAuthentication = errors.New("authentication error")
	ErrRateLimit      = errors.New("rate limit error")
	ErrProvider       = errors.New("provider error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindConnection:
		return ErrConnection
	case KindTimeout:
		return ErrTimeout
	case KindAuthentication:
		return ErrAuthentication
	case KindRateLimit:
		return ErrRateLimit
	default:
		return ErrProvider
	}
}

// Error is the single error type surfaced by clients and adapters.
type Error struct {
	Kind     Kind
	Provider ID

	// StatusCode is the HTTP status code (0 if not applicable)
	StatusCode int

	// RetryAfter is what the provider asked for on a rate limit. Nothing retries automatically.
	RetryAfter time.Duration

	Message string
	Cause   error
}

func (e *Error) Error() string {
	name := string(e.Provider)
	if name == "" {
		name = "unknown"
	}
	msg := fmt.Sprintf("%s: %s", name, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("%s (retry after %s)", msg, e.RetryAfter)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf extracts the Kind from err.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// Configf builds a configuration error.
func Configf(id ID, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Provider: id, Message: fmt.Sprintf(format, args...)}
}

// maxBodyInError caps how much of a response body ends up in an error message.
const maxBodyInError = 512

func truncate(body []byte) string {
	if len(body) <= maxBodyInError {
		return string(body)
	}
	return string(body[:maxBodyInError]) + "..."
}

// StatusError maps a non-2xx HTTP response to an *Error.
func StatusError(id ID, code int, header http.Header, body []byte) *Error {
	e := &Error{Provider: id, StatusCode: code}
	switch code {
	case http.StatusUnauthorized:
		e.Kind = KindAuthentication
		e.Message = "invalid API key"
	case http.StatusForbidden:
		e.Kind = KindAuthentication
		e.Message = "access forbidden, check your permissions"
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimit
		e.Message = "rate limit exceeded"
		if header != nil {
			e.RetryAfter = ParseRetryAfter(header.Get("Retry-After"))
		}
	default:
		e.Kind = KindProvider
		e.Message = "API error"
	}
	if len(body) > 0 {
		e.Message = fmt.Sprintf("%s: %s", e.Message, truncate(body))
	}
	return e
}

// ParseRetryAfter parses the Retry-After header value as either seconds (integer)
// or an HTTP-date. Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// MalformedResponse builds the error for a 2xx body that is unusable.
func MalformedResponse(id ID, msg string, cause error) *Error {
	return &Error{Kind: KindProvider, Provider: id, Message: "malformed response: " + msg, Cause: cause}
}
