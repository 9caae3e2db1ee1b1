package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Adapter performs one blocking generation call against a provider.
type Adapter interface {
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

// Codec translates between a Request and one HTTP wire shape.
type Codec interface {
	// Path is appended to the endpoint, e.g. "/chat/completions".
	Path() string
	Encode(req Request) (any, error)
	// Decode parses a 2xx body and returns the generated text.
	Decode(body []byte) (string, error)
}

// HTTPAdapter sends Codec-shaped JSON requests and maps failures to *Error.
type HTTPAdapter struct {
	Provider   ID
	Endpoint   string // no trailing slash
	Credential Secret
	Headers    map[string]string
	Codec      Codec
	Client     *http.Client
}

var _ Adapter = (*HTTPAdapter)(nil)

func (a *HTTPAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return http.DefaultClient
}

// URL returns the full request URL.
func (a *HTTPAdapter) URL() string {
	return a.Endpoint + a.Codec.Path()
}

// Generate implements Adapter.
func (a *HTTPAdapter) Generate(ctx context.Context, req Request) (string, error) {
	if a.Codec == nil {
		return "", &Error{Kind: KindProvider, Provider: a.Provider, Message: "adapter not initialized"}
	}

	payload, err := a.Codec.Encode(req)
	if err != nil {
		return "", &Error{Kind: KindProvider, Provider: a.Provider, Message: "failed to encode request", Cause: err}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Kind: KindProvider, Provider: a.Provider, Message: "failed to marshal request payload", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL(), bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindProvider, Provider: a.Provider, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if !a.Credential.Empty() {
		httpReq.Header.Set("Authorization", "Bearer "+a.Credential.Reveal())
	}
	for k, v := range a.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := a.httpClient().Do(httpReq)
	if err != nil {
		return "", TransportError(ctx, a.Provider, a.Endpoint, req.Options.Timeout, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", TransportError(ctx, a.Provider, a.Endpoint, req.Options.Timeout, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", StatusError(a.Provider, resp.StatusCode, resp.Header, respBody)
	}

	text, err := a.Codec.Decode(respBody)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			if pe.Provider == "" {
				pe.Provider = a.Provider
			}
			return "", pe
		}
		return "", MalformedResponse(a.Provider, truncate(respBody), err)
	}
	return text, nil
}

// Close implements Adapter. The HTTP client needs no cleanup.
func (a *HTTPAdapter) Close() error {
	return nil
}

// TransportError classifies a failure to complete the HTTP exchange.
func TransportError(ctx context.Context, id ID, endpoint string, timeout time.Duration, err error) *Error {
	if isTimeout(ctx, err) {
		return &Error{
			Kind:     KindTimeout,
			Provider: id,
			Message:  fmt.Sprintf("request timed out after %s", timeout),
			Cause:    err,
		}
	}
	return &Error{
		Kind:     KindConnection,
		Provider: id,
		Message:  fmt.Sprintf("cannot connect to %s", endpoint),
		Cause:    err,
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
