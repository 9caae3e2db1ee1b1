// Package gemini provides an adapter for Google's Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/xostack/xogen/provider"
)

// maxOutputTokens converts n to the SDK's int32, saturating at the bounds.
func maxOutputTokens(n int) int32 {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	}
	return int32(n)
}

// endpointName is used in connection errors; the SDK owns the actual URL.
const endpointName = "generativelanguage.googleapis.com"

// Adapter implements provider.Adapter for Gemini.
type Adapter struct {
	genaiClient *genai.Client
	logger      *slog.Logger
}

var _ provider.Adapter = (*Adapter)(nil)

// New creates a Gemini adapter. The API key must be non-empty.
// The SDK manages its own transport, so no *http.Client is accepted.
func New(ctx context.Context, apiKey provider.Secret, logger *slog.Logger) (*Adapter, error) {
	if apiKey.Empty() {
		return nil, provider.Configf(provider.Gemini, "API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(apiKey.Reveal()))
	if err != nil {
		return nil, &provider.Error{
			Kind:     provider.KindConfiguration,
			Provider: provider.Gemini,
			Message:  "failed to create genai client",
			Cause:    err,
		}
	}

	return &Adapter{genaiClient: genaiClient, logger: logger}, nil
}

// Generate sends the prompt to the Gemini model and returns the text response.
func (a *Adapter) Generate(ctx context.Context, req provider.Request) (string, error) {
	if a.genaiClient == nil {
		return "", &provider.Error{Kind: provider.KindProvider, Provider: provider.Gemini, Message: "client not initialized"}
	}

	model := a.genaiClient.GenerativeModel(req.Model)
	model.SetTemperature(float32(req.Options.Temperature))
	model.SetMaxOutputTokens(maxOutputTokens(req.Options.MaxTokens))
	model.SetTopP(float32(req.Options.TopP))

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", mapError(ctx, req.Options.Timeout, err)
	}

	// The response can have multiple candidates, we'll use the first one.
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
			return "", provider.MalformedResponse(provider.Gemini, "content generation blocked due to safety settings", nil)
		}
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", provider.MalformedResponse(provider.Gemini, "prompt blocked: "+resp.PromptFeedback.BlockReason.String(), nil)
		}
		return "", provider.MalformedResponse(provider.Gemini, "response was empty", nil)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
			continue
		}
		a.logger.Debug("ignoring non-text part", "provider", provider.Gemini, "type", fmt.Sprintf("%T", part))
	}
	if b.Len() == 0 {
		return "", provider.MalformedResponse(provider.Gemini, "response contained no text content", nil)
	}
	return b.String(), nil
}

// Close releases the genai client.
func (a *Adapter) Close() error {
	if a.genaiClient != nil {
		return a.genaiClient.Close()
	}
	return nil
}

// mapError folds SDK errors into the provider taxonomy.
func mapError(ctx context.Context, timeout time.Duration, err error) *provider.Error {
	code := 0
	var gerr *googleapi.Error
	var aerr *apierror.APIError
	switch {
	case errors.As(err, &gerr):
		code = gerr.Code
	case errors.As(err, &aerr):
		code = aerr.HTTPCode()
	}

	if code > 0 {
		e := provider.StatusError(provider.Gemini, code, nil, nil)
		e.Cause = err
		return e
	}
	return provider.TransportError(ctx, provider.Gemini, endpointName, timeout, err)
}
