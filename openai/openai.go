// Package openai provides the OpenAI-compatible chat-completions wire shape shared by
// GitHub Models, Groq, OpenRouter, OpenAI and LM Studio.
package openai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xostack/xogen/provider"
)

const chatCompletionsPath = "/chat/completions"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type responseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type responseChoice struct {
	Index        int             `json:"index"`
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatCompletionResponse struct {
	ID      string           `json:"id"`
	Model   string           `json:"model"`
	Choices []responseChoice `json:"choices"`
	Usage   usage            `json:"usage"`
	Error   *struct {        // some gateways return an error object with a 200
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code,omitempty"`
	} `json:"error,omitempty"`
}

// Codec implements provider.Codec for /chat/completions.
type Codec struct{}

var _ provider.Codec = Codec{}

// Path implements provider.Codec.
func (Codec) Path() string { return chatCompletionsPath }

// Encode wraps the prompt in a single user message.
func (Codec) Encode(req provider.Request) (any, error) {
	return chatCompletionRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Options.Temperature,
		MaxTokens:   req.Options.MaxTokens,
		TopP:        req.Options.TopP,
		Stream:      false,
	}, nil
}

// Decode returns the first choice's message content.
func (Codec) Decode(body []byte) (string, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal chat completion JSON: %w", err)
	}
	if resp.Error != nil {
		return "", &provider.Error{
			Kind:    provider.KindProvider,
			Message: fmt.Sprintf("API error: %s (type: %s)", resp.Error.Message, resp.Error.Type),
		}
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}
	if resp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("first choice has no message content (finish reason %q)", resp.Choices[0].FinishReason)
	}
	return *resp.Choices[0].Message.Content, nil
}

// Config holds what New needs beyond the profile.
type Config struct {
	Endpoint   string
	Credential provider.Secret
	// Referer overrides the profile's HTTP-Referer header when set.
	Referer string
}

// New returns a chat-shape adapter for profile p.
func New(p provider.Profile, cfg Config, httpClient *http.Client) *provider.HTTPAdapter {
	headers := p.Headers
	if _, ok := headers["HTTP-Referer"]; ok && cfg.Referer != "" {
		headers["HTTP-Referer"] = cfg.Referer
	}
	return &provider.HTTPAdapter{
		Provider:   p.ID,
		Endpoint:   cfg.Endpoint,
		Credential: cfg.Credential,
		Headers:    headers,
		Codec:      Codec{},
		Client:     httpClient,
	}
}
