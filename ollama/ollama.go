// Package ollama provides the local-inference wire shape used by Ollama servers.
package ollama

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xostack/xogen/provider"
)

const generateAPIPath = "/api/generate"

// generateRequest is the structure for the request body to Ollama's /api/generate.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"` // Non-streaming behavior for complete responses
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	TopP        float64 `json:"top_p"`
}

// generateResponse is the structure for the response from Ollama's /api/generate
// when stream is false.
type generateResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Response  *string   `json:"response"` // This is the generated text
	Done      bool      `json:"done"`
	Error     string    `json:"error,omitempty"`
}

// Codec implements provider.Codec for /api/generate.
type Codec struct{}

var _ provider.Codec = Codec{}

// Path implements provider.Codec.
func (Codec) Path() string { return generateAPIPath }

// Encode implements provider.Codec.
func (Codec) Encode(req provider.Request) (any, error) {
	return generateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: req.Options.Temperature,
			NumPredict:  req.Options.MaxTokens,
			TopP:        req.Options.TopP,
		},
	}, nil
}

// Decode implements provider.Codec.
func (Codec) Decode(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Ollama response JSON: %w", err)
	}
	if resp.Error != "" {
		return "", &provider.Error{Kind: provider.KindProvider, Message: "Ollama returned an error in response: " + resp.Error}
	}
	if resp.Response == nil {
		return "", fmt.Errorf("response field missing")
	}
	return *resp.Response, nil
}

// New returns an adapter for a local-inference endpoint such as "http://localhost:11434".
func New(id provider.ID, endpoint string, httpClient *http.Client) *provider.HTTPAdapter {
	return &provider.HTTPAdapter{
		Provider: id,
		Endpoint: endpoint,
		Codec:    Codec{},
		Client:   httpClient,
	}
}
