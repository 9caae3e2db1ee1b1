// Package xogen provides a single client for text generation across local and hosted LLM
// providers.
//
// Supported providers:
//   - Ollama and LM Studio (local, no credential)
//   - GitHub Models, Groq, OpenRouter, OpenAI (hosted, OpenAI-compatible chat API)
//   - Google Gemini (hosted, via the generative AI SDK)
//
// A Client owns its configuration and an in-memory history of every Generate call, from which
// Stats are derived on demand. Failures are reported as *provider.Error values that match one of
// six sentinels: provider.ErrConfiguration, ErrConnection, ErrTimeout, ErrAuthentication,
// ErrRateLimit and ErrProvider.
//
// Example usage:
//
//	client, err := xogen.NewClientWithDefaults("groq", xogen.Config{
//		Credential: provider.Secret(os.Getenv("GROQ_API_KEY")),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	text, err := client.Generate(ctx, "Hello, world!", xogen.WithTemperature(0.2))
//	if errors.Is(err, provider.ErrRateLimit) {
//		// back off and try again later
//	}
//
// File-based configuration goes through the config package and GetClient.
package xogen

import "context"

// Generator is the call surface shared by Client and test doubles.
type Generator interface {
	// Generate sends prompt to the provider and returns the generated text.
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)

	// ProviderName returns the lowercase provider identifier, e.g. "ollama".
	ProviderName() string
}

var _ Generator = (*Client)(nil)
