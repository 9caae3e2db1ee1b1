package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvVars are the environment overrides applied on top of a loaded file.
type EnvVars struct {
	Provider       string `envconfig:"XOGEN_PROVIDER"`
	TimeoutSeconds int    `envconfig:"XOGEN_TIMEOUT_SECONDS"`

	OllamaBaseURL   string `envconfig:"OLLAMA_BASE_URL"`
	LMStudioBaseURL string `envconfig:"LMSTUDIO_BASE_URL"`

	GitHubToken      string `envconfig:"GITHUB_TOKEN"`
	GroqAPIKey       string `envconfig:"GROQ_API_KEY"`
	OpenRouterAPIKey string `envconfig:"OPENROUTER_API_KEY"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey     string `envconfig:"GEMINI_API_KEY"`
}

// LoadEnv reads EnvVars from the process environment.
func LoadEnv() (*EnvVars, error) {
	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &v, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Apply layers the non-empty variables onto cfg. Setting a credential for a provider
// without a section creates the section.
func (e *EnvVars) Apply(cfg *Config) {
	if cfg.LLMs == nil {
		cfg.LLMs = map[string]LLMConfig{}
	}
	if e.Provider != "" {
		cfg.DefaultProvider = e.Provider
	}
	if e.TimeoutSeconds > 0 {
		cfg.RequestTimeoutSeconds = e.TimeoutSeconds
	}

	set := func(name string, fn func(*LLMConfig)) {
		c, _ := cfg.GetLLMConfig(name)
		fn(&c)
		cfg.SetLLMConfig(name, c)
	}
	if e.OllamaBaseURL != "" {
		set("ollama", func(c *LLMConfig) { c.BaseURL = e.OllamaBaseURL })
	}
	if e.LMStudioBaseURL != "" {
		set("lmstudio", func(c *LLMConfig) { c.BaseURL = e.LMStudioBaseURL })
	}

	keys := map[string]string{
		"github":     e.GitHubToken,
		"groq":       e.GroqAPIKey,
		"openrouter": e.OpenRouterAPIKey,
		"openai":     e.OpenAIAPIKey,
		"gemini":     e.GeminiAPIKey,
	}
	for name, key := range keys {
		if key == "" {
			continue
		}
		set(name, func(c *LLMConfig) { c.APIKey = key })
	}
}

// ApplyEnv reads the environment and applies it to cfg.
func ApplyEnv(cfg *Config) error {
	env, err := LoadEnv()
	if err != nil {
		return err
	}
	env.Apply(cfg)
	return nil
}
