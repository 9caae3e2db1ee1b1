package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"XOGEN_PROVIDER", "XOGEN_TIMEOUT_SECONDS", "OLLAMA_BASE_URL", "LMSTUDIO_BASE_URL",
		"GITHUB_TOKEN", "GROQ_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("XOGEN_PROVIDER", "groq")
	t.Setenv("XOGEN_TIMEOUT_SECONDS", "30")
	t.Setenv("GROQ_API_KEY", "gsk-env")
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "groq", cfg.DefaultProvider)
	assert.Equal(t, 30, cfg.RequestTimeoutSeconds)
	assert.Equal(t, "gsk-env", cfg.LLMs["groq"].APIKey)
	assert.Equal(t, "http://gpu-box:11434", cfg.LLMs["ollama"].BaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_KeepsFileValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg := NewConfig("openai", 10, map[string]LLMConfig{
		"openai": {APIKey: "sk-file", Model: "gpt-4o"},
	})
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "sk-env", cfg.LLMs["openai"].APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLMs["openai"].Model, "model must not be cleared")
	assert.Equal(t, 10, cfg.RequestTimeoutSeconds)
}

func TestApplyEnv_NilMap(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	var cfg Config
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, "g-key", cfg.LLMs["gemini"].APIKey)
}

func TestApplyEnv_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("XOGEN_TIMEOUT_SECONDS", "soon")

	cfg := Default()
	assert.Error(t, ApplyEnv(&cfg))
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GITHUB_TOKEN=ghp-dotenv\n"), 0600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "ghp-dotenv", os.Getenv("GITHUB_TOKEN"))

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "ghp-dotenv", env.GitHubToken)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "from-shell")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GROQ_API_KEY=from-file\n"), 0600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-shell", os.Getenv("GROQ_API_KEY"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestApplyEnv_MixedCaseSection(t *testing.T) {
	clearEnv(t)
	t.Setenv("XOGEN_PROVIDER", "Groq")
	t.Setenv("GROQ_API_KEY", "gsk-env")

	cfg := NewConfig("ollama", 0, map[string]LLMConfig{
		"ollama": {},
		"Groq":   {Model: "llama-3.3-70b-versatile"},
	})
	require.NoError(t, ApplyEnv(&cfg))

	assert.Len(t, cfg.LLMs, 2, "the key must land in the existing section")
	assert.Equal(t, "gsk-env", cfg.LLMs["Groq"].APIKey)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLMs["Groq"].Model)
	assert.NoError(t, cfg.Validate())
}
