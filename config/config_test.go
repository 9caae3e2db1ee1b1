package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultProvider != "ollama" {
		t.Errorf("Expected default provider 'ollama', got '%s'", cfg.DefaultProvider)
	}

	if cfg.RequestTimeoutSeconds != 120 {
		t.Errorf("Expected default timeout 120, got %d", cfg.RequestTimeoutSeconds)
	}

	for _, provider := range []string{"ollama", "lmstudio"} {
		if _, exists := cfg.LLMs[provider]; !exists {
			t.Errorf("Expected provider '%s' to be configured by default", provider)
		}
	}

	if cfg.LLMs["ollama"].BaseURL != "http://localhost:11434" {
		t.Errorf("Expected ollama default URL 'http://localhost:11434', got '%s'", cfg.LLMs["ollama"].BaseURL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got: %v", err)
	}
}

func TestConfig_GetLLMConfig(t *testing.T) {
	cfg := Config{
		LLMs: map[string]LLMConfig{
			"test-provider": {
				APIKey: "test-key",
				Model:  "test-model",
			},
		},
	}

	llmCfg, exists := cfg.GetLLMConfig("test-provider")
	if !exists {
		t.Error("Expected provider to exist")
	}
	if llmCfg.APIKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", llmCfg.APIKey)
	}
	if llmCfg.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", llmCfg.Model)
	}

	_, exists = cfg.GetLLMConfig("non-existent")
	if exists {
		t.Error("Expected provider to not exist")
	}
}

func TestConfig_GetLLMConfig_IgnoresCase(t *testing.T) {
	cfg := NewConfig("Groq", 0, map[string]LLMConfig{
		"groq":   {APIKey: "lower"},
		"OpenAI": {APIKey: "upper"},
	})

	for name, want := range map[string]string{"Groq": "lower", " GROQ ": "lower", "openai": "upper", "OpenAI": "upper"} {
		llmCfg, ok := cfg.GetLLMConfig(name)
		if !ok {
			t.Errorf("Expected section for '%s'", name)
			continue
		}
		if llmCfg.APIKey != want {
			t.Errorf("GetLLMConfig(%q) API key = '%s', want '%s'", name, llmCfg.APIKey, want)
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected mixed-case default provider to validate, got: %v", err)
	}
}

func TestConfig_SetLLMConfig(t *testing.T) {
	cfg := NewConfig("groq", 0, map[string]LLMConfig{"Groq": {APIKey: "old"}})

	cfg.SetLLMConfig("groq", LLMConfig{APIKey: "new"})
	cfg.SetLLMConfig("Ollama", LLMConfig{BaseURL: "http://localhost:11434"})

	got := strings.Join(cfg.Providers(), ",")
	if got != "Groq,ollama" {
		t.Errorf("Expected existing key kept and new key normalized, got '%s'", got)
	}
	if cfg.LLMs["Groq"].APIKey != "new" {
		t.Errorf("Expected existing section to be updated, got '%s'", cfg.LLMs["Groq"].APIKey)
	}

	var empty Config
	empty.SetLLMConfig("gemini", LLMConfig{APIKey: "g"})
	if empty.LLMs["gemini"].APIKey != "g" {
		t.Error("Expected SetLLMConfig to create the map")
	}
}

func TestConfig_Providers(t *testing.T) {
	cfg := NewConfig("groq", 0, map[string]LLMConfig{
		"openai": {},
		"groq":   {},
		"ollama": {},
	})

	got := strings.Join(cfg.Providers(), ",")
	if got != "groq,ollama,openai" {
		t.Errorf("Expected sorted providers 'groq,ollama,openai', got '%s'", got)
	}
}

func TestGetConfigFilePath_NoXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path, err := GetConfigFilePath()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(path, filepath.Join(".config", "xogen", "config.toml")) {
		t.Errorf("Expected path to contain '.config/xogen/config.toml', got '%s'", path)
	}
}

func TestGetConfigFilePath_WithXDGConfigHome(t *testing.T) {
	testDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", testDir)

	path, err := GetConfigFilePath()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := filepath.Join(testDir, "xogen", "config.toml")
	if path != expected {
		t.Errorf("Expected path '%s', got '%s'", expected, path)
	}
}

func TestNewConfig(t *testing.T) {
	providerConfigs := map[string]LLMConfig{
		"gemini": {
			APIKey: "test-gemini-key",
			Model:  "gemma-3-27b-it",
		},
		"ollama": {
			BaseURL: "http://localhost:11434",
			Model:   "gemma:2b",
		},
	}

	cfg := NewConfig("gemini", 30, providerConfigs)

	if cfg.DefaultProvider != "gemini" {
		t.Errorf("Expected default provider 'gemini', got '%s'", cfg.DefaultProvider)
	}
	if cfg.RequestTimeoutSeconds != 30 {
		t.Errorf("Expected timeout 30, got %d", cfg.RequestTimeoutSeconds)
	}
	if len(cfg.LLMs) != 2 {
		t.Errorf("Expected 2 providers, got %d", len(cfg.LLMs))
	}

	geminiCfg, exists := cfg.GetLLMConfig("gemini")
	if !exists {
		t.Error("Expected gemini provider to exist")
	}
	if geminiCfg.APIKey != "test-gemini-key" {
		t.Errorf("Expected gemini API key 'test-gemini-key', got '%s'", geminiCfg.APIKey)
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		shouldErr bool
	}{
		{name: "valid http URL", url: "http://localhost:11434"},
		{name: "valid https URL", url: "https://example.com:11434/v1"},
		{name: "empty URL", url: "", shouldErr: true},
		{name: "invalid scheme", url: "ftp://localhost:11434", shouldErr: true},
		{name: "malformed URL", url: "not-a-url", shouldErr: true},
		{name: "missing host", url: "http:///path", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.url)
			if tt.shouldErr && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "no default provider",
			cfg:     NewConfig("", 0, nil),
			wantErr: "no default provider",
		},
		{
			name:    "missing section",
			cfg:     NewConfig("groq", 0, map[string]LLMConfig{"ollama": {}}),
			wantErr: "has no configuration section",
		},
		{
			name: "bad base URL",
			cfg: NewConfig("ollama", 0, map[string]LLMConfig{
				"ollama": {BaseURL: "ftp://localhost"},
			}),
			wantErr: "provider 'ollama'",
		},
		{
			name: "valid",
			cfg:  NewConfig("groq", 0, map[string]LLMConfig{"groq": {APIKey: "k"}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing '%s', got none", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing '%s', got '%v'", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFromFile_TOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	configContent := `default_provider = "openrouter"
request_timeout_seconds = 45

[llms.ollama]
base_url = "http://localhost:11434"
model = "gemma:2b"

[llms.openrouter]
api_key = "test-key"
referer = "https://example.com/app"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DefaultProvider != "openrouter" {
		t.Errorf("Expected default provider 'openrouter', got '%s'", cfg.DefaultProvider)
	}
	if cfg.RequestTimeoutSeconds != 45 {
		t.Errorf("Expected timeout 45, got %d", cfg.RequestTimeoutSeconds)
	}

	orCfg, exists := cfg.GetLLMConfig("openrouter")
	if !exists {
		t.Fatal("Expected openrouter config to exist")
	}
	if orCfg.Referer != "https://example.com/app" {
		t.Errorf("Expected referer 'https://example.com/app', got '%s'", orCfg.Referer)
	}

	got := strings.Join(cfg.Providers(), ",")
	if got != "ollama,openrouter" {
		t.Errorf("Expected only the file's sections 'ollama,openrouter', got '%s'", got)
	}
}

func TestLoadFromFile_NoDefaultSections(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"config.toml": "default_provider = \"groq\"\n\n[llms.groq]\napi_key = \"k\"\n",
		"config.yaml": "default_provider: groq\nllms:\n  groq:\n    api_key: k\n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatalf("Failed to write file: %v", err)
			}

			cfg, err := LoadFromFile(path)
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if got := strings.Join(cfg.Providers(), ","); got != "groq" {
				t.Errorf("Expected providers 'groq', got '%s'", got)
			}
			if cfg.RequestTimeoutSeconds != 0 {
				t.Errorf("Expected unset timeout to stay 0, got %d", cfg.RequestTimeoutSeconds)
			}
		})
	}
}

func TestLoadFromFile_MixedCaseDefaultProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "default_provider = \"Groq\"\n\n[llms.groq]\napi_key = \"k\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("Expected mixed-case default provider to load, got: %v", err)
	}
	if llmCfg, ok := cfg.GetLLMConfig(cfg.DefaultProvider); !ok || llmCfg.APIKey != "k" {
		t.Errorf("Expected groq section for default provider '%s', got %+v (found=%v)", cfg.DefaultProvider, llmCfg, ok)
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `default_provider: groq
request_timeout_seconds: 15
llms:
  groq:
    api_key: gsk-test
    model: llama-3.3-70b-versatile
`

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	groqCfg, exists := cfg.GetLLMConfig("groq")
	if !exists {
		t.Fatal("Expected groq config to exist")
	}
	if groqCfg.Model != "llama-3.3-70b-versatile" {
		t.Errorf("Expected model 'llama-3.3-70b-versatile', got '%s'", groqCfg.Model)
	}
	if cfg.RequestTimeoutSeconds != 15 {
		t.Errorf("Expected timeout 15, got %d", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadFromFile_UnknownKeys(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(tomlPath, []byte("default_provider = \"ollama\"\nbogus = 1\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := LoadFromFile(tomlPath); err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Errorf("Expected unknown key error naming 'bogus', got: %v", err)
	}

	yamlPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(yamlPath, []byte("default_provider: ollama\nbogus: 1\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := LoadFromFile(yamlPath); err == nil {
		t.Error("Expected unknown YAML key to be rejected")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "configuration file not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoad_MissingXDGFileGivesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.DefaultProvider != "ollama" {
		t.Errorf("Expected default provider 'ollama', got '%s'", cfg.DefaultProvider)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Expected error for missing explicit config path")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.DefaultProvider = "groq"
			cfg.LLMs["groq"] = LLMConfig{APIKey: "secret-key", Model: "m"}

			if err := Save(path, cfg); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("Stat failed: %v", err)
			}
			if perm := info.Mode().Perm(); perm != DefaultFilePerm {
				t.Errorf("Expected file mode %o, got %o", DefaultFilePerm, perm)
			}

			loaded, err := LoadFromFile(path)
			if err != nil {
				t.Fatalf("LoadFromFile failed: %v", err)
			}
			if loaded.DefaultProvider != "groq" {
				t.Errorf("Expected default provider 'groq', got '%s'", loaded.DefaultProvider)
			}
			if loaded.LLMs["groq"].APIKey != "secret-key" {
				t.Errorf("Expected API key to round-trip")
			}
		})
	}
}
