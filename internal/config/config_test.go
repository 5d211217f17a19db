package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv("TEST_ANTHROPIC_MODEL", "claude-from-env")

	path := writeFile(t, t.TempDir(), "config.yaml", `
server:
  port: 9090
providers:
  openai:
    model: gpt-4o-mini
    aliases: [chatgpt]
  anthropic:
    model: ${TEST_ANTHROPIC_MODEL}
    max_tokens: 1024
  google:
    response_mime_type: application/json
    max_output_tokens: 512
    google_search: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults lost: %#v", cfg.Log)
	}
	if cfg.Providers.OpenAI.Model != "gpt-4o-mini" || len(cfg.Providers.OpenAI.Aliases) != 1 {
		t.Errorf("openai = %#v", cfg.Providers.OpenAI)
	}
	if cfg.Providers.Anthropic.Model != "claude-from-env" || cfg.Providers.Anthropic.MaxTokens != 1024 {
		t.Errorf("anthropic = %#v", cfg.Providers.Anthropic)
	}
	if got := cfg.Providers.Anthropic.Aliases; len(got) != 1 || got[0] != "claude" {
		t.Errorf("anthropic aliases = %v, want default [claude]", got)
	}
	g := cfg.Providers.Google
	if g.ResponseMimeType != "application/json" || g.MaxOutputTokens != 512 || !g.GoogleSearch {
		t.Errorf("google = %#v", g)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(envPort, "7070")
	t.Setenv(envLogLevel, "debug")

	path := writeFile(t, t.TempDir(), "config.yaml", "server:\n  port: 9090\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad port", content: "server:\n  port: 70000\n", wantErr: "server.port"},
		{name: "bad log level", content: "log:\n  level: loud\n", wantErr: "log.level"},
		{name: "bad log format", content: "log:\n  format: xml\n", wantErr: "log.format"},
		{name: "negative max tokens", content: "providers:\n  anthropic:\n    max_tokens: -1\n", wantErr: "max_tokens"},
		{name: "output tokens too large", content: "providers:\n  google:\n    max_output_tokens: 70000\n", wantErr: "max_output_tokens"},
		{name: "empty alias", content: "providers:\n  openai:\n    aliases: [\"\"]\n", wantErr: "alias name"},
		{name: "alias shadows provider", content: "providers:\n  openai:\n    aliases: [google]\n", wantErr: "already refers"},
		{name: "invalid yaml", content: "server: [", wantErr: "parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "test.env", "PROMPTBRIDGE_TEST_VALUE=from-dotenv\n")
	t.Setenv("PROMPTBRIDGE_TEST_VALUE", "")
	os.Unsetenv("PROMPTBRIDGE_TEST_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error: %v", err)
	}
	if got := os.Getenv("PROMPTBRIDGE_TEST_VALUE"); got != "from-dotenv" {
		t.Errorf("env value = %q, want from-dotenv", got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing explicit env file")
	}
}

func TestLoadPrompt(t *testing.T) {
	dir := t.TempDir()

	yamlPath := writeFile(t, dir, "prompt.yaml", `
model: claude-sonnet-4
temperature: 0.3
messages:
  - role: system
    content: Be terse.
  - role: user
    content: Hi
`)
	prompt, err := LoadPrompt(yamlPath)
	if err != nil {
		t.Fatalf("LoadPrompt(yaml) error: %v", err)
	}
	if prompt.Model != "claude-sonnet-4" || len(prompt.Messages) != 2 {
		t.Errorf("prompt = %#v", prompt)
	}
	if prompt.Temperature == nil || *prompt.Temperature != 0.3 {
		t.Errorf("Temperature = %v", prompt.Temperature)
	}
	if prompt.Stream != nil {
		t.Errorf("Stream = %v, want nil", *prompt.Stream)
	}

	jsonPath := writeFile(t, dir, "prompt.json", `{"stream":true,"messages":[{"role":"user","content":"Hi"}]}`)
	prompt, err = LoadPrompt(jsonPath)
	if err != nil {
		t.Fatalf("LoadPrompt(json) error: %v", err)
	}
	if prompt.Model != "" || prompt.Stream == nil || !*prompt.Stream {
		t.Errorf("prompt = %#v", prompt)
	}

	emptyPath := writeFile(t, dir, "empty.yaml", "model: x\n")
	if _, err := LoadPrompt(emptyPath); err == nil {
		t.Error("expected error for prompt without messages")
	}
}
