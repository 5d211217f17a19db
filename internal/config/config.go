package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"promptbridge/internal/models"
)

const (
	defaultPort      = 8080
	defaultLogLevel  = "info"
	defaultLogFormat = "json"

	envPort     = "PROMPTBRIDGE_PORT"
	envLogLevel = "PROMPTBRIDGE_LOG_LEVEL"

	maxGoogleOutputTokens = 65535
)

// Config represents the application configuration parsed from YAML.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Providers ProvidersConfig `yaml:"providers"`
}

// ServerConfig defines listener configuration.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ProvidersConfig catalogues the translation settings of each provider.
type ProvidersConfig struct {
	OpenAI    ProviderConfig  `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Google    GoogleConfig    `yaml:"google"`
	Ollama    ProviderConfig  `yaml:"ollama"`
}

// ProviderConfig holds settings shared by all providers.
type ProviderConfig struct {
	// Model is used when a prompt does not name one.
	Model   string   `yaml:"model"`
	Aliases []string `yaml:"aliases"`
}

// AnthropicConfig extends ProviderConfig with Messages API settings.
type AnthropicConfig struct {
	ProviderConfig `yaml:",inline"`
	// MaxTokens overrides the provider default when positive.
	MaxTokens int `yaml:"max_tokens"`
}

// GoogleConfig extends ProviderConfig with generateContent settings.
type GoogleConfig struct {
	ProviderConfig   `yaml:",inline"`
	ResponseMimeType string `yaml:"response_mime_type"`
	MaxOutputTokens  int    `yaml:"max_output_tokens"`
	GoogleSearch     bool   `yaml:"google_search"`
}

// Default returns a configuration that passes Validate without a file.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: defaultPort},
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Providers: ProvidersConfig{
			Anthropic: AnthropicConfig{ProviderConfig: ProviderConfig{Aliases: []string{"claude"}}},
			Google:    GoogleConfig{ProviderConfig: ProviderConfig{Aliases: []string{"gemini"}}},
			Ollama:    ProviderConfig{Aliases: []string{"local"}},
		},
	}
}

// Load reads YAML configuration from disk on top of the defaults, expands
// environment references, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %q: %w", absPath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set. An empty
// path loads ./.env when it exists and is a no-op otherwise.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(envPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPort, err)
		}
		c.Server.Port = port
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate performs strict sanity checks on the configuration.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", c.Server.Port)
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn or error", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q must be json or text", c.Log.Format)
	}

	if c.Providers.Anthropic.MaxTokens < 0 {
		return fmt.Errorf("provider anthropic: max_tokens must be positive, got %d", c.Providers.Anthropic.MaxTokens)
	}
	if t := c.Providers.Google.MaxOutputTokens; t < 0 || t > maxGoogleOutputTokens {
		return fmt.Errorf("provider google: max_output_tokens must be between 0 and %d, got %d", maxGoogleOutputTokens, t)
	}

	providers := map[string]ProviderConfig{
		"openai":    c.Providers.OpenAI,
		"anthropic": c.Providers.Anthropic.ProviderConfig,
		"google":    c.Providers.Google.ProviderConfig,
		"ollama":    c.Providers.Ollama,
	}

	owners := make(map[string]string, len(providers))
	for name := range providers {
		owners[name] = name
	}
	for name, provider := range providers {
		for _, alias := range provider.Aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			if key == "" {
				return fmt.Errorf("provider %s: alias name must not be empty", name)
			}
			if owner, taken := owners[key]; taken {
				return fmt.Errorf("provider %s: alias %q already refers to provider %s", name, alias, owner)
			}
			owners[key] = name
		}
	}

	return nil
}

// LoadPrompt reads a prompt from a YAML or JSON file. Files ending in .json
// are decoded as JSON, everything else as YAML.
func LoadPrompt(path string) (models.Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Prompt{}, fmt.Errorf("read prompt file %q: %w", path, err)
	}

	var prompt models.Prompt
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &prompt)
	} else {
		err = yaml.Unmarshal(data, &prompt)
	}
	if err != nil {
		return models.Prompt{}, fmt.Errorf("parse prompt file %q: %w", path, err)
	}

	if len(prompt.Messages) == 0 {
		return models.Prompt{}, errors.New("prompt file must contain at least one message")
	}
	return prompt, nil
}
