package anthropic

import (
	"fmt"

	"promptbridge/internal/config"
	"promptbridge/internal/models"
	"promptbridge/internal/translator"
)

const (
	// Name is the canonical provider name.
	Name = "anthropic"

	// DefaultMaxTokens is sent as max_tokens unless overridden.
	DefaultMaxTokens = 4096
)

// Options carries the request fields the prompt does not supply.
type Options struct {
	MaxTokens int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{MaxTokens: DefaultMaxTokens}
}

// MessagesRequest models the /v1/messages request body.
type MessagesRequest struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature *float64         `json:"temperature,omitempty"`
	MaxTokens   int              `json:"max_tokens"`
	Stream      *bool            `json:"stream,omitempty"`
}

// BuildRequest converts a prompt into a messages body. System turns become
// user turns and consecutive same-role turns are merged.
func BuildRequest(prompt models.Prompt, opts Options) (MessagesRequest, error) {
	if !prompt.HasModel() {
		return MessagesRequest{}, translator.MissingModel(Name)
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	p := prompt.Clone()
	return MessagesRequest{
		Model:       p.Model,
		Messages:    translator.MergeAdjacent(p.Messages, translator.FlatShape),
		Temperature: p.Temperature,
		MaxTokens:   maxTokens,
		Stream:      p.Stream,
	}, nil
}

// MessagesResponse models the /v1/messages response body.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      usageBlock     `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usageBlock struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Text returns the text of the first content block.
func (r MessagesResponse) Text() (string, error) {
	if len(r.Content) == 0 {
		return "", translator.EmptyResponse(Name, "content blocks")
	}
	return r.Content[0].Text, nil
}

// Provider implements provider.Provider for the Anthropic Messages API.
type Provider struct {
	name  string
	model string
	opts  Options
}

// New constructs an Anthropic provider instance.
func New(name string, cfg config.AnthropicConfig) (*Provider, error) {
	if name == "" {
		name = Name
	}

	opts := DefaultOptions()
	if cfg.MaxTokens != 0 {
		if cfg.MaxTokens < 0 {
			return nil, fmt.Errorf("anthropic provider %q: max_tokens must be positive, got %d", name, cfg.MaxTokens)
		}
		opts.MaxTokens = cfg.MaxTokens
	}

	return &Provider{name: name, model: cfg.Model, opts: opts}, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) BuildRequest(prompt models.Prompt) (any, error) {
	return BuildRequest(prompt.WithDefaultModel(p.model), p.opts)
}

func (p *Provider) ExtractText(dec translator.Decoder, body []byte) (string, error) {
	var resp MessagesResponse
	if err := dec.Decode(body, &resp); err != nil {
		return "", err
	}
	return resp.Text()
}
