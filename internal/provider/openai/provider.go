package openai

import (
	"promptbridge/internal/config"
	"promptbridge/internal/models"
	"promptbridge/internal/translator"
)

// Name is the canonical provider name.
const Name = "openai"

// ChatRequest models the chat/completions request body. Messages are passed
// through unchanged; absent optional fields are omitted from the JSON.
type ChatRequest struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature *float64         `json:"temperature,omitempty"`
	Stream      *bool            `json:"stream,omitempty"`
}

// BuildRequest converts a prompt into a chat/completions body.
func BuildRequest(prompt models.Prompt) (ChatRequest, error) {
	if !prompt.HasModel() {
		return ChatRequest{}, translator.MissingModel(Name)
	}

	p := prompt.Clone()
	return ChatRequest{
		Model:       p.Model,
		Messages:    p.Messages,
		Temperature: p.Temperature,
		Stream:      p.Stream,
	}, nil
}

// ChatResponse models the chat/completions response body.
type ChatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *usageBlock  `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int            `json:"index"`
	Message      models.Message `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type usageBlock struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Text returns the content of the first choice.
func (r ChatResponse) Text() (string, error) {
	if len(r.Choices) == 0 {
		return "", translator.EmptyResponse(Name, "choices")
	}
	return r.Choices[0].Message.Content, nil
}

// Provider implements provider.Provider for OpenAI style APIs.
type Provider struct {
	name  string
	model string
}

// New constructs an OpenAI provider instance.
func New(name string, cfg config.ProviderConfig) (*Provider, error) {
	if name == "" {
		name = Name
	}
	return &Provider{name: name, model: cfg.Model}, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) BuildRequest(prompt models.Prompt) (any, error) {
	return BuildRequest(prompt.WithDefaultModel(p.model))
}

func (p *Provider) ExtractText(dec translator.Decoder, body []byte) (string, error) {
	var resp ChatResponse
	if err := dec.Decode(body, &resp); err != nil {
		return "", err
	}
	return resp.Text()
}
