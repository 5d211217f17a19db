package ollama

import (
	"fmt"

	"promptbridge/internal/config"
	"promptbridge/internal/models"
	"promptbridge/internal/provider"
	"promptbridge/internal/translator"
)

// Name is the canonical provider name.
const Name = "ollama"

// ChatResponse models the non-streaming /api/chat response body.
type ChatResponse struct {
	Model      string          `json:"model"`
	Message    *models.Message `json:"message"`
	Done       bool            `json:"done"`
	DoneReason string          `json:"done_reason,omitempty"`
}

// Text returns the content of the response message.
func (r ChatResponse) Text() (string, error) {
	if r.Message == nil {
		return "", translator.EmptyResponse(Name, "message")
	}
	return r.Message.Content, nil
}

// Provider implements provider.Provider for a local Ollama server.
// Only response extraction is supported.
type Provider struct {
	name string
}

// New constructs an Ollama provider instance.
func New(name string, _ config.ProviderConfig) (*Provider, error) {
	if name == "" {
		name = Name
	}
	return &Provider{name: name}, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) BuildRequest(models.Prompt) (any, error) {
	return nil, fmt.Errorf("provider %s does not build requests: %w", p.name, provider.ErrUnsupportedOperation)
}

func (p *Provider) ExtractText(dec translator.Decoder, body []byte) (string, error) {
	var resp ChatResponse
	if err := dec.Decode(body, &resp); err != nil {
		return "", err
	}
	return resp.Text()
}
