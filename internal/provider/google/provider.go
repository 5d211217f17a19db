package google

import (
	"fmt"
	"strings"

	"promptbridge/internal/config"
	"promptbridge/internal/models"
	"promptbridge/internal/translator"
)

const (
	// Name is the canonical provider name.
	Name = "google"

	// DefaultResponseMimeType is requested unless overridden.
	DefaultResponseMimeType = "text/plain"
)

// Options carries the generation settings the prompt does not supply.
type Options struct {
	ResponseMimeType string
	MaxOutputTokens  *int
	GoogleSearch     bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{ResponseMimeType: DefaultResponseMimeType}
}

// GenerateContentRequest models the generateContent request body.
// The model is part of the endpoint path, not the body.
type GenerateContentRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generation_config"`
	Tools            []Tool           `json:"tools,omitempty"`
}

// Content is one conversational turn.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is a text fragment of a turn.
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig holds sampling and output settings.
type GenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  *int     `json:"max_output_tokens,omitempty"`
	ResponseMimeType string   `json:"response_mime_type"`
}

// Tool enables a built-in grounding tool.
type Tool struct {
	GoogleSearch GoogleSearch `json:"google_search"`
}

// GoogleSearch is the search grounding tool; it takes no settings.
type GoogleSearch struct{}

var contentShape = translator.MessageShape[Content]{
	Role: func(c Content) string { return c.Role },
	New: func(role, text string) Content {
		return Content{Role: role, Parts: []Part{{Text: text}}}
	},
	Append: func(c *Content, text string) {
		c.Parts[len(c.Parts)-1].Text += text
	},
}

// BuildRequest converts a prompt into a generateContent body. System turns
// become user turns and consecutive same-role turns are merged into the
// text of the previous turn's last part.
func BuildRequest(prompt models.Prompt, opts Options) GenerateContentRequest {
	p := prompt.Clone()

	mime := strings.TrimSpace(opts.ResponseMimeType)
	if mime == "" {
		mime = DefaultResponseMimeType
	}

	var maxOutput *int
	if opts.MaxOutputTokens != nil {
		v := *opts.MaxOutputTokens
		maxOutput = &v
	}

	req := GenerateContentRequest{
		Contents: translator.MergeAdjacent(p.Messages, contentShape),
		GenerationConfig: GenerationConfig{
			Temperature:      p.Temperature,
			MaxOutputTokens:  maxOutput,
			ResponseMimeType: mime,
		},
	}
	if opts.GoogleSearch {
		req.Tools = []Tool{{}}
	}
	return req
}

// GenerateContentResponse models the generateContent response body.
type GenerateContentResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

type candidate struct {
	Content      *candidateContent `json:"content,omitempty"`
	FinishReason string            `json:"finishReason,omitempty"`
}

type candidateContent struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Text concatenates the text of every part of every candidate in order.
// A response without candidates or parts yields the empty string.
func (r GenerateContentResponse) Text() (string, error) {
	var b strings.Builder
	for _, c := range r.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

// Provider implements provider.Provider for the Gemini generateContent API.
type Provider struct {
	name string
	opts Options
}

// New constructs a Google provider instance.
func New(name string, cfg config.GoogleConfig) (*Provider, error) {
	if name == "" {
		name = Name
	}

	opts := DefaultOptions()
	if mime := strings.TrimSpace(cfg.ResponseMimeType); mime != "" {
		opts.ResponseMimeType = mime
	}
	if cfg.MaxOutputTokens < 0 {
		return nil, fmt.Errorf("google provider %q: max_output_tokens must not be negative, got %d", name, cfg.MaxOutputTokens)
	}
	if cfg.MaxOutputTokens > 0 {
		v := cfg.MaxOutputTokens
		opts.MaxOutputTokens = &v
	}
	opts.GoogleSearch = cfg.GoogleSearch

	return &Provider{name: name, opts: opts}, nil
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) BuildRequest(prompt models.Prompt) (any, error) {
	return BuildRequest(prompt, p.opts), nil
}

func (p *Provider) ExtractText(dec translator.Decoder, body []byte) (string, error) {
	var resp GenerateContentResponse
	if err := dec.Decode(body, &resp); err != nil {
		return "", err
	}
	return resp.Text()
}
