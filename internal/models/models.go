package models

import "strings"

// Message is a single conversational turn in the unified prompt schema.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Prompt is the provider independent representation of a conversation plus
// its generation parameters.
type Prompt struct {
	Model       string    `json:"model,omitempty" yaml:"model"`
	Messages    []Message `json:"messages" yaml:"messages"`
	Temperature *float64  `json:"temperature,omitempty" yaml:"temperature"`
	Stream      *bool     `json:"stream,omitempty" yaml:"stream"`
}

// HasModel reports whether a model identifier is set.
func (p Prompt) HasModel() bool {
	return strings.TrimSpace(p.Model) != ""
}

// CloneMessages returns a copy of the message list that never aliases the
// prompt's backing array. A nil list yields an empty, non-nil slice.
func (p Prompt) CloneMessages() []Message {
	out := make([]Message, len(p.Messages))
	copy(out, p.Messages)
	return out
}

// Clone returns a deep copy of the prompt.
func (p Prompt) Clone() Prompt {
	out := p
	out.Model = strings.TrimSpace(p.Model)
	out.Messages = p.CloneMessages()
	if p.Temperature != nil {
		t := *p.Temperature
		out.Temperature = &t
	}
	if p.Stream != nil {
		s := *p.Stream
		out.Stream = &s
	}
	return out
}

// WithDefaultModel returns a copy of the prompt whose model falls back to
// model when the prompt does not name one.
func (p Prompt) WithDefaultModel(model string) Prompt {
	out := p
	if !p.HasModel() {
		out.Model = strings.TrimSpace(model)
	}
	return out
}
