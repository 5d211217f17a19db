package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"promptbridge/internal/models"
	"promptbridge/internal/observability"
	"promptbridge/internal/provider"
	"promptbridge/internal/translator"
)

// Translation is a serialized provider request body.
type Translation struct {
	Provider string
	Body     []byte
}

// Extraction is the text read from a provider response.
type Extraction struct {
	Provider string
	Text     string
}

// Router dispatches conversions to the provider registered under a name or alias.
type Router struct {
	registry *provider.Registry
}

// New constructs a router backed by the provided registry.
func New(registry *provider.Registry) *Router {
	return &Router{
		registry: registry,
	}
}

// Providers lists the canonical names of the registered providers.
func (r *Router) Providers() []string {
	return r.registry.Names()
}

// BuildRequest converts the prompt into the JSON body expected by the named provider.
func (r *Router) BuildRequest(name string, prompt models.Prompt) (Translation, error) {
	p, err := r.registry.Lookup(name)
	if err != nil {
		return Translation{}, err
	}

	start := time.Now()
	body, err := buildBody(p, prompt)
	record(p.Name(), observability.DirectionRequest, start, err)
	if err != nil {
		return Translation{}, fmt.Errorf("provider %s build request: %w", p.Name(), err)
	}

	slog.Debug("built provider request", "provider", p.Name(), "messages", len(prompt.Messages), "bytes", len(body))
	return Translation{Provider: p.Name(), Body: body}, nil
}

// ExtractText decodes a response body of the named provider and returns its text.
func (r *Router) ExtractText(name string, body []byte, repair bool) (Extraction, error) {
	p, err := r.registry.Lookup(name)
	if err != nil {
		return Extraction{}, err
	}

	start := time.Now()
	text, err := p.ExtractText(translator.Decoder{Repair: repair}, body)
	record(p.Name(), observability.DirectionResponse, start, err)
	if err != nil {
		return Extraction{}, fmt.Errorf("provider %s extract text: %w", p.Name(), err)
	}

	slog.Debug("extracted provider response", "provider", p.Name(), "chars", len(text))
	return Extraction{Provider: p.Name(), Text: text}, nil
}

func buildBody(p provider.Provider, prompt models.Prompt) ([]byte, error) {
	req, err := p.BuildRequest(prompt)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return body, nil
}

func record(providerName, direction string, start time.Time, err error) {
	observability.TranslationDuration.WithLabelValues(providerName, direction).Observe(time.Since(start).Seconds())
	observability.TranslationsTotal.WithLabelValues(providerName, direction, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, translator.ErrMissingModel):
		return "config_error"
	case errors.Is(err, translator.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, translator.ErrDecode):
		return "decode_error"
	case errors.Is(err, provider.ErrUnsupportedOperation):
		return "unsupported"
	default:
		return "error"
	}
}
