package google

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"promptbridge/internal/config"
	"promptbridge/internal/models"
	"promptbridge/internal/translator"
)

func TestBuildRequestMergesIntoLastPart(t *testing.T) {
	req := BuildRequest(models.Prompt{
		Model: "x",
		Messages: []models.Message{
			{Role: "system", Content: "Be terse."},
			{Role: "user", Content: "Hi"},
			{Role: "user", Content: "There"},
			{Role: "assistant", Content: "Hello"},
		},
	}, DefaultOptions())

	want := []Content{
		{Role: "user", Parts: []Part{{Text: "Be terse.\n\nHi\n\nThere"}}},
		{Role: "assistant", Parts: []Part{{Text: "Hello"}}},
	}
	if !reflect.DeepEqual(req.Contents, want) {
		t.Errorf("Contents = %#v, want %#v", req.Contents, want)
	}
}

func TestBuildRequestSerialization(t *testing.T) {
	temp := 0.2
	maxOut := 256

	tests := []struct {
		name   string
		prompt models.Prompt
		opts   Options
		want   string
	}{
		{
			name:   "defaults omit optional fields and tools",
			prompt: models.Prompt{Messages: []models.Message{{Role: "user", Content: "hi"}}},
			opts:   DefaultOptions(),
			want:   `{"contents":[{"role":"user","parts":[{"text":"hi"}]}],"generation_config":{"response_mime_type":"text/plain"}}`,
		},
		{
			name:   "temperature and output tokens set",
			prompt: models.Prompt{Temperature: &temp},
			opts:   Options{MaxOutputTokens: &maxOut, ResponseMimeType: "application/json"},
			want:   `{"contents":[],"generation_config":{"temperature":0.2,"max_output_tokens":256,"response_mime_type":"application/json"}}`,
		},
		{
			name:   "search grounding tool",
			prompt: models.Prompt{},
			opts:   Options{GoogleSearch: true},
			want:   `{"contents":[],"generation_config":{"response_mime_type":"text/plain"},"tools":[{"google_search":{}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(BuildRequest(tt.prompt, tt.opts))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("body = %s\nwant   %s", data, tt.want)
			}
		})
	}
}

func TestBuildRequestWithoutModel(t *testing.T) {
	p, err := New("", config.GoogleConfig{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := p.BuildRequest(models.Prompt{Messages: []models.Message{{Role: "user", Content: "x"}}}); err != nil {
		t.Errorf("google requests carry no model and must not fail: %v", err)
	}
}

func TestGenerateContentResponseText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "single part",
			body: `{"candidates":[{"content":{"role":"model","parts":[{"text":"hello world"}]},"finishReason":"STOP"}]}`,
			want: "hello world",
		},
		{
			name: "parts and candidates flattened without separator",
			body: `{"candidates":[{"content":{"parts":[{"text":"hello"},{"text":" "}]}},{"content":{"parts":[{"text":"world"}]}}],"usageMetadata":{"totalTokenCount":4}}`,
			want: "hello world",
		},
		{
			name: "no candidates",
			body: `{"candidates":[]}`,
			want: "",
		},
		{
			name: "missing candidates",
			body: `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			want: "",
		},
		{
			name: "candidate without content",
			body: `{"candidates":[{"finishReason":"SAFETY"},{"content":{"parts":[]}}]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp GenerateContentResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, err := resp.Text()
			if err != nil {
				t.Fatalf("Text() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	p, err := New("gemini", config.GoogleConfig{ResponseMimeType: "text/markdown", MaxOutputTokens: 100, GoogleSearch: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if p.Name() != "gemini" {
		t.Errorf("Name() = %q", p.Name())
	}

	got, _ := p.BuildRequest(models.Prompt{})
	req := got.(GenerateContentRequest)
	if req.GenerationConfig.ResponseMimeType != "text/markdown" {
		t.Errorf("ResponseMimeType = %q", req.GenerationConfig.ResponseMimeType)
	}
	if req.GenerationConfig.MaxOutputTokens == nil || *req.GenerationConfig.MaxOutputTokens != 100 {
		t.Errorf("MaxOutputTokens = %v", req.GenerationConfig.MaxOutputTokens)
	}
	if len(req.Tools) != 1 {
		t.Errorf("Tools = %#v", req.Tools)
	}

	if _, err := New("", config.GoogleConfig{MaxOutputTokens: -5}); err == nil {
		t.Error("expected error for negative max_output_tokens")
	}
}

func TestProviderExtractText(t *testing.T) {
	p, _ := New(Name, config.GoogleConfig{})

	text, err := p.ExtractText(translator.Decoder{}, []byte(`{"candidates":[]}`))
	if err != nil || text != "" {
		t.Fatalf("ExtractText() = %q, %v", text, err)
	}

	_, err = p.ExtractText(translator.Decoder{}, []byte(`{"candidates":`))
	if !errors.Is(err, translator.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}
