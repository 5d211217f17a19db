package translator

import (
	"errors"
	"testing"
)

type sample struct {
	Text string `json:"text"`
}

func TestDecoderIgnoresUnknownFields(t *testing.T) {
	var got sample
	if err := (Decoder{}).Decode([]byte(`{"text":"hi","extra":{"nested":[1,2]}}`), &got); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Text != "hi" {
		t.Errorf("Text = %q, want hi", got.Text)
	}
}

func TestDecoderStrictRejectsMalformed(t *testing.T) {
	var got sample
	err := (Decoder{}).Decode([]byte(`{"text":"hi",}`), &got)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDecoderRepairsMalformed(t *testing.T) {
	var got sample
	if err := (Decoder{Repair: true}).Decode([]byte(`{"text":"hi",}`), &got); err != nil {
		t.Fatalf("Decode() with repair error: %v", err)
	}
	if got.Text != "hi" {
		t.Errorf("Text = %q, want hi", got.Text)
	}
}
