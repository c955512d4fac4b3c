package qr

import (
	"errors"
	"testing"
)

func TestParseJSONIDPayload(t *testing.T) {
	p, err := Parse(`{"id": 42}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Kind != KindAssetID {
		t.Fatalf("expected KindAssetID, got %v", p.Kind)
	}
	if p.AssetID != 42 {
		t.Fatalf("expected asset id 42, got %d", p.AssetID)
	}
}

func TestParseJSONExtraFieldsStillResolvesID(t *testing.T) {
	p, err := Parse(`{"id": 7, "location": "Block A", "floor": "2"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.AssetID != 7 {
		t.Fatalf("expected asset id 7, got %d", p.AssetID)
	}
}

func TestParseURLPayloadTakesFinalSegment(t *testing.T) {
	p, err := Parse("https://devfire.example.com/e/aGVsbG8td29ybGQ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Kind != KindOpaque {
		t.Fatalf("expected KindOpaque, got %v", p.Kind)
	}
	if p.Opaque != "aGVsbG8td29ybGQ" {
		t.Fatalf("unexpected opaque segment %q", p.Opaque)
	}
}

func TestParseBareOpaqueString(t *testing.T) {
	p, err := Parse("U2FsdGVkX19abc123")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Kind != KindOpaque || p.Opaque != "U2FsdGVkX19abc123" {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestParseRejections(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"whitespace":       "   \t",
		"malformed json":   `{"id": `,
		"json without id":  `{"serial": "FX-100"}`,
		"json zero id":     `{"id": 0}`,
		"json negative id": `{"id": -3}`,
		"trailing slash":   "https://devfire.example.com/e/",
		"embedded space":   "not a payload",
	}
	for name, raw := range cases {
		if _, err := Parse(raw); !errors.Is(err, ErrUnrecognized) {
			t.Errorf("%s: expected ErrUnrecognized, got %v", name, err)
		}
	}
}
