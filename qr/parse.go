package qr

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

// Kind discriminates the two payload shapes printed on extinguisher labels.
type Kind uint8

const (
	// KindAssetID is the legacy shape: a JSON object carrying the asset id.
	KindAssetID Kind = iota
	// KindOpaque is an encrypted blob, optionally wrapped in a URL. Only the
	// server can interpret it.
	KindOpaque
)

// Payload is the result of parsing a raw scanned string.
type Payload struct {
	Kind    Kind
	AssetID int64
	// Opaque holds the ciphertext for KindOpaque payloads. For URL-shaped
	// codes this is the final path segment.
	Opaque string
}

// ErrUnrecognized is returned when a scanned string matches neither
// supported payload shape.
var ErrUnrecognized = errors.New("unrecognized barcode payload")

type idEnvelope struct {
	ID int64 `json:"id"`
}

// Parse classifies a raw scanned string. It never contacts the server and
// never attempts to decrypt anything: opaque payloads are passed through for
// server-side resolution.
func Parse(raw string) (Payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Payload{}, ErrUnrecognized
	}

	if strings.HasPrefix(trimmed, "{") {
		var env idEnvelope
		if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
			return Payload{}, ErrUnrecognized
		}
		if env.ID <= 0 {
			return Payload{}, ErrUnrecognized
		}
		return Payload{Kind: KindAssetID, AssetID: env.ID}, nil
	}

	// URL-shaped codes embed the ciphertext as the final path segment.
	opaque := trimmed
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		opaque = trimmed[idx+1:]
	}
	if opaque == "" || !printable(opaque) {
		return Payload{}, ErrUnrecognized
	}
	return Payload{Kind: KindOpaque, Opaque: opaque}, nil
}

func printable(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == unicode.ReplacementChar {
			return false
		}
	}
	return true
}
