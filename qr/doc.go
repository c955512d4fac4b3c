// Package qr classifies raw barcode payloads into the shapes the resolution
// flow understands. It performs no cryptography and no I/O; encrypted
// payloads stay opaque and are resolved server-side.
package qr
