// Package firetrack is the client SDK for the extinguisher-tracking
// backend: it owns the authenticated session lifecycle and the QR
// scan-to-asset resolution flow, and exposes the asset, inspection, and
// replacement operations as thin calls over the REST API.
//
// The package is built for a single operator device: one durable session
// record, one expiry timer, one scan cycle at a time. All Client methods
// are safe for concurrent use after construction through [Builder.Build].
//
// # Architecture boundaries
//
// firetrack is the public surface. It exposes [Client], [Builder],
// [Config], the [ScanFlow] and [ReplacementFlow] state machines, and value
// types. The transport lives in the api package, durable storage in the
// store package; neither imports this package back.
//
// # What this package must NOT do
//
//   - Decrypt or otherwise interpret opaque QR payloads (server-side only).
//   - Verify token signatures; the client holds no keys.
//   - Retry failed calls on its own; every failure waits for operator
//     re-initiation.
package firetrack
