// Package store persists the serialized session record. It knows nothing
// about session semantics: expiry validation, role normalization, and the
// decision to discard a record all live in the session manager. The file
// store is the default for a single-operator device; the Redis store serves
// shared-kiosk deployments where several handsets share one cache.
package store
