package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load when no session record exists. Callers
// treat it as the anonymous state, not as a failure.
var ErrNotFound = errors.New("no session record")

// Store is the durable home of the single serialized session record. At
// most one record exists per store; Save overwrites, Delete is idempotent.
//
// ttl is advisory: stores with native expiry (Redis) honor it so a dead
// record cannot outlive its session, file- and memory-backed stores ignore
// it because the session manager re-validates expiry on every load anyway.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte, ttl time.Duration) error
	Delete(ctx context.Context) error
}
