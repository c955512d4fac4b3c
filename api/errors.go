package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout marks a request that exceeded the configured deadline.
	ErrTimeout = errors.New("request deadline exceeded")
	// ErrTransport marks a network-level failure before any HTTP status
	// was received.
	ErrTransport = errors.New("transport failure")
	// ErrDecode marks a 2xx response whose body did not match the contract.
	ErrDecode = errors.New("undecodable response body")
	// ErrDuplicate is returned by AddAsset and RegisterAsset when the server
	// reports a conflicting entry for the same location.
	ErrDuplicate = errors.New("duplicate extinguisher entry")
	// ErrApprovalPending is returned by UpdateAsset when the mutation was
	// accepted but queued behind an approval workflow.
	ErrApprovalPending = errors.New("update pending approval")
)

// StatusError is any non-2xx response. Message carries the server's
// explanation when the body had one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// AsStatus unwraps err into a *StatusError when one is present.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
