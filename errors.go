package firetrack

import "errors"

var (
	// ErrMissingCredentials is returned by Login before any network call
	// when the username or password is empty.
	ErrMissingCredentials = errors.New("username and password required")
	// ErrLoginRejected means the server denied the credentials. The wrapped
	// message carries the server's explanation when it sent one.
	ErrLoginRejected = errors.New("login rejected")
	// ErrMalformedResponse means the server answered but violated the
	// contract (missing token, user, or session window). Not retriable.
	ErrMalformedResponse = errors.New("invalid response from server")
	// ErrNetwork is a transport failure before any server verdict.
	ErrNetwork = errors.New("network failure")
	// ErrTimeout is a request that exceeded the configured deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrNoSession gates authenticated operations in the anonymous state.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidPayload means the scanned string matched neither supported
	// payload shape; no resolution request was dispatched for it.
	ErrInvalidPayload = errors.New("invalid QR code")
	// ErrResolutionFailed means the server rejected or could not service
	// the decrypt/fetch for a well-formed payload.
	ErrResolutionFailed = errors.New("failed to resolve scanned code")
	// ErrDuplicateSubject is the replacement-flow rule: the replacement
	// unit cannot be the unit being replaced.
	ErrDuplicateSubject = errors.New("replacement cannot equal original")
	// ErrReplacementIncomplete is returned by Submit before both units
	// have been scanned.
	ErrReplacementIncomplete = errors.New("both extinguishers must be scanned")
	// ErrIncompleteForm is returned when a condition block or the notes
	// field is missing before submission.
	ErrIncompleteForm = errors.New("all condition fields and notes are required")

	// ErrDuplicateAsset mirrors the server's conflict verdict when
	// registering a unit at an occupied location.
	ErrDuplicateAsset = errors.New("duplicate extinguisher entry")
	// ErrApprovalPending means the mutation was accepted but queued behind
	// an approval workflow rather than applied.
	ErrApprovalPending = errors.New("update pending approval")
)
