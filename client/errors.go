package client

import (
	"errors"
)

// Failure taxonomy for controller operations. Remote failures wrap these
// sentinels with the server's error text, so callers branch with errors.Is
// and display err.Error() as-is.
var (
	// ErrValidation: bad input caught before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrAuth: no viewer session, or the server answered 401/403.
	ErrAuth = errors.New("not allowed")
	// ErrNotFound: the target item or parent no longer exists (404).
	ErrNotFound = errors.New("not found")
	// ErrRemote: any other transport or server failure, timeouts included.
	ErrRemote = errors.New("remote call failed")
	// ErrLikeInFlight: a like toggle for the same item has not resolved yet.
	ErrLikeInFlight = errors.New("like toggle already in flight")
)
