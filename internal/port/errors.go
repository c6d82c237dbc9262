package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrIndexUnavailable = errors.New("listing index unavailable")
	ErrIndexEmpty       = errors.New("listing index is empty")
	ErrListingNotFound  = errors.New("listing not found")
)
