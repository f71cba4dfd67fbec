package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates malformed input: bad date order or a
	// non-positive quantity. Always a caller bug, never worth retrying.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound indicates an operation on a nonexistent reservation.
	ErrNotFound = errors.New("reservation not found")

	// ErrAssetNotFound indicates the asset registry has no such asset.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidTransition indicates a state-machine violation, including an
	// optimistic precondition failure when the status moved underneath the
	// caller. The remedy is reload-and-retry, not changing the request.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ConflictError reports insufficient availability for a requested window.
// It is expected and routine: callers present AvailableQuantity and Conflicts
// to the user and let them adjust the request.
type ConflictError struct {
	AssetID           AssetID
	RequestedQuantity Quantity
	AvailableQuantity Quantity
	Conflicts         []*Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"asset %s: requested %d but only %d available (%d conflicting reservations)",
		e.AssetID, e.RequestedQuantity, e.AvailableQuantity, len(e.Conflicts),
	)
}

// IsConflict reports whether err is an availability conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
