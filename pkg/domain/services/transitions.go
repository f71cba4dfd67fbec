package services

import (
	"fmt"

	"github.com/prodflow/kitbook/pkg/domain/entities"
)

// transitions is the closed state machine for reservation lifecycles.
// Returned and cancelled are terminal: they have no outgoing edges.
var transitions = map[entities.Status][]entities.Status{
	entities.StatusPending:    {entities.StatusConfirmed, entities.StatusCancelled},
	entities.StatusConfirmed:  {entities.StatusCheckedOut, entities.StatusCancelled},
	entities.StatusCheckedOut: {entities.StatusReturned, entities.StatusCancelled},
	entities.StatusReturned:   {},
	entities.StatusCancelled:  {},
}

// CanTransition reports whether the state machine permits moving a
// reservation from one status to another.
func CanTransition(from, to entities.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the given status.
func AllowedTransitions(from entities.Status) []entities.Status {
	targets := transitions[from]
	out := make([]entities.Status, len(targets))
	copy(out, targets)
	return out
}

// ValidateTransition returns ErrInvalidTransition when the state machine
// forbids the move. The error names both statuses for diagnostics.
func ValidateTransition(from, to entities.Status) error {
	if !from.Valid() {
		return fmt.Errorf("%w: unknown status %q", entities.ErrInvalidTransition, from)
	}
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", entities.ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", entities.ErrInvalidTransition, from, to)
	}
	return nil
}
