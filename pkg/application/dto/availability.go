package dto

import (
	"github.com/prodflow/kitbook/pkg/domain/entities"
)

// AvailabilityRequest describes a candidate booking window to evaluate.
type AvailabilityRequest struct {
	AssetID  entities.AssetID
	Period   entities.DateRange
	Quantity entities.Quantity

	// Exclude names a reservation to leave out of the evaluation, used when
	// re-validating an edit to an existing reservation against itself.
	Exclude entities.ReservationID
}

// AvailabilityResult is the outcome of evaluating a candidate window.
type AvailabilityResult struct {
	IsAvailable bool

	// AvailableQuantity is the asset's total quantity minus the peak
	// concurrent demand across the candidate window.
	AvailableQuantity entities.Quantity

	// PeakDemand is the maximum committed quantity on any single day of the
	// candidate window, from active reservations only.
	PeakDemand entities.Quantity

	// Conflicts lists the active reservations intersecting the candidate
	// window. Diagnostic only; not sorted.
	Conflicts []*entities.Reservation
}
