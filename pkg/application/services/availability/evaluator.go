package availability

import (
	"context"
	"fmt"

	"github.com/prodflow/kitbook/pkg/application/dto"
	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/domain/repositories"
)

// Evaluator computes whether a candidate reservation fits within an asset's
// quantity pool. Pure with respect to state: it reads the registry and the
// reservation store and mutates nothing.
type Evaluator struct {
	assets       repositories.AssetRegistry
	reservations repositories.ReservationRepository
}

// New creates an availability evaluator over the given registry and store.
func New(assets repositories.AssetRegistry, reservations repositories.ReservationRepository) *Evaluator {
	return &Evaluator{
		assets:       assets,
		reservations: reservations,
	}
}

// CheckAvailability validates the request, fetches the asset and its active
// reservations, and evaluates the candidate window.
func (e *Evaluator) CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (*dto.AvailabilityResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	asset, err := e.assets.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %s: %w", req.AssetID, err)
	}

	active, err := e.reservations.ListActiveForAsset(ctx, req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for asset %s: %w", req.AssetID, err)
	}

	return Evaluate(asset.TotalQuantity, active, req), nil
}

// ValidateRequest checks the structural validity of an availability request.
func ValidateRequest(req dto.AvailabilityRequest) error {
	if req.AssetID == "" {
		return fmt.Errorf("%w: asset id cannot be empty", entities.ErrInvalidRequest)
	}
	if req.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", entities.ErrInvalidRequest, req.Quantity)
	}
	if req.Period.End.Before(req.Period.Start) {
		return fmt.Errorf("%w: end date %s before start date %s", entities.ErrInvalidRequest, req.Period.End, req.Period.Start)
	}
	return nil
}

// Evaluate computes the availability of a candidate window against the given
// active reservations. The peak concurrent demand is found by a day-by-day
// sweep across the window: per day, sum the quantities of active reservations
// covering that day, and take the maximum. The sweep is exact under partial
// overlaps, unlike summing every intersecting reservation, which over-rejects
// requests whose conflicts never co-occur on a single day.
func Evaluate(total entities.Quantity, active []*entities.Reservation, req dto.AvailabilityRequest) *dto.AvailabilityResult {
	var conflicts []*entities.Reservation
	for _, r := range active {
		if req.Exclude != "" && r.ID == req.Exclude {
			continue
		}
		if !r.Status.Active() {
			continue
		}
		if r.Period.Overlaps(req.Period) {
			conflicts = append(conflicts, r)
		}
	}

	peak := peakDemand(conflicts, req.Period)
	available := total - peak
	if available < 0 {
		// Out-of-band catalog edits can leave existing reservations above the
		// asset's new total. The evaluator only gates new requests.
		available = 0
	}

	return &dto.AvailabilityResult{
		IsAvailable:       available >= req.Quantity,
		AvailableQuantity: available,
		PeakDemand:        peak,
		Conflicts:         conflicts,
	}
}

// peakDemand sweeps each day of the window and returns the maximum committed
// quantity on any single day.
func peakDemand(reservations []*entities.Reservation, window entities.DateRange) entities.Quantity {
	var peak entities.Quantity
	for day := window.Start; !day.After(window.End); day = day.Next() {
		var committed entities.Quantity
		for _, r := range reservations {
			if r.Period.Contains(day) {
				committed += r.Quantity
			}
		}
		if committed > peak {
			peak = committed
		}
	}
	return peak
}
