package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prodflow/kitbook/pkg/application/dto"
	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/infrastructure/repositories/memory"
)

func reservation(id entities.ReservationID, assetID entities.AssetID, start, end entities.Date, qty entities.Quantity, status entities.Status) *entities.Reservation {
	return &entities.Reservation{
		ID:       id,
		AssetID:  assetID,
		Quantity: qty,
		Period:   entities.DateRange{Start: start, End: end},
		Status:   status,
	}
}

func day(d int) entities.Date {
	return entities.NewDate(2024, time.June, d)
}

func request(start, end entities.Date, qty entities.Quantity) dto.AvailabilityRequest {
	return dto.AvailabilityRequest{
		AssetID:  "CAM_FX6",
		Period:   entities.DateRange{Start: start, End: end},
		Quantity: qty,
	}
}

func TestEvaluate_EmptyBookIsFullyAvailable(t *testing.T) {
	result := Evaluate(2, nil, request(day(1), day(5), 2))

	if !result.IsAvailable {
		t.Error("Empty book should be available")
	}
	if result.AvailableQuantity != 2 {
		t.Errorf("Expected available quantity 2, got %d", result.AvailableQuantity)
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("Expected no conflicts, got %d", len(result.Conflicts))
	}
}

func TestEvaluate_FullBookRejectsOverlap(t *testing.T) {
	// Asset pool of 2; R1 holds both units 06-01..06-03. One more unit on
	// 06-02 cannot fit.
	active := []*entities.Reservation{
		reservation("R1", "CAM_FX6", day(1), day(3), 2, entities.StatusConfirmed),
	}

	result := Evaluate(2, active, request(day(2), day(2), 1))

	if result.IsAvailable {
		t.Error("Expected unavailable")
	}
	if result.AvailableQuantity != 0 {
		t.Errorf("Expected available quantity 0, got %d", result.AvailableQuantity)
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].ID != "R1" {
		t.Errorf("Expected R1 as the conflict, got %v", result.Conflicts)
	}
}

func TestEvaluate_BoundaryDayOverlapCountsExactly(t *testing.T) {
	// Pool of 2; R1 holds 1 unit 06-01..06-03. Candidate wants 1 unit
	// 06-03..06-05. Day-by-day committed quantity from existing
	// reservations across the candidate window:
	//
	//   06-03: R1 -> 1
	//   06-04: -  -> 0
	//   06-05: -  -> 0
	//
	// Peak existing demand is 1, so 2-1=1 unit is free on every day of the
	// window and the request fits. On 06-03 the asset then runs at exactly
	// full capacity (1+1=2).
	active := []*entities.Reservation{
		reservation("R1", "CAM_FX6", day(1), day(3), 1, entities.StatusConfirmed),
	}

	result := Evaluate(2, active, request(day(3), day(5), 1))

	if !result.IsAvailable {
		t.Error("Expected available: peak existing demand in the window is 1 of 2")
	}
	if result.AvailableQuantity != 1 {
		t.Errorf("Expected available quantity 1, got %d", result.AvailableQuantity)
	}
	if result.PeakDemand != 1 {
		t.Errorf("Expected peak demand 1, got %d", result.PeakDemand)
	}
	if len(result.Conflicts) != 1 {
		t.Errorf("Expected R1 reported as intersecting, got %d conflicts", len(result.Conflicts))
	}

	// A second unit on top of that window does not fit: 06-03 would run at 3.
	result = Evaluate(2, active, request(day(3), day(5), 2))
	if result.IsAvailable {
		t.Error("Expected unavailable for quantity 2: only 1 unit free on 06-03")
	}
}

func TestEvaluate_PartialOverlapsUseDailyPeakNotSum(t *testing.T) {
	// Pool of 2. R1 holds 1 unit 06-01..06-02, R2 holds 1 unit 06-04..06-05.
	// Both intersect the candidate window 06-01..06-05 but never co-occur on
	// a single day, so the daily peak is 1, not the intersect-sum of 2.
	active := []*entities.Reservation{
		reservation("R1", "CAM_FX6", day(1), day(2), 1, entities.StatusPending),
		reservation("R2", "CAM_FX6", day(4), day(5), 1, entities.StatusConfirmed),
	}

	result := Evaluate(2, active, request(day(1), day(5), 1))

	if !result.IsAvailable {
		t.Error("Expected available: the two holds never overlap each other")
	}
	if result.PeakDemand != 1 {
		t.Errorf("Expected peak demand 1, got %d", result.PeakDemand)
	}
	if result.AvailableQuantity != 1 {
		t.Errorf("Expected available quantity 1, got %d", result.AvailableQuantity)
	}
	if len(result.Conflicts) != 2 {
		t.Errorf("Expected both holds reported as intersecting, got %d", len(result.Conflicts))
	}
}

func TestEvaluate_ExactRemainingCapacityIsInclusive(t *testing.T) {
	active := []*entities.Reservation{
		reservation("R1", "CAM_FX6", day(1), day(5), 3, entities.StatusConfirmed),
	}

	// Pool of 5, 3 held: exactly 2 remaining.
	result := Evaluate(5, active, request(day(2), day(4), 2))
	if !result.IsAvailable {
		t.Error("Requesting exactly the remaining capacity should succeed")
	}

	// One more than remaining fails.
	result = Evaluate(5, active, request(day(2), day(4), 3))
	if result.IsAvailable {
		t.Error("Requesting one more than remaining capacity should fail")
	}
}

func TestEvaluate_TerminalStatusesDoNotCount(t *testing.T) {
	active := []*entities.Reservation{
		reservation("R1", "CAM_FX6", day(1), day(5), 2, entities.StatusReturned),
		reservation("R2", "CAM_FX6", day(1), day(5), 2, entities.StatusCancelled),
	}

	result := Evaluate(2, active, request(day(1), day(5), 2))
	if !result.IsAvailable {
		t.Error("Returned and cancelled reservations must not count against capacity")
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("Terminal reservations should not be reported as conflicts, got %d", len(result.Conflicts))
	}
}

func TestEvaluate_ExcludeSkipsOwnReservation(t *testing.T) {
	active := []*entities.Reservation{
		reservation("R1", "CAM_FX6", day(1), day(5), 1, entities.StatusConfirmed),
	}

	// Re-validating R1's own window against itself must not self-conflict.
	req := request(day(1), day(5), 1)
	req.Exclude = "R1"
	result := Evaluate(1, active, req)

	if !result.IsAvailable {
		t.Error("A reservation must not conflict with itself when excluded")
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("Expected no conflicts, got %d", len(result.Conflicts))
	}
}

func TestEvaluate_OverCommittedAssetClampsToZero(t *testing.T) {
	// Out-of-band catalog edits can drop the pool below the committed
	// quantity. The evaluator just gates new requests.
	active := []*entities.Reservation{
		reservation("R1", "CAM_FX6", day(1), day(5), 3, entities.StatusCheckedOut),
	}

	result := Evaluate(2, active, request(day(1), day(5), 1))
	if result.IsAvailable {
		t.Error("Expected unavailable")
	}
	if result.AvailableQuantity != 0 {
		t.Errorf("Expected available quantity clamped to 0, got %d", result.AvailableQuantity)
	}
}

func TestCheckAvailability_ValidatesRequest(t *testing.T) {
	registry := memory.NewAssetRegistry()
	asset, err := entities.NewAsset("CAM_FX6", "Sony FX6", 2)
	if err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}
	registry.AddAsset(asset)
	evaluator := New(registry, memory.NewReservationRepository())

	tests := []struct {
		name string
		req  dto.AvailabilityRequest
	}{
		{
			name: "zero_quantity",
			req:  request(day(1), day(5), 0),
		},
		{
			name: "reversed_dates",
			req:  request(day(5), day(1), 1),
		},
		{
			name: "empty_asset_id",
			req: dto.AvailabilityRequest{
				Period:   entities.DateRange{Start: day(1), End: day(5)},
				Quantity: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluator.CheckAvailability(context.Background(), tt.req)
			if !errors.Is(err, entities.ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestCheckAvailability_UnknownAsset(t *testing.T) {
	evaluator := New(memory.NewAssetRegistry(), memory.NewReservationRepository())

	_, err := evaluator.CheckAvailability(context.Background(), request(day(1), day(5), 1))
	if !errors.Is(err, entities.ErrAssetNotFound) {
		t.Errorf("Expected ErrAssetNotFound, got %v", err)
	}
}
