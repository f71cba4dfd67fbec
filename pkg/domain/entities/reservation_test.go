package entities

import (
	"errors"
	"testing"
	"time"
)

func TestNewReservation(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	period := DateRange{Start: NewDate(2024, time.June, 1), End: NewDate(2024, time.June, 3)}

	tests := []struct {
		name     string
		assetID  AssetID
		period   DateRange
		quantity Quantity
		wantErr  bool
	}{
		{
			name:     "valid",
			assetID:  "CAM_FX6",
			period:   period,
			quantity: 1,
		},
		{
			name:     "empty_asset_id",
			assetID:  "",
			period:   period,
			quantity: 1,
			wantErr:  true,
		},
		{
			name:     "zero_quantity",
			assetID:  "CAM_FX6",
			period:   period,
			quantity: 0,
			wantErr:  true,
		},
		{
			name:     "negative_quantity",
			assetID:  "CAM_FX6",
			period:   period,
			quantity: -2,
			wantErr:  true,
		},
		{
			name:     "reversed_dates",
			assetID:  "CAM_FX6",
			period:   DateRange{Start: NewDate(2024, time.June, 3), End: NewDate(2024, time.June, 1)},
			quantity: 1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReservation(tt.assetID, tt.period, tt.quantity, now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("Expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if r.ID == "" {
				t.Error("Expected generated id")
			}
			if r.Status != StatusPending {
				t.Errorf("Expected pending status, got %s", r.Status)
			}
			if !r.CreatedAt.Equal(now) {
				t.Errorf("Expected createdAt %v, got %v", now, r.CreatedAt)
			}
		})
	}
}

func TestStatus_Sets(t *testing.T) {
	tests := []struct {
		status   Status
		active   bool
		terminal bool
	}{
		{StatusPending, true, false},
		{StatusConfirmed, true, false},
		{StatusCheckedOut, true, false},
		{StatusReturned, false, true},
		{StatusCancelled, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if !tt.status.Valid() {
				t.Errorf("%s should be valid", tt.status)
			}
			if got := tt.status.Active(); got != tt.active {
				t.Errorf("%s.Active() = %v, expected %v", tt.status, got, tt.active)
			}
			if got := tt.status.Terminal(); got != tt.terminal {
				t.Errorf("%s.Terminal() = %v, expected %v", tt.status, got, tt.terminal)
			}
		})
	}

	if Status("shipped").Valid() {
		t.Error("Unknown status should not be valid")
	}
}

func TestReservation_Overdue(t *testing.T) {
	r := &Reservation{
		Status: StatusCheckedOut,
		Period: DateRange{Start: NewDate(2024, time.June, 1), End: NewDate(2024, time.June, 3)},
	}

	if r.Overdue(NewDate(2024, time.June, 3)) {
		t.Error("Not overdue on the end date itself")
	}
	if !r.Overdue(NewDate(2024, time.June, 4)) {
		t.Error("Overdue the day after the end date")
	}

	r.Status = StatusConfirmed
	if r.Overdue(NewDate(2024, time.June, 10)) {
		t.Error("Only checked_out reservations can be overdue")
	}
}

func TestReservation_CloneIsDeep(t *testing.T) {
	checkedOut := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	r := &Reservation{
		ID:           "r1",
		Status:       StatusCheckedOut,
		CheckedOutAt: &checkedOut,
	}

	c := r.Clone()
	*c.CheckedOutAt = c.CheckedOutAt.Add(time.Hour)

	if !r.CheckedOutAt.Equal(checkedOut) {
		t.Error("Mutating the clone's timestamp changed the original")
	}
}
