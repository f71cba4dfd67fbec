package gormdb

import (
	"testing"
	"time"

	"github.com/prodflow/kitbook/pkg/domain/entities"
)

func TestFromModel_DateColumnsKeepTheirCalendarDay(t *testing.T) {
	// Drivers may scan DATE columns as midnight in the session's zone rather
	// than UTC. The calendar day must survive either way.
	zones := []struct {
		name string
		loc  *time.Location
	}{
		{"utc", time.UTC},
		{"east of utc", time.FixedZone("UTC+10", 10*60*60)},
		{"west of utc", time.FixedZone("UTC-7", -7*60*60)},
	}

	for _, tt := range zones {
		t.Run(tt.name, func(t *testing.T) {
			model := reservationModel{
				ID:        "r1",
				AssetID:   "CAM_FX6",
				Quantity:  1,
				StartDate: time.Date(2024, 6, 10, 0, 0, 0, 0, tt.loc),
				EndDate:   time.Date(2024, 6, 14, 0, 0, 0, 0, tt.loc),
				Status:    string(entities.StatusPending),
			}

			reservation := fromModel(&model)
			if reservation.Period.Start != entities.NewDate(2024, time.June, 10) {
				t.Errorf("Start day shifted: got %s", reservation.Period.Start)
			}
			if reservation.Period.End != entities.NewDate(2024, time.June, 14) {
				t.Errorf("End day shifted: got %s", reservation.Period.End)
			}
		})
	}
}

func TestModelRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	period, err := entities.NewDateRange(
		entities.NewDate(2024, time.June, 10),
		entities.NewDate(2024, time.June, 14),
	)
	if err != nil {
		t.Fatalf("Failed to build range: %v", err)
	}
	original, err := entities.NewReservation("CAM_FX6", period, 2, now)
	if err != nil {
		t.Fatalf("Failed to build reservation: %v", err)
	}
	original.Project = entities.ProjectRef{ID: "p1", Name: "Spring Commercial"}
	original.BookedBy = "dana"

	restored := fromModel(toModel(original))
	if restored.ID != original.ID || restored.AssetID != original.AssetID {
		t.Errorf("Identity fields lost: %+v", restored)
	}
	if restored.Period != original.Period {
		t.Errorf("Expected period %s, got %s", original.Period, restored.Period)
	}
	if restored.Project != original.Project || restored.BookedBy != "dana" {
		t.Errorf("Booking fields lost: %+v", restored)
	}
	if restored.Status != entities.StatusPending {
		t.Errorf("Expected pending, got %s", restored.Status)
	}
}
