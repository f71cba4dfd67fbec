package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prodflow/kitbook/pkg/application/dto"
	"github.com/prodflow/kitbook/pkg/domain/entities"
)

// Renderer writes query results to stdout in the configured format.
type Renderer struct {
	Format string
}

// RenderAvailability prints the outcome of an availability check.
func (r Renderer) RenderAvailability(req dto.AvailabilityRequest, result *dto.AvailabilityResult) error {
	if r.Format == "json" {
		return writeJSON(map[string]interface{}{
			"asset_id":           req.AssetID,
			"period":             req.Period.String(),
			"requested_quantity": req.Quantity,
			"is_available":       result.IsAvailable,
			"available_quantity": result.AvailableQuantity,
			"peak_demand":        result.PeakDemand,
			"conflicts":          conflictSummaries(result.Conflicts),
		})
	}

	fmt.Printf("Availability for %s, %s, quantity %d\n", req.AssetID, req.Period, req.Quantity)
	fmt.Println("==================================================")
	if result.IsAvailable {
		fmt.Printf("AVAILABLE (%d of pool free at peak, peak demand %d)\n", result.AvailableQuantity, result.PeakDemand)
	} else {
		fmt.Printf("NOT AVAILABLE (only %d free at peak, peak demand %d)\n", result.AvailableQuantity, result.PeakDemand)
	}
	if len(result.Conflicts) > 0 {
		fmt.Printf("\nConflicting reservations:\n")
		renderReservationTable(result.Conflicts)
	}
	return nil
}

// RenderReservations prints a titled reservation listing.
func (r Renderer) RenderReservations(title string, reservations []*entities.Reservation) error {
	if r.Format == "json" {
		return writeJSON(map[string]interface{}{
			"title":        title,
			"count":        len(reservations),
			"reservations": conflictSummaries(reservations),
		})
	}

	fmt.Println(title)
	fmt.Println("==================================================")
	if len(reservations) == 0 {
		fmt.Println("(none)")
		return nil
	}
	renderReservationTable(reservations)
	return nil
}

// RenderStats prints the booking summary.
func (r Renderer) RenderStats(stats *dto.BookingStats) error {
	if r.Format == "json" {
		return writeJSON(stats)
	}

	fmt.Println("Reservation Book Summary")
	fmt.Println("==================================================")
	fmt.Printf("Total:               %d\n", stats.Total)
	fmt.Printf("Active:              %d\n", stats.Active)
	fmt.Printf("Pending approval:    %d\n", stats.Pending)
	fmt.Printf("Checked out:         %d\n", stats.CheckedOut)
	fmt.Printf("Overdue:             %d\n", stats.Overdue)
	fmt.Printf("Starting in 7 days:  %d\n", stats.StartingIn7Days)
	return nil
}

func renderReservationTable(reservations []*entities.Reservation) {
	fmt.Printf("%-38s %-14s %-5s %-12s %-12s %-12s %-20s\n",
		"ID", "Asset", "Qty", "Start", "End", "Status", "Project")
	for _, res := range reservations {
		fmt.Printf("%-38s %-14s %-5d %-12s %-12s %-12s %-20s\n",
			res.ID,
			res.AssetID,
			res.Quantity,
			res.Period.Start,
			res.Period.End,
			res.Status,
			res.Project.Name,
		)
	}
}

type reservationSummary struct {
	ID       entities.ReservationID `json:"id"`
	AssetID  entities.AssetID       `json:"asset_id"`
	Quantity entities.Quantity      `json:"quantity"`
	Start    string                 `json:"start_date"`
	End      string                 `json:"end_date"`
	Status   entities.Status        `json:"status"`
	Project  string                 `json:"project,omitempty"`
}

func conflictSummaries(reservations []*entities.Reservation) []reservationSummary {
	summaries := make([]reservationSummary, 0, len(reservations))
	for _, res := range reservations {
		summaries = append(summaries, reservationSummary{
			ID:       res.ID,
			AssetID:  res.AssetID,
			Quantity: res.Quantity,
			Start:    res.Period.Start.String(),
			End:      res.Period.End.String(),
			Status:   res.Status,
			Project:  res.Project.Name,
		})
	}
	return summaries
}

func writeJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
