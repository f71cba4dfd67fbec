package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodflow/kitbook/pkg/domain/entities"
)

// Loader handles loading reservation data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadAssets loads equipment assets from a CSV file
func (l *Loader) LoadAssets(filename string) ([]*entities.Asset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open assets file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read assets CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("assets CSV must have header and at least one data row")
	}

	expectedHeader := []string{"id", "name", "total_quantity", "status", "location", "day_rate", "rate_currency"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("assets CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	var assets []*entities.Asset
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("assets CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		asset, err := parseAsset(record)
		if err != nil {
			return nil, fmt.Errorf("assets CSV row %d: %w", i+2, err)
		}

		assets = append(assets, &asset)
	}

	return assets, nil
}

// LoadReservations loads reservations from a CSV file
func (l *Loader) LoadReservations(filename string) ([]*entities.Reservation, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open reservations file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read reservations CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("reservations CSV must have header and at least one data row")
	}

	expectedHeader := []string{"id", "asset_id", "quantity", "start_date", "end_date", "status", "project_name", "booked_by"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("reservations CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	var reservations []*entities.Reservation
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("reservations CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		reservation, err := parseReservation(record)
		if err != nil {
			return nil, fmt.Errorf("reservations CSV row %d: %w", i+2, err)
		}

		reservations = append(reservations, &reservation)
	}

	return reservations, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseAsset(record []string) (entities.Asset, error) {
	id := entities.AssetID(record[0])
	if id == "" {
		return entities.Asset{}, fmt.Errorf("asset id cannot be empty")
	}

	totalQuantity, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return entities.Asset{}, fmt.Errorf("invalid total_quantity: %s", record[2])
	}
	if totalQuantity < 1 {
		return entities.Asset{}, fmt.Errorf("total_quantity must be at least 1, got %d", totalQuantity)
	}

	status := entities.AssetStatus(record[3])
	if status == "" {
		status = entities.AssetAvailable
	}

	dayRate := decimal.Zero
	if record[5] != "" {
		dayRate, err = decimal.NewFromString(record[5])
		if err != nil {
			return entities.Asset{}, fmt.Errorf("invalid day_rate: %s", record[5])
		}
	}

	return entities.Asset{
		ID:            id,
		Name:          record[1],
		TotalQuantity: entities.Quantity(totalQuantity),
		Status:        status,
		Location:      record[4],
		DayRate:       dayRate,
		RateCurrency:  record[6],
	}, nil
}

func parseReservation(record []string) (entities.Reservation, error) {
	id := entities.ReservationID(record[0])
	if id == "" {
		id = entities.NewReservationID()
	}

	assetID := entities.AssetID(record[1])
	if assetID == "" {
		return entities.Reservation{}, fmt.Errorf("asset_id cannot be empty")
	}

	quantity, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return entities.Reservation{}, fmt.Errorf("invalid quantity: %s", record[2])
	}

	start, err := entities.ParseDate(record[3])
	if err != nil {
		return entities.Reservation{}, fmt.Errorf("invalid start_date: %w", err)
	}

	end, err := entities.ParseDate(record[4])
	if err != nil {
		return entities.Reservation{}, fmt.Errorf("invalid end_date: %w", err)
	}

	period, err := entities.NewDateRange(start, end)
	if err != nil {
		return entities.Reservation{}, err
	}

	status := entities.Status(record[5])
	if status == "" {
		status = entities.StatusPending
	}
	if !status.Valid() {
		return entities.Reservation{}, fmt.Errorf("invalid status: %s", record[5])
	}

	now := time.Now()
	return entities.Reservation{
		ID:        id,
		AssetID:   assetID,
		Quantity:  entities.Quantity(quantity),
		Period:    period,
		Status:    status,
		Project:   entities.ProjectRef{Name: record[6]},
		BookedBy:  record[7],
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
