package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetID represents a unique equipment asset identifier
type AssetID string

// Quantity represents an integer count of interchangeable physical units
type Quantity int64

// AssetStatus is the asset's operational status. It is informational only:
// the reservation engine never gates on it. An asset in maintenance can still
// carry active future reservations.
type AssetStatus string

const (
	AssetAvailable     AssetStatus = "available"
	AssetOnJob         AssetStatus = "on_job"
	AssetInMaintenance AssetStatus = "in_maintenance"
	AssetRetired       AssetStatus = "retired"
)

// Asset represents a piece of equipment owned in finite quantity. The engine
// reads assets from the registry; it never mutates them.
type Asset struct {
	ID            AssetID
	Name          string
	TotalQuantity Quantity
	Status        AssetStatus
	Location      string
	DayRate       decimal.Decimal
	RateCurrency  string
}

// NewAsset creates a validated Asset.
func NewAsset(id AssetID, name string, totalQuantity Quantity) (*Asset, error) {
	if id == "" {
		return nil, fmt.Errorf("asset id cannot be empty")
	}
	if totalQuantity < 1 {
		return nil, fmt.Errorf("total quantity must be at least 1, got %d", totalQuantity)
	}
	return &Asset{
		ID:            id,
		Name:          name,
		TotalQuantity: totalQuantity,
		Status:        AssetAvailable,
	}, nil
}
