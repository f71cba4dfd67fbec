package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/infrastructure/repositories/memory"
)

// BuildStudioTestData builds a small media-production rental catalog used
// across the test suites: a two-unit cinema camera, a single gimbal, and a
// pool of wireless mic kits.
func BuildStudioTestData() (*memory.AssetRegistry, *memory.ReservationRepository) {
	registry := memory.NewAssetRegistry()
	store := memory.NewReservationRepository()

	assets := []*entities.Asset{
		{
			ID:            "CAM_FX6",
			Name:          "Sony FX6 Cinema Camera",
			TotalQuantity: 2,
			Status:        entities.AssetAvailable,
			Location:      "Shelf A1",
			DayRate:       decimal.NewFromInt(250),
			RateCurrency:  "USD",
		},
		{
			ID:            "GIMBAL_RS3",
			Name:          "DJI RS3 Pro Gimbal",
			TotalQuantity: 1,
			Status:        entities.AssetAvailable,
			Location:      "Shelf B2",
			DayRate:       decimal.NewFromInt(45),
			RateCurrency:  "USD",
		},
		{
			ID:            "MIC_LAV_KIT",
			Name:          "Wireless Lav Mic Kit",
			TotalQuantity: 6,
			Status:        entities.AssetInMaintenance,
			Location:      "Drawer C3",
			DayRate:       decimal.NewFromInt(30),
			RateCurrency:  "USD",
		},
	}
	if err := registry.LoadAssets(assets); err != nil {
		panic(err)
	}

	return registry, store
}

// MustReservation builds a valid reservation for tests, panicking on bad
// inputs so table setup stays terse.
func MustReservation(assetID entities.AssetID, start, end entities.Date, quantity entities.Quantity) *entities.Reservation {
	period, err := entities.NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	r, err := entities.NewReservation(assetID, period, quantity, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return r
}
