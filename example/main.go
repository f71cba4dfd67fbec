package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prodflow/kitbook/pkg/application/dto"
	"github.com/prodflow/kitbook/pkg/application/services/booking"
	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/infrastructure/events"
	"github.com/prodflow/kitbook/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Build a tiny rental catalog
	registry := memory.NewAssetRegistry()
	registry.AddAsset(&entities.Asset{
		ID:            "CAM_FX6",
		Name:          "Sony FX6 Cinema Camera",
		TotalQuantity: 2,
		Status:        entities.AssetAvailable,
		DayRate:       decimal.NewFromInt(250),
		RateCurrency:  "USD",
	})

	store := memory.NewReservationRepository()
	eventStore := events.NewInMemoryEventStore(logger)
	notifier := events.NewStoreNotifier(eventStore, logger)
	service := booking.New(registry, store, notifier, logger)

	shootWeek := mustRange("2024-06-10", "2024-06-14")

	// Book both cameras for a commercial shoot
	first, err := service.CreateReservation(ctx, booking.CreateRequest{
		AssetID:  "CAM_FX6",
		Period:   shootWeek,
		Quantity: 2,
		Project:  entities.ProjectRef{Name: "Acme Spring Commercial"},
		BookedBy: "dana",
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("Booked %d cameras for %s, quoted %s %s\n",
		first.Quantity, first.Period, first.QuotedTotal, first.Currency)

	// A second producer wants one camera the same week
	_, err = service.CreateReservation(ctx, booking.CreateRequest{
		AssetID:  "CAM_FX6",
		Period:   mustRange("2024-06-12", "2024-06-13"),
		Quantity: 1,
		Project:  entities.ProjectRef{Name: "Docu Pickups"},
		BookedBy: "sam",
	})
	var conflict *entities.ConflictError
	if errors.As(err, &conflict) {
		fmt.Printf("Second booking rejected: %v\n", conflict)
	}

	// Approve, hand over, and return the first booking
	if _, err := service.Confirm(ctx, first.ID, "ops"); err != nil {
		panic(err)
	}
	if _, err := service.CheckOut(ctx, first.ID, "warehouse"); err != nil {
		panic(err)
	}
	if _, err := service.Return(ctx, first.ID, booking.ReturnRequest{
		ReturnedTo: "warehouse",
		Condition:  "one lens cap missing",
	}); err != nil {
		panic(err)
	}

	// Capacity is free again
	result, err := service.CheckAvailability(ctx, dto.AvailabilityRequest{
		AssetID:  "CAM_FX6",
		Period:   shootWeek,
		Quantity: 2,
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("After return: available=%v, free at peak=%d\n",
		result.IsAvailable, result.AvailableQuantity)
}

func mustRange(start, end string) entities.DateRange {
	s, err := entities.ParseDate(start)
	if err != nil {
		panic(err)
	}
	e, err := entities.ParseDate(end)
	if err != nil {
		panic(err)
	}
	period, err := entities.NewDateRange(s, e)
	if err != nil {
		panic(err)
	}
	return period
}
