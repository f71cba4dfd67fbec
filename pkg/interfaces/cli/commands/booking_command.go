package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/prodflow/kitbook/pkg/application/dto"
	"github.com/prodflow/kitbook/pkg/application/services/booking"
	"github.com/prodflow/kitbook/pkg/domain/entities"
	"github.com/prodflow/kitbook/pkg/domain/repositories"
	"github.com/prodflow/kitbook/pkg/infrastructure/events"
	"github.com/prodflow/kitbook/pkg/infrastructure/repositories/csv"
	"github.com/prodflow/kitbook/pkg/infrastructure/repositories/gormdb"
	"github.com/prodflow/kitbook/pkg/infrastructure/repositories/memory"
	"github.com/prodflow/kitbook/pkg/interfaces/cli/output"
)

// Config holds configuration for the booking command
type Config struct {
	AssetsFile       string
	ReservationsFile string
	DatabaseDSN      string

	// Availability query
	AssetID  string
	Start    string
	End      string
	Quantity int64
	Exclude  string

	// Listings
	Overdue  bool
	Upcoming int
	Project  string
	Stats    bool

	Format  string
	Verbose bool
	Help    bool
}

// BookingCommand loads the reservation book from CSV files and answers
// availability and listing queries against it.
type BookingCommand struct {
	config Config
	logger *zap.Logger
}

// NewBookingCommand creates a new booking command with the given configuration
func NewBookingCommand(config Config, logger *zap.Logger) *BookingCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingCommand{
		config: config,
		logger: logger,
	}
}

// Execute runs the booking command
func (c *BookingCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	service, err := c.buildService(ctx)
	if err != nil {
		return err
	}

	renderer := output.Renderer{Format: c.config.Format}

	if c.config.AssetID != "" {
		result, req, err := c.checkAvailability(ctx, service)
		if err != nil {
			return err
		}
		return renderer.RenderAvailability(req, result)
	}

	if c.config.Overdue {
		overdue, err := service.ListOverdue(ctx)
		if err != nil {
			return fmt.Errorf("failed to list overdue reservations: %w", err)
		}
		return renderer.RenderReservations("Overdue Reservations", overdue)
	}

	if c.config.Upcoming > 0 {
		upcoming, err := service.ListUpcoming(ctx, c.config.Upcoming)
		if err != nil {
			return fmt.Errorf("failed to list upcoming reservations: %w", err)
		}
		title := fmt.Sprintf("Reservations starting within %d days", c.config.Upcoming)
		return renderer.RenderReservations(title, upcoming)
	}

	if c.config.Project != "" {
		booked, err := service.ListForProject(ctx, c.config.Project)
		if err != nil {
			return fmt.Errorf("failed to list reservations for project: %w", err)
		}
		title := fmt.Sprintf("Reservations for project %s", c.config.Project)
		return renderer.RenderReservations(title, booked)
	}

	if c.config.Stats {
		stats, err := service.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		return renderer.RenderStats(stats)
	}

	c.showHelp()
	return nil
}

func (c *BookingCommand) validateInputs() error {
	if c.config.AssetsFile == "" {
		return fmt.Errorf("assets file is required")
	}
	if c.config.Format != "text" && c.config.Format != "json" {
		return fmt.Errorf("unsupported format: %s (expected text or json)", c.config.Format)
	}
	if c.config.AssetID != "" {
		if c.config.Start == "" || c.config.End == "" {
			return fmt.Errorf("availability check requires -start and -end")
		}
		if c.config.Quantity < 1 {
			return fmt.Errorf("availability check requires -quantity of at least 1")
		}
	}
	return nil
}

func (c *BookingCommand) buildService(ctx context.Context) (*booking.Service, error) {
	loader := csv.NewLoader()

	assets, err := loader.LoadAssets(c.config.AssetsFile)
	if err != nil {
		return nil, fmt.Errorf("error loading assets: %w", err)
	}

	registry := memory.NewAssetRegistry()
	if err := registry.LoadAssets(assets); err != nil {
		return nil, fmt.Errorf("failed to load assets into registry: %w", err)
	}

	store, err := c.buildStore()
	if err != nil {
		return nil, err
	}
	if c.config.ReservationsFile != "" {
		reservations, err := loader.LoadReservations(c.config.ReservationsFile)
		if err != nil {
			return nil, fmt.Errorf("error loading reservations: %w", err)
		}
		for _, reservation := range reservations {
			// Pre-existing book is loaded verbatim; admission applies only to
			// new requests.
			if _, err := store.InsertValidated(ctx, reservation, nil); err != nil {
				return nil, fmt.Errorf("failed to load reservation %s: %w", reservation.ID, err)
			}
		}
		if c.config.Verbose {
			fmt.Printf("Loaded %d assets, %d reservations\n\n", len(assets), len(reservations))
		}
	}

	eventStore := events.NewInMemoryEventStore(c.logger)
	notifier := events.NewStoreNotifier(eventStore, c.logger)
	return booking.New(registry, store, notifier, c.logger), nil
}

// buildStore selects the reservation store: PostgreSQL when a DSN is given,
// in-memory otherwise.
func (c *BookingCommand) buildStore() (repositories.ReservationRepository, error) {
	if c.config.DatabaseDSN == "" {
		return memory.NewReservationRepository(), nil
	}

	db, err := gorm.Open(postgres.Open(c.config.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	store := gormdb.NewReservationRepository(db)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate reservations table: %w", err)
	}
	return store, nil
}

func (c *BookingCommand) checkAvailability(ctx context.Context, service *booking.Service) (*dto.AvailabilityResult, dto.AvailabilityRequest, error) {
	start, err := entities.ParseDate(c.config.Start)
	if err != nil {
		return nil, dto.AvailabilityRequest{}, err
	}
	end, err := entities.ParseDate(c.config.End)
	if err != nil {
		return nil, dto.AvailabilityRequest{}, err
	}
	period, err := entities.NewDateRange(start, end)
	if err != nil {
		return nil, dto.AvailabilityRequest{}, err
	}

	req := dto.AvailabilityRequest{
		AssetID:  entities.AssetID(c.config.AssetID),
		Period:   period,
		Quantity: entities.Quantity(c.config.Quantity),
		Exclude:  entities.ReservationID(c.config.Exclude),
	}
	result, err := service.CheckAvailability(ctx, req)
	if err != nil {
		return nil, req, fmt.Errorf("availability check failed: %w", err)
	}
	return result, req, nil
}

func (c *BookingCommand) showHelp() {
	fmt.Println("kitbook - equipment reservation and availability engine")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  kitbook -assets assets.csv [-reservations reservations.csv] [-dsn postgres-dsn] <query>")
	fmt.Println()
	fmt.Println("Queries:")
	fmt.Println("  -asset ID -start YYYY-MM-DD -end YYYY-MM-DD -quantity N")
	fmt.Println("        Check availability for a booking window")
	fmt.Println("  -overdue")
	fmt.Println("        List checked-out reservations past their end date")
	fmt.Println("  -upcoming N")
	fmt.Println("        List reservations starting within N days")
	fmt.Println("  -project ID")
	fmt.Println("        List reservations booked for a project")
	fmt.Println("  -stats")
	fmt.Println("        Summarize the reservation book")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -dsn DSN            Use a PostgreSQL reservation store instead of memory")
	fmt.Println("  -format text|json   Output format (default text)")
	fmt.Println("  -verbose            Verbose output")
}
