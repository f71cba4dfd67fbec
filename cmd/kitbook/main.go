package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/prodflow/kitbook/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		assetsFile = flag.String(
			"assets",
			"",
			"Path to assets CSV file",
		)
		reservationsFile = flag.String("reservations", "", "Path to reservations CSV file")
		databaseDSN      = flag.String("dsn", "", "PostgreSQL DSN for the reservation store")
		assetID          = flag.String("asset", "", "Asset id for an availability check")
		startDate        = flag.String("start", "", "Start date (YYYY-MM-DD)")
		endDate          = flag.String("end", "", "End date (YYYY-MM-DD)")
		quantity         = flag.Int64("quantity", 0, "Requested quantity")
		exclude          = flag.String("exclude", "", "Reservation id to exclude from the check")
		overdue          = flag.Bool("overdue", false, "List overdue reservations")
		upcoming         = flag.Int("upcoming", 0, "List reservations starting within N days")
		project          = flag.String("project", "", "List reservations booked for a project")
		stats            = flag.Bool("stats", false, "Summarize the reservation book")
		format           = flag.String("format", "text", "Output format: text, json")
		verbose          = flag.Bool("verbose", false, "Enable verbose output")
		help             = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Create command configuration
	config := commands.Config{
		AssetsFile:       *assetsFile,
		ReservationsFile: *reservationsFile,
		DatabaseDSN:      *databaseDSN,
		AssetID:          *assetID,
		Start:            *startDate,
		End:              *endDate,
		Quantity:         *quantity,
		Exclude:          *exclude,
		Overdue:          *overdue,
		Upcoming:         *upcoming,
		Project:          *project,
		Stats:            *stats,
		Format:           *format,
		Verbose:          *verbose,
		Help:             *help,
	}

	// Create and execute command
	cmd := commands.NewBookingCommand(config, logger)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
