package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/registry"
	repo "github.com/joseph-ayodele/tebligat-tracker/internal/repository"
)

func main() {
	var (
		courtsFile   = flag.String("courts", "", "courts to seed: JSON array or numbered list (.md, .txt)")
		city         = flag.String("city", registry.DefaultCity, "city for courts read from a list")
		vehiclesFile = flag.String("vehicles", "", "vehicles to seed: JSON array")
		plate        = flag.String("plate", "", "register a single vehicle with this plate")
		brand        = flag.String("brand", "", "vehicle brand (with -plate)")
		model        = flag.String("model", "", "vehicle model (with -plate)")
		year         = flag.Int("year", 0, "vehicle model year (with -plate)")
		vehicleType  = flag.String("type", "", "vehicle type (with -plate, default Hususi)")
	)
	flag.Parse()

	if *courtsFile == "" && *vehiclesFile == "" && *plate == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to seed; pass -courts, -vehicles or -plate")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	db, err := repo.Open(ctx, repo.ConfigFrom(cfg.Database), logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	failed := 0
	if *courtsFile != "" {
		courts, err := registry.LoadCourtsFile(*courtsFile, *city)
		if err != nil {
			logger.Error("failed to read courts", "path", *courtsFile, "error", err)
			os.Exit(1)
		}
		res := registry.SeedCourts(ctx, repo.NewCourtRepository(db, logger), courts, logger)
		fmt.Printf("Courts: %d created, %d already registered, %d failed\n", res.Created, res.Existing, res.Failed)
		failed += res.Failed
	}

	var vehicles []*entity.Vehicle
	if *vehiclesFile != "" {
		if vehicles, err = registry.LoadVehiclesFile(*vehiclesFile); err != nil {
			logger.Error("failed to read vehicles", "path", *vehiclesFile, "error", err)
			os.Exit(1)
		}
	}
	if *plate != "" {
		vehicles = append(vehicles, &entity.Vehicle{Plate: *plate, Brand: *brand, Model: *model, Year: *year, Type: *vehicleType})
	}
	if len(vehicles) > 0 {
		res := registry.SeedVehicles(ctx, repo.NewVehicleRepository(db, logger), vehicles, logger)
		fmt.Printf("Vehicles: %d created, %d already registered, %d failed\n", res.Created, res.Existing, res.Failed)
		failed += res.Failed
	}

	if failed > 0 {
		os.Exit(3)
	}
}
