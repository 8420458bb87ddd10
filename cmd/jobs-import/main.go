package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joseph-ayodele/tebligat-tracker/internal/backfill"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/export"
	"github.com/joseph-ayodele/tebligat-tracker/internal/importer"
	"github.com/joseph-ayodele/tebligat-tracker/internal/registry"
	repo "github.com/joseph-ayodele/tebligat-tracker/internal/repository"
	"github.com/joseph-ayodele/tebligat-tracker/internal/source"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		inmem        = flag.Bool("inmem", false, "use in-memory SQLite database")
		file         = flag.String("source", "", "bank export to import (.txt, .tsv or .xlsx)")
		dir          = flag.String("dir", "", "directory of bank exports to import")
		rulesPath    = flag.String("rules", "", "import rules YAML (defaults to IMPORT_RULES)")
		strategy     = flag.String("strategy", "", "court resolution strategy: first-contains or best-similarity")
		createCourts = flag.Bool("create-courts", false, "create placeholder courts for unresolved names")
		plate        = flag.String("vehicle", "", "assign every job to this plate (default: random registered vehicle)")
		seed         = flag.Uint64("seed", 0, "seed for synthetic dates and amounts (0 = random)")
		dryRun       = flag.Bool("dry-run", false, "parse and resolve without writing jobs")
		out          = flag.String("out", "", "write the imported jobs to this XLSX file")
		courtsFile   = flag.String("courts", "", "seed courts from a JSON or numbered-list file first")
		vehiclesFile = flag.String("vehicles", "", "seed vehicles from a JSON file first")
		sheet        = flag.String("sheet", "", "worksheet name for XLSX exports (default: first sheet)")
	)
	flag.Parse()

	// Validate required flags
	if (*file == "") == (*dir == "") {
		printError("Error: exactly one of --source or --dir is required\n")
		os.Exit(1)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()
	if *rulesPath == "" {
		*rulesPath = cfg.Import.RulesPath
	}
	rules, err := common.LoadImportRules(*rulesPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *strategy != "" {
		rules.Resolution.Strategy = *strategy
	}
	if *createCourts {
		rules.Resolution.OnUnresolved = common.UnresolvedCreate
	}

	db, err := repo.InitDatabase(ctx, cfg.Database, *inmem, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Wire repositories
	courtsRepo := repo.NewCourtRepository(db, logger)
	vehiclesRepo := repo.NewVehicleRepository(db, logger)
	jobsRepo := repo.NewJobRepository(db, logger)

	if *courtsFile != "" {
		courts, err := registry.LoadCourtsFile(*courtsFile, "")
		if err != nil {
			logger.Error("failed to load courts", "path", *courtsFile, "error", err)
			os.Exit(1)
		}
		registry.SeedCourts(ctx, courtsRepo, courts, logger)
	}
	if *vehiclesFile != "" {
		vehicles, err := registry.LoadVehiclesFile(*vehiclesFile)
		if err != nil {
			logger.Error("failed to load vehicles", "path", *vehiclesFile, "error", err)
			os.Exit(1)
		}
		registry.SeedVehicles(ctx, vehiclesRepo, vehicles, logger)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = backfill.Seeded(*seed)
	}
	pipeline, err := importer.New(courtsRepo, vehiclesRepo, jobsRepo, importer.Options{
		Rules:         rules,
		VehiclePlate:  *plate,
		DryRun:        *dryRun,
		ProgressEvery: cfg.Import.ProgressEvery,
		Rand:          rng,
	}, logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	wbOpts := source.DefaultWorkbookOptions()
	wbOpts.Sheet = *sheet

	var summary *importer.Summary
	if *dir != "" {
		results, stats, total, err := pipeline.ImportDirectory(ctx, *dir, wbOpts, true)
		for _, r := range results {
			if r.Err != "" {
				logger.Warn("file failed", "path", r.Path, "error", r.Err)
			}
		}
		logger.Info("directory import complete",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		summary = total
	} else {
		var skipped int
		summary, skipped, err = pipeline.ImportFile(ctx, *file, wbOpts)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		if skipped > 0 {
			logger.Info("rows skipped", "source", filepath.Base(*file), "skipped", skipped)
		}
	}

	fmt.Print(summary.String())

	if *out != "" {
		xlsx, err := export.WriteJobs(summary.Created)
		if err != nil {
			logger.Error("failed to export jobs", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsx, 0644); err != nil {
			logger.Error("failed to write output file", "error", err)
			os.Exit(1)
		}
		fmt.Printf("- Output: %s (%d jobs)\n", *out, len(summary.Created))
	}

	if summary.Errors() > 0 {
		os.Exit(3)
	}
}
