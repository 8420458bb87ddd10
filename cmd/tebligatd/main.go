package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/tebligat-tracker/internal/async"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/importer"
	repo "github.com/joseph-ayodele/tebligat-tracker/internal/repository"
	svc "github.com/joseph-ayodele/tebligat-tracker/internal/server"
	"github.com/joseph-ayodele/tebligat-tracker/internal/source"
)

func main() {
	watchDirs := flag.String("watch", "", "comma-separated directories to watch for new bank exports")
	plate := flag.String("vehicle", "", "assign imported jobs to this plate")
	flag.Parse()

	// Setup structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time and level attributes, keep message and other variables
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	rules, err := common.LoadImportRules(cfg.Import.RulesPath)
	if err != nil {
		logger.Error("failed to load import rules", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := svc.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		os.Exit(1)
	}
	defer svc.CloseDB(db)

	courtsRepo := repo.NewCourtRepository(db, logger)
	vehiclesRepo := repo.NewVehicleRepository(db, logger)
	jobsRepo := repo.NewJobRepository(db, logger)

	pipeline, err := importer.New(courtsRepo, vehiclesRepo, jobsRepo, importer.Options{
		Rules:         rules,
		VehiclePlate:  *plate,
		ProgressEvery: cfg.Import.ProgressEvery,
	}, logger)
	if err != nil {
		logger.Error("failed to build import pipeline", "error", err)
		os.Exit(2)
	}
	runner := svc.NewImportRunner(pipeline, source.DefaultWorkbookOptions(), logger)

	reconciler := svc.NewReconcilerService(courtsRepo, rules, runner, logger)
	grpcServer, healthServer := svc.NewGRPCServer(reconciler, logger)

	// Ping DB to ensure connectivity
	if err := svc.PingDB(ctx, db, 5*time.Second); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	svc.SetServing(healthServer)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}

	var queue *async.ImportQueue
	if *watchDirs != "" {
		queue = async.NewImportQueue(runner.HandleTask, logger, async.WithQueueSize(256))
		paths, errs, err := source.Watch(ctx, source.WatchConfig{
			Roots:       strings.Split(*watchDirs, ","),
			InitialScan: true,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("failed to start watcher", "error", err)
			os.Exit(1)
		}
		go func() {
			for {
				select {
				case p, ok := <-paths:
					if !ok {
						return
					}
					if err := queue.Enqueue(ctx, async.Task{Path: p, TraceID: uuid.NewString()}); err != nil {
						logger.Warn("watch.enqueue.failed", "path", p, "error", err)
					}
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					logger.Warn("watch.error", "error", err)
				case <-ctx.Done():
					return
				}
			}
		}()
		logger.Info("watching for bank exports", "dirs", *watchDirs)
	}

	logger.Info("tebligatd listening", "addr", addr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if queue != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		queue.Shutdown(shutdownCtx)
		cancel()
	}
	grpcServer.GracefulStop()
}
