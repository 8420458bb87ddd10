package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/export"
	repo "github.com/joseph-ayodele/tebligat-tracker/internal/repository"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

func main() {
	var (
		out     = flag.String("out", "isler.xlsx", "output XLSX file path")
		fromStr = flag.String("from", "", "from scheduled date YYYY-MM-DD")
		toStr   = flag.String("to", "", "to scheduled date YYYY-MM-DD")
		payment = flag.String("payment", "", "payment status filter (Ödendi, Ödenmedi)")
		invoice = flag.String("invoice", "", "invoice status filter (Kesildi, Kesilmedi, Beklemede)")
		search  = flag.String("q", "", "search file numbers and notes")
	)
	flag.Parse()

	filter := entity.JobFilter{
		PaymentStatus: constants.PaymentStatus(*payment),
		InvoiceStatus: constants.InvoiceStatus(*invoice),
		Search:        *search,
	}
	var err error
	if filter.From, err = utils.ParseYMDPtr(fromStr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --from date format, use YYYY-MM-DD: %v\n", err)
		os.Exit(1)
	}
	if filter.To, err = utils.ParseYMDPtr(toStr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --to date format, use YYYY-MM-DD: %v\n", err)
		os.Exit(1)
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown payment status %q\n", *payment)
		os.Exit(1)
	}
	if filter.InvoiceStatus != "" && !filter.InvoiceStatus.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown invoice status %q\n", *invoice)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()
	db, err := repo.Open(ctx, repo.ConfigFrom(cfg.Database), logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	start := time.Now()
	svc := export.NewService(repo.NewJobRepository(db, logger), logger)
	xlsx, err := svc.ExportJobsXLSX(ctx, filter)
	if err != nil {
		logger.Error("failed to export jobs", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Export complete: %s (%d bytes, %s)\n", *out, len(xlsx), time.Since(start).Round(time.Millisecond))
}
