package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/jobs"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

// SheetName is the worksheet holding exported jobs.
const SheetName = "İşler"

// Headers are the export columns in order.
var Headers = []string{
	"Tarih",
	"Mahkeme",
	"Dosya No",
	"Araç",
	"Tutar",
	"Matrah",
	"KDV",
	"Ödeme",
	"Fatura",
	"Durum",
	"Notlar",
}

type JobLister interface {
	ListJobs(ctx context.Context, filter entity.JobFilter) ([]*entity.Job, error)
}

// Service produces XLSX bytes for job listings.
type Service struct {
	jobs   JobLister
	logger *slog.Logger
}

func NewService(lister JobLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: lister, logger: logger}
}

// ExportJobsXLSX returns a workbook of the jobs matching filter.
// If only From is set the window ends today (inclusive).
func (s *Service) ExportJobsXLSX(ctx context.Context, filter entity.JobFilter) ([]byte, error) {
	start := time.Now()

	if filter.From != nil {
		from := utils.Day(*filter.From)
		filter.From = &from
		if filter.To == nil {
			today := utils.Day(time.Now())
			filter.To = &today
		}
	}
	if filter.To != nil {
		to := utils.Day(*filter.To)
		filter.To = &to
	}

	list, err := s.jobs.ListJobs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	buf, err := WriteJobs(list)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(list),
		"bytes", len(buf),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf, nil
}

// WriteJobs renders list into a workbook followed by a totals row.
func WriteJobs(list []*entity.Job) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(SheetName, cell, v)
	}
	for _, j := range list {
		write(1, j.ScheduledDate.Format(utils.DisplayDateLayout))
		write(2, j.CourtName)
		write(3, j.FileNumber)
		write(4, j.VehiclePlate)
		write(5, j.TotalAmount.InexactFloat64())
		write(6, j.BaseAmount.InexactFloat64())
		write(7, j.VATAmount.InexactFloat64())
		write(8, string(j.PaymentStatus))
		write(9, string(j.InvoiceStatus))
		write(10, string(j.Status))
		write(11, truncate(utils.StrOrEmpty(j.Notes), 140))
		row++
	}

	totals := jobs.Statistics(list)
	write(1, "Toplam")
	write(3, totals.Count)
	write(5, totals.Total.InexactFloat64())
	write(6, totals.Base.InexactFloat64())
	write(7, totals.VAT.InexactFloat64())

	_ = f.SetColWidth(SheetName, "A", "A", 12)
	_ = f.SetColWidth(SheetName, "B", "B", 36)
	_ = f.SetColWidth(SheetName, "C", "D", 14)
	_ = f.SetColWidth(SheetName, "E", "G", 12)
	_ = f.SetColWidth(SheetName, "H", "J", 14)
	_ = f.SetColWidth(SheetName, "K", "K", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
