package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

type stubLister struct {
	jobs []*entity.Job
	got  entity.JobFilter
}

func (s *stubLister) ListJobs(_ context.Context, filter entity.JobFilter) ([]*entity.Job, error) {
	s.got = filter
	return s.jobs, nil
}

func job(file string, total string) *entity.Job {
	return &entity.Job{
		ScheduledDate: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		CourtName:     "5. Aile Mahkemesi",
		FileNumber:    file,
		VehiclePlate:  "07 ABC 123",
		TotalAmount:   decimal.RequireFromString(total),
		BaseAmount:    decimal.RequireFromString("1000"),
		VATAmount:     decimal.RequireFromString("200"),
		PaymentStatus: constants.PaymentPaid,
		InvoiceStatus: constants.InvoiceIssued,
		Status:        constants.JobStatusCompleted,
		Notes:         utils.StrPtr(strings.Repeat("ş", 200)),
	}
}

func TestExportJobsXLSX(t *testing.T) {
	lister := &stubLister{jobs: []*entity.Job{job("2023/770", "1200"), job("2022/342", "1200")}}
	svc := NewService(lister, nil)

	from := time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)
	data, err := svc.ExportJobsXLSX(context.Background(), entity.JobFilter{From: &from})
	if err != nil {
		t.Fatalf("ExportJobsXLSX: %v", err)
	}
	if lister.got.From == nil || lister.got.From.Hour() != 0 {
		t.Errorf("from not truncated: %v", lister.got.From)
	}
	if lister.got.To == nil {
		t.Errorf("to not defaulted to today")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 2 + totals", len(rows))
	}
	if rows[0][0] != "Tarih" || rows[0][len(Headers)-1] != "Notlar" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "13/01/2025" || rows[1][2] != "2023/770" || rows[1][3] != "07 ABC 123" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if n := len([]rune(rows[1][10])); n != 140 {
		t.Errorf("notes length = %d, want 140", n)
	}
	if rows[3][0] != "Toplam" || rows[3][2] != "2" || rows[3][4] != "2400" {
		t.Errorf("totals = %v", rows[3])
	}
}
