package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
)

const sampleText = "13/01/2025\tANTALYA MAHKEMELER VEZNESİ - Antalya 5. Aile Mahkemesi-2023/770 Esas-RAMAZAN ÇATAL\n" +
	"\n" +
	"13/01/2025\tTX-991\tANTALYA MAHKEMELER VEZNESİ - Antalya 5. Aile Mahkemesi-2022/342 Esas-RAMAZAN ÇATAL\t1.200,00\n" +
	"Tarih\tAçıklama\n" +
	"14/01/2025\tMAAŞ ÖDEMESİ\r\n"

func TestReadText(t *testing.T) {
	got, skipped, err := ReadText(strings.NewReader(sampleText), "bank.txt")
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if len(got) != 3 || skipped != 1 {
		t.Fatalf("got %d payments, %d skipped; want 3, 1", len(got), skipped)
	}

	first := got[0]
	if first.PaymentDate != time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC) || first.TotalAmount != nil || first.Origin != "bank.txt:1" {
		t.Errorf("first = %+v", first)
	}
	second := got[1]
	if second.Reference != "TX-991" || second.TotalAmount == nil || second.TotalAmount.String() != "1200" {
		t.Errorf("second = %+v", second)
	}
	if !strings.HasPrefix(second.Description, "ANTALYA MAHKEMELER") {
		t.Errorf("second description = %q", second.Description)
	}
	if got[2].Description != "MAAŞ ÖDEMESİ" {
		t.Errorf("CR not trimmed: %q", got[2].Description)
	}
}

func TestReadText_NonPositiveAmount(t *testing.T) {
	const desc = "ANTALYA MAHKEMELER VEZNESİ - Antalya 5. Aile Mahkemesi-2023/770 Esas"
	tests := []struct {
		name        string
		line        string
		wantCount   int
		wantSkipped int
		wantAmount  bool
	}{
		{"negative", "13/01/2025\t" + desc + "\t-1.200,00", 0, 1, false},
		{"zero", "13/01/2025\t" + desc + "\t0,00", 0, 1, false},
		{"positive", "13/01/2025\t" + desc + "\t1.200,00", 1, 0, true},
		{"absent", "13/01/2025\t" + desc, 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped, err := ReadText(strings.NewReader(tt.line), "bank.txt")
			if err != nil {
				t.Fatalf("ReadText: %v", err)
			}
			if len(got) != tt.wantCount || skipped != tt.wantSkipped {
				t.Fatalf("got %d payments, %d skipped; want %d, %d", len(got), skipped, tt.wantCount, tt.wantSkipped)
			}
			if len(got) == 1 && (got[0].TotalAmount != nil) != tt.wantAmount {
				t.Errorf("TotalAmount = %v, want set=%v", got[0].TotalAmount, tt.wantAmount)
			}
		})
	}
}

func buildStatement(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i := 0; i < 12; i++ {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue(sheet, cell, "Hesap Hareketleri"); err != nil {
			t.Fatal(err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+13)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	desc := "GELEN EFT - ANTALYA MAHKEMELER VEZNESİ - Antalya 5. Aile Mahkemesi-2023/770 Esas-RAMAZAN ÇATAL"
	data := buildStatement(t, [][]any{
		{45670, "", "", "", "REF1", desc, 1200.5},
		{"13/01/2025", "", "", "", "REF2", desc, "1.200,00"},
		{"13/01/2025", "", "", "", "REF3", desc, -50},
		{"13/01/2025", "", "", "", "REF4"},
		{"tarih yok", "", "", "", "REF5", desc, 10},
	})

	got, skipped, err := ReadWorkbook(bytes.NewReader(data), "bank.xlsx", WorkbookOptions{})
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(got) != 2 || skipped != 3 {
		t.Fatalf("got %d payments, %d skipped; want 2, 3", len(got), skipped)
	}
	if want := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC); !got[0].PaymentDate.Equal(want) {
		t.Errorf("serial date = %v, want %v", got[0].PaymentDate, want)
	}
	if got[0].TotalAmount.String() != "1200.5" || got[0].Reference != "REF1" || got[0].Origin != "bank.xlsx:13" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].TotalAmount.String() != "1200" || got[1].Description != desc {
		t.Errorf("second = %+v", got[1])
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ocak.TXT")
	if err := os.WriteFile(path, []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}
	batch, err := ReadFile(path, WorkbookOptions{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if batch.Format != constants.SourceText || len(batch.Payments) != 3 {
		t.Errorf("batch = %s with %d payments", batch.Format, len(batch.Payments))
	}

	if _, err := ReadFile(filepath.Join(dir, "notes.pdf"), WorkbookOptions{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if !Allowed("a/b/c.xlsx") || Allowed("c.xls") || !IsHidden("/tmp/.x.txt") || IsHidden(".") {
		t.Error("Allowed/IsHidden mismatch")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "eski.txt")
	if err := os.WriteFile(existing, []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, _, err := Watch(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if got := <-events; got != existing {
		t.Fatalf("initial event = %q, want %q", got, existing)
	}

	fresh := filepath.Join(dir, "yeni.xlsx")
	if err := os.WriteFile(filepath.Join(dir, "ignore.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fresh, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-events:
		if got != fresh {
			t.Errorf("event = %q, want %q", got, fresh)
		}
	case <-ctx.Done():
		t.Fatal("no event for new export")
	}
}
