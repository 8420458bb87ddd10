package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/joseph-ayodele/tebligat-tracker/internal/amount"
	"github.com/joseph-ayodele/tebligat-tracker/internal/backfill"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/repository"
	"github.com/joseph-ayodele/tebligat-tracker/internal/source"
)

const bankExport = "13/01/2025\tANTALYA MAHKEMELER VEZNESİ - Antalya 5. Aile Mahkemesi-2023/770 Esas-RAMAZAN ÇATAL\n" +
	"13/01/2025\tANTALYA MAHKEMELER VEZNESİ - Antalya 5. Aile Mahkemesi-2022/342 Esas-RAMAZAN ÇATAL\n"

func TestEndToEnd_ReimportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client, err := repository.OpenInMemory(ctx, nil)
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer client.Close()

	courts := repository.NewCourtRepository(client, nil)
	vehicles := repository.NewVehicleRepository(client, nil)
	jobs := repository.NewJobRepository(client, nil)
	if _, err := courts.CreateCourt(ctx, &entity.Court{Name: "5. Aile Mahkemesi", City: "Antalya"}); err != nil {
		t.Fatalf("CreateCourt: %v", err)
	}
	if _, err := vehicles.CreateVehicle(ctx, &entity.Vehicle{Plate: "07 ABC 123"}); err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}

	payments, skipped, err := source.ReadText(strings.NewReader(bankExport), "bank.txt")
	if err != nil || skipped != 0 {
		t.Fatalf("ReadText: %v (skipped %d)", err, skipped)
	}

	p, err := New(courts, vehicles, jobs, Options{Rand: backfill.Seeded(1)}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := p.Run(ctx, "bank.txt", payments)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Success != 2 || first.Duplicate != 0 || first.UnresolvedCourt != 0 || first.ParseError != 0 {
		t.Fatalf("first run = %+v", first)
	}

	second, err := p.Run(ctx, "bank.txt", payments)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Success != 0 || second.Duplicate != 2 || second.Errors() != 0 {
		t.Fatalf("second run = %+v", second)
	}

	stored, err := jobs.ListJobs(ctx, entity.JobFilter{})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d jobs, want 2", len(stored))
	}
	for _, j := range stored {
		if j.CourtName != "5. Aile Mahkemesi" || j.VehiclePlate != "07 ABC 123" || !j.SyntheticAmount {
			t.Errorf("stored job = %+v", j)
		}
		b := amount.Breakdown{Total: j.TotalAmount, Base: j.BaseAmount, VAT: j.VATAmount}
		if !b.Consistent() {
			t.Errorf("amounts inconsistent: %s + %s != %s", j.BaseAmount, j.VATAmount, j.TotalAmount)
		}
	}
}
