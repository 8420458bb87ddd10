package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
)

func openTest(t *testing.T) *Client {
	t.Helper()
	c, err := OpenInMemory(context.Background(), nil)
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedCourt(t *testing.T, c *Client, name string) *entity.Court {
	t.Helper()
	court, err := NewCourtRepository(c, nil).CreateCourt(context.Background(), &entity.Court{Name: name, City: "Antalya"})
	if err != nil {
		t.Fatalf("CreateCourt(%q): %v", name, err)
	}
	return court
}

func newJob(court *entity.Court, file string) *entity.Job {
	return &entity.Job{
		ReceivedDate:  day(2024, 12, 20),
		ScheduledDate: day(2024, 12, 27),
		CourtID:       court.ID,
		FileNumber:    file,
		TotalAmount:   decimal.RequireFromString("1200"),
		BaseAmount:    decimal.RequireFromString("1000"),
		VATAmount:     decimal.RequireFromString("200"),
		VATRate:       decimal.NewFromInt(20),
		PaymentStatus: constants.PaymentUnpaid,
		InvoiceStatus: constants.InvoiceNotIssued,
		Status:        constants.JobStatusPending,
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"tebligat.db", "file:tebligat.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:x.db?mode=ro", "file:x.db?mode=ro&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:y.db?_pragma=foreign_keys(0)", "file:y.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCourts(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	repo := NewCourtRepository(c, nil)

	court := seedCourt(t, c, "5. Aile Mahkemesi")
	if court.Type == nil || *court.Type != string(constants.CourtFamily) {
		t.Errorf("detected type = %v", court.Type)
	}
	if err := c.HealthCheck(ctx, time.Second); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}

	_, err := repo.CreateCourt(ctx, &entity.Court{Name: "5. Aile Mahkemesi", City: "Antalya"})
	if !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("duplicate name error = %v, want ErrDuplicate", err)
	}

	_, err = repo.CreateCourt(ctx, &entity.Court{Name: "Belediye", City: ""})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("invalid court error = %v, want ErrValidation", err)
	}
	_, err = repo.CreateCourt(ctx, &entity.Court{Name: "Aİ", City: "Antalya"})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("short court name error = %v, want ErrValidation", err)
	}

	got, err := repo.FindByName(ctx, "5. Aile Mahkemesi")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if got.ID != court.ID || got.City != "Antalya" || got.District != nil {
		t.Errorf("FindByName = %+v", got)
	}
	if _, err := repo.FindByName(ctx, "yok"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing court error = %v", err)
	}

	seedCourt(t, c, "1. Asliye Hukuk Mahkemesi")
	list, err := repo.ListCourts(ctx)
	if err != nil {
		t.Fatalf("ListCourts: %v", err)
	}
	if len(list) != 2 || list[0].Name != "1. Asliye Hukuk Mahkemesi" {
		t.Errorf("ListCourts = %d courts, first %q", len(list), list[0].Name)
	}
	if n, _ := repo.CountCourts(ctx); n != 2 {
		t.Errorf("CountCourts = %d", n)
	}
}

func TestVehicles(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository(openTest(t), nil)

	v, err := repo.CreateVehicle(ctx, &entity.Vehicle{Plate: " 07 abc  123 ", Brand: "Fiat", Model: "Doblo", Year: 2019})
	if err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}
	if v.Plate != "07 ABC 123" || v.Type != string(constants.VehiclePrivate) {
		t.Errorf("created = %+v", v)
	}
	if _, err := repo.CreateVehicle(ctx, &entity.Vehicle{Plate: "07 ABC 123"}); !errors.Is(err, common.ErrDuplicate) {
		t.Errorf("duplicate plate error = %v", err)
	}
	got, err := repo.FindByPlate(ctx, "07 abc 123")
	if err != nil || got.ID != v.ID || got.Year != 2019 {
		t.Fatalf("FindByPlate = %+v, %v", got, err)
	}
	if n, _ := repo.CountVehicles(ctx); n != 1 {
		t.Errorf("CountVehicles = %d", n)
	}
}

func TestJobs_CreateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	court := seedCourt(t, c, "5. Aile Mahkemesi")
	repo := NewJobRepository(c, nil)

	note := "ref 123"
	j := newJob(court, "2023/770")
	j.Notes = &note
	j.SyntheticDates = true
	created, err := repo.CreateJob(ctx, j)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	_, err = repo.CreateJob(ctx, newJob(court, "2023/770"))
	if !errors.Is(err, common.ErrDuplicate) {
		t.Fatalf("duplicate key error = %v, want ErrDuplicate", err)
	}

	got, err := repo.GetJob(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.CourtName != "5. Aile Mahkemesi" || got.FileNumber != "2023/770" {
		t.Errorf("GetJob = %+v", got)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("1200")) || !got.VATAmount.Equal(decimal.RequireFromString("200")) {
		t.Errorf("amounts = %s / %s", got.TotalAmount, got.VATAmount)
	}
	if !got.ReceivedDate.Equal(day(2024, 12, 20)) || got.VehicleID != nil || !got.SyntheticDates {
		t.Errorf("fields = %+v", got)
	}

	keys, err := repo.ListKeys(ctx)
	if err != nil || len(keys) != 1 || keys[0] != created.Key() {
		t.Fatalf("ListKeys = %v, %v", keys, err)
	}
	ok, err := repo.ExistsKey(ctx, entity.JobKey{CourtID: court.ID, FileNumber: "2023/770"})
	if err != nil || !ok {
		t.Errorf("ExistsKey = %v, %v", ok, err)
	}
	ok, _ = repo.ExistsKey(ctx, entity.JobKey{CourtID: court.ID, FileNumber: "2022/342"})
	if ok {
		t.Error("ExistsKey reported a missing key")
	}
}

func TestJobs_Validation(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	court := seedCourt(t, c, "2. İş Mahkemesi")
	repo := NewJobRepository(c, nil)

	bad := newJob(court, "38/2024")
	bad.TotalAmount = decimal.Zero
	_, err := repo.CreateJob(ctx, bad)
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("CreateJob error = %v, want ErrValidation", err)
	}

	orphan := newJob(&entity.Court{ID: uuid.New()}, "2024/1")
	if _, err := repo.CreateJob(ctx, orphan); !errors.Is(err, common.ErrDatabase) {
		t.Errorf("unknown court error = %v, want ErrDatabase", err)
	}
}

func TestJobs_ListFilters(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	a := seedCourt(t, c, "5. Aile Mahkemesi")
	b := seedCourt(t, c, "3. Sulh Hukuk Mahkemesi")
	repo := NewJobRepository(c, nil)

	j1 := newJob(a, "2023/770")
	j2 := newJob(a, "2022/342")
	j2.ScheduledDate = day(2025, 1, 5)
	j2.PaymentStatus = constants.PaymentPaid
	note := "Dekont 99812"
	j2.Notes = &note
	j3 := newJob(b, "2024/1")
	for _, j := range []*entity.Job{j1, j2, j3} {
		if _, err := repo.CreateJob(ctx, j); err != nil {
			t.Fatalf("CreateJob: %v", err)
		}
	}

	from := day(2025, 1, 1)
	tests := []struct {
		name   string
		filter entity.JobFilter
		want   int
	}{
		{"all", entity.JobFilter{}, 3},
		{"court", entity.JobFilter{CourtID: &b.ID}, 1},
		{"from", entity.JobFilter{From: &from}, 1},
		{"payment", entity.JobFilter{PaymentStatus: constants.PaymentUnpaid}, 2},
		{"search file", entity.JobFilter{Search: "2023/"}, 1},
		{"search notes", entity.JobFilter{Search: "dekont"}, 1},
		{"status", entity.JobFilter{Status: constants.JobStatusCompleted}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListJobs = %d jobs, want %d", len(got), tt.want)
			}
		})
	}

	all, err := repo.ListJobs(ctx, entity.JobFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("ListJobs = %d jobs, %v", len(all), err)
	}
	if all[0].FileNumber != "2022/342" {
		t.Errorf("first job = %s, want latest scheduled", all[0].FileNumber)
	}
	if n, _ := repo.CountJobs(ctx); n != 3 {
		t.Errorf("CountJobs = %d", n)
	}
}

func TestJobs_ReadsJoinedNames(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	court := seedCourt(t, c, "Korkuteli Asliye Hukuk Mahkemesi")
	vehicle, err := NewVehicleRepository(c, nil).CreateVehicle(ctx, &entity.Vehicle{Plate: "07 KRK 07"})
	if err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}
	repo := NewJobRepository(c, nil)
	j := newJob(court, "2024/11")
	j.VehicleID = &vehicle.ID
	if _, err := repo.CreateJob(ctx, j); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if _, err := repo.CreateJob(ctx, newJob(court, "2024/12")); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	list, err := repo.ListJobs(ctx, entity.JobFilter{CourtID: &court.ID})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListJobs = %d jobs, want 2", len(list))
	}
	plates := map[string]string{}
	for _, got := range list {
		if got.CourtName != court.Name {
			t.Errorf("%s court name = %q", got.FileNumber, got.CourtName)
		}
		plates[got.FileNumber] = got.VehiclePlate
	}
	if plates["2024/11"] != "07 KRK 07" || plates["2024/12"] != "" {
		t.Errorf("plates = %v", plates)
	}
}

func TestJobs_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	c := openTest(t)
	court := seedCourt(t, c, "5. Aile Mahkemesi")
	vehicle, err := NewVehicleRepository(c, nil).CreateVehicle(ctx, &entity.Vehicle{Plate: "07 ABC 123"})
	if err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}
	repo := NewJobRepository(c, nil)
	job, err := repo.CreateJob(ctx, newJob(court, "2023/770"))
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	_, err = repo.UpdateStatus(ctx, job.ID, StatusUpdate{Status: constants.JobStatusCompleted})
	if !common.IsCode(err, "TRANSITION_BLOCKED") {
		t.Fatalf("UpdateStatus error = %v, want TRANSITION_BLOCKED", err)
	}

	done := day(2025, 1, 2)
	updated, err := repo.UpdateStatus(ctx, job.ID, StatusUpdate{
		Status:         constants.JobStatusCompleted,
		Date:           done,
		VehicleID:      &vehicle.ID,
		CompletionDate: &done,
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != constants.JobStatusCompleted {
		t.Errorf("status = %s", updated.Status)
	}
	got, err := repo.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.VehiclePlate != "07 ABC 123" || got.CompletionDate == nil || !got.CompletionDate.Equal(done) {
		t.Errorf("stored = %+v", got)
	}

	if _, err := repo.UpdatePayment(ctx, job.ID, constants.PaymentPaid, nil); !common.IsCode(err, "TRANSITION_BLOCKED") {
		t.Errorf("UpdatePayment without date = %v", err)
	}
	if _, err := repo.UpdatePayment(ctx, job.ID, constants.PaymentPaid, &done); err != nil {
		t.Errorf("UpdatePayment: %v", err)
	}
	inv := "FTR-2025-001"
	if _, err := repo.UpdateInvoice(ctx, job.ID, constants.InvoiceIssued, &inv, &done); err != nil {
		t.Errorf("UpdateInvoice: %v", err)
	}
	if got, err = repo.GetJob(ctx, job.ID); err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.PaymentStatus != constants.PaymentPaid || got.InvoiceStatus != constants.InvoiceIssued || *got.InvoiceNumber != inv {
		t.Errorf("after payment/invoice = %+v", got)
	}

	if _, err := repo.UpdateStatus(ctx, uuid.New(), StatusUpdate{Status: constants.JobStatusPending}); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing job error = %v", err)
	}
}
