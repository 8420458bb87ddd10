// Package importer reconciles bank payments against the court registry and
// turns them into jobs.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/amount"
	"github.com/joseph-ayodele/tebligat-tracker/internal/backfill"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/parser"
	"github.com/joseph-ayodele/tebligat-tracker/internal/resolver"
)

type CourtStore interface {
	ListCourts(ctx context.Context) ([]*entity.Court, error)
	CreateCourt(ctx context.Context, court *entity.Court) (*entity.Court, error)
}

type VehicleStore interface {
	ListVehicles(ctx context.Context) ([]*entity.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*entity.Vehicle, error)
}

type JobStore interface {
	ListKeys(ctx context.Context) ([]entity.JobKey, error)
	CreateJob(ctx context.Context, job *entity.Job) (*entity.Job, error)
}

// Options tune a Pipeline. Zero values select the defaults.
type Options struct {
	Rules *common.ImportRules
	// VehiclePlate pins every imported job to one vehicle. When empty a
	// registered vehicle is drawn at random per job.
	VehiclePlate  string
	DryRun        bool
	ProgressEvery int
	// Rand drives every synthetic value. Inject a seeded source for
	// reproducible runs.
	Rand *rand.Rand
}

// Pipeline imports parsed payments one record at a time. Stores are read
// once per run for the registry and key snapshots; each job is its own write.
type Pipeline struct {
	logger    *slog.Logger
	courts    CourtStore
	vehicles  VehicleStore
	jobs      JobStore
	rules     *common.ImportRules
	parser    *parser.Parser
	resolver  *resolver.Resolver
	heuristic *backfill.Heuristic
	vatRate   decimal.Decimal
	opts      Options
}

func New(courts CourtStore, vehicles VehicleStore, jobs JobStore, opts Options, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rules := opts.Rules
	if rules == nil {
		rules = common.DefaultImportRules()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 50
	}
	opts.Rules = rules
	return &Pipeline{
		logger:    logger,
		courts:    courts,
		vehicles:  vehicles,
		jobs:      jobs,
		rules:     rules,
		parser:    parser.New(rules.Parser),
		resolver:  resolver.FromRules(rules.Resolution),
		heuristic: backfill.New(opts.Rand, rules),
		vatRate:   decimal.NewFromFloat(rules.Amounts.VATRate),
		opts:      opts,
	}, nil
}

// Parser exposes the description parser the pipeline was built with.
func (p *Pipeline) Parser() *parser.Parser {
	return p.parser
}

// run is the per-run state: the snapshots and the counters.
type run struct {
	registry []*entity.Court
	vehicles []*entity.Vehicle
	pinned   *entity.Vehicle
	guard    *DuplicateGuard
	summary  *Summary
	logger   *slog.Logger
}

// Run imports payments and returns the run summary. Record level problems
// are counted, never returned; an error means a precondition failed and no
// record was processed.
func (p *Pipeline) Run(ctx context.Context, source string, payments []entity.ParsedPayment) (*Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = common.WithRunID(ctx, runID)
	logger := common.LoggerFrom(ctx, p.logger)

	r, err := p.prepare(ctx, logger)
	if err != nil {
		logger.Error("import.precondition.failed", "source", source, "error", err)
		return nil, err
	}
	r.summary.RunID = runID
	r.summary.Source = source
	r.summary.DryRun = p.opts.DryRun

	eligible := make([]entity.ParsedPayment, 0, len(payments))
	for _, rec := range payments {
		if p.parser.Eligible(rec.Description) {
			eligible = append(eligible, rec)
		}
	}
	r.summary.Eligible = len(eligible)
	r.summary.Ignored = len(payments) - len(eligible)
	logger.Info("import.start",
		"source", source,
		"records", len(payments),
		"eligible", len(eligible),
		"courts", len(r.registry),
		"existing_jobs", r.guard.Len(),
		"strategy", p.resolver.Strategy(),
		"dry_run", p.opts.DryRun,
	)

	for i, rec := range eligible {
		p.process(ctx, r, rec)
		if (i+1)%p.opts.ProgressEvery == 0 {
			logger.Info("import.progress", "processed", i+1, "of", len(eligible), "success", r.summary.Success, "duplicate", r.summary.Duplicate)
		}
	}

	r.summary.Elapsed = time.Since(start)
	logger.Info("import.done",
		"source", source,
		"success", r.summary.Success,
		"duplicate", r.summary.Duplicate,
		"unresolved_court", r.summary.UnresolvedCourt,
		"parse_error", r.summary.ParseError,
		"persist_failure", r.summary.PersistFailure,
		"new_courts", r.summary.NewCourts,
		"elapsed_ms", r.summary.Elapsed.Milliseconds(),
	)
	return r.summary, nil
}

// prepare checks the preconditions and loads the run snapshots.
func (p *Pipeline) prepare(ctx context.Context, logger *slog.Logger) (*run, error) {
	if p.courts == nil || p.vehicles == nil || p.jobs == nil {
		return nil, common.NewAppError("NO_DATABASE", "import needs court, vehicle and job stores", common.ErrInvalidInput)
	}
	vehicles, err := p.vehicles.ListVehicles(ctx)
	if err != nil {
		return nil, common.WrapError(err, "load vehicles")
	}
	if len(vehicles) == 0 {
		return nil, common.NewAppError("NO_VEHICLE", "register a vehicle before importing jobs", common.ErrNoVehicle)
	}
	r := &run{vehicles: vehicles, summary: &Summary{}, logger: logger}
	if p.opts.VehiclePlate != "" {
		v, err := p.vehicles.FindByPlate(ctx, p.opts.VehiclePlate)
		if err != nil {
			return nil, common.NewAppError("NO_VEHICLE", fmt.Sprintf("vehicle %q is not registered", p.opts.VehiclePlate), errors.Join(common.ErrNoVehicle, err))
		}
		r.pinned = v
	}
	if r.registry, err = p.courts.ListCourts(ctx); err != nil {
		return nil, common.WrapError(err, "load court registry")
	}
	keys, err := p.jobs.ListKeys(ctx)
	if err != nil {
		return nil, common.WrapError(err, "load existing jobs")
	}
	r.guard = NewDuplicateGuard(keys)
	return r, nil
}

func (p *Pipeline) process(ctx context.Context, r *run, rec entity.ParsedPayment) {
	logger := r.logger.With("origin", rec.Origin)

	match := p.parser.Parse(rec.Description)
	if match == nil {
		r.summary.ParseError++
		logger.Warn("import.record.parse_error", "description", rec.Description)
		return
	}
	logger = logger.With("court_name", match.CourtName, "file_number", match.FileNumber)

	court, ok := p.resolve(ctx, r, match.CourtName, logger)
	if !ok {
		return
	}

	key := entity.JobKey{CourtID: court.ID, FileNumber: match.FileNumber}
	if r.guard.Seen(key) {
		r.summary.Duplicate++
		logger.Debug("import.record.duplicate")
		return
	}

	job := p.buildJob(r, rec, court, match.FileNumber)
	if p.opts.DryRun {
		r.guard.Add(key)
		r.summary.Success++
		r.summary.Created = append(r.summary.Created, job)
		return
	}

	created, err := p.jobs.CreateJob(ctx, job)
	switch {
	case errors.Is(err, common.ErrDuplicate):
		r.guard.Add(key)
		r.summary.Duplicate++
		logger.Debug("import.record.duplicate", "detected_by", "store")
	case err != nil:
		r.summary.PersistFailure++
		logger.Error("import.record.persist_failed", "error", err)
	default:
		r.guard.Add(key)
		r.summary.Success++
		r.summary.Created = append(r.summary.Created, created)
		logger.Debug("import.record.ok", "job_id", created.ID)
	}
}

// resolve finds the court for name, applying the unresolved policy.
func (p *Pipeline) resolve(ctx context.Context, r *run, name string, logger *slog.Logger) (*entity.Court, bool) {
	if res, ok := p.resolver.Resolve(name, r.registry); ok {
		if res.Method != resolver.MethodExact {
			logger.Debug("import.record.court_matched", "method", res.Method, "score", res.Score, "court", res.Court.Name)
		}
		return res.Court, true
	}

	if p.rules.Resolution.OnUnresolved != common.UnresolvedCreate {
		r.summary.UnresolvedCourt++
		r.summary.addUnresolved(name)
		logger.Warn("import.record.unresolved_court")
		return nil, false
	}

	placeholderType := p.rules.Resolution.PlaceholderType
	court := &entity.Court{
		Name: name,
		City: p.rules.Resolution.PlaceholderCity,
		Type: &placeholderType,
	}
	if p.opts.DryRun {
		court.ID = uuid.New()
	} else {
		created, err := p.courts.CreateCourt(ctx, court)
		if err != nil {
			r.summary.PersistFailure++
			logger.Error("import.record.court_create_failed", "error", err)
			return nil, false
		}
		court = created
	}
	r.registry = append(r.registry, court)
	r.summary.NewCourts++
	logger.Info("import.record.court_created", "court_id", court.ID)
	return court, true
}

// buildJob derives amounts, dates and defaults for an imported payment.
// Bank records prove payment, so imported jobs are paid, invoiced and done.
func (p *Pipeline) buildJob(r *run, rec entity.ParsedPayment, court *entity.Court, fileNumber string) *entity.Job {
	var (
		breakdown       amount.Breakdown
		syntheticAmount bool
	)
	if rec.TotalAmount != nil && rec.TotalAmount.IsPositive() {
		breakdown = amount.Decompose(*rec.TotalAmount, p.vatRate)
	} else {
		breakdown = amount.Compose(p.heuristic.BaseAmount(), p.vatRate)
		syntheticAmount = true
	}

	received, scheduled := p.heuristic.Dates(rec.PaymentDate)
	paid := rec.PaymentDate
	done := scheduled

	vehicle := r.pinned
	if vehicle == nil {
		vehicle = r.vehicles[p.heuristic.Pick(len(r.vehicles))]
	}

	job := &entity.Job{
		ReceivedDate:    received,
		ScheduledDate:   scheduled,
		CourtID:         court.ID,
		CourtName:       court.Name,
		FileNumber:      fileNumber,
		VehicleID:       &vehicle.ID,
		VehiclePlate:    vehicle.Plate,
		TotalAmount:     breakdown.Total,
		BaseAmount:      breakdown.Base,
		VATAmount:       breakdown.VAT,
		VATRate:         breakdown.Rate,
		PaymentStatus:   constants.PaymentPaid,
		InvoiceStatus:   constants.InvoiceIssued,
		Status:          constants.JobStatusCompleted,
		StatusDate:      paid,
		CompletionDate:  &done,
		PaymentDate:     &paid,
		SyntheticDates:  true,
		SyntheticAmount: syntheticAmount,
	}
	if rec.Reference != "" {
		note := "Banka ref: " + rec.Reference
		job.Notes = &note
	}
	return job
}
