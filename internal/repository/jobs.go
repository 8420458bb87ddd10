package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/jobs"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

type JobRepository interface {
	CreateJob(ctx context.Context, job *entity.Job) (*entity.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	ListJobs(ctx context.Context, filter entity.JobFilter) ([]*entity.Job, error)
	ListKeys(ctx context.Context) ([]entity.JobKey, error)
	ExistsKey(ctx context.Context, key entity.JobKey) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*entity.Job, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, status constants.PaymentStatus, paidOn *time.Time) (*entity.Job, error)
	UpdateInvoice(ctx context.Context, id uuid.UUID, status constants.InvoiceStatus, number *string, issuedOn *time.Time) (*entity.Job, error)
	CountJobs(ctx context.Context) (int, error)
}

// StatusUpdate moves a job to a new lifecycle status. Zero fields keep the
// stored values.
type StatusUpdate struct {
	Status         constants.JobStatus
	Date           time.Time
	Note           *string
	VehicleID      *uuid.UUID
	CompletionDate *time.Time
}

type jobRepository struct {
	client *Client
	logger *slog.Logger
}

func NewJobRepository(client *Client, logger *slog.Logger) JobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &jobRepository{
		client: client,
		logger: logger,
	}
}

var jobColumns = []string{
	"id", "received_date", "scheduled_date", "court_id", "file_number", "vehicle_id",
	"total_amount", "base_amount", "vat_amount", "vat_rate",
	"payment_status", "invoice_status", "status", "status_date", "status_note",
	"completion_date", "payment_date", "invoice_date", "invoice_number", "notes",
	"synthetic_dates", "synthetic_amount", "created_at", "updated_at",
}

type jobRow struct {
	ID              uuid.UUID       `sql:"id"`
	ReceivedDate    string          `sql:"received_date"`
	ScheduledDate   string          `sql:"scheduled_date"`
	CourtID         uuid.UUID       `sql:"court_id"`
	CourtName       *string         `sql:"court_name"`
	FileNumber      string          `sql:"file_number"`
	VehicleID       uuid.NullUUID   `sql:"vehicle_id"`
	VehiclePlate    *string         `sql:"vehicle_plate"`
	TotalAmount     decimal.Decimal `sql:"total_amount"`
	BaseAmount      decimal.Decimal `sql:"base_amount"`
	VATAmount       decimal.Decimal `sql:"vat_amount"`
	VATRate         decimal.Decimal `sql:"vat_rate"`
	PaymentStatus   string          `sql:"payment_status"`
	InvoiceStatus   string          `sql:"invoice_status"`
	Status          string          `sql:"status"`
	StatusDate      string          `sql:"status_date"`
	StatusNote      *string         `sql:"status_note"`
	CompletionDate  *string         `sql:"completion_date"`
	PaymentDate     *string         `sql:"payment_date"`
	InvoiceDate     *string         `sql:"invoice_date"`
	InvoiceNumber   *string         `sql:"invoice_number"`
	Notes           *string         `sql:"notes"`
	SyntheticDates  bool            `sql:"synthetic_dates"`
	SyntheticAmount bool            `sql:"synthetic_amount"`
	CreatedAt       time.Time       `sql:"created_at"`
	UpdatedAt       time.Time       `sql:"updated_at"`
}

func (r jobRow) toEntity() (*entity.Job, error) {
	received, err := utils.ParseYMD(r.ReceivedDate)
	if err != nil {
		return nil, fmt.Errorf("job %s received_date: %w", r.ID, err)
	}
	scheduled, err := utils.ParseYMD(r.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("job %s scheduled_date: %w", r.ID, err)
	}
	statusDate, err := utils.ParseYMD(r.StatusDate)
	if err != nil {
		return nil, fmt.Errorf("job %s status_date: %w", r.ID, err)
	}
	j := &entity.Job{
		ID:              r.ID,
		ReceivedDate:    received,
		ScheduledDate:   scheduled,
		CourtID:         r.CourtID,
		CourtName:       utils.StrOrEmpty(r.CourtName),
		FileNumber:      r.FileNumber,
		VehiclePlate:    utils.StrOrEmpty(r.VehiclePlate),
		TotalAmount:     r.TotalAmount,
		BaseAmount:      r.BaseAmount,
		VATAmount:       r.VATAmount,
		VATRate:         r.VATRate,
		PaymentStatus:   constants.PaymentStatus(r.PaymentStatus),
		InvoiceStatus:   constants.InvoiceStatus(r.InvoiceStatus),
		Status:          constants.JobStatus(r.Status),
		StatusDate:      statusDate,
		StatusNote:      r.StatusNote,
		InvoiceNumber:   r.InvoiceNumber,
		Notes:           r.Notes,
		SyntheticDates:  r.SyntheticDates,
		SyntheticAmount: r.SyntheticAmount,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.VehicleID.Valid {
		id := r.VehicleID.UUID
		j.VehicleID = &id
	}
	for _, d := range []struct {
		dst **time.Time
		src *string
	}{
		{&j.CompletionDate, r.CompletionDate},
		{&j.PaymentDate, r.PaymentDate},
		{&j.InvoiceDate, r.InvoiceDate},
	} {
		if *d.dst, err = utils.ParseYMDPtr(d.src); err != nil {
			return nil, fmt.Errorf("job %s: %w", r.ID, err)
		}
	}
	return j, nil
}

func amountValue(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil || *id == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func validateJob(job *entity.Job) error {
	v := common.NewValidator().
		Field("court_id", job.CourtID, common.Required).
		Field("file_number", job.FileNumber, common.Required, common.FileNumber).
		Field("total_amount", job.TotalAmount, common.PositiveAmount).
		Field("payment_status", string(job.PaymentStatus), common.OneOf(string(constants.PaymentPaid), string(constants.PaymentUnpaid))).
		Field("invoice_status", string(job.InvoiceStatus), common.OneOf(string(constants.InvoiceIssued), string(constants.InvoiceNotIssued), string(constants.InvoicePending))).
		Field("status", string(job.Status), common.OneOf(constants.JobStatusStrings()...))
	if job.ReceivedDate.IsZero() {
		v.Field("received_date", "", common.Required)
	}
	if job.ScheduledDate.IsZero() {
		v.Field("scheduled_date", "", common.Required)
	}
	return v.Error()
}

// CreateJob inserts a job. The (court_id, file_number) unique constraint makes
// the insert itself the duplicate check; a collision yields ErrDuplicate.
func (r *jobRepository) CreateJob(ctx context.Context, job *entity.Job) (*entity.Job, error) {
	if err := validateJob(job); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	created := *job
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if created.StatusDate.IsZero() {
		created.StatusDate = now
	}
	created.CreatedAt, created.UpdatedAt = now, now

	q := r.client.sql().Insert(tableJobs).
		Columns(jobColumns...).
		Values(
			created.ID, utils.FormatYMD(created.ReceivedDate), utils.FormatYMD(created.ScheduledDate),
			created.CourtID, created.FileNumber, nullUUID(created.VehicleID),
			amountValue(created.TotalAmount), amountValue(created.BaseAmount), amountValue(created.VATAmount), created.VATRate.String(),
			string(created.PaymentStatus), string(created.InvoiceStatus), string(created.Status),
			utils.FormatYMD(created.StatusDate), created.StatusNote,
			utils.FormatYMDPtr(created.CompletionDate), utils.FormatYMDPtr(created.PaymentDate), utils.FormatYMDPtr(created.InvoiceDate),
			created.InvoiceNumber, created.Notes,
			created.SyntheticDates, created.SyntheticAmount, now, now,
		)
	if _, err := r.client.exec(ctx, q); err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug("job already exists", "court_id", created.CourtID, "file_number", created.FileNumber)
		} else {
			r.logger.Error("failed to create job", "court_id", created.CourtID, "file_number", created.FileNumber, "error", err)
		}
		return nil, storeError(err, "create job "+created.Key().String())
	}
	return &created, nil
}

// selectJobs builds the joined job query with court name and vehicle plate.
func (r *jobRepository) selectJobs() (*entsql.Selector, *entsql.SelectTable) {
	b := r.client.sql()
	jt := b.Table(tableJobs)
	// Joined tables are aliased up front; LeftJoin would otherwise rename
	// them after the projected columns were built.
	ct := b.Table(tableCourts).As("c")
	vt := b.Table(tableVehicles).As("v")
	cols := make([]string, 0, len(jobColumns)+2)
	for _, c := range jobColumns {
		cols = append(cols, jt.C(c))
	}
	cols = append(cols, entsql.As(ct.C("name"), "court_name"), entsql.As(vt.C("plate"), "vehicle_plate"))
	s := b.Select(cols...).
		From(jt).
		LeftJoin(ct).On(jt.C("court_id"), ct.C("id")).
		LeftJoin(vt).On(jt.C("vehicle_id"), vt.C("id"))
	return s, jt
}

func (r *jobRepository) scanJobs(ctx context.Context, q entsql.Querier) ([]*entity.Job, error) {
	var rows []jobRow
	if err := r.client.query(ctx, q, &rows); err != nil {
		return nil, err
	}
	result := make([]*entity.Job, 0, len(rows))
	for _, row := range rows {
		j, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, j)
	}
	return result, nil
}

func (r *jobRepository) GetJob(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	s, jt := r.selectJobs()
	list, err := r.scanJobs(ctx, s.Where(entsql.EQ(jt.C("id"), id)).Limit(1))
	if err != nil {
		r.logger.Error("failed to get job", "job_id", id, "error", err)
		return nil, storeError(err, "get job")
	}
	if len(list) == 0 {
		return nil, common.NewAppError("JOB_NOT_FOUND", id.String(), common.ErrNotFound)
	}
	return list[0], nil
}

// ListJobs returns jobs matching filter, latest scheduled first.
func (r *jobRepository) ListJobs(ctx context.Context, filter entity.JobFilter) ([]*entity.Job, error) {
	s, jt := r.selectJobs()
	var preds []*entsql.Predicate
	if filter.From != nil {
		preds = append(preds, entsql.GTE(jt.C("scheduled_date"), utils.FormatYMD(*filter.From)))
	}
	if filter.To != nil {
		preds = append(preds, entsql.LTE(jt.C("scheduled_date"), utils.FormatYMD(*filter.To)))
	}
	if filter.PaymentStatus != "" {
		preds = append(preds, entsql.EQ(jt.C("payment_status"), string(filter.PaymentStatus)))
	}
	if filter.InvoiceStatus != "" {
		preds = append(preds, entsql.EQ(jt.C("invoice_status"), string(filter.InvoiceStatus)))
	}
	if filter.Status != "" {
		preds = append(preds, entsql.EQ(jt.C("status"), string(filter.Status)))
	}
	if filter.CourtID != nil {
		preds = append(preds, entsql.EQ(jt.C("court_id"), *filter.CourtID))
	}
	if filter.VehicleID != nil {
		preds = append(preds, entsql.EQ(jt.C("vehicle_id"), *filter.VehicleID))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold(jt.C("file_number"), q),
			entsql.ContainsFold(jt.C("notes"), q),
		))
	}
	if len(preds) > 0 {
		s.Where(entsql.And(preds...))
	}
	s.OrderBy(entsql.Desc(jt.C("scheduled_date")), entsql.Asc(jt.C("file_number")))

	list, err := r.scanJobs(ctx, s)
	if err != nil {
		r.logger.Error("failed to list jobs", "error", err)
		return nil, storeError(err, "list jobs")
	}
	return list, nil
}

type keyRow struct {
	CourtID    uuid.UUID `sql:"court_id"`
	FileNumber string    `sql:"file_number"`
}

// ListKeys returns the composite key of every stored job.
func (r *jobRepository) ListKeys(ctx context.Context) ([]entity.JobKey, error) {
	b := r.client.sql()
	var rows []keyRow
	if err := r.client.query(ctx, b.Select("court_id", "file_number").From(b.Table(tableJobs)), &rows); err != nil {
		r.logger.Error("failed to list job keys", "error", err)
		return nil, storeError(err, "list job keys")
	}
	keys := make([]entity.JobKey, len(rows))
	for i, row := range rows {
		keys[i] = entity.JobKey{CourtID: row.CourtID, FileNumber: row.FileNumber}
	}
	return keys, nil
}

func (r *jobRepository) ExistsKey(ctx context.Context, key entity.JobKey) (bool, error) {
	b := r.client.sql()
	q := b.Select().Count().From(b.Table(tableJobs)).
		Where(entsql.And(entsql.EQ("court_id", key.CourtID), entsql.EQ("file_number", key.FileNumber)))
	n, err := r.client.count(ctx, q)
	if err != nil {
		return false, storeError(err, "check job key")
	}
	return n > 0, nil
}

// UpdateStatus applies update after checking the lifecycle preconditions
// against the job as it would look afterwards.
func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*entity.Job, error) {
	job, err := r.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *job
	next.Status = update.Status
	if update.VehicleID != nil {
		next.VehicleID = update.VehicleID
	}
	if update.CompletionDate != nil {
		next.CompletionDate = update.CompletionDate
	}
	if update.Note != nil {
		next.StatusNote = update.Note
	}
	next.StatusDate = update.Date
	if next.StatusDate.IsZero() {
		next.StatusDate = time.Now().UTC()
	}
	if check := jobs.CanTransition(&next, update.Status); !check.OK {
		return nil, common.NewAppError("TRANSITION_BLOCKED",
			fmt.Sprintf("%s -> %s: missing %s", job.Status, update.Status, strings.Join(check.Missing, ", ")),
			common.ErrValidation)
	}

	u := r.client.sql().Update(tableJobs).
		Set("status", string(next.Status)).
		Set("status_date", utils.FormatYMD(next.StatusDate)).
		Set("status_note", next.StatusNote).
		Set("vehicle_id", nullUUID(next.VehicleID)).
		Set("completion_date", utils.FormatYMDPtr(next.CompletionDate))
	return r.applyUpdate(ctx, &next, u)
}

func (r *jobRepository) UpdatePayment(ctx context.Context, id uuid.UUID, status constants.PaymentStatus, paidOn *time.Time) (*entity.Job, error) {
	job, err := r.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *job
	next.PaymentStatus = status
	if paidOn != nil {
		next.PaymentDate = paidOn
	}
	if check := jobs.CanSetPayment(&next, status); !check.OK {
		return nil, common.NewAppError("TRANSITION_BLOCKED", "payment: missing "+strings.Join(check.Missing, ", "), common.ErrValidation)
	}
	u := r.client.sql().Update(tableJobs).
		Set("payment_status", string(next.PaymentStatus)).
		Set("payment_date", utils.FormatYMDPtr(next.PaymentDate))
	return r.applyUpdate(ctx, &next, u)
}

func (r *jobRepository) UpdateInvoice(ctx context.Context, id uuid.UUID, status constants.InvoiceStatus, number *string, issuedOn *time.Time) (*entity.Job, error) {
	job, err := r.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *job
	next.InvoiceStatus = status
	if number != nil {
		next.InvoiceNumber = number
	}
	if issuedOn != nil {
		next.InvoiceDate = issuedOn
	}
	if check := jobs.CanSetInvoice(&next, status); !check.OK {
		return nil, common.NewAppError("TRANSITION_BLOCKED", "invoice: missing "+strings.Join(check.Missing, ", "), common.ErrValidation)
	}
	u := r.client.sql().Update(tableJobs).
		Set("invoice_status", string(next.InvoiceStatus)).
		Set("invoice_number", next.InvoiceNumber).
		Set("invoice_date", utils.FormatYMDPtr(next.InvoiceDate))
	return r.applyUpdate(ctx, &next, u)
}

func (r *jobRepository) applyUpdate(ctx context.Context, next *entity.Job, u *entsql.UpdateBuilder) (*entity.Job, error) {
	now := time.Now().UTC()
	u.Set("updated_at", now).Where(entsql.EQ("id", next.ID))
	n, err := r.client.exec(ctx, u)
	if err != nil {
		r.logger.Error("failed to update job", "job_id", next.ID, "error", err)
		return nil, storeError(err, "update job")
	}
	if n == 0 {
		return nil, common.NewAppError("JOB_NOT_FOUND", next.ID.String(), common.ErrNotFound)
	}
	next.UpdatedAt = now
	return next, nil
}

func (r *jobRepository) CountJobs(ctx context.Context) (int, error) {
	b := r.client.sql()
	n, err := r.client.count(ctx, b.Select().Count().From(b.Table(tableJobs)))
	if err != nil {
		return 0, storeError(err, "count jobs")
	}
	return n, nil
}
