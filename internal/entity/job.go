package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
)

// Job is a court delivery. Dates are calendar days in UTC.
// (CourtID, FileNumber) is unique across jobs.
type Job struct {
	ID             uuid.UUID               `json:"id"`
	ReceivedDate   time.Time               `json:"received_date"`
	ScheduledDate  time.Time               `json:"scheduled_date"`
	CourtID        uuid.UUID               `json:"court_id"`
	CourtName      string                  `json:"court_name,omitempty"`
	FileNumber     string                  `json:"file_number"`
	VehicleID      *uuid.UUID              `json:"vehicle_id,omitempty"`
	VehiclePlate   string                  `json:"vehicle_plate,omitempty"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	BaseAmount     decimal.Decimal         `json:"base_amount"`
	VATAmount      decimal.Decimal         `json:"vat_amount"`
	VATRate        decimal.Decimal         `json:"vat_rate"`
	PaymentStatus  constants.PaymentStatus `json:"payment_status"`
	InvoiceStatus  constants.InvoiceStatus `json:"invoice_status"`
	Status         constants.JobStatus     `json:"status"`
	StatusDate     time.Time               `json:"status_date"`
	StatusNote     *string                 `json:"status_note,omitempty"`
	CompletionDate *time.Time              `json:"completion_date,omitempty"`
	PaymentDate    *time.Time              `json:"payment_date,omitempty"`
	InvoiceNumber  *string                 `json:"invoice_number,omitempty"`
	InvoiceDate    *time.Time              `json:"invoice_date,omitempty"`
	Notes          *string                 `json:"notes,omitempty"`
	// SyntheticDates marks received/scheduled dates produced by a backfill heuristic.
	SyntheticDates bool `json:"synthetic_dates"`
	// SyntheticAmount marks amounts derived from a backfilled base amount.
	SyntheticAmount bool      `json:"synthetic_amount"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Key returns the composite duplicate key of the job.
func (j *Job) Key() JobKey {
	return JobKey{CourtID: j.CourtID, FileNumber: j.FileNumber}
}

// JobKey is the composite duplicate key (court, file number).
type JobKey struct {
	CourtID    uuid.UUID
	FileNumber string
}

func (k JobKey) String() string {
	return k.CourtID.String() + "|" + k.FileNumber
}

// JobFilter narrows job listings. Zero values mean "any".
type JobFilter struct {
	From          *time.Time
	To            *time.Time
	PaymentStatus constants.PaymentStatus
	InvoiceStatus constants.InvoiceStatus
	Status        constants.JobStatus
	CourtID       *uuid.UUID
	VehicleID     *uuid.UUID
	Search        string
}
