// Package jobs holds the job lifecycle rules and read-side aggregations.
package jobs

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
)

// Field names reported as missing.
const (
	FieldCourtID        = "court_id"
	FieldFileNumber     = "file_number"
	FieldReceivedDate   = "received_date"
	FieldScheduledDate  = "scheduled_date"
	FieldVehicleID      = "vehicle_id"
	FieldTotalAmount    = "total_amount"
	FieldCompletionDate = "completion_date"
	FieldPaymentDate    = "payment_date"
	FieldInvoiceNumber  = "invoice_number"
	FieldInvoiceDate    = "invoice_date"
)

// Check is the outcome of a transition precondition.
type Check struct {
	OK      bool
	Missing []string
}

func (c Check) String() string {
	if c.OK {
		return "ok"
	}
	return "missing " + strings.Join(c.Missing, ", ")
}

func result(missing []string) Check {
	return Check{OK: len(missing) == 0, Missing: missing}
}

// CanTransition reports whether job may move to target. Every status needs
// the court, file number and both dates; completion additionally needs a
// vehicle, a positive total and a completion date.
func CanTransition(job *entity.Job, target constants.JobStatus) Check {
	if !target.Valid() {
		return Check{Missing: []string{"status"}}
	}
	var missing []string
	if job.CourtID == uuid.Nil {
		missing = append(missing, FieldCourtID)
	}
	if strings.TrimSpace(job.FileNumber) == "" {
		missing = append(missing, FieldFileNumber)
	}
	if job.ReceivedDate.IsZero() {
		missing = append(missing, FieldReceivedDate)
	}
	if job.ScheduledDate.IsZero() {
		missing = append(missing, FieldScheduledDate)
	}
	if target == constants.JobStatusCompleted {
		if job.VehicleID == nil || *job.VehicleID == uuid.Nil {
			missing = append(missing, FieldVehicleID)
		}
		if !job.TotalAmount.IsPositive() {
			missing = append(missing, FieldTotalAmount)
		}
		if job.CompletionDate == nil || job.CompletionDate.IsZero() {
			missing = append(missing, FieldCompletionDate)
		}
	}
	return result(missing)
}

// CanSetPayment reports whether job may take the payment status.
func CanSetPayment(job *entity.Job, target constants.PaymentStatus) Check {
	if !target.Valid() {
		return Check{Missing: []string{"payment_status"}}
	}
	var missing []string
	if target == constants.PaymentPaid && (job.PaymentDate == nil || job.PaymentDate.IsZero()) {
		missing = append(missing, FieldPaymentDate)
	}
	return result(missing)
}

// CanSetInvoice reports whether job may take the invoice status.
func CanSetInvoice(job *entity.Job, target constants.InvoiceStatus) Check {
	if !target.Valid() {
		return Check{Missing: []string{"invoice_status"}}
	}
	var missing []string
	if target == constants.InvoiceIssued {
		if job.InvoiceNumber == nil || strings.TrimSpace(*job.InvoiceNumber) == "" {
			missing = append(missing, FieldInvoiceNumber)
		}
		if job.InvoiceDate == nil || job.InvoiceDate.IsZero() {
			missing = append(missing, FieldInvoiceDate)
		}
	}
	return result(missing)
}

// Err turns a failed check into an error, or nil.
func (c Check) Err(what string) error {
	if c.OK {
		return nil
	}
	return fmt.Errorf("%s blocked: %s", what, c)
}
