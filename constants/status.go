package constants

// JobStatus is the lifecycle status of a job. Values are stored verbatim in the DB.
type JobStatus string

const (
	JobStatusPending    JobStatus = "Beklemede"
	JobStatusInProgress JobStatus = "Devam Ediyor"
	JobStatusCompleted  JobStatus = "Tamamlandı"
	JobStatusCancelled  JobStatus = "İptal"
)

// PaymentStatus records whether the court has paid for the delivery.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "Ödendi"
	PaymentUnpaid PaymentStatus = "Ödenmedi"
)

// InvoiceStatus records whether an invoice was issued for the job.
type InvoiceStatus string

const (
	InvoiceIssued    InvoiceStatus = "Kesildi"
	InvoiceNotIssued InvoiceStatus = "Kesilmedi"
	InvoicePending   InvoiceStatus = "Beklemede"
)

var allJobStatuses = []JobStatus{JobStatusPending, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	for _, v := range allJobStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Active reports whether a job in this status still needs work.
func (s JobStatus) Active() bool {
	return s != JobStatusCompleted && s != JobStatusCancelled
}

func (s PaymentStatus) Valid() bool {
	return s == PaymentPaid || s == PaymentUnpaid
}

func (s InvoiceStatus) Valid() bool {
	return s == InvoiceIssued || s == InvoiceNotIssued || s == InvoicePending
}

// JobStatusStrings returns all job statuses in display order.
func JobStatusStrings() []string {
	out := make([]string, len(allJobStatuses))
	for i, s := range allJobStatuses {
		out[i] = string(s)
	}
	return out
}
