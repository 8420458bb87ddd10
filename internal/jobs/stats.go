package jobs

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
)

// Totals aggregates a job list for reporting.
type Totals struct {
	Count       int
	Total       decimal.Decimal
	Base        decimal.Decimal
	VAT         decimal.Decimal
	Paid        int
	Unpaid      int
	PaidAmount  decimal.Decimal
	Invoiced    int
	NotInvoiced int
	ByStatus    map[constants.JobStatus]int
	Synthetic   int
}

// Statistics sums amounts and counts statuses over list.
func Statistics(list []*entity.Job) Totals {
	t := Totals{ByStatus: make(map[constants.JobStatus]int)}
	for _, j := range list {
		t.Count++
		t.Total = t.Total.Add(j.TotalAmount)
		t.Base = t.Base.Add(j.BaseAmount)
		t.VAT = t.VAT.Add(j.VATAmount)
		if j.PaymentStatus == constants.PaymentPaid {
			t.Paid++
			t.PaidAmount = t.PaidAmount.Add(j.TotalAmount)
		} else {
			t.Unpaid++
		}
		if j.InvoiceStatus == constants.InvoiceIssued {
			t.Invoiced++
		} else {
			t.NotInvoiced++
		}
		t.ByStatus[j.Status]++
		if j.SyntheticDates || j.SyntheticAmount {
			t.Synthetic++
		}
	}
	return t
}

// Outstanding is the total still owed by courts.
func (t Totals) Outstanding() decimal.Decimal {
	return t.Total.Sub(t.PaidAmount)
}
