package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedPayment is one inbound bank transaction read from an export.
type ParsedPayment struct {
	PaymentDate time.Time
	Description string
	// TotalAmount is nil when the source carries no amount.
	TotalAmount *decimal.Decimal
	Reference   string
	// Origin locates the record in its source, e.g. "bank.xlsx:14".
	Origin string
}

// CandidateMatch is the court name and file number extracted from a description.
type CandidateMatch struct {
	CourtName  string
	FileNumber string
}
