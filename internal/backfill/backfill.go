// Package backfill synthesizes values that historical bank records never captured.
//
// Bank exports only prove when a court paid. The received and scheduled dates
// of those deliveries, and for plain text exports the amount, are unrecoverable.
// Everything produced here is synthetic and callers must label it as such.
// None of it may run when real values are available.
package backfill

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

// Heuristic draws synthetic values from an injected random source.
type Heuristic struct {
	rng     *rand.Rand
	variant string
	baseMin int
	baseMax int
}

// New creates a Heuristic. A nil rng is seeded from the clock.
func New(rng *rand.Rand, rules *common.ImportRules) *Heuristic {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}
	if rules == nil {
		rules = common.DefaultImportRules()
	}
	return &Heuristic{
		rng:     rng,
		variant: rules.Backfill.Variant,
		baseMin: rules.Amounts.SyntheticBaseMin,
		baseMax: rules.Amounts.SyntheticBaseMax,
	}
}

// Seeded returns a random source that yields the same sequence for the same seed.
func Seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Dates derives received and scheduled dates from a payment date.
//
// random:       received = payment - U[10,30] days, scheduled = received + U[1,10] days.
// fixed-offset: scheduled = payment - 7 days, received = scheduled - 3 days.
func (h *Heuristic) Dates(payment time.Time) (received, scheduled time.Time) {
	payment = utils.Day(payment)
	if h.variant == common.BackfillFixedOffset {
		scheduled = payment.AddDate(0, 0, -7)
		return scheduled.AddDate(0, 0, -3), scheduled
	}
	received = payment.AddDate(0, 0, -h.between(10, 30))
	scheduled = received.AddDate(0, 0, h.between(1, 10))
	return received, scheduled
}

// BaseAmount draws a whole-lira VAT-exclusive amount.
func (h *Heuristic) BaseAmount() decimal.Decimal {
	return decimal.NewFromInt(int64(h.between(h.baseMin, h.baseMax)))
}

// Pick returns a uniform index in [0, n). n must be positive.
func (h *Heuristic) Pick(n int) int {
	return h.rng.IntN(n)
}

// between returns a uniform integer in [lo, hi].
func (h *Heuristic) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + h.rng.IntN(hi-lo+1)
}
