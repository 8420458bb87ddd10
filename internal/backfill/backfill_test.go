package backfill

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
)

func TestDates_RandomBounds(t *testing.T) {
	h := New(Seeded(7), common.DefaultImportRules())
	payment := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2000; i++ {
		received, scheduled := h.Dates(payment)

		back := int(payment.Sub(received).Hours() / 24)
		if back < 10 || back > 30 {
			t.Fatalf("received %d days before payment, want 10..30", back)
		}
		ahead := int(scheduled.Sub(received).Hours() / 24)
		if ahead < 1 || ahead > 10 {
			t.Fatalf("scheduled %d days after received, want 1..10", ahead)
		}
		if scheduled.After(payment) {
			t.Fatalf("scheduled %s after payment %s", scheduled, payment)
		}
	}
}

func TestDates_Deterministic(t *testing.T) {
	payment := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	a := New(Seeded(42), nil)
	b := New(Seeded(42), nil)
	for i := 0; i < 20; i++ {
		ra, sa := a.Dates(payment)
		rb, sb := b.Dates(payment)
		if !ra.Equal(rb) || !sa.Equal(sb) {
			t.Fatalf("same seed produced different dates at %d", i)
		}
		if ra.Hour() != 0 || sa.Hour() != 0 {
			t.Fatalf("dates must be whole days: %s %s", ra, sa)
		}
	}
}

func TestDates_FixedOffset(t *testing.T) {
	rules := common.DefaultImportRules()
	rules.Backfill.Variant = common.BackfillFixedOffset
	h := New(Seeded(1), rules)

	received, scheduled := h.Dates(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC))
	if want := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC); !scheduled.Equal(want) {
		t.Errorf("scheduled = %s, want %s", scheduled, want)
	}
	if want := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC); !received.Equal(want) {
		t.Errorf("received = %s, want %s", received, want)
	}
}

func TestBaseAmount(t *testing.T) {
	h := New(Seeded(3), nil)
	lo, hi := decimal.NewFromInt(1000), decimal.NewFromInt(4999)
	for i := 0; i < 1000; i++ {
		b := h.BaseAmount()
		if b.LessThan(lo) || b.GreaterThan(hi) {
			t.Fatalf("base amount %s outside 1000..4999", b)
		}
	}
}

func TestPick(t *testing.T) {
	h := New(Seeded(9), nil)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		n := h.Pick(3)
		if n < 0 || n >= 3 {
			t.Fatalf("Pick(3) = %d", n)
		}
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected all indexes to be picked, got %v", seen)
	}
}
