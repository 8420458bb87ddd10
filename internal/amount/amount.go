// Package amount splits VAT-inclusive totals into base and VAT and back.
//
// All rounding is to two decimal places, half away from zero.
package amount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultRate is the standard VAT rate in percent.
var DefaultRate = decimal.NewFromInt(20)

var hundred = decimal.NewFromInt(100)

// Breakdown is a consistent total/base/VAT triple.
type Breakdown struct {
	Total decimal.Decimal
	Base  decimal.Decimal
	VAT   decimal.Decimal
	Rate  decimal.Decimal
}

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Decompose derives base and VAT from a VAT-inclusive total.
func Decompose(total, rate decimal.Decimal) Breakdown {
	divisor := decimal.NewFromInt(1).Add(rate.Div(hundred))
	base := total.DivRound(divisor, 2)
	return Breakdown{
		Total: Round2(total),
		Base:  base,
		VAT:   Round2(total.Sub(base)),
		Rate:  rate,
	}
}

// Compose derives VAT and total from a VAT-exclusive base.
func Compose(base, rate decimal.Decimal) Breakdown {
	vat := Round2(base.Mul(rate).Div(hundred))
	return Breakdown{
		Total: Round2(base.Add(vat)),
		Base:  Round2(base),
		VAT:   vat,
		Rate:  rate,
	}
}

// Consistent reports whether base + VAT equals total within one cent.
func (b Breakdown) Consistent() bool {
	diff := b.Base.Add(b.VAT).Sub(b.Total).Abs()
	return diff.LessThanOrEqual(decimal.New(1, -2))
}

// Parse reads bank-formatted amounts such as "1.234,56", "1,234.56",
// "1234.56" or "1234,5". A currency suffix like "TL" is ignored.
func Parse(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimSuffix(strings.TrimSuffix(v, "TL"), "TRY")
	v = strings.ReplaceAll(strings.TrimSpace(v), " ", "")
	if v == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	lastDot, lastComma := strings.LastIndex(v, "."), strings.LastIndex(v, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			v = strings.ReplaceAll(v, ".", "")
			v = strings.Replace(v, ",", ".", 1)
		} else {
			// 1,234.56
			v = strings.ReplaceAll(v, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(v, ",") == 1 && len(v)-lastComma-1 != 3 {
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
