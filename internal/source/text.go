package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/tebligat-tracker/internal/amount"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

// ReadText reads tab separated lines of the form
//
//	DD/MM/YYYY <TAB> [transaction id <TAB>] description [<TAB> amount]
//
// Lines without a parseable date or description are skipped and counted.
func ReadText(r io.Reader, origin string) ([]entity.ParsedPayment, int, error) {
	var (
		payments []entity.ParsedPayment
		skipped  int
		lineNo   int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, ok := parseLine(line)
		if !ok {
			skipped++
			continue
		}
		p.Origin = fmt.Sprintf("%s:%d", origin, lineNo)
		payments = append(payments, p)
	}
	if err := sc.Err(); err != nil {
		return nil, 0, common.NewAppError("SOURCE_READ", origin, err)
	}
	return payments, skipped, nil
}

func parseLine(line string) (entity.ParsedPayment, bool) {
	parts := strings.Split(line, "\t")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return entity.ParsedPayment{}, false
	}
	paid, err := utils.ParseDMY(parts[0])
	if err != nil {
		return entity.ParsedPayment{}, false
	}

	p := entity.ParsedPayment{PaymentDate: paid}
	rest := parts[1:]
	// A trailing numeric column is the amount. Zero and outgoing amounts
	// are not fees and drop the line.
	if len(rest) >= 2 {
		if total, err := amount.Parse(rest[len(rest)-1]); err == nil {
			if !total.IsPositive() {
				return entity.ParsedPayment{}, false
			}
			p.TotalAmount = &total
			rest = rest[:len(rest)-1]
		}
	}
	switch len(rest) {
	case 1:
		p.Description = rest[0]
	default:
		p.Reference = rest[0]
		p.Description = strings.Join(rest[1:], " ")
	}
	if p.Description == "" {
		return entity.ParsedPayment{}, false
	}
	return p, true
}
