package source

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/tebligat-tracker/internal/amount"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/utils"
)

// WorkbookOptions describes the bank statement layout.
type WorkbookOptions struct {
	Sheet       string
	HeaderRows  int
	DateCol     int
	RefCol      int
	DescCol     int
	AmountCol   int
	MinRowCells int
}

// DefaultWorkbookOptions matches the bank's account statement export.
func DefaultWorkbookOptions() WorkbookOptions {
	return WorkbookOptions{
		HeaderRows:  12,
		DateCol:     0,
		RefCol:      4,
		DescCol:     5,
		AmountCol:   6,
		MinRowCells: 7,
	}
}

func (o WorkbookOptions) withDefaults() WorkbookOptions {
	if o == (WorkbookOptions{}) {
		return DefaultWorkbookOptions()
	}
	if o.MinRowCells == 0 {
		o.MinRowCells = max(o.DateCol, o.RefCol, o.DescCol, o.AmountCol) + 1
	}
	return o
}

// ReadWorkbook reads statement rows from an XLSX file. Rows that are too
// short, undated or carry no positive amount are skipped and counted.
func ReadWorkbook(r io.Reader, origin string, opts WorkbookOptions) ([]entity.ParsedPayment, int, error) {
	opts = opts.withDefaults()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, common.NewAppError("SOURCE_READ", origin, err)
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, 0, common.NewAppError("SOURCE_READ", origin+": workbook has no sheets", common.ErrInvalidInput)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, 0, common.NewAppError("SOURCE_READ", origin, err)
	}

	var (
		payments []entity.ParsedPayment
		skipped  int
	)
	for i, row := range rows {
		if i < opts.HeaderRows {
			continue
		}
		if len(row) < opts.MinRowCells {
			if len(row) > 0 {
				skipped++
			}
			continue
		}
		paid, err := cellDate(row[opts.DateCol])
		if err != nil {
			skipped++
			continue
		}
		total, err := amount.Parse(row[opts.AmountCol])
		if err != nil || !total.IsPositive() {
			skipped++
			continue
		}
		desc := strings.TrimSpace(row[opts.DescCol])
		if desc == "" {
			skipped++
			continue
		}
		payments = append(payments, entity.ParsedPayment{
			PaymentDate: paid,
			Description: desc,
			TotalAmount: &total,
			Reference:   strings.TrimSpace(row[opts.RefCol]),
			Origin:      fmt.Sprintf("%s:%d", origin, i+1),
		})
	}
	return payments, skipped, nil
}

// cellDate accepts a spreadsheet serial number or a DD/MM/YYYY string.
func cellDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "/") {
		return utils.ParseDMY(v)
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Time{}, err
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return utils.Day(t), nil
}
