// Package source reads bank exports into payment records.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/tebligat-tracker/constants"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
)

// Batch is the content of one bank export.
type Batch struct {
	Path     string
	Format   constants.SourceFormat
	Payments []entity.ParsedPayment
	// Skipped counts lines or rows that carried no usable payment.
	Skipped int
}

// Allowed reports whether path has a supported bank export extension.
func Allowed(path string) bool {
	_, ok := constants.FormatForExt(filepath.Ext(path))
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// ReadFile reads a bank export, choosing the reader by extension.
func ReadFile(path string, opts WorkbookOptions) (Batch, error) {
	format, ok := constants.FormatForExt(filepath.Ext(path))
	if !ok {
		return Batch{}, common.NewAppError("UNSUPPORTED_SOURCE", fmt.Sprintf("unsupported file type %q", filepath.Ext(path)), common.ErrInvalidInput)
	}
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, common.NewAppError("SOURCE_OPEN", path, err)
	}
	defer f.Close()

	batch := Batch{Path: path, Format: format}
	name := filepath.Base(path)
	switch format {
	case constants.SourceWorkbook:
		batch.Payments, batch.Skipped, err = ReadWorkbook(f, name, opts)
	default:
		batch.Payments, batch.Skipped, err = ReadText(f, name)
	}
	if err != nil {
		return Batch{}, err
	}
	return batch, nil
}
