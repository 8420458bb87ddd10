package constants

import "strings"

// SourceFormat identifies the layout of a bank export.
type SourceFormat string

const (
	SourceText     SourceFormat = "TEXT"
	SourceWorkbook SourceFormat = "XLSX"
)

// AllowedExtensions maps bank export extensions to their format.
var AllowedExtensions = map[string]SourceFormat{
	"txt":  SourceText,
	"tsv":  SourceText,
	"xlsx": SourceWorkbook,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatForExt returns the source format for a file extension.
func FormatForExt(ext string) (SourceFormat, bool) {
	f, ok := AllowedExtensions[NormalizeExt(ext)]
	return f, ok
}
