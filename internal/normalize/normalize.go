// Package normalize folds human-entered names into a comparison key.
//
// The fold uses an explicit substitution table for Turkish letters.
// Generic lower-casing maps "I" to "i" and "İ" to "i̇" (i + U+0307), so the
// dotted/dotless pair would never compare equal across spellings.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9\s]+`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

var foldTable = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i", "I", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
	"â", "a", "Â", "a",
	"î", "i", "Î", "i",
	"û", "u", "Û", "u",
)

// Fold returns the comparison key for s: Turkish letters folded to ASCII,
// lower-cased, punctuation removed and whitespace collapsed.
// The result must never be persisted or displayed.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	// Bank exports sometimes carry decomposed letters (I + U+0307).
	s = norm.NFC.String(s)
	s = foldTable.Replace(s)
	s = strings.ToLower(s)
	s = reNonAlnum.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Equal reports whether a and b fold to the same key.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
