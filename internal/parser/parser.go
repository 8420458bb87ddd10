// Package parser extracts court names and file numbers from bank transfer descriptions.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
)

// Parser applies an ordered strip/match pipeline to a description.
// It is safe for concurrent use once built.
type Parser struct {
	markers  []string
	transfer *regexp.Regexp
	cashier  *regexp.Regexp
	payer    *regexp.Regexp
	city     *regexp.Regexp
	primary  *regexp.Regexp
	fallback *regexp.Regexp
}

// New compiles rules into a Parser.
func New(rules common.ParserRules) *Parser {
	p := &Parser{markers: rules.Markers}

	if len(rules.TransferPrefixes) > 0 {
		p.transfer = regexp.MustCompile(`^GELEN\s+(?:` + alternation(rules.TransferPrefixes) + `)\s*-\s*`)
	}
	if rules.CashierKeyword != "" {
		p.cashier = regexp.MustCompile(`^.*?` + regexp.QuoteMeta(rules.CashierKeyword) + `\s*-\s*`)
	}
	if len(rules.PayerSuffixes) > 0 {
		p.payer = regexp.MustCompile(`\s*-\s*(?:` + alternation(rules.PayerSuffixes) + `)\s*$`)
	}
	if len(rules.CityPrefixes) > 0 {
		p.city = regexp.MustCompile(`^(?:` + alternation(rules.CityPrefixes) + `)\s+`)
	}

	const head = `^(.+?)\s*-\s*(\d{4}/\d+)`
	if len(rules.CaseTypes) > 0 {
		p.primary = regexp.MustCompile(head + `\s+(?:` + alternation(rules.CaseTypes) + `)`)
	} else {
		p.primary = regexp.MustCompile(head)
	}
	if rules.Fallback {
		p.fallback = regexp.MustCompile(head)
	}
	return p
}

// Default returns a Parser built from the default import rules.
func Default() *Parser {
	return New(common.DefaultImportRules().Parser)
}

// Eligible reports whether the description names a court cashier office.
// Ineligible lines are dropped before the pipeline counts anything.
func (p *Parser) Eligible(description string) bool {
	for _, m := range p.markers {
		if m != "" && strings.Contains(description, m) {
			return true
		}
	}
	return false
}

// Parse extracts a CandidateMatch, or returns nil when no pattern matches.
func (p *Parser) Parse(description string) *entity.CandidateMatch {
	text := strings.TrimSpace(description)
	if text == "" {
		return nil
	}

	if p.transfer != nil {
		text = p.transfer.ReplaceAllString(text, "")
	}
	if p.cashier != nil {
		text = p.cashier.ReplaceAllString(text, "")
	}
	if p.payer != nil {
		text = p.payer.ReplaceAllString(text, "")
	}

	m := p.primary.FindStringSubmatch(text)
	if m == nil && p.fallback != nil {
		m = p.fallback.FindStringSubmatch(text)
	}
	if m == nil {
		return nil
	}

	name := strings.TrimSpace(m[1])
	if p.city != nil {
		name = strings.TrimSpace(p.city.ReplaceAllString(name, ""))
	}
	if name == "" {
		return nil
	}
	return &entity.CandidateMatch{CourtName: name, FileNumber: m[2]}
}

// alternation quotes values into a regexp alternation, longest first so that
// "Satış Memu" wins over "Satış".
func alternation(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			quoted = append(quoted, regexp.QuoteMeta(v))
		}
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return strings.Join(quoted, "|")
}
