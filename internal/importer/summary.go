package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
)

// Summary holds the counters of one import run.
type Summary struct {
	RunID  string
	Source string
	DryRun bool
	// Eligible is the number of records that carried a cashier office marker.
	Eligible int
	// Ignored records carried no marker and were never processed.
	Ignored         int
	Success         int
	Duplicate       int
	UnresolvedCourt int
	ParseError      int
	PersistFailure  int
	NewCourts       int
	Elapsed         time.Duration
	Created         []*entity.Job

	unresolved []string
	seen       map[string]struct{}
}

// Errors is the number of records that could not be imported for a reason
// other than being a duplicate.
func (s *Summary) Errors() int {
	return s.ParseError + s.UnresolvedCourt + s.PersistFailure
}

// addUnresolved records a court name once, keeping first-seen order.
func (s *Summary) addUnresolved(name string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.unresolved = append(s.unresolved, name)
}

// Unresolved returns the distinct court names that matched no registry entry.
func (s *Summary) Unresolved() []string {
	return append([]string(nil), s.unresolved...)
}

// Merge adds the counters of other into s.
func (s *Summary) Merge(other *Summary) {
	if other == nil {
		return
	}
	s.Eligible += other.Eligible
	s.Ignored += other.Ignored
	s.Success += other.Success
	s.Duplicate += other.Duplicate
	s.UnresolvedCourt += other.UnresolvedCourt
	s.ParseError += other.ParseError
	s.PersistFailure += other.PersistFailure
	s.NewCourts += other.NewCourts
	s.Elapsed += other.Elapsed
	s.Created = append(s.Created, other.Created...)
	for _, name := range other.unresolved {
		s.addUnresolved(name)
	}
}

// String renders the summary for console output.
func (s *Summary) String() string {
	var b strings.Builder
	title := "Import summary"
	if s.DryRun {
		title += " (dry run)"
	}
	if s.Source != "" {
		title += ": " + s.Source
	}
	fmt.Fprintln(&b, title)
	fmt.Fprintf(&b, "  eligible records:  %d\n", s.Eligible)
	fmt.Fprintf(&b, "  imported:          %d\n", s.Success)
	fmt.Fprintf(&b, "  duplicates:        %d\n", s.Duplicate)
	fmt.Fprintf(&b, "  unresolved courts: %d\n", s.UnresolvedCourt)
	fmt.Fprintf(&b, "  parse errors:      %d\n", s.ParseError)
	fmt.Fprintf(&b, "  persist failures:  %d\n", s.PersistFailure)
	if s.NewCourts > 0 {
		fmt.Fprintf(&b, "  new courts:        %d\n", s.NewCourts)
	}
	fmt.Fprintf(&b, "  ignored lines:     %d\n", s.Ignored)
	if len(s.unresolved) > 0 {
		fmt.Fprintln(&b, "Unresolved court names:")
		for _, name := range s.unresolved {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	return b.String()
}
