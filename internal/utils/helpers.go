package utils

import (
	"strings"
	"time"
)

const (
	// DateLayout is the storage and wire form of calendar dates.
	DateLayout = "2006-01-02"
	// DisplayDateLayout is the day-first form used in bank exports and reports.
	DisplayDateLayout = "02/01/2006"
)

func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// StrPtr returns nil for blank strings.
func StrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func ParseYMD(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	// strip time to midnight UTC to match DATE semantics
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseYMDPtr parses an optional date; empty input yields nil.
func ParseYMDPtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseYMD(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatYMD(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func FormatYMDPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatYMD(*t)
	return &s
}

// ParseDMY parses DD/MM/YYYY into midnight UTC. Single digit days and
// months are accepted.
func ParseDMY(s string) (time.Time, error) {
	return time.ParseInLocation("2/1/2006", strings.TrimSpace(s), time.UTC)
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
