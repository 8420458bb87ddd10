package utils

import (
	"testing"
	"time"
)

func TestParseDMY(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"13/01/2025", time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), true},
		{" 3/1/2025 ", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), true},
		{"2025-01-13", time.Time{}, false},
		{"32/01/2025", time.Time{}, false},
	}
	for _, tt := range tests {
		got, err := ParseDMY(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseDMY(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && !got.Equal(tt.want) {
			t.Errorf("ParseDMY(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestYMDRoundTrip(t *testing.T) {
	d := time.Date(2024, 2, 29, 17, 30, 0, 0, time.UTC)
	s := FormatYMD(d)
	if s != "2024-02-29" {
		t.Fatalf("FormatYMD = %q", s)
	}
	back, err := ParseYMD(s)
	if err != nil || !back.Equal(Day(d)) {
		t.Errorf("ParseYMD(%q) = %v, %v", s, back, err)
	}
	if p, err := ParseYMDPtr(nil); p != nil || err != nil {
		t.Errorf("ParseYMDPtr(nil) = %v, %v", p, err)
	}
	if StrPtr("  ") != nil || StrOrEmpty(StrPtr(" x ")) != "x" {
		t.Error("StrPtr should trim and drop blanks")
	}
}
