package similarity

import (
	"testing"
)

var names = []string{
	"5. Aile Mahkemesi",
	"11. Asliye Hukuk Mahkemesi",
	"Korkuteli Asliye Hukuk Mahkemesi",
	"2. Sulh Hukuk Mahkemesi",
	"İcra Hukuk Mahkemesi",
	"a",
	"x",
	"",
}

func TestScore_Identity(t *testing.T) {
	for _, n := range names {
		if got := Score(n, n); got != 100 {
			t.Errorf("Score(%q, %q) = %d, want 100", n, n, got)
		}
	}
}

func TestScore_Symmetric(t *testing.T) {
	for _, a := range names {
		for _, b := range names {
			if Score(a, b) != Score(b, a) {
				t.Errorf("Score not symmetric for %q / %q: %d vs %d", a, b, Score(a, b), Score(b, a))
			}
		}
	}
}

func TestScore_Bounds(t *testing.T) {
	for _, a := range names {
		for _, b := range names {
			s := Score(a, b)
			if s < 0 || s > 100 {
				t.Errorf("Score(%q, %q) = %d out of range", a, b, s)
			}
		}
	}
}

func TestScore_Values(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"İCRA", "icra", 100},
		{"abcd", "abce", 75},
		{"kitten", "sitting", 57},
		{"a", "", 0},
		{"...", "", 100},
	}
	for _, tt := range tests {
		if got := Score(tt.a, tt.b); got != tt.want {
			t.Errorf("Score(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTiers_Classify(t *testing.T) {
	tiers := DefaultTiers()
	tests := []struct {
		score int
		want  Tier
	}{
		{100, TierLikely},
		{90, TierLikely},
		{89, TierProbable},
		{75, TierProbable},
		{74, TierPossible},
		{60, TierPossible},
		{59, TierNone},
	}
	for _, tt := range tests {
		if got := tiers.Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}

	custom := Tiers{Likely: 95, Probable: 80, Possible: 50}
	if got := custom.Classify(90); got != TierProbable {
		t.Errorf("custom Classify(90) = %q, want probable", got)
	}
}

func TestRank(t *testing.T) {
	opts := DefaultRankOptions()
	got := Rank("Asliye Hukuk Mahkemesi", names, opts)
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	if got[0].Value != "11. Asliye Hukuk Mahkemesi" {
		t.Errorf("best suggestion = %q", got[0].Value)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("suggestions not sorted: %+v", got)
		}
	}
	for _, s := range got {
		if s.Score < opts.Threshold {
			t.Errorf("suggestion below threshold: %+v", s)
		}
	}

	if got := Rank("ai", names, opts); got != nil {
		t.Errorf("expected no suggestions for short query, got %+v", got)
	}

	opts.Limit = 1
	if got := Rank("Asliye Hukuk Mahkemesi", names, opts); len(got) != 1 {
		t.Errorf("limit not applied: %d", len(got))
	}
}
