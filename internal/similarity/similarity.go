// Package similarity scores how alike two human-entered names are.
package similarity

import (
	"math"
	"sort"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/joseph-ayodele/tebligat-tracker/internal/normalize"
)

// Score returns a 0..100 similarity between a and b, based on the unit-cost
// edit distance of their folded forms. Equal folded forms score 100.
func Score(a, b string) int {
	na, nb := normalize.Fold(a), normalize.Fold(b)
	if na == nb {
		return 100
	}
	ra, rb := []rune(na), []rune(nb)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 100
	}
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptionsWithSub)
	return int(math.Round(100 * float64(maxLen-distance) / float64(maxLen)))
}

// Tier is the near-duplicate warning level for a score.
type Tier string

const (
	TierNone     Tier = ""
	TierPossible Tier = "possible"
	TierProbable Tier = "probable"
	TierLikely   Tier = "likely"
)

// Tiers holds the minimum score for each warning level.
type Tiers struct {
	Likely   int
	Probable int
	Possible int
}

// DefaultTiers are the thresholds used by the entry forms.
func DefaultTiers() Tiers {
	return Tiers{Likely: 90, Probable: 75, Possible: 60}
}

// Classify maps a score onto a tier.
func (t Tiers) Classify(score int) Tier {
	switch {
	case score >= t.Likely:
		return TierLikely
	case score >= t.Probable:
		return TierProbable
	case score >= t.Possible:
		return TierPossible
	default:
		return TierNone
	}
}

// Suggestion is a ranked candidate for a query.
type Suggestion struct {
	Index int
	Value string
	Score int
	Tier  Tier
}

// RankOptions bounds the suggestions returned by Rank.
type RankOptions struct {
	MinChars  int
	Threshold int
	Limit     int
	Tiers     Tiers
}

// DefaultRankOptions mirrors the interactive name-entry warning.
func DefaultRankOptions() RankOptions {
	return RankOptions{MinChars: 3, Threshold: 60, Limit: 5, Tiers: DefaultTiers()}
}

// Rank scores query against every candidate and returns those at or above
// the threshold, best first. Ties keep candidate order.
func Rank(query string, candidates []string, opts RankOptions) []Suggestion {
	if len([]rune(normalize.Fold(query))) < opts.MinChars {
		return nil
	}
	var out []Suggestion
	for i, c := range candidates {
		s := Score(query, c)
		if s < opts.Threshold {
			continue
		}
		out = append(out, Suggestion{Index: i, Value: c, Score: s, Tier: opts.Tiers.Classify(s)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
