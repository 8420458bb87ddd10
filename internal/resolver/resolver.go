// Package resolver matches parsed court names against the court registry.
package resolver

import (
	"strings"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/entity"
	"github.com/joseph-ayodele/tebligat-tracker/internal/normalize"
	"github.com/joseph-ayodele/tebligat-tracker/internal/similarity"
)

// Method names how a court was resolved.
type Method string

const (
	MethodExact      Method = "exact"
	MethodContains   Method = "contains"
	MethodSimilarity Method = "similarity"
)

// Result is a successful resolution.
type Result struct {
	Court  *entity.Court
	Method Method
	Score  int
}

// Resolver looks up court names. It only reports match or no match;
// what to do with unresolved names is decided by the caller.
type Resolver struct {
	strategy string
	minScore int
}

// New creates a Resolver. strategy is common.StrategyFirstContains or
// common.StrategyBestSimilarity; minScore applies to the latter.
func New(strategy string, minScore int) *Resolver {
	if strategy == "" {
		strategy = common.StrategyFirstContains
	}
	return &Resolver{strategy: strategy, minScore: minScore}
}

// FromRules builds a Resolver from import rules.
func FromRules(rules common.ResolutionRules) *Resolver {
	return New(rules.Strategy, rules.MinScore)
}

// Strategy returns the configured fallback strategy.
func (r *Resolver) Strategy() string {
	return r.strategy
}

// Resolve returns the registry entry for name, or false when unresolved.
//
// The exact lookup compares raw display names. With first-contains the
// first registry entry whose folded name contains the folded name, or is
// contained in it, wins. With best-similarity containment candidates are ranked by Score
// and, if none contain the name, the best entry scoring at least minScore
// is taken.
func (r *Resolver) Resolve(name string, registry []*entity.Court) (Result, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}, false
	}

	for _, c := range registry {
		if c.Name == name {
			return Result{Court: c, Method: MethodExact, Score: 100}, true
		}
	}

	switch r.strategy {
	case common.StrategyBestSimilarity:
		return r.bestSimilarity(name, registry)
	default:
		for _, c := range registry {
			if contains(c.Name, name) {
				return Result{Court: c, Method: MethodContains, Score: similarity.Score(name, c.Name)}, true
			}
		}
		return Result{}, false
	}
}

func (r *Resolver) bestSimilarity(name string, registry []*entity.Court) (Result, bool) {
	var best Result
	found := false
	for _, c := range registry {
		if contains(c.Name, name) {
			s := similarity.Score(name, c.Name)
			if !found || s > best.Score {
				best = Result{Court: c, Method: MethodContains, Score: s}
				found = true
			}
		}
	}
	if found {
		return best, true
	}

	for _, c := range registry {
		s := similarity.Score(name, c.Name)
		if s >= r.minScore && s > best.Score {
			best = Result{Court: c, Method: MethodSimilarity, Score: s}
			found = true
		}
	}
	return best, found
}

// contains compares folded names in both directions, so case and Turkish
// letter variants still match.
func contains(registryName, name string) bool {
	a, b := normalize.Fold(registryName), normalize.Fold(name)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
