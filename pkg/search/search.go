// Package search provides the interchangeable strategies that index searchable
// choices and answer ranked queries against them.
//
// Every strategy returns results whose Item is a pointer taken from the last
// indexed haystack, with Rank set to the 0-based position in the result list.
// An empty haystack, an empty query or an empty field list yields no results.
// Callers must Reset (or re-Index) whenever the choice set changes structurally;
// a searcher never notices store mutations on its own.
package search

import (
	"errors"
	"fmt"

	"github.com/bastiangx/choices/pkg/model"
)

// ErrUnknownStrategy is returned by New for a strategy name it does not know.
var ErrUnknownStrategy = errors.New("search: unknown strategy")

const (
	StrategyFuzzy  = "fuzzy"
	StrategyPrefix = "prefix"
	StrategyKMP    = "kmp"
)

// DefaultThreshold is the worst fuzzy score still reported.
const DefaultThreshold = 0.6

// Searcher indexes a haystack of choices and answers queries against it.
type Searcher interface {
	// Index replaces the haystack.
	Index(choices []*model.Choice)
	// Reset drops the haystack.
	Reset()
	// IsEmptyIndex reports whether the haystack is empty.
	IsEmptyIndex() bool
	// Search returns matches for query, best first.
	Search(query string) []model.Result
}

// Options configures a searcher. Fields name the choice fields to match
// (see model.Choice.Field). Weights and Threshold only affect fuzzy search.
type Options struct {
	Strategy  string
	Fields    []string
	Weights   map[string]float64
	Threshold float64
}

// DefaultOptions searches label and value with the fuzzy strategy.
func DefaultOptions() Options {
	return Options{
		Strategy:  StrategyFuzzy,
		Fields:    []string{"label", "value"},
		Threshold: DefaultThreshold,
	}
}

// New builds the searcher named by opts.Strategy.
func New(opts Options) (Searcher, error) {
	switch opts.Strategy {
	case StrategyFuzzy, "":
		return NewFuzzy(opts.Fields, opts.Weights, opts.Threshold), nil
	case StrategyPrefix:
		return NewPrefix(opts.Fields), nil
	case StrategyKMP:
		return NewKMP(opts.Fields), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}
}

func noResults() []model.Result {
	return []model.Result{}
}

// ordered emits the marked haystack entries in haystack order, scoring each by its position.
func ordered(haystack []*model.Choice, marked []bool) []model.Result {
	out := noResults()
	for i, c := range haystack {
		if !marked[i] {
			continue
		}
		n := len(out)
		out = append(out, model.Result{Item: c, Score: float64(n), Rank: n})
	}
	return out
}
