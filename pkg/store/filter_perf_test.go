package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/bastiangx/choices/pkg/model"
)

func buildChoices(n int) []*model.Choice {
	choices := make([]*model.Choice, n)
	for i := range choices {
		choices[i] = &model.Choice{ID: i + 1, Value: fmt.Sprintf("choice-%d", i), Active: true}
	}
	return choices
}

func buildResults(choices []*model.Choice, n int) []model.Result {
	results := make([]model.Result, 0, n)
	step := max(1, len(choices)/max(1, n))
	for i := 0; i < len(choices) && len(results) < n; i += step {
		results = append(results, model.Result{Item: choices[i], Score: 0.5, Rank: len(results)})
	}
	return results
}

// fastestFilter returns the best of a few runs to damp scheduler noise.
func fastestFilter(choices []*model.Choice, results []model.Result) time.Duration {
	best := time.Duration(1<<63 - 1)
	action := FilterChoices(results)
	for i := 0; i < 5; i++ {
		start := time.Now()
		ReduceChoices(choices, action)
		best = min(best, time.Since(start))
	}
	return best
}

func TestFilterChoicesLargeCollection(t *testing.T) {
	choices := buildChoices(10000)
	results := buildResults(choices, 10)

	r := ReduceChoices(choices, FilterChoices(results))
	active := 0
	for _, c := range r.State {
		if c.Active {
			active++
		}
	}
	if active != 10 {
		t.Fatalf("expected 10 active choices, got %d", active)
	}
}

func TestFilterChoicesScalesLinearly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	small := buildChoices(5000)
	large := buildChoices(40000)

	// Results grow with the collection so a nested scan would show up as
	// quadratic growth (64x) instead of linear growth (8x).
	smallTime := fastestFilter(small, buildResults(small, len(small)/2))
	largeTime := fastestFilter(large, buildResults(large, len(large)/2))
	if smallTime <= 0 {
		smallTime = time.Microsecond
	}

	ratio := float64(largeTime) / float64(smallTime)
	t.Logf("filter 5k: %v, 40k: %v, ratio %.1f", smallTime, largeTime, ratio)
	if ratio > 32 {
		t.Errorf("filter grew %.1fx for 8x more choices; expected roughly linear growth", ratio)
	}
}

func BenchmarkFilterChoices(b *testing.B) {
	for _, n := range []int{1000, 10000, 100000} {
		choices := buildChoices(n)
		action := FilterChoices(buildResults(choices, 10))
		b.Run(fmt.Sprintf("choices_%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				ReduceChoices(choices, action)
			}
		})
	}
}
