package search

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/bastiangx/choices/pkg/model"
	"github.com/sahilm/fuzzy"
)

// Scoring weights. A score is 0 for a perfect match and approaches 1 for a poor one.
const (
	errorWeight    = 0.9
	locationWeight = 0.1
)

type weightedField struct {
	name   string
	weight float64 // normalized to (0, 1]
}

// FuzzySearcher ranks choices by approximate match. Each whitespace-separated
// query token is matched against each field; a field's score is the mean of its
// token scores, and a choice keeps its best weighted field score. Results with a
// score above the threshold are dropped. Ties keep haystack order.
type FuzzySearcher struct {
	fields    []weightedField
	threshold float64
	haystack  []*model.Choice
}

// NewFuzzy creates a fuzzy searcher. Fields missing from weights get weight 1;
// a threshold outside (0, 1] falls back to DefaultThreshold.
func NewFuzzy(fields []string, weights map[string]float64, threshold float64) *FuzzySearcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	maxWeight := 0.0
	raw := make([]float64, len(fields))
	for i, name := range fields {
		w, ok := weights[name]
		if !ok || w <= 0 {
			w = 1
		}
		raw[i] = w
		maxWeight = math.Max(maxWeight, w)
	}

	weighted := make([]weightedField, len(fields))
	for i, name := range fields {
		weighted[i] = weightedField{name: name, weight: raw[i] / maxWeight}
	}
	return &FuzzySearcher{fields: weighted, threshold: threshold}
}

func (s *FuzzySearcher) Index(choices []*model.Choice) {
	s.haystack = append([]*model.Choice(nil), choices...)
}

func (s *FuzzySearcher) Reset() {
	s.haystack = nil
}

func (s *FuzzySearcher) IsEmptyIndex() bool {
	return len(s.haystack) == 0
}

// fieldSource exposes one field of the haystack to sahilm/fuzzy.
type fieldSource struct {
	haystack []*model.Choice
	field    string
}

func (f fieldSource) String(i int) string {
	text, _ := f.haystack[i].Field(f.field)
	return text
}

func (f fieldSource) Len() int {
	return len(f.haystack)
}

func (s *FuzzySearcher) Search(query string) []model.Result {
	tokens := strings.Fields(query)
	if len(tokens) == 0 || len(s.fields) == 0 || len(s.haystack) == 0 {
		return noResults()
	}

	best := make([]float64, len(s.haystack))
	for i := range best {
		best[i] = math.Inf(1)
	}

	for _, field := range s.fields {
		src := fieldSource{haystack: s.haystack, field: field.name}
		sums := s.scoreField(src, tokens)
		for i, sum := range sums {
			if math.IsInf(sum, 1) {
				continue
			}
			score := sum / float64(len(tokens))
			weighted := 1 - (1-score)*field.weight
			best[i] = math.Min(best[i], weighted)
		}
	}

	type hit struct {
		index int
		score float64
	}
	hits := make([]hit, 0, len(s.haystack))
	for i, score := range best {
		if score <= s.threshold {
			hits = append(hits, hit{index: i, score: score})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score < hits[b].score
	})

	out := make([]model.Result, len(hits))
	for rank, h := range hits {
		out[rank] = model.Result{Item: s.haystack[h.index], Score: h.score, Rank: rank}
	}
	return out
}

// scoreField sums token scores per haystack entry; +Inf marks entries whose
// field is absent.
func (s *FuzzySearcher) scoreField(src fieldSource, tokens []string) []float64 {
	sums := make([]float64, src.Len())
	texts := make([]string, src.Len())
	for i := range texts {
		text, ok := src.haystack[i].Field(src.field)
		if !ok || text == "" {
			sums[i] = math.Inf(1)
			continue
		}
		texts[i] = text
	}

	matched := make([]bool, src.Len())
	for _, token := range tokens {
		clear(matched)
		for _, m := range fuzzy.FindFrom(token, src) {
			if math.IsInf(sums[m.Index], 1) || len(m.MatchedIndexes) == 0 {
				continue
			}
			matched[m.Index] = true
			sums[m.Index] += windowScore(token, m.Str, m.MatchedIndexes)
		}
		for i, text := range texts {
			if matched[i] || math.IsInf(sums[i], 1) {
				continue
			}
			sums[i] += leadingScore(token, text)
		}
	}
	return sums
}

// windowScore scores a subsequence match by the edit distance between the token
// and the span of text it was found in, plus a small penalty for a late start.
// matched holds byte offsets into text.
func windowScore(token, text string, matched []int) float64 {
	first, last := matched[0], matched[len(matched)-1]
	_, width := utf8.DecodeRuneInString(text[last:])
	window := text[first : last+width]

	start := utf8.RuneCountInString(text[:first])
	length := max(1, utf8.RuneCountInString(text))
	return errorWeight*errorRatio(token, window) + locationWeight*float64(start)/float64(length)
}

// leadingScore covers typos that break the subsequence (transpositions,
// substitutions) by comparing the token with the start of text.
func leadingScore(token, text string) float64 {
	runes := []rune(text)
	n := min(len(runes), utf8.RuneCountInString(token))
	return errorWeight * errorRatio(token, string(runes[:n]))
}

func errorRatio(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
