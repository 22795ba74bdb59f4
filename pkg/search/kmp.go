package search

import (
	"github.com/bastiangx/choices/pkg/model"
)

// KMPSearcher matches choices whose field contains the query anywhere,
// ignoring case, in time linear in the field length (Knuth-Morris-Pratt).
// Output follows the same contract as PrefixSearcher.
type KMPSearcher struct {
	fields   []string
	haystack []*model.Choice
	texts    [][][]rune // haystack position -> field -> folded runes, nil if absent
	folder   folder
}

func NewKMP(fields []string) *KMPSearcher {
	return &KMPSearcher{
		fields: append([]string(nil), fields...),
		folder: newFolder(),
	}
}

func (s *KMPSearcher) Index(choices []*model.Choice) {
	s.haystack = append([]*model.Choice(nil), choices...)
	s.texts = make([][][]rune, len(s.haystack))
	for i, c := range s.haystack {
		fields := make([][]rune, len(s.fields))
		for j, field := range s.fields {
			if text, ok := c.Field(field); ok {
				fields[j] = []rune(s.folder.fold(text))
			}
		}
		s.texts[i] = fields
	}
}

func (s *KMPSearcher) Reset() {
	s.haystack = nil
	s.texts = nil
}

func (s *KMPSearcher) IsEmptyIndex() bool {
	return len(s.haystack) == 0
}

func (s *KMPSearcher) Search(query string) []model.Result {
	if query == "" || len(s.fields) == 0 || len(s.haystack) == 0 {
		return noResults()
	}

	needle := []rune(s.folder.fold(query))
	table := kmpTable(needle)
	marked := make([]bool, len(s.haystack))
	for i, fields := range s.texts {
		for _, text := range fields {
			if text != nil && kmpContains(text, needle, table) {
				marked[i] = true
				break
			}
		}
	}
	return ordered(s.haystack, marked)
}

// kmpTable returns the failure function: for each prefix of needle, the length
// of its longest proper prefix that is also a suffix.
func kmpTable(needle []rune) []int {
	table := make([]int, len(needle))
	k := 0
	for i := 1; i < len(needle); i++ {
		for k > 0 && needle[i] != needle[k] {
			k = table[k-1]
		}
		if needle[i] == needle[k] {
			k++
		}
		table[i] = k
	}
	return table
}

func kmpContains(text, needle []rune, table []int) bool {
	if len(needle) == 0 {
		return true
	}
	k := 0
	for _, r := range text {
		for k > 0 && r != needle[k] {
			k = table[k-1]
		}
		if r == needle[k] {
			k++
		}
		if k == len(needle) {
			return true
		}
	}
	return false
}
