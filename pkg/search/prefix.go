package search

import (
	"github.com/bastiangx/choices/pkg/model"
	"github.com/tchap/go-patricia/v2/patricia"
)

// PrefixSearcher matches choices whose field starts with the query, ignoring
// case. Results keep haystack order; Score and Rank are both the position.
type PrefixSearcher struct {
	fields   []string
	haystack []*model.Choice
	trie     *patricia.Trie
	folder   folder
}

func NewPrefix(fields []string) *PrefixSearcher {
	return &PrefixSearcher{
		fields: append([]string(nil), fields...),
		folder: newFolder(),
	}
}

// Index builds a trie from folded field values to haystack positions.
func (s *PrefixSearcher) Index(choices []*model.Choice) {
	s.haystack = append([]*model.Choice(nil), choices...)
	s.trie = patricia.NewTrie()

	for i, c := range s.haystack {
		for _, field := range s.fields {
			text, ok := c.Field(field)
			if !ok || text == "" {
				continue
			}
			key := patricia.Prefix(s.folder.fold(text))
			positions, _ := s.trie.Get(key).([]int)
			if n := len(positions); n > 0 && positions[n-1] == i {
				continue
			}
			s.trie.Set(key, append(positions, i))
		}
	}
}

func (s *PrefixSearcher) Reset() {
	s.haystack = nil
	s.trie = nil
}

func (s *PrefixSearcher) IsEmptyIndex() bool {
	return len(s.haystack) == 0
}

func (s *PrefixSearcher) Search(query string) []model.Result {
	if query == "" || len(s.fields) == 0 || s.trie == nil || len(s.haystack) == 0 {
		return noResults()
	}

	marked := make([]bool, len(s.haystack))
	prefix := patricia.Prefix(s.folder.fold(query))
	err := s.trie.VisitSubtree(prefix, func(_ patricia.Prefix, item patricia.Item) error {
		for _, i := range item.([]int) {
			marked[i] = true
		}
		return nil
	})
	if err != nil {
		return noResults()
	}
	return ordered(s.haystack, marked)
}
