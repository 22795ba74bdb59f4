package utils

// ValueSet tracks which choice values have been seen.
// Values compare exactly: "Apple" and "apple" are different values.
type ValueSet struct {
	seen map[string]struct{}
}

// NewValueSet creates a set holding the given values.
func NewValueSet(values ...string) *ValueSet {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return &ValueSet{seen: seen}
}

// Add records v and reports whether it was new.
func (s *ValueSet) Add(v string) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	return true
}

// Has reports whether v was recorded.
func (s *ValueSet) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// Len returns the number of distinct values.
func (s *ValueSet) Len() int {
	return len(s.seen)
}
