package store

import "github.com/bastiangx/choices/pkg/model"

// State is the composed snapshot owned by a Store. Items shares its pointers
// with Choices: an item is a selected choice, not a copy of one.
type State struct {
	Choices []*model.Choice
	Groups  []*model.Group
	Items   []*model.Choice
	Loading int
	Txn     int
}

// DefaultState returns the empty state.
func DefaultState() State {
	return State{
		Choices: []*model.Choice{},
		Groups:  []*model.Group{},
		Items:   []*model.Choice{},
	}
}

// ChangeSet records which parts of the state a dispatch (or a whole transaction) touched.
type ChangeSet struct {
	Choices bool
	Groups  bool
	Items   bool
	Loading bool
}

// Any reports whether anything changed.
func (c ChangeSet) Any() bool {
	return c.Choices || c.Groups || c.Items || c.Loading
}

// Merge ORs two change sets.
func (c ChangeSet) Merge(o ChangeSet) ChangeSet {
	return ChangeSet{
		Choices: c.Choices || o.Choices,
		Groups:  c.Groups || o.Groups,
		Items:   c.Items || o.Items,
		Loading: c.Loading || o.Loading,
	}
}

// Clone deep-copies the state. Items in the copy point at the copied choices
// when the ids match.
func (s State) Clone() State {
	out := State{
		Choices: make([]*model.Choice, len(s.Choices)),
		Groups:  make([]*model.Group, len(s.Groups)),
		Items:   make([]*model.Choice, len(s.Items)),
		Loading: s.Loading,
		Txn:     s.Txn,
	}

	byID := make(map[int]*model.Choice, len(s.Choices))
	for i, c := range s.Choices {
		out.Choices[i] = c.Clone()
		byID[c.ID] = out.Choices[i]
	}
	for i, item := range s.Items {
		if c, ok := byID[item.ID]; ok {
			out.Items[i] = c
			continue
		}
		out.Items[i] = item.Clone()
	}
	for i, g := range s.Groups {
		cg := g.Clone()
		for j, member := range cg.Choices {
			if c, ok := byID[member.ID]; ok {
				cg.Choices[j] = c
			}
		}
		out.Groups[i] = cg
	}
	return out
}
