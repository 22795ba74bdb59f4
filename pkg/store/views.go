package store

import "github.com/bastiangx/choices/pkg/model"

// The getters below project the current state on every call and return the
// store's own references. Treat them as read-only; use State for a copy that
// stays stable across later dispatches.

// State returns a deep copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}

func (s *Store) Items() []*model.Choice { return s.state.Items }

func (s *Store) Choices() []*model.Choice { return s.state.Choices }

func (s *Store) Groups() []*model.Group { return s.state.Groups }

// HighlightedActiveItems returns items that are both highlighted and active.
func (s *Store) HighlightedActiveItems() []*model.Choice {
	var out []*model.Choice
	for _, item := range s.state.Items {
		if item.Active && item.Highlighted {
			out = append(out, item)
		}
	}
	return out
}

// ActiveChoices returns choices visible under the current filter.
func (s *Store) ActiveChoices() []*model.Choice {
	var out []*model.Choice
	for _, c := range s.state.Choices {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}

// SearchableChoices returns choices that are neither disabled nor placeholders.
func (s *Store) SearchableChoices() []*model.Choice {
	var out []*model.Choice
	for _, c := range s.state.Choices {
		if c.Searchable() {
			out = append(out, c)
		}
	}
	return out
}

// PlaceholderChoice returns the last enabled placeholder choice, if any.
func (s *Store) PlaceholderChoice() *model.Choice {
	for i := len(s.state.Choices) - 1; i >= 0; i-- {
		if c := s.state.Choices[i]; c.Placeholder && !c.Disabled {
			return c
		}
	}
	return nil
}

// ActiveGroups returns active groups with at least one active, enabled choice.
func (s *Store) ActiveGroups() []*model.Group {
	var out []*model.Group
	for _, g := range s.state.Groups {
		if !g.Active {
			continue
		}
		for _, c := range g.Choices {
			if c.Active && !c.Disabled {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

func (s *Store) ChoiceByID(id int) *model.Choice {
	for _, c := range s.state.Choices {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Store) GroupByID(id int) *model.Group {
	for _, g := range s.state.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// IsLoading reports whether at least one load is in flight.
func (s *Store) IsLoading() bool { return s.state.Loading > 0 }

// InTxn reports whether a transaction is open.
func (s *Store) InTxn() bool { return s.state.Txn > 0 }
