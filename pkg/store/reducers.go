package store

import "github.com/bastiangx/choices/pkg/model"

// Reduced is what every reducer returns: the next slice and whether it changed.
// Reducers may mutate elements of the incoming slice in place; Changed, not
// slice identity, is the signal that something needs re-rendering.
type Reduced[T any] struct {
	State   T
	Changed bool
}

func unchanged[T any](s T) Reduced[T] { return Reduced[T]{State: s} }

func changed[T any](s T) Reduced[T] { return Reduced[T]{State: s, Changed: true} }

// ReduceChoices handles the choices collection.
func ReduceChoices(s []*model.Choice, action Action) Reduced[[]*model.Choice] {
	switch a := action.(type) {
	case AddChoiceAction:
		return changed(append(s, a.Choice))

	case RemoveChoiceAction:
		return removeByID(s, a.Choice.ID)

	case AddItemAction:
		return markSelected(s, a.Item.ID, true)

	case RemoveItemAction:
		return markSelected(s, a.Item.ID, false)

	case FilterChoicesAction:
		// Build the lookup once so the pass over choices stays linear.
		lookup := make(map[int]model.Result, len(a.Results))
		for _, r := range a.Results {
			if r.Item != nil {
				lookup[r.Item.ID] = r
			}
		}
		for _, c := range s {
			if r, ok := lookup[c.ID]; ok {
				c.Active = true
				c.Score = r.Score
				c.Rank = r.Rank
				continue
			}
			c.Active = false
			c.Score = 0
			c.Rank = 0
		}
		return changed(s)

	case ActivateChoicesAction:
		for _, c := range s {
			c.Active = a.Active
		}
		return changed(s)

	case ClearChoicesAction:
		return changed([]*model.Choice{})
	}
	return unchanged(s)
}

// ReduceItems handles the items view.
func ReduceItems(s []*model.Choice, action Action) Reduced[[]*model.Choice] {
	switch a := action.(type) {
	case AddItemAction:
		a.Item.Selected = true
		if indexByID(s, a.Item.ID) >= 0 {
			return unchanged(s)
		}
		return changed(append(s, a.Item))

	case RemoveItemAction:
		a.Item.Selected = false
		return removeByID(s, a.Item.ID)

	case RemoveChoiceAction:
		i := indexByID(s, a.Choice.ID)
		if i < 0 {
			return unchanged(s)
		}
		// The item may outlive its choice after CLEAR_CHOICES; clear the item itself.
		s[i].Selected = false
		a.Choice.Selected = false
		return removeByID(s, a.Choice.ID)

	case HighlightItemAction:
		i := indexByID(s, a.Item.ID)
		if i < 0 || s[i].Highlighted == a.Highlighted {
			return unchanged(s)
		}
		s[i].Highlighted = a.Highlighted
		return changed(s)
	}
	return unchanged(s)
}

// ReduceGroups handles the groups collection. Group membership is filled in as
// choices are added, so the group never re-derives it.
func ReduceGroups(s []*model.Group, action Action) Reduced[[]*model.Group] {
	switch a := action.(type) {
	case AddGroupAction:
		return changed(append(s, a.Group))

	case AddChoiceAction:
		if a.Choice.GroupID == 0 {
			return unchanged(s)
		}
		for _, g := range s {
			if g.ID == a.Choice.GroupID {
				g.Choices = append(g.Choices, a.Choice)
				g.Active = true
				return changed(s)
			}
		}
		return unchanged(s)

	case RemoveChoiceAction:
		if a.Choice.GroupID == 0 {
			return unchanged(s)
		}
		for _, g := range s {
			if g.ID != a.Choice.GroupID {
				continue
			}
			r := removeByID(g.Choices, a.Choice.ID)
			if !r.Changed {
				return unchanged(s)
			}
			g.Choices = r.State
			g.Active = len(g.Choices) > 0
			return changed(s)
		}
		return unchanged(s)

	case ClearChoicesAction:
		return changed([]*model.Group{})
	}
	return unchanged(s)
}

// ReduceLoading tracks overlapping loads as a depth that never drops below zero.
func ReduceLoading(depth int, action Action) Reduced[int] {
	a, ok := action.(SetIsLoadingAction)
	if !ok {
		return unchanged(depth)
	}
	return step(depth, a.Loading)
}

// ReduceTxn tracks nested transactions as a depth that never drops below zero.
func ReduceTxn(depth int, action Action) Reduced[int] {
	a, ok := action.(SetTxnAction)
	if !ok {
		return unchanged(depth)
	}
	return step(depth, a.Open)
}

// Reduce fans an action out to every slice reducer and reports what changed.
func Reduce(s State, action Action) (State, ChangeSet) {
	if _, ok := action.(ClearAllAction); ok {
		next := DefaultState()
		next.Loading = s.Loading
		next.Txn = s.Txn
		return next, ChangeSet{Choices: true, Groups: true, Items: true}
	}

	choices := ReduceChoices(s.Choices, action)
	groups := ReduceGroups(s.Groups, action)
	items := ReduceItems(s.Items, action)
	loading := ReduceLoading(s.Loading, action)
	txn := ReduceTxn(s.Txn, action)

	next := State{
		Choices: choices.State,
		Groups:  groups.State,
		Items:   items.State,
		Loading: loading.State,
		Txn:     txn.State,
	}
	return next, ChangeSet{
		Choices: choices.Changed,
		Groups:  groups.Changed,
		Items:   items.Changed,
		Loading: loading.Changed,
	}
}

func step(depth int, up bool) Reduced[int] {
	if up {
		return changed(depth + 1)
	}
	if depth == 0 {
		return unchanged(0)
	}
	return changed(depth - 1)
}

func markSelected(s []*model.Choice, id int, selected bool) Reduced[[]*model.Choice] {
	i := indexByID(s, id)
	if i < 0 || s[i].Selected == selected {
		return unchanged(s)
	}
	s[i].Selected = selected
	return changed(s)
}

func removeByID(s []*model.Choice, id int) Reduced[[]*model.Choice] {
	i := indexByID(s, id)
	if i < 0 {
		return unchanged(s)
	}
	out := make([]*model.Choice, 0, len(s)-1)
	out = append(out, s[:i]...)
	for _, c := range s[i+1:] {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return changed(out)
}

func indexByID(s []*model.Choice, id int) int {
	for i, c := range s {
		if c.ID == id {
			return i
		}
	}
	return -1
}
