// Package store owns the choices/groups/items state, runs every mutation through
// the reducers and batches notifications inside transactions.
package store

import (
	"errors"
	"fmt"

	"github.com/bastiangx/choices/pkg/model"
)

// ErrPrecondition is returned when a caller breaks the id discipline, e.g. adds a
// choice without an id or with one the store has already seen.
var ErrPrecondition = errors.New("store: precondition violated")

// Listener is called after an effective state change with what changed.
type Listener func(ChangeSet)

type subscription struct {
	id int
	fn Listener
}

// Store is the single owner of State. It is not safe for concurrent use; the
// owning control drives it from one goroutine.
type Store struct {
	state     State
	listeners []subscription
	nextSubID int

	pending ChangeSet

	lastChoiceID int
	lastGroupID  int
	choiceIDs    map[int]struct{}
	groupIDs     map[int]struct{}
}

// New returns a store holding the default empty state.
func New() *Store {
	return &Store{
		state:     DefaultState(),
		choiceIDs: make(map[int]struct{}),
		groupIDs:  make(map[int]struct{}),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch runs action through the reducers. Outside a transaction every
// dispatch notifies the listeners once, whether or not anything changed.
// Inside a transaction the notification is deferred to the outermost close.
func (s *Store) Dispatch(action Action) error {
	action, err := s.prepare(action)
	if err != nil {
		return err
	}

	next, changes := Reduce(s.state, action)
	s.state = next
	s.pending = s.pending.Merge(changes)

	if s.state.Txn == 0 {
		s.notify()
	}
	return nil
}

// WithTxn runs fn inside a transaction. Transactions nest; when the outermost
// one closes the listeners are notified exactly once with the merged change
// set, also when fn returns an error or panics.
func (s *Store) WithTxn(fn func() error) error {
	s.state, _ = Reduce(s.state, SetTxn(true))
	defer func() {
		s.state, _ = Reduce(s.state, SetTxn(false))
		if s.state.Txn == 0 {
			s.notify()
		}
	}()
	return fn()
}

// Reset empties choices, groups and items. Loading and transaction depths are
// kept, and so are the id counters: ids are never reused by one store.
func (s *Store) Reset() error {
	return s.Dispatch(ClearAll())
}

// AddChoice assigns the next choice id and adds c. A selected choice is also
// added to the items in the same transaction.
func (s *Store) AddChoice(c *model.Choice) error {
	if c == nil {
		return fmt.Errorf("%w: nil choice", ErrPrecondition)
	}
	if c.ID != 0 {
		return fmt.Errorf("%w: choice %q already has id %d", ErrPrecondition, c.Value, c.ID)
	}
	if c.GroupID != 0 {
		g := s.GroupByID(c.GroupID)
		if g == nil {
			return fmt.Errorf("%w: choice %q references unknown group %d", ErrPrecondition, c.Value, c.GroupID)
		}
		if g.Disabled {
			c.Disabled = true
		}
	}

	s.lastChoiceID++
	c.ID = s.lastChoiceID
	if !c.Selected {
		return s.Dispatch(AddChoice(c))
	}
	return s.WithTxn(func() error {
		if err := s.Dispatch(AddChoice(c)); err != nil {
			return err
		}
		return s.Dispatch(AddItem(c))
	})
}

// AddGroup assigns the next group id, registers g and then adds its choices.
// A disabled group disables every choice it carries.
func (s *Store) AddGroup(g *model.Group) error {
	if g == nil {
		return fmt.Errorf("%w: nil group", ErrPrecondition)
	}
	if g.ID != 0 {
		return fmt.Errorf("%w: group %q already has id %d", ErrPrecondition, g.Label, g.ID)
	}

	members := g.Choices
	g.Choices = make([]*model.Choice, 0, len(members))
	g.Active = false

	s.lastGroupID++
	g.ID = s.lastGroupID

	return s.WithTxn(func() error {
		if err := s.Dispatch(AddGroup(g)); err != nil {
			return err
		}
		for _, c := range members {
			c.GroupID = g.ID
			if g.Disabled {
				c.Disabled = true
			}
			if err := s.AddChoice(c); err != nil {
				return err
			}
		}
		return nil
	})
}

// StartLoading and StopLoading bracket one asynchronous load. Loads may overlap.
func (s *Store) StartLoading() error { return s.Dispatch(SetIsLoading(true)) }

func (s *Store) StopLoading() error { return s.Dispatch(SetIsLoading(false)) }

// prepare validates id preconditions and swaps item payloads for the stored
// choice with the same id, so items and choices share references.
func (s *Store) prepare(action Action) (Action, error) {
	switch a := action.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil action", ErrPrecondition)

	case AddChoiceAction:
		c := a.Choice
		if c == nil || c.ID <= 0 {
			return nil, fmt.Errorf("%w: %s needs a positive id", ErrPrecondition, a.Type())
		}
		if _, seen := s.choiceIDs[c.ID]; seen {
			return nil, fmt.Errorf("%w: choice id %d already used", ErrPrecondition, c.ID)
		}
		if c.GroupID != 0 {
			g := s.GroupByID(c.GroupID)
			if g == nil {
				return nil, fmt.Errorf("%w: choice %d references unknown group %d", ErrPrecondition, c.ID, c.GroupID)
			}
			if g.Disabled {
				c.Disabled = true
			}
		}
		s.choiceIDs[c.ID] = struct{}{}
		s.lastChoiceID = max(s.lastChoiceID, c.ID)

	case AddGroupAction:
		g := a.Group
		if g == nil || g.ID <= 0 {
			return nil, fmt.Errorf("%w: %s needs a positive id", ErrPrecondition, a.Type())
		}
		if _, seen := s.groupIDs[g.ID]; seen {
			return nil, fmt.Errorf("%w: group id %d already used", ErrPrecondition, g.ID)
		}
		s.groupIDs[g.ID] = struct{}{}
		s.lastGroupID = max(s.lastGroupID, g.ID)

	case RemoveChoiceAction:
		if a.Choice == nil {
			return nil, fmt.Errorf("%w: %s without a choice", ErrPrecondition, a.Type())
		}
		if stored := s.ChoiceByID(a.Choice.ID); stored != nil {
			a.Choice = stored
		}
		return a, nil

	case AddItemAction:
		if a.Item == nil {
			return nil, fmt.Errorf("%w: %s without an item", ErrPrecondition, a.Type())
		}
		a.Item = s.canonical(a.Item)
		return a, nil

	case RemoveItemAction:
		if a.Item == nil {
			return nil, fmt.Errorf("%w: %s without an item", ErrPrecondition, a.Type())
		}
		a.Item = s.canonical(a.Item)
		return a, nil

	case HighlightItemAction:
		if a.Item == nil {
			return nil, fmt.Errorf("%w: %s without an item", ErrPrecondition, a.Type())
		}
		a.Item = s.canonical(a.Item)
		return a, nil
	}
	return action, nil
}

func (s *Store) canonical(c *model.Choice) *model.Choice {
	if stored := s.ChoiceByID(c.ID); stored != nil {
		return stored
	}
	for _, item := range s.state.Items {
		if item.ID == c.ID {
			return item
		}
	}
	return c
}

func (s *Store) notify() {
	changes := s.pending
	s.pending = ChangeSet{}

	listeners := append([]subscription(nil), s.listeners...)
	for _, sub := range listeners {
		sub.fn(changes)
	}
}
