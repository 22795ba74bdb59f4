// Package session drives a store and a searcher the way a select control does:
// it loads choices, filters them as the user types and turns picks into items.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/choices/internal/logger"
	"github.com/bastiangx/choices/internal/utils"
	"github.com/bastiangx/choices/pkg/config"
	"github.com/bastiangx/choices/pkg/model"
	"github.com/bastiangx/choices/pkg/search"
	"github.com/bastiangx/choices/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no choice or item carries the given value.
	ErrNotFound = errors.New("session: no such value")
	// ErrDisabled is returned when selecting a disabled choice.
	ErrDisabled = errors.New("session: choice is disabled")
	// ErrDuplicateItem is returned when duplicate items are not allowed and the value is already selected.
	ErrDuplicateItem = errors.New("session: value already selected")
	// ErrMaxItems is returned when the item limit is reached.
	ErrMaxItems = errors.New("session: item limit reached")
)

// Session is not safe for concurrent use.
type Session struct {
	id       string
	store    *store.Store
	searcher search.Searcher
	search   config.SearchConfig
	rules    config.BehaviourConfig
	logger   *log.Logger

	query       string
	stale       bool
	unsubscribe func()
}

// New builds a session from cfg. A nil logger discards output.
func New(cfg *config.Config, l *log.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	searcher, err := search.New(cfg.Search.Options())
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Discard()
	}

	s := &Session{
		id:       uuid.NewString(),
		store:    store.New(),
		searcher: searcher,
		search:   cfg.Search,
		rules:    cfg.Behaviour,
		logger:   l,
	}
	s.unsubscribe = s.store.Subscribe(func(cs store.ChangeSet) {
		if cs.Any() {
			s.logger.Debug("state changed", "choices", cs.Choices, "groups", cs.Groups, "items", cs.Items)
		}
	})
	return s, nil
}

// Close detaches the session from its store.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// ID identifies the session in logs and IPC responses.
func (s *Session) ID() string { return s.id }

// Store exposes the underlying store for read access.
func (s *Session) Store() *store.Store { return s.store }

// Query returns the active search query, empty when not searching.
func (s *Session) Query() string { return s.query }

// SetChoices maps inputs and adds them in one transaction, keeping input order.
// With replace, existing choices are dropped first; previously selected values
// stay selected, and those missing from inputs are re-added as choices.
// Selections carried by the inputs follow the same rules as Select: in single
// mode the last one wins, and selections that would break the duplicate or
// item-count rules are skipped.
func (s *Session) SetChoices(inputs []any, replace bool) error {
	type mapped struct {
		choice *model.Choice
		group  *model.Group
	}
	entries := make([]mapped, 0, len(inputs))
	for i, input := range inputs {
		c, g, err := model.MapInputToChoice(input, true)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		entries = append(entries, mapped{c, g})
	}

	if err := s.store.StartLoading(); err != nil {
		return err
	}
	defer s.store.StopLoading()

	err := s.store.WithTxn(func() error {
		var kept []*model.Choice
		previous := utils.NewValueSet()
		if replace {
			for _, item := range s.store.Items() {
				if previous.Add(item.Value) {
					kept = append(kept, item)
				}
			}
			if err := s.store.Reset(); err != nil {
				return err
			}
		}

		added := utils.NewValueSet()
		var wanted []*model.Choice
		// Selection is applied after every choice is in the store.
		hold := func(c *model.Choice) {
			if c.Selected || previous.Has(c.Value) {
				wanted = append(wanted, c)
			}
			c.Selected = false
			added.Add(c.Value)
		}
		for _, e := range entries {
			if e.group != nil {
				for _, c := range e.group.Choices {
					hold(c)
				}
				if err := s.store.AddGroup(e.group); err != nil {
					return err
				}
				continue
			}
			hold(e.choice)
			if err := s.store.AddChoice(e.choice); err != nil {
				return err
			}
		}

		for _, item := range kept {
			if added.Has(item.Value) {
				continue
			}
			c := item.Clone()
			c.ID, c.GroupID = 0, 0
			c.Selected, c.Highlighted = false, false
			if err := s.store.AddChoice(c); err != nil {
				return err
			}
			wanted = append(wanted, c)
		}

		for _, c := range wanted {
			err := s.selectChoice(c)
			if errors.Is(err, ErrDuplicateItem) || errors.Is(err, ErrMaxItems) {
				s.logger.Debugf("Skipping selection of %q: %v", c.Value, err)
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	s.invalidate()
	if err != nil {
		return err
	}

	s.logger.Debugf("Set %d inputs (replace=%v), %d choices total", len(inputs), replace, len(s.store.Choices()))
	if s.query != "" {
		_, err = s.Search(s.query)
	}
	return err
}

// Search filters the choices by query and returns the number of matches.
// A blank query clears the search; a query shorter than the search floor
// leaves the current filter untouched.
func (s *Session) Search(query string) (int, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return len(s.store.ActiveChoices()), s.ClearSearch()
	}
	if utf8.RuneCountInString(q) < s.search.SearchFloor {
		return len(s.store.ActiveChoices()), nil
	}

	if s.stale || s.searcher.IsEmptyIndex() {
		s.searcher.Index(s.store.SearchableChoices())
		s.stale = false
	}
	results := s.searcher.Search(q)
	if err := s.store.Dispatch(store.FilterChoices(results)); err != nil {
		return 0, err
	}
	s.query = q
	s.logger.Debugf("query %q matched %d choices", q, len(results))
	return len(results), nil
}

// ClearSearch makes every choice visible again.
func (s *Session) ClearSearch() error {
	s.query = ""
	return s.store.Dispatch(store.ActivateChoices(true))
}

// Select turns a choice with value into an item. Selecting an already
// selected choice is a no-op.
func (s *Session) Select(value string) error {
	choice := s.findChoice(value)
	if choice == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, value)
	}
	if choice.Disabled {
		return fmt.Errorf("%w: %q", ErrDisabled, value)
	}
	return s.selectChoice(choice)
}

// selectChoice applies the selection rules and adds choice to the items.
func (s *Session) selectChoice(choice *model.Choice) error {
	if choice.Selected {
		return nil
	}
	items := s.store.Items()
	if s.rules.SingleMode {
		return s.store.WithTxn(func() error {
			for _, item := range append([]*model.Choice(nil), items...) {
				if err := s.store.Dispatch(store.RemoveItem(item)); err != nil {
					return err
				}
			}
			return s.store.Dispatch(store.AddItem(choice))
		})
	}

	if !s.rules.DuplicateItemsAllowed && s.findItem(choice.Value) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateItem, choice.Value)
	}
	if s.rules.MaxItemCount > 0 && len(items) >= s.rules.MaxItemCount {
		return fmt.Errorf("%w: %d", ErrMaxItems, s.rules.MaxItemCount)
	}
	return s.store.Dispatch(store.AddItem(choice))
}

// Deselect removes the item with value.
func (s *Session) Deselect(value string) error {
	item := s.findItem(value)
	if item == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, value)
	}
	return s.store.Dispatch(store.RemoveItem(item))
}

// Highlight marks or unmarks the item with value.
func (s *Session) Highlight(value string, on bool) error {
	item := s.findItem(value)
	if item == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, value)
	}
	return s.store.Dispatch(store.HighlightItem(item, on))
}

// RemoveHighlighted removes every highlighted active item and returns how many went.
func (s *Session) RemoveHighlighted() (int, error) {
	items := s.store.HighlightedActiveItems()
	err := s.store.WithTxn(func() error {
		for _, item := range items {
			if err := s.store.Dispatch(store.RemoveItem(item)); err != nil {
				return err
			}
		}
		return nil
	})
	return len(items), err
}

// RemoveChoice deletes the first choice with value, and its item if selected.
func (s *Session) RemoveChoice(value string) error {
	choice := s.findChoice(value)
	if choice == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, value)
	}
	defer s.invalidate()
	return s.store.Dispatch(store.RemoveChoice(choice))
}

// ClearChoices drops all choices and groups. Items are kept.
func (s *Session) ClearChoices() error {
	defer s.invalidate()
	s.query = ""
	return s.store.Dispatch(store.ClearChoices())
}

// Results lists the visible choices: by rank while searching, in insertion
// order otherwise, cut to the configured result limit.
func (s *Session) Results() []model.Result {
	active := s.store.ActiveChoices()
	if s.query != "" {
		sort.SliceStable(active, func(i, j int) bool { return active[i].Rank < active[j].Rank })
	}
	if limit := s.search.ResultLimit; limit > 0 && len(active) > limit {
		active = active[:limit]
	}

	out := make([]model.Result, len(active))
	for i, c := range active {
		out[i] = model.Result{Item: c, Score: c.Score, Rank: i}
		if s.query == "" {
			out[i].Score = 0
		}
	}
	return out
}

// Values returns the selected values in selection order.
func (s *Session) Values() []string {
	items := s.store.Items()
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Value
	}
	return out
}

// invalidate drops the search index; the next search rebuilds it.
func (s *Session) invalidate() {
	s.searcher.Reset()
	s.stale = true
}

// findChoice prefers an enabled unselected choice, then an enabled one, then
// any choice with value.
func (s *Session) findChoice(value string) *model.Choice {
	var selected, disabled *model.Choice
	for _, c := range s.store.Choices() {
		if c.Value != value {
			continue
		}
		switch {
		case c.Disabled:
			if disabled == nil {
				disabled = c
			}
		case c.Selected:
			if selected == nil {
				selected = c
			}
		default:
			return c
		}
	}
	if selected != nil {
		return selected
	}
	return disabled
}

func (s *Session) findItem(value string) *model.Choice {
	for _, item := range s.store.Items() {
		if item.Value == value {
			return item
		}
	}
	return nil
}
