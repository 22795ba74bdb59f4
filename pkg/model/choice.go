// Package model holds the Choice, Group and search Result shapes shared by the store and the searchers,
// plus the mapper that turns caller-supplied input into them.
package model

import "strings"

// CustomPropertyPrefix selects a string-valued custom property as a search field,
// e.g. "customProperties.country".
const CustomPropertyPrefix = "customProperties."

// Choice is one selectable entry. ID 0 means the choice has not been added to a store yet.
type Choice struct {
	ID               int
	Value            string
	Label            Label
	GroupID          int
	Disabled         bool
	Selected         bool
	Active           bool
	Highlighted      bool
	Placeholder      bool
	Score            float64
	Rank             int
	LabelClass       string
	LabelDescription string
	CustomProperties map[string]any
}

// Field returns the text of a named search field and whether the choice carries it.
func (c *Choice) Field(name string) (string, bool) {
	switch name {
	case "label":
		return c.Label.Raw, true
	case "value":
		return c.Value, true
	case "labelDescription":
		return c.LabelDescription, c.LabelDescription != ""
	case "labelClass":
		return c.LabelClass, c.LabelClass != ""
	}

	if key, ok := strings.CutPrefix(name, CustomPropertyPrefix); ok {
		if c.CustomProperties == nil {
			return "", false
		}
		s, ok := c.CustomProperties[key].(string)
		return s, ok
	}
	return "", false
}

// Searchable reports whether the choice may be indexed by a searcher.
func (c *Choice) Searchable() bool {
	return !c.Disabled && !c.Placeholder
}

// Clone returns a copy that shares nothing mutable with c except custom property values.
func (c *Choice) Clone() *Choice {
	out := *c
	if c.CustomProperties != nil {
		out.CustomProperties = make(map[string]any, len(c.CustomProperties))
		for k, v := range c.CustomProperties {
			out.CustomProperties[k] = v
		}
	}
	return &out
}

// Group mirrors an option group. Choices is filled when the group is added to a store.
type Group struct {
	ID       int
	Label    string
	Disabled bool
	Active   bool
	Choices  []*Choice
}

// Clone copies the group header; the member list is copied but the members are not.
func (g *Group) Clone() *Group {
	out := *g
	out.Choices = append([]*Choice(nil), g.Choices...)
	return &out
}

// Result is one search hit. Item points at the indexed choice.
// Lower scores are better matches; Rank is the 0-based position in the result list.
type Result struct {
	Item  *Choice
	Score float64
	Rank  int
}
