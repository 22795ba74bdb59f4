package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned by the mapper for input it cannot turn into a choice or group.
var ErrInvalidInput = errors.New("model: invalid input")

// Input is the partial, caller-facing shape of a choice. A non-nil Choices
// slice makes it a group.
type Input struct {
	Value            string
	Label            string
	LabelTrusted     bool
	Selected         bool
	Disabled         bool
	Placeholder      bool
	Active           *bool
	LabelClass       string
	LabelDescription string
	CustomProperties map[string]any
	Choices          []any
}

// IsGroup reports whether the input describes a group.
func (in Input) IsGroup() bool {
	return in.Choices != nil
}

// MapInputToChoice normalizes input into a Choice or a Group; exactly one of the
// returned pointers is non-nil on success. Accepted inputs are a bare string
// (value and label, selected), an Input, a *Input, or a decoded map such as
// one read from JSON or TOML. Ids are left at 0.
func MapInputToChoice(input any, allowGroup bool) (*Choice, *Group, error) {
	switch v := input.(type) {
	case string:
		return &Choice{
			Value:    v,
			Label:    Text(v),
			Selected: true,
			Active:   true,
		}, nil, nil
	case Input:
		return mapInput(v, allowGroup)
	case *Input:
		if v == nil {
			return nil, nil, fmt.Errorf("%w: nil input", ErrInvalidInput)
		}
		return mapInput(*v, allowGroup)
	case map[string]any:
		in, err := inputFromMap(v)
		if err != nil {
			return nil, nil, err
		}
		return mapInput(in, allowGroup)
	default:
		return nil, nil, fmt.Errorf("%w: unsupported input type %T", ErrInvalidInput, input)
	}
}

// MapInputs maps a list of top-level inputs, allowing groups.
func MapInputs(inputs []any) ([]*Choice, []*Group, error) {
	var choices []*Choice
	var groups []*Group
	for i, input := range inputs {
		choice, group, err := MapInputToChoice(input, true)
		if err != nil {
			return nil, nil, fmt.Errorf("input %d: %w", i, err)
		}
		if group != nil {
			groups = append(groups, group)
			continue
		}
		choices = append(choices, choice)
	}
	return choices, groups, nil
}

func mapInput(in Input, allowGroup bool) (*Choice, *Group, error) {
	if in.IsGroup() {
		if !allowGroup {
			return nil, nil, fmt.Errorf("%w: groups not allowed here", ErrInvalidInput)
		}
		group, err := mapGroup(in)
		return nil, group, err
	}

	label := in.Label
	if label == "" {
		label = in.Value
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	return &Choice{
		Value:            in.Value,
		Label:            Label{Raw: label, Trusted: in.LabelTrusted},
		Selected:         in.Selected,
		Disabled:         in.Disabled,
		Placeholder:      in.Placeholder,
		Active:           active,
		LabelClass:       in.LabelClass,
		LabelDescription: in.LabelDescription,
		CustomProperties: in.CustomProperties,
	}, nil, nil
}

func mapGroup(in Input) (*Group, error) {
	label := in.Label
	if label == "" {
		label = in.Value
	}

	group := &Group{
		Label:    label,
		Disabled: in.Disabled,
		Active:   len(in.Choices) > 0,
		Choices:  make([]*Choice, 0, len(in.Choices)),
	}
	for i, nested := range in.Choices {
		choice, _, err := MapInputToChoice(nested, false)
		if err != nil {
			return nil, fmt.Errorf("group %q choice %d: %w", label, i, err)
		}
		group.Choices = append(group.Choices, choice)
	}
	return group, nil
}

// inputFromMap reads the keys a decoded JSON/TOML/MessagePack object may carry.
func inputFromMap(m map[string]any) (Input, error) {
	var in Input

	value, hasValue := m["value"]
	label, hasLabel := m["label"]
	nested, hasChoices := m["choices"]
	if !hasValue && !hasLabel {
		return in, fmt.Errorf("%w: object has neither value nor label", ErrInvalidInput)
	}
	if hasValue && value != nil {
		in.Value = fmt.Sprint(value)
	}
	if hasLabel && label != nil {
		s, ok := label.(string)
		if !ok {
			return in, fmt.Errorf("%w: label must be a string, got %T", ErrInvalidInput, label)
		}
		in.Label = s
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"selected", &in.Selected},
		{"disabled", &in.Disabled},
		{"placeholder", &in.Placeholder},
		{"labelTrusted", &in.LabelTrusted},
	}
	for _, f := range flags {
		if err := readBool(m, f.key, f.dst); err != nil {
			return in, err
		}
	}
	if _, ok := m["active"]; ok {
		var active bool
		if err := readBool(m, "active", &active); err != nil {
			return in, err
		}
		in.Active = &active
	}

	if s, ok := m["labelClass"].(string); ok {
		in.LabelClass = s
	}
	if s, ok := m["labelDescription"].(string); ok {
		in.LabelDescription = s
	}
	if props, ok := m["customProperties"].(map[string]any); ok {
		in.CustomProperties = props
	}

	if hasChoices {
		list, ok := asList(nested)
		if !ok {
			return in, fmt.Errorf("%w: choices must be a list, got %T", ErrInvalidInput, nested)
		}
		in.Choices = list
	}
	return in, nil
}

func readBool(m map[string]any, key string, dst *bool) error {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil
	}
	b, ok := raw.(bool)
	if !ok {
		return fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidInput, key, raw)
	}
	*dst = b
	return nil
}

// asList accepts the list shapes produced by the JSON, TOML and MessagePack decoders.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		if l == nil {
			return []any{}, true
		}
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
