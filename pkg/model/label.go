package model

import "github.com/microcosm-cc/bluemonday"

var strictPolicy = bluemonday.StrictPolicy()

// Label is display text for a choice. Untrusted labels may carry markup from
// the caller and are sanitized before display; trusted labels are pre-escaped.
type Label struct {
	Raw     string
	Trusted bool
}

// Text wraps untrusted text.
func Text(s string) Label {
	return Label{Raw: s}
}

// PreEscaped wraps text the caller has already escaped.
func PreEscaped(s string) Label {
	return Label{Raw: s, Trusted: true}
}

func (l Label) String() string {
	return l.Raw
}

// Display returns the text safe to render. Untrusted labels lose all markup.
func (l Label) Display() string {
	if l.Trusted {
		return l.Raw
	}
	return strictPolicy.Sanitize(l.Raw)
}

// IsZero reports whether the label is empty.
func (l Label) IsZero() bool {
	return l.Raw == ""
}
