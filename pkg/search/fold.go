package search

import (
	"golang.org/x/text/cases"
)

// folder applies Unicode case folding. A Caser keeps state between calls, so
// each searcher owns one.
type folder struct {
	caser cases.Caser
}

func newFolder() folder {
	return folder{caser: cases.Fold()}
}

func (f folder) fold(s string) string {
	return f.caser.String(s)
}
