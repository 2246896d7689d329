package search

import "github.com/dshills/workbench/internal/textbuf"

// Status is a snapshot of the engine for display.
type Status struct {
	State         State
	Document      string
	Query         string
	Replacement   string
	CaseSensitive bool
	WholeWord     bool
	Matches       int
	Match         textbuf.Range
	HasMatch      bool
}

// Status returns the current engine snapshot, including a live match count.
func (e *Engine) Status() Status {
	s := Status{
		State:         e.State(),
		Query:         e.query,
		Replacement:   e.replacement,
		CaseSensitive: e.caseSensitive,
		WholeWord:     e.wholeWord,
		Matches:       e.CountMatches(),
		Match:         e.last,
		HasMatch:      e.hasLast,
	}
	if e.doc != nil {
		s.Document = e.doc.DisplayName()
	}
	return s
}
