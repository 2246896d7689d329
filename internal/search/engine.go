// Package search implements find and replace against the focused document.
//
// An Engine is Idle until bound to a document and Bound afterwards. Binding
// a document, changing the query or changing a flag forgets the last match.
// Searches wrap around the document boundary and never fail: the absence
// of a match is reported as false.
package search

import (
	"strings"

	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/textbuf"
)

// State is the binding state of an Engine.
type State int

const (
	// Idle means no document is bound.
	Idle State = iota
	// Bound means searches run against a document.
	Bound
)

// String returns the state name.
func (s State) String() string {
	if s == Bound {
		return "bound"
	}
	return "idle"
}

// Engine holds the search state for one workspace.
type Engine struct {
	doc *document.Document

	query         string
	replacement   string
	caseSensitive bool
	wholeWord     bool

	last    textbuf.Range
	hasLast bool

	logger *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCaseSensitive sets the initial case sensitivity.
func WithCaseSensitive(on bool) Option {
	return func(e *Engine) {
		e.caseSensitive = on
	}
}

// WithWholeWord sets the initial whole-word flag.
func WithWholeWord(on bool) Option {
	return func(e *Engine) {
		e.wholeWord = on
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l.WithComponent("search")
	}
}

// New creates an idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bind attaches the engine to doc. A nil doc unbinds.
func (e *Engine) Bind(doc *document.Document) {
	e.doc = doc
	e.resetMatch()
}

// Unbind returns the engine to Idle.
func (e *Engine) Unbind() {
	e.Bind(nil)
}

// State returns Idle or Bound.
func (e *Engine) State() State {
	if e.doc == nil {
		return Idle
	}
	return Bound
}

// Document returns the bound document, or nil.
func (e *Engine) Document() *document.Document {
	return e.doc
}

// Query returns the search text.
func (e *Engine) Query() string { return e.query }

// Replacement returns the replacement text.
func (e *Engine) Replacement() string { return e.replacement }

// CaseSensitive reports whether matching is case sensitive.
func (e *Engine) CaseSensitive() bool { return e.caseSensitive }

// WholeWord reports whether matches must be whole words.
func (e *Engine) WholeWord() bool { return e.wholeWord }

// SetQuery sets the search text.
func (e *Engine) SetQuery(q string) {
	if q != e.query {
		e.query = q
		e.resetMatch()
	}
}

// SetReplacement sets the replacement text.
func (e *Engine) SetReplacement(r string) {
	e.replacement = r
}

// SetCaseSensitive sets case sensitivity.
func (e *Engine) SetCaseSensitive(on bool) {
	if on != e.caseSensitive {
		e.caseSensitive = on
		e.resetMatch()
	}
}

// SetWholeWord sets the whole-word flag.
func (e *Engine) SetWholeWord(on bool) {
	if on != e.wholeWord {
		e.wholeWord = on
		e.resetMatch()
	}
}

// LastMatch returns the most recent match.
func (e *Engine) LastMatch() (textbuf.Range, bool) {
	return e.last, e.hasLast
}

func (e *Engine) resetMatch() {
	e.last = textbuf.Range{}
	e.hasLast = false
}

func (e *Engine) flags(backward bool) textbuf.FindFlags {
	return textbuf.FindFlags{
		Backward:      backward,
		CaseSensitive: e.caseSensitive,
		WholeWord:     e.wholeWord,
	}
}

func (e *Engine) ready() bool {
	return e.doc != nil && e.query != ""
}

// FindNext searches forward from the cursor, wrapping to the document
// start. A match is selected and recorded.
func (e *Engine) FindNext() (textbuf.Range, bool) {
	if !e.ready() {
		return textbuf.Range{}, false
	}
	buf := e.doc.Buffer()
	flags := e.flags(false)

	r, ok := buf.Find(e.query, buf.Cursor(), flags)
	if !ok {
		r, ok = buf.Find(e.query, 0, flags)
	}
	return e.land(buf, r, ok)
}

// FindPrevious searches backward from the selection start, wrapping to the
// document end.
func (e *Engine) FindPrevious() (textbuf.Range, bool) {
	if !e.ready() {
		return textbuf.Range{}, false
	}
	buf := e.doc.Buffer()
	flags := e.flags(true)

	r, ok := buf.Find(e.query, buf.Selection().Start, flags)
	if !ok {
		r, ok = buf.Find(e.query, textbuf.ByteOffset(len(buf.Text())), flags)
	}
	return e.land(buf, r, ok)
}

func (e *Engine) land(buf textbuf.TextBuffer, r textbuf.Range, ok bool) (textbuf.Range, bool) {
	if !ok {
		e.resetMatch()
		return textbuf.Range{}, false
	}
	buf.SetSelection(r.Start, r.End)
	e.last, e.hasLast = r, true
	return r, true
}

// FindFromStart moves the cursor to the document start and finds the first
// match. It backs incremental search while the query is being typed.
func (e *Engine) FindFromStart() (textbuf.Range, bool) {
	if !e.ready() {
		return textbuf.Range{}, false
	}
	e.doc.Buffer().SetSelection(0, 0)
	return e.FindNext()
}

// CountMatches returns the number of non-overlapping matches in the bound
// document. It is 0 for an empty query or when idle.
func (e *Engine) CountMatches() int {
	if !e.ready() {
		return 0
	}
	buf := e.doc.Buffer()
	flags := e.flags(false)
	end := textbuf.ByteOffset(len(buf.Text()))

	count := 0
	var pos textbuf.ByteOffset
	for pos <= end {
		r, ok := buf.Find(e.query, pos, flags)
		if !ok {
			break
		}
		count++
		pos = r.End
		if r.IsEmpty() {
			pos++
		}
	}
	return count
}

// ReplaceCurrent replaces the selection with the replacement text when the
// selection equals the query under the case rule, then finds the next
// match. It reports whether that find succeeded.
func (e *Engine) ReplaceCurrent() bool {
	if !e.ready() {
		return false
	}
	buf := e.doc.Buffer()

	if e.selectionMatches(buf.SelectedText()) {
		if err := buf.ReplaceRange(buf.Selection(), e.replacement); err != nil {
			e.logger.Warn("replace failed", "error", err)
			return false
		}
	}
	_, ok := e.FindNext()
	return ok
}

// CanReplace reports whether ReplaceCurrent would change the document.
func (e *Engine) CanReplace() bool {
	return e.ready() && e.selectionMatches(e.doc.Buffer().SelectedText())
}

func (e *Engine) selectionMatches(sel string) bool {
	if sel == "" {
		return false
	}
	if e.caseSensitive {
		return sel == e.query
	}
	return strings.EqualFold(sel, e.query)
}

// ReplaceAll replaces every match from the document start as a single undo
// step and returns the number of replacements. Scanning resumes after each
// inserted replacement, so the replacement text is never matched again.
func (e *Engine) ReplaceAll() int {
	if !e.ready() {
		return 0
	}
	buf := e.doc.Buffer()
	flags := e.flags(false)

	buf.BeginTransaction("Replace All")
	defer buf.EndTransaction()

	count := 0
	var pos textbuf.ByteOffset
	for {
		r, ok := buf.Find(e.query, pos, flags)
		if !ok {
			break
		}
		if err := buf.ReplaceRange(r, e.replacement); err != nil {
			e.logger.Warn("replace failed", "error", err, "at", int(r.Start))
			break
		}
		count++
		pos = r.Start + textbuf.ByteOffset(len(e.replacement))
	}

	e.resetMatch()
	e.logger.Debug("replace all", "query", e.query, "count", count)
	return count
}

// SeedFromSelection uses the selected text as the query when it is a
// non-empty single line. It reports whether the query changed.
func (e *Engine) SeedFromSelection() bool {
	if e.doc == nil {
		return false
	}
	sel := e.doc.Buffer().SelectedText()
	if sel == "" || strings.ContainsAny(sel, "\r\n") || sel == e.query {
		return false
	}
	e.SetQuery(sel)
	return true
}
