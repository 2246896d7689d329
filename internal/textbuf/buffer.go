package textbuf

// TextBuffer is the text storage capability a Document wraps.
// Implementations own the modified flag and the undo history.
type TextBuffer interface {
	// Text returns the full buffer content.
	Text() string
	// SetText replaces the whole content as a single undoable edit.
	SetText(text string)
	// Reset replaces the content, clears the undo history and marks the
	// buffer unmodified. Used when loading from disk.
	Reset(text string)
	// Len returns the content length in bytes.
	Len() ByteOffset

	// Cursor returns the cursor (selection head) offset.
	Cursor() ByteOffset
	// Selection returns the normalized selection range.
	Selection() Range
	// SelectedText returns the text inside the selection.
	SelectedText() string
	// SetSelection sets the selection anchor to start and the cursor to end.
	SetSelection(start, end ByteOffset)

	// Find locates query relative to from according to flags.
	Find(query string, from ByteOffset, flags FindFlags) (Range, bool)
	// ReplaceRange replaces the text in r and collapses the selection after it.
	ReplaceRange(r Range, text string) error

	// BeginTransaction starts grouping edits into one undo step.
	BeginTransaction(name string)
	// EndTransaction closes the group opened by BeginTransaction.
	EndTransaction()
	// Undo reverts the most recent undo step.
	Undo() error
	// Redo reapplies the most recently undone step.
	Redo() error

	// IsModified reports unsaved changes.
	IsModified() bool
	// SetModified overrides the modified state.
	SetModified(modified bool)
}

// Buffer is an in-memory TextBuffer.
type Buffer struct {
	text    string
	anchor  ByteOffset
	head    ByteOffset
	history history
	matcher *Matcher
}

// Ensure Buffer implements TextBuffer.
var _ TextBuffer = (*Buffer)(nil)

// New creates an empty, unmodified buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{history: newHistory()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	return b.text
}

// Len returns the content length in bytes.
func (b *Buffer) Len() ByteOffset {
	return ByteOffset(len(b.text))
}

// SetText replaces the whole content as one undoable edit.
func (b *Buffer) SetText(text string) {
	_ = b.ReplaceRange(NewRange(0, b.Len()), text)
	b.anchor, b.head = 0, 0
}

// Reset replaces the content without history and marks the buffer clean.
func (b *Buffer) Reset(text string) {
	b.text = text
	b.anchor, b.head = 0, 0
	b.history.reset()
}

// Cursor returns the selection head.
func (b *Buffer) Cursor() ByteOffset {
	return b.head
}

// Selection returns the normalized selection.
func (b *Buffer) Selection() Range {
	return NewRange(b.anchor, b.head).Normalize()
}

// SelectedText returns the selected text.
func (b *Buffer) SelectedText() string {
	r := b.Selection()
	return b.text[r.Start:r.End]
}

// SetSelection sets anchor and head, clamped to the buffer.
func (b *Buffer) SetSelection(start, end ByteOffset) {
	n := len(b.text)
	b.anchor = clamp(start, n)
	b.head = clamp(end, n)
}

// SetCursor collapses the selection at off.
func (b *Buffer) SetCursor(off ByteOffset) {
	b.SetSelection(off, off)
}

// Find locates query from the given offset. Forward searches return the
// first match starting at or after from; backward searches return the last
// match ending at or before from.
func (b *Buffer) Find(query string, from ByteOffset, flags FindFlags) (Range, bool) {
	if b.matcher == nil || !b.matcher.sameAs(query, flags) {
		b.matcher = NewMatcher(query, flags)
	}
	if flags.Backward {
		return b.matcher.Prev(b.text, from)
	}
	return b.matcher.Next(b.text, from)
}

// ReplaceRange replaces r with text and places the cursor after it.
func (b *Buffer) ReplaceRange(r Range, text string) error {
	if !r.IsValid() {
		return ErrRangeInvalid
	}
	if r.Start < 0 || int(r.End) > len(b.text) {
		return ErrOffsetOutOfRange
	}
	if !IsRuneBoundary(b.text, r.Start) || !IsRuneBoundary(b.text, r.End) {
		return ErrNotRuneBoundary
	}
	old := b.text[r.Start:r.End]
	if old == text {
		b.SetCursor(r.Start + ByteOffset(len(text)))
		return nil
	}

	b.history.record(edit{
		at:        r.Start,
		oldText:   old,
		newText:   text,
		selBefore: NewRange(b.anchor, b.head),
	})
	b.text = b.text[:r.Start] + text + b.text[r.End:]
	b.SetCursor(r.Start + ByteOffset(len(text)))
	return nil
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset ByteOffset, text string) error {
	return b.ReplaceRange(NewRange(offset, offset), text)
}

// Delete removes the text in r.
func (b *Buffer) Delete(r Range) error {
	return b.ReplaceRange(r, "")
}

// BeginTransaction starts an undo group. Transactions nest.
func (b *Buffer) BeginTransaction(name string) {
	b.history.begin(name)
}

// EndTransaction ends the innermost undo group.
func (b *Buffer) EndTransaction() {
	b.history.end()
}

// CanUndo returns true if undo is available.
func (b *Buffer) CanUndo() bool {
	return len(b.history.undoStack) > 0 || (b.history.pending != nil && len(b.history.pending.edits) > 0)
}

// CanRedo returns true if redo is available.
func (b *Buffer) CanRedo() bool {
	return len(b.history.redoStack) > 0
}

// Undo reverts the last undo step, restoring the selection that preceded it.
func (b *Buffer) Undo() error {
	b.history.commit()
	h := &b.history
	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}
	g := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	for i := len(g.edits) - 1; i >= 0; i-- {
		e := g.edits[i]
		end := e.at + ByteOffset(len(e.newText))
		b.text = b.text[:e.at] + e.oldText + b.text[end:]
	}
	first := g.edits[0].selBefore
	b.SetSelection(first.Start, first.End)

	h.redoStack = append(h.redoStack, g)
	return nil
}

// Redo reapplies the last undone step.
func (b *Buffer) Redo() error {
	b.history.commit()
	h := &b.history
	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}
	g := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	var cursor ByteOffset
	for _, e := range g.edits {
		end := e.at + ByteOffset(len(e.oldText))
		b.text = b.text[:e.at] + e.newText + b.text[end:]
		cursor = e.at + ByteOffset(len(e.newText))
	}
	b.SetCursor(cursor)

	h.undoStack = append(h.undoStack, g)
	return nil
}

// IsModified reports whether the content differs from the last clean state.
func (b *Buffer) IsModified() bool {
	return b.history.modified()
}

// SetModified marks the buffer modified or records the current state as clean.
func (b *Buffer) SetModified(modified bool) {
	if modified {
		b.history.clean = -1
		return
	}
	b.history.commit()
	b.history.clean = len(b.history.undoStack)
}
