package textbuf

// edit records a single replacement for undo.
type edit struct {
	at        ByteOffset
	oldText   string
	newText   string
	selBefore Range
}

// group is one undo step.
type group struct {
	name  string
	edits []edit
}

// history manages undo/redo stacks and transaction grouping.
type history struct {
	undoStack []group
	redoStack []group

	// Transaction state; depth allows nesting.
	depth   int
	pending *group

	// clean is the undo depth at which the buffer was last marked
	// unmodified, or -1 when that state is no longer reachable.
	clean int

	maxEntries int
}

func newHistory() history {
	return history{maxEntries: 1000}
}

func (h *history) begin(name string) {
	if h.depth == 0 {
		h.pending = &group{name: name}
	}
	h.depth++
}

func (h *history) end() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth == 0 {
		g := h.pending
		h.pending = nil
		h.push(*g)
	}
}

// commit closes any open transaction.
func (h *history) commit() {
	for h.depth > 0 {
		h.end()
	}
}

func (h *history) record(e edit) {
	if h.depth > 0 {
		h.pending.edits = append(h.pending.edits, e)
		return
	}
	h.push(group{edits: []edit{e}})
}

func (h *history) push(g group) {
	if len(g.edits) == 0 {
		return
	}
	if h.clean > len(h.undoStack) {
		// The clean state lived on the redo stack, which is discarded.
		h.clean = -1
	}
	h.undoStack = append(h.undoStack, g)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
		if h.clean >= 0 {
			h.clean -= excess
			if h.clean < 0 {
				h.clean = -1
			}
		}
	}
}

func (h *history) reset() {
	h.undoStack = nil
	h.redoStack = nil
	h.depth = 0
	h.pending = nil
	h.clean = 0
}

func (h *history) modified() bool {
	if h.pending != nil && len(h.pending.edits) > 0 {
		return true
	}
	return len(h.undoStack) != h.clean
}
