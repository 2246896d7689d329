package workspace

import (
	"path/filepath"

	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/panetree"
	"github.com/dshills/workbench/internal/tabgroup"
)

// NewTab adds an untitled document to the focused group.
func (w *Workspace) NewTab() *document.Document {
	doc, _ := w.CurrentGroup().NewDocument("")
	return doc
}

// Open opens path in the focused group. An empty path asks the PathPicker;
// a dismissed picker returns (nil, nil).
func (w *Workspace) Open(path string) (*document.Document, error) {
	return w.CurrentGroup().Open(path)
}

// SaveCurrent saves the focused document.
func (w *Workspace) SaveCurrent() error {
	return w.CurrentGroup().SaveCurrent()
}

// SaveCurrentAs saves the focused document under a picked path.
func (w *Workspace) SaveCurrentAs() error {
	return w.CurrentGroup().SaveCurrentAs()
}

// SaveCurrentTo saves the focused document to path.
func (w *Workspace) SaveCurrentTo(path string) error {
	return w.CurrentGroup().SaveCurrentTo(path)
}

// CloseCurrentTab closes the focused document.
func (w *Workspace) CloseCurrentTab() (bool, error) {
	g := w.CurrentGroup()
	return g.Close(g.Active())
}

// CloseAll closes every document of every group, front to back in visual
// order, and stops at the first cancellation. Empty groups are reconciled
// once the sweep ends: the last remaining group is refilled and the others
// are removed.
func (w *Workspace) CloseAll() error {
	w.closingAll = true
	defer func() {
		w.closingAll = false
		w.reconcile()
	}()

	for _, g := range w.tree.Leaves() {
		if err := g.CloseAll(); err != nil {
			w.logger.Info("close all stopped", "error", err)
			return err
		}
	}
	return nil
}

func (w *Workspace) reconcile() {
	for _, g := range w.tree.Leaves() {
		if g.IsEmpty() && w.tree.Len() > 1 {
			w.removeGroup(g)
		}
	}
	for _, g := range w.tree.Leaves() {
		w.handleEmpty(g)
	}
}

// SplitHorizontal places a new group to the right of the focused group.
func (w *Workspace) SplitHorizontal() *tabgroup.Group {
	return w.split(panetree.Horizontal)
}

// SplitVertical places a new group below the focused group.
func (w *Workspace) SplitVertical() *tabgroup.Group {
	return w.split(panetree.Vertical)
}

func (w *Workspace) split(o panetree.Orientation) *tabgroup.Group {
	g := w.newGroup()
	if !w.tree.Split(w.CurrentGroup().ID(), o, g) {
		return nil
	}
	w.logger.Debug("split", "orientation", o.String(), "layout", w.tree.String())
	w.notifyLayout()
	w.setFocus(g.ID())
	return g
}

// CloseSplit closes every document of the focused group and removes it.
// It is a no-op when only one group exists. A cancellation leaves the
// group, minus the tabs already closed, in place.
func (w *Workspace) CloseSplit() (bool, error) {
	if w.tree.Len() <= 1 {
		return false, nil
	}
	g := w.CurrentGroup()
	if err := g.CloseAll(); err != nil {
		return false, err
	}
	return !w.tree.Contains(g.ID()), nil
}

// FocusNextSplit focuses the next group in visual order, wrapping around.
func (w *Workspace) FocusNextSplit() bool {
	g, ok := w.tree.Next(w.CurrentGroup().ID())
	if !ok {
		return false
	}
	w.setFocus(g.ID())
	return true
}

// FocusPreviousSplit focuses the previous group in visual order.
func (w *Workspace) FocusPreviousSplit() bool {
	g, ok := w.tree.Previous(w.CurrentGroup().ID())
	if !ok {
		return false
	}
	w.setFocus(g.ID())
	return true
}

// NextTab activates the next tab of the focused group.
func (w *Workspace) NextTab() {
	w.CurrentGroup().Next()
}

// PrevTab activates the previous tab of the focused group.
func (w *Workspace) PrevTab() {
	w.CurrentGroup().Previous()
}

// ResizeSplit grows the focused group's share of its parent split by delta.
func (w *Workspace) ResizeSplit(delta float64) bool {
	if !w.tree.Resize(w.CurrentGroup().ID(), delta) {
		return false
	}
	w.notifyLayout()
	return true
}

// EqualizeSplits gives every split equal child sizes.
func (w *Workspace) EqualizeSplits() {
	w.tree.Equalize()
	w.notifyLayout()
}

// Undo reverts the last edit of the focused document.
func (w *Workspace) Undo() error {
	return w.edit(func(doc *document.Document) error { return doc.Buffer().Undo() })
}

// Redo reapplies the last undone edit of the focused document.
func (w *Workspace) Redo() error {
	return w.edit(func(doc *document.Document) error { return doc.Buffer().Redo() })
}

// EditCurrent applies fn to the focused document and reports the tab
// change. It is a no-op when the focused group is empty.
func (w *Workspace) EditCurrent(fn func(doc *document.Document) error) error {
	return w.edit(fn)
}

func (w *Workspace) edit(fn func(doc *document.Document) error) error {
	g := w.CurrentGroup()
	doc := g.Current()
	if doc == nil {
		return nil
	}
	if err := fn(doc); err != nil {
		return err
	}
	w.notifyTabs(g)
	return nil
}

// ReplaceCurrent runs the search engine's ReplaceCurrent and reports the
// tab change when the bound document was edited.
func (w *Workspace) ReplaceCurrent() bool {
	edited := w.search.CanReplace()
	ok := w.search.ReplaceCurrent()
	if edited {
		w.notifySearchGroup()
	}
	return ok
}

// ReplaceAll runs the search engine's ReplaceAll and reports the tab change
// when anything was replaced.
func (w *Workspace) ReplaceAll() int {
	n := w.search.ReplaceAll()
	if n > 0 {
		w.notifySearchGroup()
	}
	return n
}

func (w *Workspace) notifySearchGroup() {
	doc := w.search.Document()
	if doc == nil {
		return
	}
	for _, g := range w.tree.Leaves() {
		if g.IndexOf(doc.ID()) >= 0 {
			w.notifyTabs(g)
			return
		}
	}
}

// ReloadFromDisk re-reads every unmodified document open at path and
// returns how many were replaced.
func (w *Workspace) ReloadFromDisk(path string) (int, error) {
	want := filepath.Clean(path)
	count := 0
	for _, g := range w.tree.Leaves() {
		changed := false
		for _, doc := range g.Documents() {
			if doc.Path() == "" || filepath.Clean(doc.Path()) != want {
				continue
			}
			ok, err := doc.Reload()
			if err != nil {
				return count, err
			}
			if ok {
				count++
				changed = true
				if doc == w.CurrentDocument() {
					w.search.Bind(doc)
				}
			}
		}
		if changed {
			w.notifyTabs(g)
		}
	}
	return count, nil
}
