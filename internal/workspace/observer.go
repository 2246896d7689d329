package workspace

import (
	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/tabgroup"
)

// Observer receives workspace change notifications. Notifications are
// delivered synchronously, after the state change, on the goroutine that
// issued the command.
type Observer interface {
	// FocusedDocumentChanged is called with the new focused document, or
	// nil while the focused group is transiently empty.
	FocusedDocumentChanged(doc *document.Document)
	// TabListChanged is called when a group's tabs change.
	TabListChanged(g *tabgroup.Group)
	// LayoutChanged is called after the pane tree changes shape.
	LayoutChanged()
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnFocusedDocument func(doc *document.Document)
	OnTabList         func(g *tabgroup.Group)
	OnLayout          func()
}

// FocusedDocumentChanged implements Observer.
func (f ObserverFuncs) FocusedDocumentChanged(doc *document.Document) {
	if f.OnFocusedDocument != nil {
		f.OnFocusedDocument(doc)
	}
}

// TabListChanged implements Observer.
func (f ObserverFuncs) TabListChanged(g *tabgroup.Group) {
	if f.OnTabList != nil {
		f.OnTabList(g)
	}
}

// LayoutChanged implements Observer.
func (f ObserverFuncs) LayoutChanged() {
	if f.OnLayout != nil {
		f.OnLayout()
	}
}

func (w *Workspace) notifyFocused(doc *document.Document) {
	for _, o := range w.observers {
		o.FocusedDocumentChanged(doc)
	}
}

func (w *Workspace) notifyTabs(g *tabgroup.Group) {
	for _, o := range w.observers {
		o.TabListChanged(g)
	}
}

func (w *Workspace) notifyLayout() {
	for _, o := range w.observers {
		o.LayoutChanged()
	}
}

// groupListener forwards group notifications to the workspace.
type groupListener struct {
	w *Workspace
}

func (l groupListener) CurrentChanged(g *tabgroup.Group, doc *document.Document) {
	if g.ID() != l.w.focused {
		return
	}
	l.w.search.Bind(doc)
	l.w.notifyFocused(doc)
}

func (l groupListener) TabsChanged(g *tabgroup.Group) {
	l.w.notifyTabs(g)
}

func (l groupListener) AllClosed(g *tabgroup.Group) {
	if g.ID() == l.w.focused {
		l.w.search.Unbind()
		l.w.notifyFocused(nil)
	}
	if l.w.closingAll {
		l.w.logger.Debug("empty group deferred", "group", g.String())
		return
	}
	l.w.handleEmpty(g)
}
