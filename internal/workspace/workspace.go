// Package workspace is the controller of a multi-document editing session.
// It owns the pane tree of tab groups, tracks the focused group, keeps the
// search engine bound to the focused document and exposes the commands a
// shell issues.
//
// A Workspace is not safe for concurrent use. All commands must be issued
// from one goroutine.
package workspace

import (
	"github.com/google/uuid"

	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/panetree"
	"github.com/dshills/workbench/internal/search"
	"github.com/dshills/workbench/internal/tabgroup"
)

// AppName is used in the window title.
const AppName = "Workbench"

// Workspace coordinates tab groups, layout, focus and search.
type Workspace struct {
	env        *tabgroup.Env
	tree       *panetree.Tree[*tabgroup.Group]
	focused    uuid.UUID
	search     *search.Engine
	observers  []Observer
	closingAll bool
	logger     *logging.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithSearch sets the search engine. Defaults to search.New().
func WithSearch(e *search.Engine) Option {
	return func(w *Workspace) {
		w.search = e
	}
}

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(w *Workspace) {
		w.observers = append(w.observers, o)
	}
}

// New creates a workspace with one group holding one untitled document.
func New(env *tabgroup.Env, opts ...Option) *Workspace {
	w := &Workspace{
		env:    env,
		logger: env.Logger.WithComponent("workspace"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.search == nil {
		w.search = search.New(search.WithLogger(env.Logger))
	}

	g := w.newGroup()
	w.tree = panetree.New(g)
	w.focused = g.ID()
	w.search.Bind(g.Current())
	return w
}

// AddObserver registers an observer.
func (w *Workspace) AddObserver(o Observer) {
	w.observers = append(w.observers, o)
}

func (w *Workspace) newGroup() *tabgroup.Group {
	g := tabgroup.New(w.env)
	g.SetListener(groupListener{w: w})
	return g
}

// Search returns the search engine.
func (w *Workspace) Search() *search.Engine {
	return w.search
}

// Layout returns the pane tree. Callers must not modify it.
func (w *Workspace) Layout() *panetree.Tree[*tabgroup.Group] {
	return w.tree
}

// Groups returns the groups in visual order.
func (w *Workspace) Groups() []*tabgroup.Group {
	return w.tree.Leaves()
}

// ClosingAll reports whether a close-all sweep is running.
func (w *Workspace) ClosingAll() bool {
	return w.closingAll
}

// CurrentGroup returns the focused group.
func (w *Workspace) CurrentGroup() *tabgroup.Group {
	g, ok := w.tree.Find(w.focused)
	if !ok {
		w.resolveFocus()
		g, _ = w.tree.Find(w.focused)
	}
	return g
}

// CurrentDocument returns the active document of the focused group.
func (w *Workspace) CurrentDocument() *document.Document {
	return w.CurrentGroup().Current()
}

// Title returns the window title for the focused document.
func (w *Workspace) Title() string {
	doc := w.CurrentDocument()
	if doc == nil {
		return AppName
	}
	return doc.DisplayName() + " - " + AppName
}

// Focus makes the group with id the focused group.
func (w *Workspace) Focus(id uuid.UUID) bool {
	if !w.tree.Contains(id) {
		return false
	}
	if id != w.focused {
		w.setFocus(id)
	}
	return true
}

func (w *Workspace) setFocus(id uuid.UUID) {
	w.focused = id
	g, _ := w.tree.Find(id)
	doc := g.Current()
	w.search.Bind(doc)
	w.logger.Debug("focus changed", "group", g.String())
	w.notifyFocused(doc)
}

// resolveFocus moves focus to the first group when the focused group is
// no longer in the tree.
func (w *Workspace) resolveFocus() {
	if w.tree.Contains(w.focused) {
		return
	}
	w.setFocus(w.tree.Leaves()[0].ID())
}

// handleEmpty applies the emptiness policy to g: the sole group is
// refilled with an untitled document, any other group is removed.
func (w *Workspace) handleEmpty(g *tabgroup.Group) {
	if !g.IsEmpty() || !w.tree.Contains(g.ID()) {
		return
	}
	if w.tree.Len() == 1 {
		w.logger.Debug("refilling sole group", "group", g.String())
		_, _ = g.NewDocument("")
		return
	}
	w.removeGroup(g)
}

func (w *Workspace) removeGroup(g *tabgroup.Group) {
	id := g.ID()
	wasFocused := id == w.focused

	var fallback uuid.UUID
	leaves := w.tree.Leaves()
	for i, l := range leaves {
		if l.ID() != id {
			continue
		}
		if i > 0 {
			fallback = leaves[i-1].ID()
		} else {
			fallback = leaves[1].ID()
		}
	}

	if !w.tree.Remove(id) {
		return
	}
	g.SetListener(nil)
	w.logger.Info("group removed", "group", g.String(), "groups", w.tree.Len(), "layout", w.tree.String())
	w.notifyLayout()
	if wasFocused {
		w.setFocus(fallback)
	}
}
