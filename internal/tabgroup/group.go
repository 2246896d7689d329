// Package tabgroup manages an ordered set of documents shown as tabs,
// one of which is active. A group owns the lifecycle of its documents:
// creating them, opening files into them and closing them after asking
// what to do with unsaved changes.
//
// A group never stays empty on its own. When its last document closes it
// notifies its Listener with AllClosed and the owner either refills it or
// removes it.
package tabgroup

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/textbuf"
)

// Group is an ordered list of documents with one active index.
type Group struct {
	id       uuid.UUID
	docs     []*document.Document
	active   int
	env      *Env
	listener Listener
	logger   *logging.Logger
}

// New creates a group holding one untitled document.
func New(env *Env) *Group {
	g := NewEmpty(env)
	doc := g.newDocument()
	g.docs = append(g.docs, doc)
	g.active = 0
	return g
}

// NewEmpty creates a group without documents. The caller must fill it
// before handing it to anything that expects a non-empty group.
func NewEmpty(env *Env) *Group {
	id := uuid.New()
	return &Group{
		id:       id,
		active:   -1,
		env:      env,
		listener: nopListener{},
		logger:   env.Logger.WithComponent("tabgroup").WithField("group", id.String()[:8]),
	}
}

// SetListener sets the change listener. A nil listener disables notifications.
func (g *Group) SetListener(l Listener) {
	if l == nil {
		l = nopListener{}
	}
	g.listener = l
}

// ID returns the stable identity of the group.
func (g *Group) ID() uuid.UUID {
	return g.id
}

// String returns a short identifier used in layout renderings.
func (g *Group) String() string {
	return g.id.String()[:8]
}

// Len returns the number of documents.
func (g *Group) Len() int {
	return len(g.docs)
}

// IsEmpty reports whether the group has no documents.
func (g *Group) IsEmpty() bool {
	return len(g.docs) == 0
}

// Active returns the active index, or -1 when empty.
func (g *Group) Active() int {
	return g.active
}

// Current returns the active document, or nil when empty.
func (g *Group) Current() *document.Document {
	if g.active < 0 || g.active >= len(g.docs) {
		return nil
	}
	return g.docs[g.active]
}

// Document returns the document at index, or nil when out of range.
func (g *Group) Document(index int) *document.Document {
	if index < 0 || index >= len(g.docs) {
		return nil
	}
	return g.docs[index]
}

// Documents returns the documents in tab order.
func (g *Group) Documents() []*document.Document {
	out := make([]*document.Document, len(g.docs))
	copy(out, g.docs)
	return out
}

// IndexOf returns the index of the document with id, or -1.
func (g *Group) IndexOf(id uuid.UUID) int {
	for i, d := range g.docs {
		if d.ID() == id {
			return i
		}
	}
	return -1
}

// IndexOfPath returns the index of the document open at path, or -1.
func (g *Group) IndexOfPath(path string) int {
	if path == "" {
		return -1
	}
	want := filepath.Clean(path)
	for i, d := range g.docs {
		if d.Path() != "" && filepath.Clean(d.Path()) == want {
			return i
		}
	}
	return -1
}

// Titles returns the tab titles in order.
func (g *Group) Titles() []string {
	out := make([]string, len(g.docs))
	for i, d := range g.docs {
		out[i] = d.TabTitle()
	}
	return out
}

func (g *Group) newDocument() *document.Document {
	opts := []document.Option{document.WithLogger(g.env.Logger)}
	if g.env.NewBuffer != nil {
		opts = append(opts, document.WithBuffer(g.env.NewBuffer()))
	} else {
		opts = append(opts, document.WithBuffer(textbuf.New()))
	}
	return document.New(g.env.Store, opts...)
}

// NewDocument creates a document, loading path when given, appends it and
// makes it active. When the load fails nothing is added and the
// *filestore.IOError is returned.
func (g *Group) NewDocument(path string) (*document.Document, error) {
	doc := g.newDocument()
	if path != "" {
		if err := doc.Load(path); err != nil {
			return nil, err
		}
	}

	g.docs = append(g.docs, doc)
	g.logger.Debug("document added", "path", path, "count", len(g.docs))
	g.listener.TabsChanged(g)
	g.setActive(len(g.docs) - 1)
	return doc, nil
}

// Open makes the document for path active. An already open path is
// switched to; a blank active document is reused; otherwise a new document
// is created. An empty path asks the PathPicker, and a dismissed picker
// returns (nil, nil).
func (g *Group) Open(path string) (*document.Document, error) {
	if path == "" {
		p, ok := g.pick(false)
		if !ok {
			return nil, nil
		}
		path = p
	}

	if i := g.IndexOfPath(path); i >= 0 {
		g.setActive(i)
		return g.docs[i], nil
	}

	if cur := g.Current(); cur != nil && cur.IsBlank() {
		if err := cur.Load(path); err != nil {
			return nil, err
		}
		g.logger.Debug("blank document reused", "path", path)
		g.listener.TabsChanged(g)
		g.listener.CurrentChanged(g, cur)
		return cur, nil
	}

	return g.NewDocument(path)
}

// Close closes the document at index. A modified document asks the Prompt
// first: Cancel returns ErrCancelled, Save saves (through the PathPicker
// for untitled documents) and aborts with an error wrapping ErrCancelled
// if that fails, Discard drops the changes. An invalid index is a no-op.
func (g *Group) Close(index int) (bool, error) {
	doc := g.Document(index)
	if doc == nil {
		return false, nil
	}

	if doc.IsModified() {
		switch g.prompt().AskSaveDiscardCancel(doc.DisplayName()) {
		case Save:
			if err := g.save(doc, doc.Path()); err != nil {
				if IsCancelled(err) {
					return false, err
				}
				return false, fmt.Errorf("%w: %w", ErrCancelled, err)
			}
		case Discard:
		default:
			g.logger.Debug("close cancelled", "name", doc.DisplayName())
			return false, ErrCancelled
		}
	}

	g.remove(index)
	return true, nil
}

// CloseAll closes documents front to back and stops at the first error.
// Documents closed before the error stay closed.
func (g *Group) CloseAll() error {
	for len(g.docs) > 0 {
		if _, err := g.Close(0); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) remove(index int) {
	prev := g.Current()
	doc := g.docs[index]
	g.docs = append(g.docs[:index], g.docs[index+1:]...)

	switch {
	case len(g.docs) == 0:
		g.active = -1
	case index < g.active:
		g.active--
	case g.active >= len(g.docs):
		g.active = len(g.docs) - 1
	}
	g.logger.Debug("document closed", "name", doc.DisplayName(), "count", len(g.docs))

	g.listener.TabsChanged(g)
	if len(g.docs) == 0 {
		g.listener.AllClosed(g)
		return
	}
	if cur := g.Current(); cur != prev {
		g.listener.CurrentChanged(g, cur)
	}
}

// SetActive makes the document at index active.
func (g *Group) SetActive(index int) bool {
	if index < 0 || index >= len(g.docs) {
		return false
	}
	g.setActive(index)
	return true
}

func (g *Group) setActive(index int) {
	if index == g.active {
		return
	}
	g.active = index
	g.listener.CurrentChanged(g, g.docs[index])
}

// Next activates the following tab, wrapping at the end.
func (g *Group) Next() {
	if len(g.docs) <= 1 {
		return
	}
	g.setActive((g.active + 1) % len(g.docs))
}

// Previous activates the preceding tab, wrapping at the start.
func (g *Group) Previous() {
	if len(g.docs) <= 1 {
		return
	}
	g.setActive((g.active - 1 + len(g.docs)) % len(g.docs))
}

// Move reorders the document at from to position to. The active document
// stays active.
func (g *Group) Move(from, to int) bool {
	n := len(g.docs)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	cur := g.Current()
	doc := g.docs[from]
	g.docs = append(g.docs[:from], g.docs[from+1:]...)
	g.docs = append(g.docs[:to], append([]*document.Document{doc}, g.docs[to:]...)...)
	g.active = g.IndexOf(cur.ID())
	g.listener.TabsChanged(g)
	return true
}

// SaveCurrent saves the active document, asking for a path when untitled.
func (g *Group) SaveCurrent() error {
	doc := g.Current()
	if doc == nil {
		return nil
	}
	return g.save(doc, doc.Path())
}

// SaveCurrentAs asks for a path and saves the active document there.
func (g *Group) SaveCurrentAs() error {
	return g.SaveCurrentTo("")
}

// SaveCurrentTo saves the active document to path, asking the PathPicker
// when path is empty.
func (g *Group) SaveCurrentTo(path string) error {
	doc := g.Current()
	if doc == nil {
		return nil
	}
	return g.save(doc, path)
}

// save writes doc to path, asking the PathPicker when path is empty.
// A dismissed picker returns ErrCancelled.
func (g *Group) save(doc *document.Document, path string) error {
	if path == "" {
		p, ok := g.pick(true)
		if !ok {
			return ErrCancelled
		}
		path = p
	}

	if err := doc.Save(path); err != nil {
		return err
	}
	g.logger.Info("document saved", "path", path)
	g.listener.TabsChanged(g)
	return nil
}

func (g *Group) pick(save bool) (string, bool) {
	picker := g.env.Picker
	if picker == nil {
		return "", false
	}
	var (
		p  string
		ok bool
	)
	if save {
		p, ok = picker.PickSave()
	} else {
		p, ok = picker.PickOpen()
	}
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

func (g *Group) prompt() Prompt {
	if g.env.Prompt == nil {
		return StaticPrompt(Cancel)
	}
	return g.env.Prompt
}
