package workspace

import (
	"errors"
	"testing"

	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/filestore"
	"github.com/dshills/workbench/internal/search"
	"github.com/dshills/workbench/internal/tabgroup"
)

// mockPrompt returns a fixed decision.
type mockPrompt struct {
	decision tabgroup.Decision
	asked    int
}

func (m *mockPrompt) AskSaveDiscardCancel(string) tabgroup.Decision {
	m.asked++
	return m.decision
}

// mockObserver records notifications.
type mockObserver struct {
	focused []*document.Document
	tabs    int
	layouts int
}

func (m *mockObserver) FocusedDocumentChanged(doc *document.Document) {
	m.focused = append(m.focused, doc)
}
func (m *mockObserver) TabListChanged(*tabgroup.Group) { m.tabs++ }
func (m *mockObserver) LayoutChanged()                 { m.layouts++ }

func newTestWorkspace(t *testing.T) (*Workspace, *filestore.MemStore, *mockPrompt, *mockObserver) {
	t.Helper()
	store := filestore.NewMemStore()
	prompt := &mockPrompt{decision: tabgroup.Cancel}
	obs := &mockObserver{}
	env := &tabgroup.Env{Store: store, Prompt: prompt, Picker: tabgroup.NoPicker{}}
	w := New(env, WithObserver(obs))
	return w, store, prompt, obs
}

func mustCheck(t *testing.T, w *Workspace) {
	t.Helper()
	if err := w.Layout().Check(); err != nil {
		t.Fatalf("layout invariant broken: %v (%s)", err, w.Layout())
	}
	if !w.Layout().Contains(w.CurrentGroup().ID()) {
		t.Fatal("focused group is not in the tree")
	}
	for _, g := range w.Groups() {
		if g.IsEmpty() {
			t.Fatalf("group %s left empty", g)
		}
	}
}

func TestNewWorkspace(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	if len(w.Groups()) != 1 || w.CurrentGroup().Len() != 1 {
		t.Fatal("workspace should start with one group holding one document")
	}
	if w.Search().State() != search.Bound || w.Search().Document() != w.CurrentDocument() {
		t.Error("search should be bound to the focused document")
	}
	if w.Title() != "Untitled - Workbench" {
		t.Errorf("Title() = %q", w.Title())
	}
	mustCheck(t, w)
}

func TestCloseAllSoleGroupLeavesFreshDocument(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	g := w.CurrentGroup()
	w.NewTab()
	w.NewTab()
	before := g.Documents()

	if err := w.CloseAll(); err != nil {
		t.Fatalf("CloseAll() error = %v", err)
	}
	if w.ClosingAll() {
		t.Error("ClosingAll mode should end with the sweep")
	}
	if len(w.Groups()) != 1 || w.CurrentGroup() != g {
		t.Fatal("sole group should survive")
	}
	if g.Len() != 1 || !g.Current().IsBlank() {
		t.Errorf("Len() = %d, want one fresh document", g.Len())
	}
	for _, d := range before {
		if g.IndexOf(d.ID()) >= 0 {
			t.Error("old documents should be gone")
		}
	}
	if w.Search().Document() != g.Current() {
		t.Error("search should be rebound to the fresh document")
	}
	mustCheck(t, w)
}

func TestCloseAllAcrossSplits(t *testing.T) {
	w, _, _, obs := newTestWorkspace(t)
	w.SplitHorizontal()
	w.SplitVertical()
	if len(w.Groups()) != 3 {
		t.Fatalf("groups = %d", len(w.Groups()))
	}
	obs.layouts = 0

	if err := w.CloseAll(); err != nil {
		t.Fatal(err)
	}
	if len(w.Groups()) != 1 || w.CurrentGroup().Len() != 1 {
		t.Errorf("groups=%d docs=%d", len(w.Groups()), w.CurrentGroup().Len())
	}
	if obs.layouts == 0 {
		t.Error("removing groups should notify layout changes")
	}
	mustCheck(t, w)
}

func TestCloseAllStopsAtCancel(t *testing.T) {
	w, _, prompt, _ := newTestWorkspace(t)
	first := w.CurrentGroup()
	second := w.SplitHorizontal()
	second.Current().Buffer().SetText("dirty")
	prompt.decision = tabgroup.Cancel

	err := w.CloseAll()
	if !tabgroup.IsCancelled(err) {
		t.Fatalf("CloseAll() error = %v", err)
	}
	if w.Layout().Contains(first.ID()) {
		t.Error("the emptied first group should be removed after the sweep")
	}
	if !w.Layout().Contains(second.ID()) || second.Len() != 1 {
		t.Error("the cancelled group should keep its document")
	}
	mustCheck(t, w)
}

func TestSplitAndFocus(t *testing.T) {
	w, _, _, obs := newTestWorkspace(t)
	first := w.CurrentGroup()

	g := w.SplitHorizontal()
	if g == nil || w.CurrentGroup() != g {
		t.Fatal("split should focus the new group")
	}
	if g.Len() != 1 || !g.Current().IsBlank() {
		t.Error("new group should hold one blank document")
	}
	if obs.layouts != 1 {
		t.Errorf("layouts = %d, want 1", obs.layouts)
	}
	if w.Search().Document() != g.Current() {
		t.Error("search should follow focus")
	}

	if !w.FocusNextSplit() || w.CurrentGroup() != first {
		t.Error("FocusNextSplit() should wrap to the first group")
	}
	if !w.FocusPreviousSplit() || w.CurrentGroup() != g {
		t.Error("FocusPreviousSplit() should wrap to the last group")
	}
	if !w.Focus(first.ID()) || w.CurrentGroup() != first {
		t.Error("Focus() should select the group")
	}
	mustCheck(t, w)
}

func TestFocusSingleGroupNoop(t *testing.T) {
	w, _, _, obs := newTestWorkspace(t)
	if w.FocusNextSplit() || w.FocusPreviousSplit() {
		t.Error("focus cycling with one group should be a no-op")
	}
	if len(obs.focused) != 0 {
		t.Error("no focus notification expected")
	}
}

func TestSplitThenCloseSplitRestoresLayout(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	first := w.CurrentGroup()
	w.SplitVertical()
	w.Focus(first.ID())
	before := w.Layout().String()

	w.SplitHorizontal()
	ok, err := w.CloseSplit()
	if !ok || err != nil {
		t.Fatalf("CloseSplit() = %v, %v", ok, err)
	}
	if got := w.Layout().String(); got != before {
		t.Errorf("layout = %s, want %s", got, before)
	}
	if w.CurrentGroup() != first {
		t.Error("focus should return to the neighbouring group")
	}
	mustCheck(t, w)
}

func TestCloseSplitLastGroup(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	ok, err := w.CloseSplit()
	if ok || err != nil {
		t.Errorf("CloseSplit() = %v, %v; want no-op", ok, err)
	}
}

func TestCloseSplitCancelled(t *testing.T) {
	w, _, prompt, _ := newTestWorkspace(t)
	g := w.SplitHorizontal()
	g.Current().Buffer().SetText("dirty")
	before := w.Layout().String()

	ok, err := w.CloseSplit()
	if ok || !errors.Is(err, tabgroup.ErrCancelled) {
		t.Fatalf("CloseSplit() = %v, %v", ok, err)
	}
	if prompt.asked != 1 {
		t.Errorf("asked = %d", prompt.asked)
	}
	if w.Layout().String() != before || w.CurrentGroup() != g {
		t.Error("cancelled close must leave the tree untouched")
	}
}

func TestClosingLastTabRemovesNonSoleGroup(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	first := w.CurrentGroup()
	w.SplitHorizontal()

	ok, err := w.CloseCurrentTab()
	if !ok || err != nil {
		t.Fatalf("CloseCurrentTab() = %v, %v", ok, err)
	}
	if len(w.Groups()) != 1 || w.CurrentGroup() != first {
		t.Error("the emptied group should be removed and focus moved")
	}

	ok, _ = w.CloseCurrentTab()
	if !ok || first.Len() != 1 || !first.Current().IsBlank() {
		t.Error("closing the sole group's last tab should refill it")
	}
	mustCheck(t, w)
}

func TestCloseModifiedCancelKeepsDocument(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	doc := w.CurrentDocument()
	doc.Buffer().SetText("work")

	ok, err := w.CloseCurrentTab()
	if ok || !tabgroup.IsCancelled(err) {
		t.Fatalf("CloseCurrentTab() = %v, %v", ok, err)
	}
	if w.CurrentGroup().Len() != 1 || w.CurrentDocument() != doc {
		t.Error("document and tab count should be unchanged")
	}
}

func TestOpenAndTabs(t *testing.T) {
	w, store, _, obs := newTestWorkspace(t)
	store.Put("/a.txt", []byte("alpha"))
	store.Put("/b.txt", []byte("beta"))

	a, err := w.Open("/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if w.CurrentGroup().Len() != 1 {
		t.Error("blank tab should be reused")
	}
	b, _ := w.Open("/b.txt")
	if w.Title() != "b.txt - Workbench" {
		t.Errorf("Title() = %q", w.Title())
	}

	w.PrevTab()
	if w.CurrentDocument() != a {
		t.Error("PrevTab() should activate a")
	}
	if w.Search().Document() != a {
		t.Error("search should follow the active tab")
	}
	w.NextTab()
	if w.CurrentDocument() != b {
		t.Error("NextTab() should activate b")
	}
	if obs.tabs == 0 {
		t.Error("tab list notifications expected")
	}

	// Reuse is group-local: a new split gets its own document.
	w.SplitHorizontal()
	if doc, _ := w.Open("/a.txt"); doc == a {
		t.Error("open in another group should not switch to a document of a different group")
	}
}

func TestOpenFailure(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	_, err := w.Open("/missing.txt")
	var ioErr *filestore.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Open() error = %v, want *IOError", err)
	}
	if w.CurrentGroup().Len() != 1 {
		t.Error("failed open should not add a tab")
	}
}

func TestSaveCurrent(t *testing.T) {
	w, store, _, _ := newTestWorkspace(t)
	store.Put("/s.txt", []byte("v1"))
	doc, _ := w.Open("/s.txt")
	doc.Buffer().SetText("v2")

	if err := w.SaveCurrent(); err != nil {
		t.Fatal(err)
	}
	if data, _ := store.Get("/s.txt"); string(data) != "v2" {
		t.Errorf("stored = %q", data)
	}
	if err := w.SaveCurrentAs(); !tabgroup.IsCancelled(err) {
		t.Errorf("SaveCurrentAs() with dismissed picker = %v", err)
	}
}

func TestUndoRedo(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	doc := w.CurrentDocument()
	doc.Buffer().SetText("typed")

	if err := w.Undo(); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "" || doc.IsModified() {
		t.Errorf("after undo: %q modified=%v", doc.Text(), doc.IsModified())
	}
	if err := w.Redo(); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "typed" {
		t.Errorf("after redo: %q", doc.Text())
	}
	if err := w.Redo(); err == nil {
		t.Error("Redo() with nothing to redo should fail")
	}
}

func TestReplaceNotifiesTabs(t *testing.T) {
	w, _, _, obs := newTestWorkspace(t)
	doc := w.CurrentDocument()
	doc.Buffer().SetText("Hello World Hello")
	doc.Buffer().SetModified(false)
	e := w.Search()
	e.SetQuery("Hello")
	e.SetReplacement("Hi")

	before := obs.tabs
	if n := w.ReplaceAll(); n != 2 {
		t.Fatalf("ReplaceAll() = %d, want 2", n)
	}
	if obs.tabs != before+1 {
		t.Errorf("ReplaceAll sent %d tab notifications, want 1", obs.tabs-before)
	}
	if doc.TabTitle() != "● Untitled" {
		t.Errorf("TabTitle() = %q", doc.TabTitle())
	}

	before = obs.tabs
	if w.ReplaceAll() != 0 || obs.tabs != before {
		t.Error("ReplaceAll with no matches should not notify")
	}

	doc.Buffer().SetText("Hello Hello")
	e.FindFromStart()
	before = obs.tabs
	w.ReplaceCurrent()
	if doc.Text() != "Hi Hello" {
		t.Fatalf("text = %q", doc.Text())
	}
	if obs.tabs != before+1 {
		t.Errorf("ReplaceCurrent sent %d tab notifications, want 1", obs.tabs-before)
	}

	doc.Buffer().SetSelection(0, 0)
	before = obs.tabs
	w.ReplaceCurrent()
	if obs.tabs != before {
		t.Error("ReplaceCurrent without a matching selection should not notify")
	}
}

func TestReloadFromDisk(t *testing.T) {
	w, store, _, _ := newTestWorkspace(t)
	store.Put("/r.txt", []byte("v1"))
	doc, _ := w.Open("/r.txt")
	w.SplitHorizontal()
	other, _ := w.Open("/r.txt")

	store.Put("/r.txt", []byte("v2"))
	n, err := w.ReloadFromDisk("/r.txt")
	if err != nil || n != 2 {
		t.Fatalf("ReloadFromDisk() = %d, %v", n, err)
	}
	if doc.Text() != "v2" || other.Text() != "v2" {
		t.Error("both copies should be reloaded")
	}
}

func TestResizeAndEqualize(t *testing.T) {
	w, _, _, _ := newTestWorkspace(t)
	if w.ResizeSplit(0.1) {
		t.Error("resizing the root group should fail")
	}
	w.SplitHorizontal()
	if !w.ResizeSplit(-0.2) {
		t.Fatal("ResizeSplit() = false")
	}
	w.EqualizeSplits()
	for _, s := range w.Layout().Root().Sizes() {
		if s != 0.5 {
			t.Errorf("sizes = %v", w.Layout().Root().Sizes())
		}
	}
	mustCheck(t, w)
}

func TestObserverFuncs(t *testing.T) {
	layouts := 0
	store := filestore.NewMemStore()
	w := New(&tabgroup.Env{Store: store}, WithObserver(ObserverFuncs{OnLayout: func() { layouts++ }}))
	w.SplitVertical()
	if layouts != 1 {
		t.Errorf("layouts = %d", layouts)
	}
}
