package document

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dshills/workbench/internal/filestore"
	"github.com/dshills/workbench/internal/textbuf"
)

func TestNewDocumentIsBlank(t *testing.T) {
	d := New(filestore.NewMemStore())
	if !d.IsBlank() || !d.IsUntitled() {
		t.Error("new document should be blank and untitled")
	}
	if d.DisplayName() != "Untitled" {
		t.Errorf("DisplayName() = %q", d.DisplayName())
	}
	if d.ID() == New(filestore.NewMemStore()).ID() {
		t.Error("documents should have distinct IDs")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "round.txt")
	store := filestore.NewOSStore()

	d := New(store)
	d.Buffer().SetText("line one\nline two ☃\n")
	if !d.IsModified() {
		t.Fatal("edit should mark the document modified")
	}
	if err := d.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if d.IsModified() || d.Path() != p {
		t.Errorf("after Save: modified=%v path=%q", d.IsModified(), d.Path())
	}

	fresh := New(store)
	if err := fresh.Load(p); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fresh.Text() != d.Text() {
		t.Errorf("Load() text = %q, want %q", fresh.Text(), d.Text())
	}
	if fresh.IsModified() {
		t.Error("loaded document should not be modified")
	}
	if fresh.DisplayName() != "round.txt" {
		t.Errorf("DisplayName() = %q", fresh.DisplayName())
	}
}

func TestLoadFailureLeavesStateUnchanged(t *testing.T) {
	store := filestore.NewMemStore()
	store.Put("/bad.txt", []byte{0xff})

	d := New(store)
	d.Buffer().SetText("keep me")

	for _, p := range []string{"/missing.txt", "/bad.txt"} {
		err := d.Load(p)
		var ioErr *filestore.IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("Load(%q) error = %v, want *IOError", p, err)
		}
		if d.Text() != "keep me" || d.Path() != "" || !d.IsModified() {
			t.Errorf("Load(%q) failure changed state: text=%q path=%q", p, d.Text(), d.Path())
		}
	}
}

func TestSaveWithoutPath(t *testing.T) {
	d := New(filestore.NewMemStore())
	d.Buffer().SetText("x")

	err := d.Save("")
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("Save() error = %v, want ErrNoPath", err)
	}
	var ioErr *filestore.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("Save() error should be an *IOError")
	}
	if !d.IsModified() {
		t.Error("failed save should keep the modified flag")
	}
}

func TestSaveUsesCurrentPath(t *testing.T) {
	store := filestore.NewMemStore()
	store.Put("/a.txt", []byte("old"))

	d := New(store)
	if err := d.Load("/a.txt"); err != nil {
		t.Fatal(err)
	}
	d.Buffer().SetText("new")
	if err := d.Save(""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if data, _ := store.Get("/a.txt"); string(data) != "new" {
		t.Errorf("stored = %q, want new", data)
	}
}

func TestSaveWriteFailure(t *testing.T) {
	store := filestore.NewMemStore()
	store.Fail("/ro.txt", filestore.ErrPermission)

	d := New(store)
	d.Buffer().SetText("x")
	if err := d.Save("/ro.txt"); !filestore.IsPermission(err) {
		t.Fatalf("Save() error = %v, want permission", err)
	}
	if d.Path() != "" || !d.IsModified() {
		t.Error("failed save should not change path or modified flag")
	}
}

func TestTabTitle(t *testing.T) {
	store := filestore.NewMemStore()
	store.Put("/dir/notes.md", []byte("hi"))

	d := New(store)
	_ = d.Load("/dir/notes.md")
	if d.TabTitle() != "notes.md" {
		t.Errorf("TabTitle() = %q", d.TabTitle())
	}
	d.Buffer().SetText("changed")
	if d.TabTitle() != "● notes.md" {
		t.Errorf("TabTitle() = %q, want marker", d.TabTitle())
	}
}

func TestReload(t *testing.T) {
	store := filestore.NewMemStore()
	store.Put("/r.txt", []byte("v1"))

	d := New(store)
	_ = d.Load("/r.txt")

	store.Put("/r.txt", []byte("v2"))
	ok, err := d.Reload()
	if err != nil || !ok {
		t.Fatalf("Reload() = %v, %v", ok, err)
	}
	if d.Text() != "v2" || d.IsModified() {
		t.Errorf("after reload: text=%q modified=%v", d.Text(), d.IsModified())
	}

	d.Buffer().SetText("local edit")
	store.Put("/r.txt", []byte("v3"))
	if ok, _ := d.Reload(); ok {
		t.Error("Reload() should skip modified documents")
	}
	if d.Text() != "local edit" {
		t.Errorf("text = %q", d.Text())
	}
}

func TestCursorPosition(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		cursor   textbuf.ByteOffset
		wantLine int
		wantCol  int
	}{
		{"start", "abc", 0, 1, 1},
		{"mid line", "abc", 2, 1, 3},
		{"second line", "ab\ncd", 4, 2, 2},
		{"after newline", "ab\n", 3, 2, 1},
		{"combining mark", "e\u0301x", 3, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := textbuf.New(textbuf.WithText(tt.text))
			buf.SetCursor(tt.cursor)
			d := New(filestore.NewMemStore(), WithBuffer(buf))

			line, col := d.CursorPosition()
			if line != tt.wantLine || col != tt.wantCol {
				t.Errorf("CursorPosition() = %d:%d, want %d:%d", line, col, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestVisualColumn(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		cursor   textbuf.ByteOffset
		tabWidth int
		want     int
	}{
		{"plain", "abc", 2, 4, 3},
		{"leading tab", "\tx", 1, 4, 5},
		{"tab after text", "ab\tx", 3, 4, 5},
		{"tab width eight", "ab\tx", 3, 8, 9},
		{"default width", "\tx", 1, 0, 5},
		{"wide characters", "世界x", 6, 4, 5},
		{"combining mark", "e\u0301x", 3, 4, 2},
		{"second line", "\t\n\tab", 4, 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := textbuf.New(textbuf.WithText(tt.text))
			buf.SetCursor(tt.cursor)
			d := New(filestore.NewMemStore(), WithBuffer(buf))

			if got := d.VisualColumn(tt.tabWidth); got != tt.want {
				t.Errorf("VisualColumn(%d) = %d, want %d", tt.tabWidth, got, tt.want)
			}
		})
	}
}
