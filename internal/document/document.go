// Package document pairs a text buffer with the file it was loaded from.
package document

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/dshills/workbench/internal/filestore"
	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/textbuf"
)

// UntitledName is the display name of a document without a path.
const UntitledName = "Untitled"

// ModifiedMarker prefixes the tab title of a document with unsaved changes.
const ModifiedMarker = "● "

// ErrNoPath indicates a save was requested for an untitled document
// without supplying a destination.
var ErrNoPath = errors.New("no file path")

// Document is one open text: a buffer plus an optional file path.
// The buffer owns the modified flag; Document mirrors it.
type Document struct {
	id     uuid.UUID
	path   string
	buf    textbuf.TextBuffer
	store  filestore.FileStore
	logger *logging.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithBuffer sets the text buffer. Defaults to an empty textbuf.Buffer.
func WithBuffer(buf textbuf.TextBuffer) Option {
	return func(d *Document) {
		d.buf = buf
	}
}

// WithLogger sets the document logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		d.logger = l
	}
}

// New creates an empty untitled document backed by store.
func New(store filestore.FileStore, opts ...Option) *Document {
	d := &Document{
		id:    uuid.New(),
		store: store,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.buf == nil {
		d.buf = textbuf.New()
	}
	d.logger = d.logger.WithComponent("document").WithField("doc", d.id.String()[:8])
	return d
}

// ID returns the stable identity of the document.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Path returns the file path, or "" when untitled.
func (d *Document) Path() string {
	return d.path
}

// Buffer returns the underlying text buffer.
func (d *Document) Buffer() textbuf.TextBuffer {
	return d.buf
}

// Text returns the buffer content.
func (d *Document) Text() string {
	return d.buf.Text()
}

// IsModified reports unsaved changes.
func (d *Document) IsModified() bool {
	return d.buf.IsModified()
}

// IsUntitled reports whether the document has no path.
func (d *Document) IsUntitled() bool {
	return d.path == ""
}

// IsBlank reports whether the document is untitled, unmodified and empty.
// Blank documents are reused in place when a file is opened.
func (d *Document) IsBlank() bool {
	return d.path == "" && !d.buf.IsModified() && d.buf.Text() == ""
}

// Load replaces the buffer content with the file at path.
// On failure the document is unchanged and a *filestore.IOError is returned.
func (d *Document) Load(path string) error {
	text, err := d.store.Read(path)
	if err != nil {
		d.logger.Warn("load failed", "path", path, "error", err)
		return err
	}
	d.buf.Reset(text)
	d.path = path
	d.logger.Debug("loaded", "path", path, "bytes", len(text))
	return nil
}

// Save writes the buffer to path, or to the current path when path is "".
// On success the path is updated and the modified flag cleared.
func (d *Document) Save(path string) error {
	target := path
	if target == "" {
		target = d.path
	}
	if target == "" {
		return &filestore.IOError{Op: "write", Err: ErrNoPath}
	}

	if err := d.store.Write(target, d.buf.Text()); err != nil {
		d.logger.Warn("save failed", "path", target, "error", err)
		return err
	}
	d.path = target
	d.buf.SetModified(false)
	d.logger.Debug("saved", "path", target)
	return nil
}

// Reload re-reads the file when the document has a path and no unsaved
// changes. It reports whether the content was replaced.
func (d *Document) Reload() (bool, error) {
	if d.path == "" || d.buf.IsModified() {
		return false, nil
	}
	text, err := d.store.Read(d.path)
	if err != nil {
		return false, err
	}
	if text == d.buf.Text() {
		return false, nil
	}
	cursor := d.buf.Cursor()
	d.buf.Reset(text)
	d.buf.SetSelection(cursor, cursor)
	d.logger.Info("reloaded from disk", "path", d.path)
	return true, nil
}

// DisplayName returns the base name of the path, or "Untitled".
func (d *Document) DisplayName() string {
	if d.path == "" {
		return UntitledName
	}
	return filepath.Base(d.path)
}

// TabTitle returns the display name with a marker when modified.
func (d *Document) TabTitle() string {
	if d.buf.IsModified() {
		return ModifiedMarker + d.DisplayName()
	}
	return d.DisplayName()
}

// CursorPosition returns the 1-based line and column of the cursor.
// Columns count grapheme clusters, so combined characters occupy one column.
func (d *Document) CursorPosition() (line, column int) {
	text := d.buf.Text()
	cur := int(d.buf.Cursor())
	if cur > len(text) {
		cur = len(text)
	}
	before := text[:cur]

	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	column = uniseg.GraphemeClusterCount(before[lineStart:]) + 1
	return line, column
}
