package tabgroup

import (
	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/filestore"
	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/textbuf"
)

// Decision is the answer to a save confirmation.
type Decision int

const (
	// Cancel aborts the close.
	Cancel Decision = iota
	// Save writes the document before closing it.
	Save
	// Discard closes the document without saving.
	Discard
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Save:
		return "save"
	case Discard:
		return "discard"
	default:
		return "cancel"
	}
}

// ParseDecision parses a decision name. Unknown names map to Cancel.
func ParseDecision(s string) Decision {
	switch s {
	case "save", "s":
		return Save
	case "discard", "d":
		return Discard
	default:
		return Cancel
	}
}

// Prompt asks the user what to do with unsaved changes.
type Prompt interface {
	AskSaveDiscardCancel(name string) Decision
}

// PathPicker asks the user for a file path. ok is false when dismissed.
type PathPicker interface {
	PickOpen() (path string, ok bool)
	PickSave() (path string, ok bool)
}

// Listener receives group change notifications.
type Listener interface {
	// CurrentChanged is called when the active document changes.
	CurrentChanged(g *Group, doc *document.Document)
	// TabsChanged is called when documents are added, removed, reordered
	// or renamed.
	TabsChanged(g *Group)
	// AllClosed is called when the last document has been removed.
	AllClosed(g *Group)
}

// Env holds the collaborators shared by every group of a workspace.
type Env struct {
	Store  filestore.FileStore
	Prompt Prompt
	Picker PathPicker
	Logger *logging.Logger

	// NewBuffer creates the buffer for each new document.
	// Defaults to an empty textbuf.Buffer.
	NewBuffer func() textbuf.TextBuffer
}

// StaticPrompt always returns the same decision.
type StaticPrompt Decision

// AskSaveDiscardCancel implements Prompt.
func (p StaticPrompt) AskSaveDiscardCancel(string) Decision {
	return Decision(p)
}

// NoPicker is a PathPicker that is always dismissed.
type NoPicker struct{}

// PickOpen implements PathPicker.
func (NoPicker) PickOpen() (string, bool) { return "", false }

// PickSave implements PathPicker.
func (NoPicker) PickSave() (string, bool) { return "", false }

type nopListener struct{}

func (nopListener) CurrentChanged(*Group, *document.Document) {}
func (nopListener) TabsChanged(*Group)                        {}
func (nopListener) AllClosed(*Group)                          {}
