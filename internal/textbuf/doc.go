// Package textbuf defines the text buffer capability consumed by the
// workspace core and provides an in-memory implementation of it.
//
// The workspace never manipulates text storage directly. Documents hold a
// TextBuffer and go through it for every read, edit, cursor move and search:
//
//	buf := textbuf.New()
//	buf.SetText("Hello World Hello")
//
//	r, ok := buf.Find("hello", 0, textbuf.FindFlags{})
//	if ok {
//	    buf.SetSelection(r.Start, r.End)
//	}
//
// Edits made between BeginTransaction and EndTransaction form a single undo
// step:
//
//	buf.BeginTransaction("Replace All")
//	_ = buf.ReplaceRange(textbuf.NewRange(0, 5), "Hi")
//	_ = buf.ReplaceRange(textbuf.NewRange(9, 14), "Hi")
//	buf.EndTransaction()
//
//	_ = buf.Undo() // both replacements are reverted
//
// Offsets are byte offsets into the UTF-8 text. Buffer is not safe for
// concurrent use; all mutation happens on the workspace command goroutine.
package textbuf
