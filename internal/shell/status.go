package shell

import (
	"strconv"

	"github.com/tidwall/sjson"

	"github.com/dshills/workbench/internal/workspace"
)

type jsonDoc struct {
	raw string
	err error
}

func (d *jsonDoc) set(path string, value any) {
	if d.err != nil {
		return
	}
	d.raw, d.err = sjson.Set(d.raw, path, value)
}

// Status renders a JSON snapshot of the workspace: window title, pane
// layout, every group's tabs, the focused document and the search state.
func Status(ws *workspace.Workspace, tabWidth int) (string, error) {
	d := &jsonDoc{raw: "{}"}
	d.set("title", ws.Title())
	d.set("layout", ws.Layout().String())

	focused := ws.CurrentGroup()
	for i, g := range ws.Groups() {
		prefix := "groups." + strconv.Itoa(i)
		d.set(prefix+".id", g.ID().String())
		d.set(prefix+".active", g.Active())
		d.set(prefix+".tabs", g.Titles())
		if g == focused {
			d.set("focused", i)
		}
	}

	if doc := ws.CurrentDocument(); doc != nil {
		line, col := doc.CursorPosition()
		d.set("document.name", doc.DisplayName())
		d.set("document.path", doc.Path())
		d.set("document.modified", doc.IsModified())
		d.set("document.line", line)
		d.set("document.column", col)
		d.set("document.visual_column", doc.VisualColumn(tabWidth))
	} else {
		d.set("document", nil)
	}

	st := ws.Search().Status()
	d.set("search.state", st.State.String())
	d.set("search.query", st.Query)
	d.set("search.replacement", st.Replacement)
	d.set("search.case_sensitive", st.CaseSensitive)
	d.set("search.whole_word", st.WholeWord)
	d.set("search.matches", st.Matches)
	if st.HasMatch {
		d.set("search.match.start", int(st.Match.Start))
		d.set("search.match.end", int(st.Match.End))
	}

	if d.err != nil {
		return "", d.err
	}
	return d.raw, nil
}
