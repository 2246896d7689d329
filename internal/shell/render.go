package shell

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/workbench/internal/panetree"
	"github.com/dshills/workbench/internal/tabgroup"
	"github.com/dshills/workbench/internal/workspace"
)

// renderLayout draws the pane tree one node per line. Panes are numbered
// in visual order and the focused pane is starred.
func renderLayout(ws *workspace.Workspace) string {
	index := make(map[uuid.UUID]int)
	for i, g := range ws.Groups() {
		index[g.ID()] = i + 1
	}
	r := layoutRenderer{index: index, focused: ws.CurrentGroup().ID()}
	r.node(ws.Layout().Root(), 0, -1)
	return strings.TrimRight(r.b.String(), "\n")
}

type layoutRenderer struct {
	b       strings.Builder
	index   map[uuid.UUID]int
	focused uuid.UUID
}

func (r *layoutRenderer) node(n *panetree.Node[*tabgroup.Group], indent int, share float64) {
	if n == nil {
		return
	}
	r.b.WriteString(strings.Repeat("  ", indent))
	if n.IsLeaf() {
		g := n.Leaf()
		mark := " "
		if g.ID() == r.focused {
			mark = "*"
		}
		title := "(empty)"
		if doc := g.Current(); doc != nil {
			title = doc.TabTitle()
		}
		fmt.Fprintf(&r.b, "%s[%d] %s (%d tabs)", mark, r.index[g.ID()], title, g.Len())
	} else {
		r.b.WriteString(n.Orientation().String())
	}
	if share >= 0 {
		fmt.Fprintf(&r.b, " %.0f%%", share*100)
	}
	r.b.WriteByte('\n')

	sizes := n.Sizes()
	for i, c := range n.Children() {
		r.node(c, indent+1, sizes[i])
	}
}

// renderTabs lists the tabs of g, marking the active one.
func renderTabs(g *tabgroup.Group) string {
	var b strings.Builder
	for i, title := range g.Titles() {
		mark := " "
		if i == g.Active() {
			mark = ">"
		}
		fmt.Fprintf(&b, "%s %d %s\n", mark, i+1, title)
	}
	return strings.TrimRight(b.String(), "\n")
}
