package document

import (
	"strings"

	"github.com/rivo/uniseg"
)

// DefaultTabWidth is used when a non-positive tab width is given.
const DefaultTabWidth = 4

// VisualColumn returns the 1-based display column of the cursor. Tabs
// advance to the next multiple of tabWidth and wide characters occupy two
// cells.
func (d *Document) VisualColumn(tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	text := d.buf.Text()
	cur := int(d.buf.Cursor())
	if cur > len(text) {
		cur = len(text)
	}
	line := text[strings.LastIndexByte(text[:cur], '\n')+1 : cur]

	col := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		if g.Str() == "\t" {
			col += tabWidth - col%tabWidth
			continue
		}
		col += g.Width()
	}
	return col + 1
}
