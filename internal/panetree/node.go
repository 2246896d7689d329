// Package panetree implements the split layout of a workspace: a tree whose
// leaves hold tab groups and whose inner nodes divide their area among
// ordered children along an orientation.
//
// After every structural operation the tree satisfies:
//   - no split has zero children
//   - no split has exactly one child (it is replaced by that child,
//     including at the root)
//   - the sizes of a split's children sum to 1
//
// Splitting next to a node whose parent already has the requested
// orientation inserts a sibling instead of nesting a new split.
package panetree

import (
	"fmt"

	"github.com/google/uuid"
)

// Orientation is the direction along which a split divides its area.
type Orientation int

const (
	// Horizontal places children side by side, left to right.
	Horizontal Orientation = iota
	// Vertical stacks children top to bottom.
	Vertical
)

// String returns "H" or "V".
func (o Orientation) String() string {
	if o == Vertical {
		return "V"
	}
	return "H"
}

// Leaf is the content of a leaf node. Leaves are compared by ID.
type Leaf interface {
	ID() uuid.UUID
}

// Node is either a leaf or a split.
type Node[L Leaf] struct {
	leaf   L
	isLeaf bool

	orientation Orientation
	children    []*Node[L]
	sizes       []float64
}

// NewLeaf creates a leaf node.
func NewLeaf[L Leaf](l L) *Node[L] {
	return &Node[L]{leaf: l, isLeaf: true}
}

// NewSplit creates a split with equal child sizes.
func NewSplit[L Leaf](o Orientation, children ...*Node[L]) *Node[L] {
	n := &Node[L]{orientation: o, children: children}
	n.sizes = equalSizes(len(children))
	return n
}

// IsLeaf reports whether n is a leaf.
func (n *Node[L]) IsLeaf() bool {
	return n.isLeaf
}

// Leaf returns the leaf content. It is the zero value for splits.
func (n *Node[L]) Leaf() L {
	return n.leaf
}

// Orientation returns the split orientation.
func (n *Node[L]) Orientation() Orientation {
	return n.orientation
}

// Children returns the split children in order.
func (n *Node[L]) Children() []*Node[L] {
	return n.children
}

// Sizes returns the relative child sizes.
func (n *Node[L]) Sizes() []float64 {
	return n.sizes
}

// String renders the subtree, for example H[a, V[b, c]].
func (n *Node[L]) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.isLeaf {
		if s, ok := any(n.leaf).(fmt.Stringer); ok {
			return s.String()
		}
		return n.leaf.ID().String()[:8]
	}
	s := n.orientation.String() + "["
	for i, c := range n.children {
		if i > 0 {
			s += ", "
		}
		s += c.String()
	}
	return s + "]"
}

func (n *Node[L]) sizeAt(i int) float64 {
	if i < len(n.sizes) {
		return n.sizes[i]
	}
	if len(n.children) == 0 {
		return 0
	}
	return 1 / float64(len(n.children))
}

// Cleanup returns n with empty splits dropped and single-child splits
// replaced by their child, applied bottom-up. Child sizes are renormalised
// to sum to 1. It returns nil when nothing remains. n is not modified.
func Cleanup[L Leaf](n *Node[L]) *Node[L] {
	if n == nil || n.isLeaf {
		return n
	}

	kids := make([]*Node[L], 0, len(n.children))
	sizes := make([]float64, 0, len(n.children))
	for i, c := range n.children {
		if cc := Cleanup(c); cc != nil {
			kids = append(kids, cc)
			sizes = append(sizes, n.sizeAt(i))
		}
	}
	return collapse(n.orientation, kids, sizes)
}

// collapse builds one cleaned split level from children that are already
// clean.
func collapse[L Leaf](o Orientation, kids []*Node[L], sizes []float64) *Node[L] {
	switch len(kids) {
	case 0:
		return nil
	case 1:
		return kids[0]
	}
	return &Node[L]{
		orientation: o,
		children:    kids,
		sizes:       normalize(sizes),
	}
}

// rewrite returns a cleaned copy of n with child i replaced by sub, or
// dropped when sub is nil. The other children are shared.
func rewrite[L Leaf](n *Node[L], i int, sub *Node[L]) *Node[L] {
	kids := make([]*Node[L], 0, len(n.children))
	sizes := make([]float64, 0, len(n.children))
	for j, c := range n.children {
		if j == i {
			if sub == nil {
				continue
			}
			c = sub
		}
		kids = append(kids, c)
		sizes = append(sizes, n.sizeAt(j))
	}
	return collapse(n.orientation, kids, sizes)
}

// pathTo returns the splits from the root down to the parent of the leaf
// id, with the child index taken at each step.
func pathTo[L Leaf](n *Node[L], id uuid.UUID) (nodes []*Node[L], idxs []int, ok bool) {
	if n == nil {
		return nil, nil, false
	}
	if n.isLeaf {
		return nil, nil, n.leaf.ID() == id
	}
	for i, c := range n.children {
		if below, bi, found := pathTo(c, id); found {
			return append([]*Node[L]{n}, below...), append([]int{i}, bi...), true
		}
	}
	return nil, nil, false
}

// collect appends the leaves of n in depth-first child order.
func collect[L Leaf](n *Node[L], out []L) []L {
	if n == nil {
		return out
	}
	if n.isLeaf {
		return append(out, n.leaf)
	}
	for _, c := range n.children {
		out = collect(c, out)
	}
	return out
}

// locate finds the leaf with id and its parent. parent is nil when the
// leaf is the root.
func locate[L Leaf](n, parent *Node[L], index int, id uuid.UUID) (node, par *Node[L], idx int) {
	if n == nil {
		return nil, nil, -1
	}
	if n.isLeaf {
		if n.leaf.ID() == id {
			return n, parent, index
		}
		return nil, nil, -1
	}
	for i, c := range n.children {
		if found, p, j := locate(c, n, i, id); found != nil {
			return found, p, j
		}
	}
	return nil, nil, -1
}

func depth[L Leaf](n *Node[L]) int {
	if n == nil || n.isLeaf {
		return 0
	}
	d := 0
	for _, c := range n.children {
		if cd := depth(c); cd > d {
			d = cd
		}
	}
	return d + 1
}

func equalSizes(n int) []float64 {
	sizes := make([]float64, n)
	for i := range sizes {
		sizes[i] = 1 / float64(n)
	}
	return sizes
}

func normalize(sizes []float64) []float64 {
	var sum float64
	for _, s := range sizes {
		sum += s
	}
	out := make([]float64, len(sizes))
	if sum <= 0 {
		return equalSizes(len(sizes))
	}
	for i, s := range sizes {
		out[i] = s / sum
	}
	return out
}
