package panetree

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// DefaultMinShare is the smallest share Resize leaves to any child.
const DefaultMinShare = 0.1

// Errors reported by Check.
var (
	ErrEmptyTree    = errors.New("tree has no root")
	ErrDegenerate   = errors.New("split with fewer than two children")
	ErrSizeMismatch = errors.New("sizes do not match children")
	ErrSizeSum      = errors.New("sizes do not sum to 1")
	ErrDuplicate    = errors.New("leaf appears more than once")
)

// Tree is a pane layout with at least one leaf. Structural operations that
// cannot apply return false and leave the tree unchanged.
//
// Tree is not safe for concurrent use.
type Tree[L Leaf] struct {
	root     *Node[L]
	minShare float64
}

// New creates a tree holding a single leaf.
func New[L Leaf](first L) *Tree[L] {
	return &Tree[L]{root: NewLeaf(first), minShare: DefaultMinShare}
}

// Root returns the root node.
func (t *Tree[L]) Root() *Node[L] {
	return t.root
}

// Leaves returns the leaves depth-first in child order, which is the
// visual left-to-right, top-to-bottom order.
func (t *Tree[L]) Leaves() []L {
	return collect(t.root, nil)
}

// Len returns the number of leaves.
func (t *Tree[L]) Len() int {
	return len(t.Leaves())
}

// Find returns the leaf with id.
func (t *Tree[L]) Find(id uuid.UUID) (L, bool) {
	n, _, _ := locate(t.root, nil, -1, id)
	if n == nil {
		var zero L
		return zero, false
	}
	return n.leaf, true
}

// Contains reports whether a leaf with id is in the tree.
func (t *Tree[L]) Contains(id uuid.UUID) bool {
	_, ok := t.Find(id)
	return ok
}

// Depth returns the number of split levels above the deepest leaf.
func (t *Tree[L]) Depth() int {
	return depth(t.root)
}

// String renders the layout, for example H[a, V[b, c]].
func (t *Tree[L]) String() string {
	return t.root.String()
}

// Split places newLeaf next to the leaf target along o. When target's
// parent already splits along o the new leaf becomes the next sibling and
// all siblings are rebalanced to equal size; otherwise target's slot is
// replaced by a new split holding target and newLeaf at equal sizes.
func (t *Tree[L]) Split(target uuid.UUID, o Orientation, newLeaf L) bool {
	if t.Contains(newLeaf.ID()) {
		return false
	}
	node, parent, idx := locate(t.root, nil, -1, target)
	if node == nil {
		return false
	}

	leaf := NewLeaf(newLeaf)
	if parent != nil && parent.orientation == o {
		kids := make([]*Node[L], 0, len(parent.children)+1)
		kids = append(kids, parent.children[:idx+1]...)
		kids = append(kids, leaf)
		kids = append(kids, parent.children[idx+1:]...)
		parent.children = kids
		parent.sizes = equalSizes(len(kids))
		return true
	}

	split := NewSplit(o, node, leaf)
	if parent == nil {
		t.root = split
	} else {
		parent.children[idx] = split
	}
	return true
}

// Remove detaches the leaf target and cleans up the tree. The last leaf
// cannot be removed. Only the splits on the path to target are rebuilt.
func (t *Tree[L]) Remove(target uuid.UUID) bool {
	if t.Len() <= 1 {
		return false
	}
	nodes, idxs, ok := pathTo(t.root, target)
	if !ok || len(nodes) == 0 {
		return false
	}

	var sub *Node[L]
	for i := len(nodes) - 1; i >= 0; i-- {
		sub = rewrite(nodes[i], idxs[i], sub)
	}
	t.root = sub
	return true
}

// Next returns the leaf after current in Leaves order, wrapping around.
// ok is false when current is absent or the only leaf.
func (t *Tree[L]) Next(current uuid.UUID) (L, bool) {
	return t.step(current, 1)
}

// Previous returns the leaf before current in Leaves order, wrapping around.
func (t *Tree[L]) Previous(current uuid.UUID) (L, bool) {
	return t.step(current, -1)
}

func (t *Tree[L]) step(current uuid.UUID, dir int) (L, bool) {
	var zero L
	leaves := t.Leaves()
	if len(leaves) <= 1 {
		return zero, false
	}
	for i, l := range leaves {
		if l.ID() == current {
			return leaves[(i+dir+len(leaves))%len(leaves)], true
		}
	}
	return zero, false
}

// Equalize resets every split to equal child sizes.
func (t *Tree[L]) Equalize() {
	var walk func(n *Node[L])
	walk = func(n *Node[L]) {
		if n == nil || n.isLeaf {
			return
		}
		n.sizes = equalSizes(len(n.children))
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
}

// Resize grows the share of target inside its parent by delta, taking the
// space from the following sibling (or the preceding one for the last
// child). Both shares stay at or above the minimum share.
func (t *Tree[L]) Resize(target uuid.UUID, delta float64) bool {
	node, parent, idx := locate(t.root, nil, -1, target)
	if node == nil || parent == nil || delta == 0 {
		return false
	}
	other := idx + 1
	if other >= len(parent.children) {
		other = idx - 1
	}

	// Only the shrinking side is held at the minimum. A share already at
	// or below it refuses to shrink further.
	s := parent.sizes
	if delta > 0 {
		delta = math.Min(delta, s[other]-t.minShare)
		if delta < 1e-9 {
			return false
		}
	} else {
		delta = math.Max(delta, t.minShare-s[idx])
		if delta > -1e-9 {
			return false
		}
	}
	s[idx] += delta
	s[other] -= delta
	return true
}

// SetMinShare sets the smallest share Resize will leave to a child.
func (t *Tree[L]) SetMinShare(share float64) {
	if share >= 0 && share < 0.5 {
		t.minShare = share
	}
}

// Check validates the structural invariants of the tree.
func (t *Tree[L]) Check() error {
	if t.root == nil {
		return ErrEmptyTree
	}
	seen := make(map[uuid.UUID]bool)
	return check(t.root, seen)
}

func check[L Leaf](n *Node[L], seen map[uuid.UUID]bool) error {
	if n.isLeaf {
		id := n.leaf.ID()
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicate, n)
		}
		seen[id] = true
		return nil
	}
	if len(n.children) < 2 {
		return fmt.Errorf("%w: %s", ErrDegenerate, n)
	}
	if len(n.sizes) != len(n.children) {
		return fmt.Errorf("%w: %s", ErrSizeMismatch, n)
	}
	var sum float64
	for _, s := range n.sizes {
		sum += s
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: %s sums to %.4f", ErrSizeSum, n, sum)
	}
	for _, c := range n.children {
		if err := check(c, seen); err != nil {
			return err
		}
	}
	return nil
}
