package codetree

import (
	"fmt"
	"strconv"
)

// Node is a single node of a code tree.
//
// A node's Weight never changes after it is created.
// Children are attached at most once: by the merge that creates the node,
// or by the expansion of a leaf.
type Node struct {
	// Key identifies the node in its Registry.
	Key Key

	// Label is the text displayed for the node.
	Label string

	// Symbols covered by this node.
	// For a merged node, the symbols of its children in order.
	Symbols []string

	// Weight is the probability mass of the node.
	Weight float64

	// Children in branch order. Empty for leaves.
	Children []*Node

	parent *Node
}

// Parent returns the node this node is a child of,
// or nil if it hasn't been attached to one.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsLeaf reports whether this node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Depth reports the number of edges between this node and the root of its
// tree.
func (n *Node) Depth() int {
	var depth int
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Walk visits this node and its descendants in pre-order.
// Children of a node are skipped if fn returns false for it.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%v(%v)", n.Label, strconv.FormatFloat(n.Weight, 'g', -1, 64))
}
