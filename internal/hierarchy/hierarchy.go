// Package hierarchy converts a code tree into a flat, layout-ready view
// model: a list of nodes in pre-order and a list of edges between them.
//
// Each edge carries the position of its child among its siblings and the
// code digit assigned to that branch. What the digits look like on screen
// is left to the renderer.
package hierarchy

import (
	"fmt"

	"github.com/abhinav/codereplay/internal/codetree"
)

// DigitPolicy maps the position of a child among its siblings to the code
// digit of the edge leading to it.
type DigitPolicy func(index, siblings int) int

// DirectDigits assigns digit i to the i-th child.
// This matches how Huffman, Tunstall, and Shannon-Fano runs number their
// branches, and is the default.
func DirectDigits(index, _ int) int { return index }

// ReversedDigits assigns digit n-1-i to the i-th of n children.
func ReversedDigits(index, siblings int) int { return siblings - 1 - index }

// DefaultAlphabet spells code digits for alphabets of up to 36 symbols.
const DefaultAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Node is a node of the view model.
type Node struct {
	ID     codetree.Key
	Label  string
	Weight float64

	// Depth is the number of edges between this node and the root.
	Depth int

	// ParentID is the ID of the parent. Empty for the root.
	ParentID codetree.Key

	Leaf bool
}

// IsRoot reports whether this is the root of the hierarchy.
func (n Node) IsRoot() bool { return n.Depth == 0 }

// Edge connects a parent to one of its children.
type Edge struct {
	ParentID, ChildID codetree.Key

	// BranchIndex is the position of the child among its siblings.
	BranchIndex int

	// Digit is the code digit assigned to this branch.
	Digit int
}

// Hierarchy is the view model of a code tree.
type Hierarchy struct {
	// Nodes in pre-order, starting at the root.
	Nodes []Node

	// Edges in the order their children appear in Nodes.
	Edges []Edge

	byID map[codetree.Key]int // ID -> Nodes[i]
}

// Builder builds hierarchies. The zero value is ready to use.
type Builder struct {
	// Digits assigns code digits to branches. Defaults to DirectDigits.
	Digits DigitPolicy
}

// Build builds the view model for the tree under root using the default
// Builder. A nil root produces an empty hierarchy.
func Build(root *codetree.Node) *Hierarchy {
	var b Builder
	return b.Build(root)
}

// Build builds the view model for the tree under root.
// A nil root produces an empty hierarchy.
//
// The traversal is deterministic: the same tree always produces the same
// nodes and edges in the same order.
func (b *Builder) Build(root *codetree.Node) *Hierarchy {
	digits := b.Digits
	if digits == nil {
		digits = DirectDigits
	}

	h := Hierarchy{byID: make(map[codetree.Key]int)}
	if root == nil {
		return &h
	}

	var visit func(n *codetree.Node, parent codetree.Key, depth int)
	visit = func(n *codetree.Node, parent codetree.Key, depth int) {
		h.byID[n.Key] = len(h.Nodes)
		h.Nodes = append(h.Nodes, Node{
			ID:       n.Key,
			Label:    n.Label,
			Weight:   n.Weight,
			Depth:    depth,
			ParentID: parent,
			Leaf:     n.IsLeaf(),
		})

		for i, c := range n.Children {
			h.Edges = append(h.Edges, Edge{
				ParentID:    n.Key,
				ChildID:     c.Key,
				BranchIndex: i,
				Digit:       digits(i, len(n.Children)),
			})
			visit(c, n.Key, depth+1)
		}
	}
	visit(root, "", 0)

	return &h
}

// Len reports the number of nodes in the hierarchy.
func (h *Hierarchy) Len() int { return len(h.Nodes) }

// Node returns the node with the given ID.
func (h *Hierarchy) Node(id codetree.Key) (Node, bool) {
	i, ok := h.byID[id]
	if !ok {
		return Node{}, false
	}
	return h.Nodes[i], true
}

// Roots returns nodes without a parent.
// A well-formed hierarchy has at most one.
func (h *Hierarchy) Roots() []Node {
	var roots []Node
	for _, n := range h.Nodes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Height reports the depth of the deepest node.
func (h *Hierarchy) Height() int {
	var height int
	for _, n := range h.Nodes {
		height = max(height, n.Depth)
	}
	return height
}

// Codeword is the code assigned to a leaf of the hierarchy.
type Codeword struct {
	ID    codetree.Key
	Label string
	Code  string
}

func (c Codeword) String() string {
	return fmt.Sprintf("%v=%v", c.Label, c.Code)
}

// Codewords spells the path from the root to every leaf using the given
// alphabet, in pre-order. alphabet[d] is the symbol for digit d.
// Codewords fails if a digit has no symbol in the alphabet.
//
// A hierarchy with a single node assigns it the empty code.
func (h *Hierarchy) Codewords(alphabet string) ([]Codeword, error) {
	symbols := []rune(alphabet)
	codes := make(map[codetree.Key]string, len(h.Nodes))

	var words []Codeword
	edges := h.Edges
	for _, n := range h.Nodes {
		code := codes[n.ParentID]
		if !n.IsRoot() {
			// Edges are in the same order as their children in Nodes.
			e := edges[0]
			edges = edges[1:]

			if e.Digit < 0 || e.Digit >= len(symbols) {
				return nil, fmt.Errorf("digit %d for %q is outside alphabet %q",
					e.Digit, n.Label, alphabet)
			}
			code += string(symbols[e.Digit])
		}
		codes[n.ID] = code

		if n.Leaf {
			words = append(words, Codeword{ID: n.ID, Label: n.Label, Code: code})
		}
	}
	return words, nil
}
