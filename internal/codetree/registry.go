package codetree

// Registry maps Keys to Nodes, guaranteeing that each distinct symbol set is
// represented by exactly one Node.
//
// The zero value is an empty registry ready to use.
// A Registry is owned by a single replay;
// it must not be shared between concurrent replays.
type Registry struct {
	nodes map[Key]*Node
	order []*Node // in order of creation
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[Key]*Node)}
}

// GetOrCreate returns the node for key, creating a leaf with the given
// symbols, label, and weight if there isn't one.
// created reports whether a new node was made.
//
// For an existing node, the supplied label and weight are ignored:
// the first write wins. If the existing node covers a different set of
// symbols, the key policy has collided and GetOrCreate fails with a
// DuplicateKeyError.
func (r *Registry) GetOrCreate(key Key, symbols []string, label string, weight float64) (n *Node, created bool, err error) {
	if n, ok := r.nodes[key]; ok {
		if !sameSymbols(n.Symbols, symbols) {
			return nil, false, &DuplicateKeyError{
				Key:         key,
				Existing:    n.Symbols,
				Conflicting: symbols,
			}
		}
		return n, false, nil
	}

	if r.nodes == nil {
		r.nodes = make(map[Key]*Node)
	}

	n = &Node{
		Key:     key,
		Label:   label,
		Symbols: append([]string(nil), symbols...),
		Weight:  weight,
	}
	r.nodes[key] = n
	r.order = append(r.order, n)
	return n, true, nil
}

// Lookup returns the node with the given key, if any.
func (r *Registry) Lookup(key Key) (*Node, bool) {
	n, ok := r.nodes[key]
	return n, ok
}

// Len reports the number of nodes in the registry.
func (r *Registry) Len() int {
	return len(r.order)
}

// Nodes returns all nodes in the order they were created.
func (r *Registry) Nodes() []*Node {
	return append([]*Node(nil), r.order...)
}

// Roots returns nodes without a parent, in the order they were created.
func (r *Registry) Roots() []*Node {
	var roots []*Node
	for _, n := range r.order {
		if n.parent == nil {
			roots = append(roots, n)
		}
	}
	return roots
}

// Reset removes all nodes from the registry.
// Nodes are never removed individually.
func (r *Registry) Reset() {
	clear(r.nodes)
	r.order = nil
}

func (r *Registry) first() *Node {
	if len(r.order) == 0 {
		return nil
	}
	return r.order[0]
}

// since returns nodes created after the first n.
func (r *Registry) since(n int) []*Node {
	return append([]*Node(nil), r.order[n:]...)
}
