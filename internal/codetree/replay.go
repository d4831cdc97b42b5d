package codetree

import "fmt"

// Tree is the hierarchy reconstructed from a prefix of an event log.
type Tree struct {
	// Root of the tree, or nil if no events were applied.
	Root *Node

	// Step is the index of the last applied event, or -1 if none.
	Step int

	// Event is the event at Step, or nil if none.
	Event Event

	// Created lists the nodes created by the event at Step,
	// in order of creation.
	Created []*Node

	reg *Registry
}

// Lookup returns the node with the given key, if it's part of the tree.
func (t *Tree) Lookup(key Key) (*Node, bool) {
	if t.reg == nil {
		return nil, false
	}
	return t.reg.Lookup(key)
}

// Len reports the number of nodes created so far, including those not yet
// attached to the root.
func (t *Tree) Len() int {
	if t.reg == nil {
		return 0
	}
	return t.reg.Len()
}

// Pending returns nodes created so far that are not part of the tree
// under Root. For merge logs, these are subtrees that a later event will
// merge. They are in the order they were created.
func (t *Tree) Pending() []*Node {
	if t.reg == nil {
		return nil
	}

	var pending []*Node
	for _, n := range t.reg.Roots() {
		if n != t.Root {
			pending = append(pending, n)
		}
	}
	return pending
}

// Replay rebuilds the tree for events in order, starting from an empty
// registry.
//
// The result depends only on events and the interpreter's configuration.
// Replaying the same events twice yields trees with the same keys, links,
// and weights.
//
// Errors name the failing step and wrap the error for that event.
func (in *Interpreter) Replay(events []Event) (*Tree, error) {
	t := Tree{Step: -1, reg: NewRegistry()}
	if len(events) == 0 {
		return &t, nil
	}

	var kind EventKind
	for i, ev := range events {
		if ev == nil {
			return nil, fmt.Errorf("step %d: %w", i,
				&MalformedEventError{Reason: "missing event"})
		}
		if i == 0 {
			kind = ev.Kind()
		}
		if ev.Kind() != kind {
			return nil, fmt.Errorf("step %d: %w", i, &MalformedEventError{
				Kind:   ev.Kind(),
				Reason: fmt.Sprintf("log mixes %v and %v events", kind, ev.Kind()),
			})
		}

		before := t.reg.Len()
		root, err := in.Apply(ev, t.reg)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		t.Root = root
		t.Step = i
		t.Event = ev
		t.Created = t.reg.since(before)
	}

	return &t, nil
}

// Replay rebuilds the tree for events with the default Interpreter.
func Replay(events []Event) (*Tree, error) {
	var in Interpreter
	return in.Replay(events)
}
