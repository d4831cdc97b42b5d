package codetree

import "fmt"

// MalformedEventError indicates that an event is missing required fields or
// refers to structurally invalid data.
type MalformedEventError struct {
	Kind   EventKind
	Reason string
}

func (e *MalformedEventError) Error() string {
	if e.Kind == 0 {
		return "malformed event: " + e.Reason
	}
	return fmt.Sprintf("malformed %v event: %v", e.Kind, e.Reason)
}

// DoubleExpansionError indicates that an expansion event targeted a node
// that already has children.
type DoubleExpansionError struct {
	Key   Key
	Label string
}

func (e *DoubleExpansionError) Error() string {
	return fmt.Sprintf("node %q is already expanded", e.Label)
}

// DuplicateKeyError indicates that two nodes of a tree would share a key.
//
// If Existing and Conflicting cover different symbols, the key policy
// mapped two different symbol sets to the same key.
type DuplicateKeyError struct {
	Key Key

	// Symbols of the node already in the tree,
	// and of the node that would replace it.
	Existing, Conflicting []string
}

func (e *DuplicateKeyError) Error() string {
	if sameSymbols(e.Existing, e.Conflicting) {
		return fmt.Sprintf("node %q already exists", e.Key)
	}
	return fmt.Sprintf("key %q collides: %q and %q", e.Key, e.Existing, e.Conflicting)
}

// OutOfRangeError indicates a replay position outside the bounds of the log.
type OutOfRangeError struct {
	Index    int
	Min, Max int
}

func (e *OutOfRangeError) Error() string {
	if e.Max < e.Min {
		return fmt.Sprintf("step %d out of range: log is empty", e.Index)
	}
	return fmt.Sprintf("step %d out of range [%d, %d]", e.Index, e.Min, e.Max)
}
