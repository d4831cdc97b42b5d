package codetree

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhinav/codereplay/internal/stringobj"
)

// EventKind identifies the variant of an Event.
type EventKind int

// Supported event kinds.
const (
	// MergeKind events combine existing nodes under a new parent.
	MergeKind EventKind = iota + 1

	// ExpandKind events give a leaf its children.
	ExpandKind
)

func (k EventKind) String() string {
	switch k {
	case MergeKind:
		return "merge"
	case ExpandKind:
		return "expand"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single step of a tree's construction.
// It is one of MergeEvent and ExpandEvent.
type Event interface {
	// Kind reports which variant this event is.
	Kind() EventKind

	// Validate checks that the event's required fields are present.
	// It doesn't consult any tree.
	Validate() error

	String() string

	event() // sealed
}

// Source names a node referenced or created by an event.
type Source struct {
	// Symbols covered by the node. Required.
	Symbols []string

	// Label to display for the node.
	// Defaults to the concatenation of Symbols.
	Label string

	// Weight of the node, used only if the node is created by this event.
	Weight float64
}

func (s Source) label() string {
	if len(s.Label) > 0 {
		return s.Label
	}
	return strings.Join(s.Symbols, "")
}

func (s Source) validate(kind EventKind, what string) error {
	if len(s.Symbols) == 0 {
		return &MalformedEventError{Kind: kind, Reason: what + " has no symbols"}
	}
	if err := validateWeight(kind, what, s.Weight); err != nil {
		return err
	}
	return nil
}

func (s Source) String() string {
	return s.label()
}

func validateWeight(kind EventKind, what string, w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return &MalformedEventError{
			Kind:   kind,
			Reason: fmt.Sprintf("%v has invalid weight %v", what, w),
		}
	}
	return nil
}

// MergeEvent combines Sources under a new parent node keyed by the union of
// their symbols. The parent becomes the root of the tree.
type MergeEvent struct {
	// Sources to merge, in branch order. At least one is required.
	// Sources not seen before are created as leaves.
	Sources []Source

	// Weight of the new parent node.
	Weight float64
}

var _ Event = (*MergeEvent)(nil)

// Kind returns MergeKind.
func (*MergeEvent) Kind() EventKind { return MergeKind }

func (*MergeEvent) event() {}

// Validate checks that the event has sources with symbols and valid weights.
func (e *MergeEvent) Validate() error {
	if e == nil {
		return &MalformedEventError{Kind: MergeKind, Reason: "missing event"}
	}
	if len(e.Sources) == 0 {
		return &MalformedEventError{Kind: MergeKind, Reason: "no sources"}
	}
	for i, src := range e.Sources {
		if err := src.validate(MergeKind, fmt.Sprintf("source %d", i)); err != nil {
			return err
		}
	}
	return validateWeight(MergeKind, "merged node", e.Weight)
}

func (e *MergeEvent) String() string {
	b := stringobj.Builder{Name: MergeKind.String()}
	b.Put("sources", e.Sources)
	b.Put("weight", e.Weight)
	return b.String()
}

// ExpandEvent gives the leaf identified by Parent a list of new children.
//
// On the first event of a log, the parent doesn't exist yet;
// it's created as the root of the tree.
type ExpandEvent struct {
	// Symbols identifying the node to expand. Required.
	Parent []string

	// New children, in branch order. At least one is required.
	// Each must be new to the tree.
	Children []Source
}

var _ Event = (*ExpandEvent)(nil)

// Kind returns ExpandKind.
func (*ExpandEvent) Kind() EventKind { return ExpandKind }

func (*ExpandEvent) event() {}

// Validate checks that the event names a parent and children with symbols
// and valid weights.
func (e *ExpandEvent) Validate() error {
	if e == nil {
		return &MalformedEventError{Kind: ExpandKind, Reason: "missing event"}
	}
	if len(e.Parent) == 0 {
		return &MalformedEventError{Kind: ExpandKind, Reason: "no parent"}
	}
	if len(e.Children) == 0 {
		return &MalformedEventError{Kind: ExpandKind, Reason: "no children"}
	}
	for i, c := range e.Children {
		if err := c.validate(ExpandKind, fmt.Sprintf("child %d", i)); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExpandEvent) String() string {
	b := stringobj.Builder{Name: ExpandKind.String()}
	b.Put("parent", strings.Join(e.Parent, ""))
	b.Put("children", e.Children)
	return b.String()
}
