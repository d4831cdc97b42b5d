package codetree

import (
	"fmt"
	"strings"
)

// DefaultRootWeight is the weight of the root created by the first
// expansion event of a log: the full probability mass of the source.
const DefaultRootWeight = 1.0

// Interpreter applies events to a Registry.
//
// The zero value is ready to use.
type Interpreter struct {
	// KeyFunc derives node keys from symbols. Defaults to SetKey.
	KeyFunc KeyFunc

	// RootWeight is the weight of the root created by an expansion log.
	// Defaults to DefaultRootWeight.
	RootWeight float64
}

func (in *Interpreter) key(symbols []string) Key {
	if in.KeyFunc == nil {
		return SetKey(symbols)
	}
	return in.KeyFunc(symbols)
}

func (in *Interpreter) rootWeight() float64 {
	if in.RootWeight == 0 {
		return DefaultRootWeight
	}
	return in.RootWeight
}

// Apply applies a single event to the registry and returns the root of the
// tree after it.
//
// For merge events, the root is the newly created parent.
// For expansion events, it is the node created by the first event of the
// log.
//
// The registry may be left partially updated if Apply fails.
func (in *Interpreter) Apply(ev Event, reg *Registry) (*Node, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	switch ev := ev.(type) {
	case *MergeEvent:
		return in.merge(ev, reg)
	case *ExpandEvent:
		return in.expand(ev, reg)
	default:
		// Event is sealed so this can't happen.
		panic(fmt.Sprintf("unknown event %T", ev))
	}
}

func (in *Interpreter) merge(ev *MergeEvent, reg *Registry) (*Node, error) {
	var (
		children = make([]*Node, 0, len(ev.Sources))
		symbols  []string
		labels   strings.Builder
	)
	for _, src := range ev.Sources {
		key := in.key(src.Symbols)
		child, _, err := reg.GetOrCreate(key, src.Symbols, src.label(), src.Weight)
		if err != nil {
			return nil, err
		}

		if child.parent != nil {
			return nil, &MalformedEventError{
				Kind: MergeKind,
				Reason: fmt.Sprintf("source %q is already merged into %q",
					child.Label, child.parent.Label),
			}
		}
		for _, c := range children {
			if c == child {
				return nil, &MalformedEventError{
					Kind:   MergeKind,
					Reason: fmt.Sprintf("source %q is listed more than once", child.Label),
				}
			}
		}

		children = append(children, child)
		symbols = append(symbols, child.Symbols...)
		labels.WriteString(child.Label)
	}

	key := in.key(symbols)
	if n, ok := reg.Lookup(key); ok {
		return nil, &DuplicateKeyError{
			Key:         key,
			Existing:    n.Symbols,
			Conflicting: symbols,
		}
	}

	parent, _, err := reg.GetOrCreate(key, symbols, labels.String(), ev.Weight)
	if err != nil {
		return nil, err
	}
	parent.Children = children
	for _, c := range children {
		c.parent = parent
	}
	return parent, nil
}

func (in *Interpreter) expand(ev *ExpandEvent, reg *Registry) (*Node, error) {
	key := in.key(ev.Parent)
	parent, ok := reg.Lookup(key)
	if !ok {
		if reg.Len() > 0 {
			return nil, &MalformedEventError{
				Kind:   ExpandKind,
				Reason: fmt.Sprintf("unknown parent %q", strings.Join(ev.Parent, "")),
			}
		}

		var err error
		parent, _, err = reg.GetOrCreate(key, ev.Parent, strings.Join(ev.Parent, ""), in.rootWeight())
		if err != nil {
			return nil, err
		}
	}

	if !parent.IsLeaf() {
		return nil, &DoubleExpansionError{Key: parent.Key, Label: parent.Label}
	}

	children := make([]*Node, 0, len(ev.Children))
	for _, c := range ev.Children {
		key := in.key(c.Symbols)
		if n, ok := reg.Lookup(key); ok {
			return nil, &DuplicateKeyError{
				Key:         key,
				Existing:    n.Symbols,
				Conflicting: c.Symbols,
			}
		}

		child, _, err := reg.GetOrCreate(key, c.Symbols, c.label(), c.Weight)
		if err != nil {
			return nil, err
		}
		child.parent = parent
		children = append(children, child)
	}
	parent.Children = children

	return reg.first(), nil
}
