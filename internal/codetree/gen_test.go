package codetree

import (
	"fmt"
	"strconv"

	"pgregory.net/rapid"
)

// mergeLogGen generates valid merge logs over a random alphabet.
// Each step merges between 2 and arity of the nodes not yet merged,
// picked at random, the way an n-ary Huffman run would.
func mergeLogGen() *rapid.Generator[[]Event] {
	return rapid.Custom(func(t *rapid.T) []Event {
		numSymbols := rapid.IntRange(2, 12).Draw(t, "numSymbols")
		arity := rapid.IntRange(2, 4).Draw(t, "arity")

		type pending struct {
			symbols []string
			weight  float64
		}
		active := make([]pending, numSymbols)
		for i := range active {
			active[i] = pending{
				symbols: []string{fmt.Sprintf("s%d", i)},
				weight:  float64(rapid.IntRange(1, 100).Draw(t, "weight")),
			}
		}

		var events []Event
		for len(active) > 1 {
			n := rapid.IntRange(2, min(arity, len(active))).Draw(t, "n")

			ev := MergeEvent{}
			var merged pending
			for i := 0; i < n; i++ {
				idx := rapid.IntRange(0, len(active)-1).Draw(t, "idx")
				p := active[idx]
				active = append(active[:idx], active[idx+1:]...)

				ev.Sources = append(ev.Sources, Source{
					Symbols: p.symbols,
					Weight:  p.weight,
				})
				merged.symbols = append(merged.symbols, p.symbols...)
				merged.weight += p.weight
			}
			ev.Weight = merged.weight
			events = append(events, &ev)
			active = append(active, merged)
		}
		return events
	})
}

// expandLogGen generates valid expansion logs, Tunstall style:
// each step expands a random leaf into children labeled by code word.
func expandLogGen() *rapid.Generator[[]Event] {
	return rapid.Custom(func(t *rapid.T) []Event {
		arity := rapid.IntRange(2, 4).Draw(t, "arity")
		steps := rapid.IntRange(1, 8).Draw(t, "steps")

		type leaf struct {
			code   string
			weight float64
		}
		leaves := []leaf{{code: "Root", weight: 1}}

		var events []Event
		for i := 0; i < steps; i++ {
			idx := rapid.IntRange(0, len(leaves)-1).Draw(t, "leaf")
			parent := leaves[idx]
			leaves = append(leaves[:idx], leaves[idx+1:]...)

			prefix := parent.code
			if prefix == "Root" {
				prefix = ""
			}

			ev := ExpandEvent{Parent: []string{parent.code}}
			for j := 0; j < arity; j++ {
				child := leaf{
					code:   prefix + strconv.Itoa(j),
					weight: parent.weight / float64(arity),
				}
				ev.Children = append(ev.Children, Source{
					Symbols: []string{child.code},
					Weight:  child.weight,
				})
				leaves = append(leaves, child)
			}
			events = append(events, &ev)
		}
		return events
	})
}

func anyLogGen() *rapid.Generator[[]Event] {
	return rapid.OneOf(mergeLogGen(), expandLogGen())
}

// shape is a comparable description of a tree:
// every node reachable from the root with its weight and parent.
type shape map[Key]nodeShape

type nodeShape struct {
	Label    string
	Weight   float64
	Parent   Key
	Children []Key
}

func shapeOf(root *Node) shape {
	if root == nil {
		return nil
	}

	s := make(shape)
	root.Walk(func(n *Node) bool {
		ns := nodeShape{Label: n.Label, Weight: n.Weight}
		if p := n.Parent(); p != nil {
			ns.Parent = p.Key
		}
		for _, c := range n.Children {
			ns.Children = append(ns.Children, c.Key)
		}
		s[n.Key] = ns
		return true
	})
	return s
}

func forestOf(roots []*Node) []shape {
	forest := make([]shape, len(roots))
	for i, r := range roots {
		forest[i] = shapeOf(r)
	}
	return forest
}
