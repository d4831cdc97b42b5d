// Package replayview draws the replay of a code tree in a terminal.
//
// Render lays hierarchies out as indented text, one node per line:
//
//	ACB     1.000
//	├─0 A   0.500
//	└─1 CB  0.500
//	  ├─0 C 0.200
//	  └─1 B 0.300
//
// Widget puts that text on screen over a codetree.Controller,
// with keys to step through the log.
package replayview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhinav/codereplay/internal/codetree"
	"github.com/abhinav/codereplay/internal/hierarchy"
	"github.com/mattn/go-runewidth"
)

const _defaultPrecision = 3

// Span is a byte range of rendered text.
type Span struct{ Offset, Length int }

// End returns the offset just past the span.
func (s Span) End() int { return s.Offset + s.Length }

// Line is a single node of a Rendering.
type Line struct {
	ID    codetree.Key
	Depth int

	// Line covers the whole line, without the trailing newline.
	Line Span

	// Label covers the node's label.
	Label Span
}

// Rendering is the text form of one or more hierarchies.
type Rendering struct {
	Text string

	// Lines in the order they appear in Text.
	Lines []Line
}

// Line returns the line for the node with the given ID.
func (r *Rendering) Line(id codetree.Key) (Line, bool) {
	for _, l := range r.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// Renderer renders hierarchies as text. The zero value is ready to use.
type Renderer struct {
	// Alphabet spells branch digits.
	// Defaults to hierarchy.DefaultAlphabet.
	Alphabet string

	// Precision is the number of decimals in weights. Defaults to 3.
	// Negative values hide weights.
	Precision int
}

// Render renders hierarchies one after the other, separated by blank lines.
// Empty hierarchies are skipped. Weights line up in a single column across
// all of them.
func Render(hs ...*hierarchy.Hierarchy) (*Rendering, error) {
	var r Renderer
	return r.Render(hs...)
}

// row is a line of the rendering before weights are aligned.
type row struct {
	node   hierarchy.Node
	prefix string // tree guides and branch digit
	gap    bool   // blank line before this row
}

// Render renders hierarchies one after the other, separated by blank lines.
// It fails if a branch digit has no symbol in the alphabet.
func (r *Renderer) Render(hs ...*hierarchy.Hierarchy) (*Rendering, error) {
	alphabet := []rune(r.Alphabet)
	if len(alphabet) == 0 {
		alphabet = []rune(hierarchy.DefaultAlphabet)
	}
	precision := r.Precision
	if precision == 0 {
		precision = _defaultPrecision
	}

	var (
		rows  []row
		width int // widest prefix + label
	)
	for _, h := range hs {
		if h == nil || h.Len() == 0 {
			continue
		}

		hrows, err := rowsOf(h, alphabet)
		if err != nil {
			return nil, err
		}
		hrows[0].gap = len(rows) > 0
		for _, row := range hrows {
			width = max(width, runewidth.StringWidth(row.prefix+row.node.Label))
		}
		rows = append(rows, hrows...)
	}

	var (
		out   Rendering
		text  strings.Builder
		lines = make([]Line, 0, len(rows))
	)
	for _, row := range rows {
		if row.gap {
			text.WriteByte('\n')
		}

		line := Line{
			ID:    row.node.ID,
			Depth: row.node.Depth,
		}
		line.Line.Offset = text.Len()

		text.WriteString(row.prefix)
		line.Label = Span{Offset: text.Len(), Length: len(row.node.Label)}
		text.WriteString(row.node.Label)

		if precision > 0 {
			pad := width - runewidth.StringWidth(row.prefix+row.node.Label)
			text.WriteString(strings.Repeat(" ", pad+1))
			text.WriteString(strconv.FormatFloat(row.node.Weight, 'f', precision, 64))
		}

		line.Line.Length = text.Len() - line.Line.Offset
		text.WriteByte('\n')
		lines = append(lines, line)
	}

	out.Text = text.String()
	out.Lines = lines
	return &out, nil
}

// rowsOf lays out the nodes of h with tree guides.
func rowsOf(h *hierarchy.Hierarchy, alphabet []rune) ([]row, error) {
	siblings := make(map[codetree.Key]int)
	for _, e := range h.Edges {
		siblings[e.ParentID]++
	}

	var (
		rows   = make([]row, 0, h.Len())
		edges  = h.Edges
		isLast []bool // isLast[d-1] is set if the node at depth d on the current path is the last of its siblings
	)
	for _, n := range h.Nodes {
		if n.IsRoot() {
			rows = append(rows, row{node: n})
			isLast = isLast[:0]
			continue
		}

		// Edges are in the same order as their children in Nodes.
		e := edges[0]
		edges = edges[1:]
		if e.Digit < 0 || e.Digit >= len(alphabet) {
			return nil, fmt.Errorf("digit %d for %q is outside alphabet %q",
				e.Digit, n.Label, string(alphabet))
		}

		last := e.BranchIndex == siblings[e.ParentID]-1

		var prefix strings.Builder
		for _, l := range isLast[:n.Depth-1] {
			if l {
				prefix.WriteString("  ")
			} else {
				prefix.WriteString("│ ")
			}
		}
		if last {
			prefix.WriteString("└─")
		} else {
			prefix.WriteString("├─")
		}
		prefix.WriteRune(alphabet[e.Digit])
		prefix.WriteByte(' ')

		isLast = append(isLast[:n.Depth-1], last)
		rows = append(rows, row{node: n, prefix: prefix.String()})
	}
	return rows, nil
}
