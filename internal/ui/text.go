package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/views"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Pos is a cell position on a view, with 0, 0 at the top-left corner.
type Pos struct{ X, Y int }

func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// TextWidth reports the number of cells s occupies when drawn on a single
// line.
func TextWidth(s string) int {
	var width int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// DrawText draws a string on the provided view at the specified position.
// Returns the position after the last drawn cell so that further text may be
// drawn after it.
//
//	pos = DrawText("foo\nb", style, view, pos)
//	pos = DrawText("ar", style, view, pos)
//
// Each "\n" moves to the start of the next row.
// Text past the right or bottom edge of the view is clipped.
func DrawText(s string, style tcell.Style, view views.View, pos Pos) Pos {
	if len(s) == 0 {
		return pos
	}

	w, h := view.Size()
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		s := g.Str()
		if s == "\n" {
			pos.Y++
			pos.X = 0
			continue
		}

		if pos.Y >= h {
			return pos
		}

		width := runewidth.StringWidth(s)
		if pos.X+width > w {
			// Clipped. Skip to the next newline.
			continue
		}

		r := g.Runes()
		view.SetContent(pos.X, pos.Y, r[0], r[1:], style)
		pos.X += width
	}

	return pos
}
