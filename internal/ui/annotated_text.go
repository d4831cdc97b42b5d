package ui

import (
	"cmp"
	"slices"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/views"
)

// Highlight draws a byte range of an AnnotatedText in a different style.
type Highlight struct {
	Style tcell.Style

	// Offset of the range in the text, and its length in bytes.
	Offset, Length int
}

func (h Highlight) end() int { return h.Offset + h.Length }

// AnnotatedText is a block of text, parts of which are highlighted.
// It may be updated while it's being drawn.
type AnnotatedText struct {
	// Style for text outside highlights.
	Style tcell.Style

	mu         sync.RWMutex
	text       string
	highlights []Highlight // sorted by offset, non-overlapping
}

var _ Widget = (*AnnotatedText)(nil)

// Set replaces the text and its highlights together.
//
// Highlights that are empty, fall outside the text, or overlap an earlier
// highlight are dropped.
func (at *AnnotatedText) Set(text string, hs ...Highlight) {
	hs = slices.Clone(hs)
	slices.SortStableFunc(hs, func(a, b Highlight) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	var last int
	kept := hs[:0]
	for _, h := range hs {
		if h.Length <= 0 || h.Offset < last || h.end() > len(text) {
			continue
		}
		kept = append(kept, h)
		last = h.end()
	}

	at.mu.Lock()
	at.text = text
	at.highlights = kept
	at.mu.Unlock()
}

// Text returns the current text.
func (at *AnnotatedText) Text() string {
	at.mu.RLock()
	defer at.mu.RUnlock()
	return at.text
}

// Draw draws the text onto the view, starting at the top-left corner.
func (at *AnnotatedText) Draw(view views.View) {
	at.mu.RLock()
	defer at.mu.RUnlock()

	var (
		last int
		pos  Pos
	)
	for _, h := range at.highlights {
		pos = DrawText(at.text[last:h.Offset], at.Style, view, pos)
		pos = DrawText(at.text[h.Offset:h.end()], h.Style, view, pos)
		last = h.end()
	}
	DrawText(at.text[last:], at.Style, view, pos)
}

// HandleEvent returns false.
func (at *AnnotatedText) HandleEvent(tcell.Event) bool {
	return false
}
