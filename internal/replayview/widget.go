package replayview

import (
	"fmt"
	"strings"
	"sync"

	"github.com/abhinav/codereplay/internal/codetree"
	"github.com/abhinav/codereplay/internal/hierarchy"
	"github.com/abhinav/codereplay/internal/log"
	"github.com/abhinav/codereplay/internal/ui"
	tcell "github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/views"
)

// Style configures the display style of the widget.
type Style struct {
	Normal  tcell.Style // tree text
	Created tcell.Style // nodes created by the current step
	Status  tcell.Style // status line
	Error   tcell.Style // status line when rendering failed
}

// DefaultStyle is the style used if none is specified.
var DefaultStyle = Style{
	Normal:  tcell.StyleDefault,
	Created: tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
	Status:  tcell.StyleDefault.Reverse(true),
	Error:   tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true),
}

// WidgetConfig configures the replay widget.
type WidgetConfig struct {
	// Controller holds the log being replayed. Required.
	Controller *codetree.Controller

	// Builder builds hierarchies for rendering.
	Builder hierarchy.Builder

	// Renderer renders hierarchies as text.
	Renderer Renderer

	// Player, if set, is toggled with the space bar.
	// Its Step and OnStep are wired to the widget.
	Player *Player

	Style Style

	// Quit is called when the user presses q.
	Quit func()

	Log *log.Logger
}

// Widget displays the tree at the replay cursor above a status line.
//
//	←, h    step back
//	→, l    step forward
//	Home, g first step
//	End, G  last step
//	space   play or pause
//	q       quit
type Widget struct {
	ctrl   *codetree.Controller
	build  hierarchy.Builder
	render Renderer
	player *Player
	style  Style
	quit   func()
	log    *log.Logger

	mu     sync.Mutex // serializes Refresh
	body   ui.AnnotatedText
	status ui.AnnotatedText
}

var _ ui.Widget = (*Widget)(nil)

// Build builds a new replay widget using the provided configuration.
func (cfg *WidgetConfig) Build() *Widget {
	style := cfg.Style
	if style == (Style{}) {
		style = DefaultStyle
	}

	logger := cfg.Log
	if logger == nil {
		logger = log.Discard
	}

	w := &Widget{
		ctrl:   cfg.Controller,
		build:  cfg.Builder,
		render: cfg.Renderer,
		player: cfg.Player,
		style:  style,
		quit:   cfg.Quit,
		log:    logger,
	}
	w.body.Style = style.Normal
	w.status.Style = style.Status

	if p := w.player; p != nil {
		p.Step = w.ctrl.StepForward
		p.OnStep = func(bool) { w.Refresh() }
	}

	w.Refresh()
	return w
}

// Text returns the rendered tree.
func (w *Widget) Text() string { return w.body.Text() }

// Status returns the status line.
func (w *Widget) Status() string { return w.status.Text() }

// Draw draws the tree with the status line on the last row.
func (w *Widget) Draw(view views.View) {
	width, height := view.Size()
	if height <= 0 {
		return
	}

	body := views.NewViewPort(view, 0, 0, width, height-1)
	w.body.Draw(body)

	status := views.NewViewPort(view, 0, height-1, width, 1)
	status.Fill(' ', w.status.Style)
	w.status.Draw(status)
}

// HandleEvent handles navigation keys.
func (w *Widget) HandleEvent(ev tcell.Event) (handled bool) {
	ek, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}

	switch ek.Key() {
	case tcell.KeyLeft:
		w.ctrl.StepBack()
	case tcell.KeyRight:
		w.ctrl.StepForward()
	case tcell.KeyHome:
		w.jump(first)
	case tcell.KeyEnd:
		w.jump(last)
	case tcell.KeyRune:
		switch ek.Rune() {
		case 'h':
			w.ctrl.StepBack()
		case 'l':
			w.ctrl.StepForward()
		case 'g':
			w.jump(first)
		case 'G':
			w.jump(last)
		case ' ':
			if w.player == nil {
				return false
			}
			w.player.Toggle()
		case 'q':
			if w.quit == nil {
				return false
			}
			w.quit()
			return true
		default:
			return false
		}
	default:
		return false
	}

	w.Refresh()
	return true
}

func first(lo, _ int) int { return lo }
func last(_, hi int) int  { return hi }

func (w *Widget) jump(pick func(lo, hi int) int) {
	lo, hi := w.ctrl.Bounds()
	if hi < lo {
		return
	}
	if err := w.ctrl.JumpTo(pick(lo, hi)); err != nil {
		w.log.Errorf("jump: %v", err)
	}
}

// Refresh re-renders the tree at the controller's cursor.
// Call it after moving the cursor from outside the widget.
func (w *Widget) Refresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	tree := w.ctrl.Tree()

	hs := []*hierarchy.Hierarchy{w.build.Build(tree.Root)}
	for _, n := range tree.Pending() {
		hs = append(hs, w.build.Build(n))
	}

	r, err := w.render.Render(hs...)
	if err != nil {
		w.log.Errorf("render step %d: %v", tree.Step, err)
		msg := err.Error()
		w.body.Set("")
		w.status.Set(msg, ui.Highlight{Style: w.style.Error, Length: len(msg)})
		return
	}

	var highlights []ui.Highlight
	for _, n := range tree.Created {
		if line, ok := r.Line(n.Key); ok {
			highlights = append(highlights, ui.Highlight{
				Style:  w.style.Created,
				Offset: line.Label.Offset,
				Length: line.Label.Length,
			})
		}
	}

	w.body.Set(r.Text, highlights...)
	w.status.Set(w.statusLine(tree))
}

func (w *Widget) statusLine(tree *codetree.Tree) string {
	lo, hi := w.ctrl.Bounds()

	var s strings.Builder
	fmt.Fprintf(&s, "step %d/%d", tree.Step+1, hi+1)

	var flags []string
	if tree.Step <= lo {
		flags = append(flags, "first")
	}
	if tree.Step >= hi {
		flags = append(flags, "last")
	}
	if w.player != nil && w.player.Playing() {
		flags = append(flags, "playing")
	}
	if len(flags) > 0 {
		fmt.Fprintf(&s, " [%s]", strings.Join(flags, " "))
	}

	if tree.Event != nil {
		s.WriteString("  ")
		s.WriteString(tree.Event.String())
	}
	return s.String()
}
