package replayview

import (
	"strings"
	"testing"
	"time"

	"github.com/abhinav/codereplay/internal/codetree"
	"github.com/abhinav/codereplay/internal/log/logtest"
	"github.com/benbjohnson/clock"
	tcell "github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, cfg codetree.Config, events []codetree.Event) *codetree.Controller {
	t.Helper()

	cfg.Log = logtest.NewLogger(t)
	ctrl := codetree.NewController(cfg)
	require.NoError(t, ctrl.SetLog(events))
	return ctrl
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

//nolint:paralleltest // subtests share the widget
func TestWidgetNavigation(t *testing.T) {
	t.Parallel()

	ctrl := newController(t, codetree.Config{}, huffmanACB())
	w := (&WidgetConfig{
		Controller: ctrl,
		Log:        logtest.NewLogger(t),
	}).Build()

	t.Run("starts at the end", func(t *testing.T) {
		assert.Equal(t, ""+
			"ACB     1.000\n"+
			"├─0 A   0.500\n"+
			"└─1 CB  0.500\n"+
			"  ├─0 C 0.200\n"+
			"  └─1 B 0.300\n", w.Text())
		assert.Equal(t, "step 2/2 [last]  merge{sources: [A CB], weight: 1}", w.Status())
	})

	t.Run("step back", func(t *testing.T) {
		assert.True(t, w.HandleEvent(key(tcell.KeyLeft)))
		assert.Equal(t, 0, ctrl.Cursor())
		assert.Equal(t, ""+
			"CB    0.500\n"+
			"├─0 C 0.200\n"+
			"└─1 B 0.300\n", w.Text())
		assert.Equal(t, "step 1/2 [first]  merge{sources: [C B], weight: 0.5}", w.Status())
	})

	t.Run("clamped at first", func(t *testing.T) {
		assert.True(t, w.HandleEvent(runeKey('h')))
		assert.Equal(t, 0, ctrl.Cursor())
	})

	t.Run("step forward", func(t *testing.T) {
		assert.True(t, w.HandleEvent(runeKey('l')))
		assert.Equal(t, 1, ctrl.Cursor())

		assert.True(t, w.HandleEvent(key(tcell.KeyRight)))
		assert.Equal(t, 1, ctrl.Cursor())
	})

	t.Run("first and last", func(t *testing.T) {
		assert.True(t, w.HandleEvent(key(tcell.KeyHome)))
		assert.Equal(t, 0, ctrl.Cursor())
		assert.True(t, w.HandleEvent(key(tcell.KeyEnd)))
		assert.Equal(t, 1, ctrl.Cursor())
		assert.True(t, w.HandleEvent(runeKey('g')))
		assert.Equal(t, 0, ctrl.Cursor())
		assert.True(t, w.HandleEvent(runeKey('G')))
		assert.Equal(t, 1, ctrl.Cursor())
	})

	t.Run("unhandled", func(t *testing.T) {
		assert.False(t, w.HandleEvent(runeKey('x')))
		assert.False(t, w.HandleEvent(key(tcell.KeyEscape)))
		assert.False(t, w.HandleEvent(runeKey(' ')), "no player")
		assert.False(t, w.HandleEvent(runeKey('q')), "no quit")
		assert.False(t, w.HandleEvent(tcell.NewEventInterrupt(nil)))
	})
}

func TestWidgetStartEmpty(t *testing.T) {
	t.Parallel()

	ctrl := newController(t, codetree.Config{StartEmpty: true}, huffmanACB())
	w := (&WidgetConfig{Controller: ctrl}).Build()

	assert.Empty(t, w.Text())
	assert.Equal(t, "step 0/2 [first]", w.Status())

	w.HandleEvent(runeKey('l'))
	assert.Equal(t, "step 1/2  merge{sources: [C B], weight: 0.5}", w.Status())
}

func TestWidgetEmptyLog(t *testing.T) {
	t.Parallel()

	ctrl := codetree.NewController(codetree.Config{})
	w := (&WidgetConfig{Controller: ctrl}).Build()

	assert.Empty(t, w.Text())
	assert.Equal(t, "step 0/0 [first last]", w.Status())

	// Nowhere to go.
	assert.True(t, w.HandleEvent(key(tcell.KeyEnd)))
	assert.Equal(t, -1, ctrl.Cursor())
}

func TestWidgetPendingSubtrees(t *testing.T) {
	t.Parallel()

	ctrl := newController(t, codetree.Config{}, []codetree.Event{
		merge(0.7, src(0.3, "B"), src(0.4, "C")),
		merge(0.3, src(0.1, "D"), src(0.2, "E")),
	})
	w := (&WidgetConfig{Controller: ctrl}).Build()

	assert.Equal(t, ""+
		"DE    0.300\n"+
		"├─0 D 0.100\n"+
		"└─1 E 0.200\n"+
		"\n"+
		"BC    0.700\n"+
		"├─0 B 0.300\n"+
		"└─1 C 0.400\n", w.Text())
}

func TestWidgetRenderError(t *testing.T) {
	t.Parallel()

	ctrl := newController(t, codetree.Config{}, huffmanACB())
	w := (&WidgetConfig{
		Controller: ctrl,
		Renderer:   Renderer{Alphabet: "x"},
		Log:        logtest.NewLogger(t),
	}).Build()

	assert.Empty(t, w.Text())
	assert.Contains(t, w.Status(), "outside alphabet")
}

func TestWidgetQuit(t *testing.T) {
	t.Parallel()

	var quit bool
	w := (&WidgetConfig{
		Controller: newController(t, codetree.Config{}, huffmanACB()),
		Quit:       func() { quit = true },
	}).Build()

	assert.True(t, w.HandleEvent(runeKey('q')))
	assert.True(t, quit)
}

func TestWidgetPlayer(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	ctrl := newController(t, codetree.Config{StartEmpty: true}, huffmanACB())
	player := &Player{Clock: clk}
	w := (&WidgetConfig{
		Controller: ctrl,
		Player:     player,
	}).Build()

	assert.True(t, w.HandleEvent(runeKey(' ')))
	assert.True(t, player.Playing())
	assert.Equal(t, "step 0/2 [first playing]", w.Status())

	// The player stops itself after the last step.
	require.Eventually(t, func() bool {
		clk.Add(time.Second)
		return strings.HasPrefix(w.Status(), "step 2/2 [last]  ")
	}, time.Second, time.Millisecond)

	assert.False(t, player.Playing())
	assert.Equal(t, 1, ctrl.Cursor())
}

func TestWidgetDraw(t *testing.T) {
	t.Parallel()

	scr := tcell.NewSimulationScreen("")
	require.NoError(t, scr.Init())
	t.Cleanup(scr.Fini)
	scr.SetSize(40, 4)

	style := DefaultStyle
	ctrl := newController(t, codetree.Config{}, huffmanACB())
	w := (&WidgetConfig{Controller: ctrl, Style: style}).Build()

	w.Draw(scr)
	scr.Show()

	cells, width, _ := scr.GetContents()
	row := func(y int) (string, []tcell.SimCell) {
		var s strings.Builder
		line := cells[y*width : (y+1)*width]
		for _, c := range line {
			s.Write(c.Bytes)
		}
		return strings.TrimRight(s.String(), " "), line
	}

	text, line := row(0)
	assert.Equal(t, "ACB     1.000", text)
	assert.Equal(t, style.Created, line[0].Style, "root was created by this step")

	text, line = row(1)
	assert.Equal(t, "├─0 A   0.500", text)
	assert.Equal(t, style.Created, line[4].Style, "A was created by this step")

	text, line = row(2)
	assert.Equal(t, "└─1 CB  0.500", text)
	assert.Equal(t, style.Normal, line[4].Style, "CB was created earlier")

	text, line = row(3)
	assert.True(t, strings.HasPrefix(text, "step 2/2 [last]"), "got %q", text)
	assert.Equal(t, style.Status, line[39].Style, "status line fills the row")
}
