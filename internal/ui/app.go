package ui

import (
	"sync"
	"time"

	"github.com/abhinav/codereplay/internal/log"
	"github.com/abhinav/codereplay/internal/paniclog"
	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"
)

const _defaultFPS = 25

// App drives the main UI for the application.
//
// The root widget is redrawn at a fixed rate, and receives every terminal
// event first. Events it doesn't handle fall back to the App: Esc and Ctrl-C
// stop it, and resizes resync the screen.
type App struct {
	// Root is the main application widget.
	Root Widget

	// Screen upon which to draw.
	Screen tcell.Screen

	// Logger to post messages to. Optional.
	Log *log.Logger

	// FPS specifies the refresh rate for the UI. Defaults to 25.
	FPS int

	// Clock drives redraws. Defaults to the system clock.
	Clock clock.Clock

	once   sync.Once
	quit   chan struct{}
	events chan tcell.Event

	mu       sync.Mutex
	err      error // first panic, if any
	stopOnce sync.Once
}

func (app *App) init() {
	app.once.Do(func() {
		if app.Log == nil {
			app.Log = log.Discard
		}
		if app.Clock == nil {
			app.Clock = clock.New()
		}

		app.quit = make(chan struct{})
		app.events = make(chan tcell.Event)

		go app.renderLoop()
		go app.streamEvents()
	})
}

// Start starts the app, rendering the root widget on the screen until Stop
// is called or a widget panics.
func (app *App) Start() {
	app.init()

	go app.run()
}

// Wait waits until the application stops.
// It returns an error if it stopped because of a panic.
func (app *App) Wait() error {
	<-app.quit

	app.mu.Lock()
	defer app.mu.Unlock()
	return app.err
}

// Stop informs the application that it's time to stop.
// This unblocks Wait. It's safe to call Stop more than once.
func (app *App) Stop() {
	app.init()
	app.stopOnce.Do(func() {
		close(app.quit)
	})
}

func (app *App) run() {
	// Stop waiters even if the goroutine exits without a panic
	// (runtime.Goexit).
	defer app.Stop()
	defer app.handlePanic()

	events := app.events
	for {
		select {
		case <-app.quit:
			return

		case ev, ok := <-events:
			if ok {
				app.handleEvent(ev)
			} else {
				events = nil
			}
		}
	}
}

func (app *App) handleEvent(ev tcell.Event) {
	if app.Root.HandleEvent(ev) {
		return
	}

	switch ev := ev.(type) {
	case *tcell.EventResize:
		app.Screen.Sync()

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			app.Stop()
		}
	}
}

// Defer this inside goroutines to turn their panics into the App's error.
func (app *App) handlePanic() {
	pval := recover()
	if pval == nil {
		return
	}

	logw := &log.Writer{Log: app.Log, Level: log.Error}
	err := paniclog.Handle(pval, logw)
	err = multierr.Append(err, logw.Close())

	app.mu.Lock()
	if app.err == nil {
		app.err = err
	}
	app.mu.Unlock()

	app.Stop()
}

// streams events from tcell to the app.events channel. Blocks until Stop is
// called.
func (app *App) streamEvents() {
	defer app.handlePanic()

	app.Screen.ChannelEvents(app.events, app.quit)
}

func (app *App) renderLoop() {
	defer app.handlePanic()

	fps := app.FPS
	if fps <= 0 {
		fps = _defaultFPS
	}

	ticker := app.Clock.Ticker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-app.quit:
			return

		case <-ticker.C:
			app.Screen.Clear()
			app.Root.Draw(app.Screen)
			app.Screen.Show()
		}
	}
}
