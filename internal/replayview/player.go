package replayview

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

const _defaultInterval = time.Second

// Player steps through a replay on a timer until it runs out of steps or
// is stopped.
type Player struct {
	// Step advances the replay by one event.
	// It reports false if there was nothing left to play. Required.
	Step func() bool

	// OnStep, if set, is called after every tick with the result of Step.
	OnStep func(moved bool)

	// Interval between steps. Defaults to one second.
	Interval time.Duration

	Clock clock.Clock

	mu      sync.Mutex
	playing bool
	quit    chan struct{}
	done    chan struct{}
}

// Playing reports whether the player is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Start starts playing in the background.
// It does nothing if the player is already running.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		return
	}

	if p.Clock == nil {
		p.Clock = clock.New()
	}
	interval := p.Interval
	if interval <= 0 {
		interval = _defaultInterval
	}

	p.playing = true
	p.quit = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.Clock.Ticker(interval), p.quit, p.done)
}

// Stop stops the player and waits for it to exit.
// It does nothing if the player isn't running.
func (p *Player) Stop() {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = false
	quit, done := p.quit, p.done
	close(quit)
	p.mu.Unlock()

	<-done
}

// Toggle starts the player if it's stopped, and stops it otherwise.
// It reports whether the player is now running.
func (p *Player) Toggle() bool {
	if p.Playing() {
		p.Stop()
		return false
	}
	p.Start()
	return true
}

func (p *Player) run(ticker *clock.Ticker, quit, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return

		case <-ticker.C:
			moved := p.Step()
			if !moved {
				p.finish(quit)
			}
			if p.OnStep != nil {
				p.OnStep(moved)
			}
			if !moved {
				return
			}
		}
	}
}

// finish marks the player stopped unless Stop already did.
func (p *Player) finish(quit chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quit == quit {
		p.playing = false
	}
}
