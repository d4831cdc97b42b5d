package codetree

import (
	"sync"

	"github.com/abhinav/codereplay/internal/log"
)

// Config configures a Controller.
type Config struct {
	// KeyFunc derives node keys from symbols. Defaults to SetKey.
	KeyFunc KeyFunc

	// RootWeight is the weight of the root of expansion logs.
	// Defaults to DefaultRootWeight.
	RootWeight float64

	// StartEmpty places the cursor before the first event when a log is
	// set, and lets it step back there. By default, a new log is shown in
	// full and the cursor stops at the first event.
	StartEmpty bool

	// Log receives debug messages. Optional.
	Log *log.Logger
}

// Controller holds an event log and a replay cursor over it.
//
// The tree for the cursor is rebuilt from scratch every time the cursor or
// the log changes. A Controller is safe for concurrent use; readers never
// observe a partially rebuilt tree.
type Controller struct {
	log        *log.Logger
	interp     Interpreter
	startEmpty bool

	mu     sync.RWMutex
	events []Event
	cursor int
	tree   *Tree
}

// NewController builds a Controller with an empty log.
func NewController(cfg Config) *Controller {
	logger := cfg.Log
	if logger == nil {
		logger = log.Discard
	}

	return &Controller{
		log: logger,
		interp: Interpreter{
			KeyFunc:    cfg.KeyFunc,
			RootWeight: cfg.RootWeight,
		},
		startEmpty: cfg.StartEmpty,
		cursor:     -1,
		tree:       &Tree{Step: -1},
	}
}

// SetLog replaces the event log.
//
// The whole log is replayed first. If any event fails, SetLog returns the
// error and keeps the previous log, cursor, and tree. Otherwise, the cursor
// moves to the last event, or before the first one if the controller was
// configured with StartEmpty.
func (c *Controller) SetLog(events []Event) error {
	events = append([]Event(nil), events...)
	full, err := c.interp.Replay(events)
	if err != nil {
		c.log.Errorf("rejected log of %d events: %v", len(events), err)
		return err
	}

	cursor, tree := len(events)-1, full
	if c.startEmpty {
		cursor, tree = -1, &Tree{Step: -1}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
	c.cursor = cursor
	c.tree = tree
	c.log.With(log.Progress("at", cursor, len(events))).
		Debugf("loaded log of %d events", len(events))
	return nil
}

// Len reports the number of events in the log.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// Cursor reports the index of the last applied event.
// This is -1 if no events are applied.
func (c *Controller) Cursor() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursor
}

// Bounds reports the range of valid cursor positions, inclusive.
// hi is less than lo if there are no valid positions.
func (c *Controller) Bounds() (lo, hi int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bounds()
}

func (c *Controller) bounds() (lo, hi int) {
	if c.startEmpty {
		lo = -1
	}
	return lo, len(c.events) - 1
}

// AtFirst reports whether the cursor can't step back any further.
func (c *Controller) AtFirst() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lo, _ := c.bounds()
	return c.cursor <= lo
}

// AtLast reports whether the cursor can't step forward any further.
func (c *Controller) AtLast() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, hi := c.bounds()
	return c.cursor >= hi
}

// StepForward moves the cursor to the next event.
// It reports whether the cursor moved; it doesn't move past the last event.
func (c *Controller) StepForward() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, hi := c.bounds(); c.cursor >= hi {
		return false
	}
	return c.moveTo(c.cursor+1) == nil
}

// StepBack moves the cursor to the previous event.
// It reports whether the cursor moved; it doesn't move below the first
// position.
func (c *Controller) StepBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lo, _ := c.bounds(); c.cursor <= lo {
		return false
	}
	return c.moveTo(c.cursor-1) == nil
}

// JumpTo moves the cursor directly to the given event.
// It fails with an OutOfRangeError, leaving the cursor unchanged,
// if index is outside Bounds.
func (c *Controller) JumpTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lo, hi := c.bounds()
	if index < lo || index > hi {
		return &OutOfRangeError{Index: index, Min: lo, Max: hi}
	}
	return c.moveTo(index)
}

// moveTo rebuilds the tree for events [0, index]. c.mu must be held.
func (c *Controller) moveTo(index int) error {
	tree, err := c.interp.Replay(c.events[:index+1])
	if err != nil {
		// SetLog replayed the whole log successfully,
		// so any prefix of it should replay too.
		c.log.Errorf("replay to step %d: %v", index, err)
		return err
	}

	c.cursor = index
	c.tree = tree
	c.log.With(log.Progress("at", index, len(c.events))).
		Debugf("replayed %d nodes", tree.Len())
	return nil
}

// CurrentRoot returns the root of the tree at the cursor,
// or nil if no events are applied.
func (c *Controller) CurrentRoot() *Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Root
}

// Tree returns the tree at the cursor.
// The returned tree must not be modified.
func (c *Controller) Tree() *Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree
}
