package main

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/abhinav/codereplay/internal/codetree"
	"github.com/abhinav/codereplay/internal/payload"
)

type config struct {
	File    string
	Fetch   string
	Mode    payload.Mode
	Step    int
	Empty   bool
	Print   bool
	Play    time.Duration
	Key     keyPolicy
	LogFile string
	Verbose bool
}

func newConfig(flag *flag.FlagSet) *config {
	var c config
	c.RegisterFlags(flag)
	return &c
}

func (c *config) RegisterFlags(flag *flag.FlagSet) {
	// No help here because we put it all in _usage.
	flag.StringVar(&c.File, "file", "", "")
	flag.StringVar(&c.Fetch, "fetch", "", "")
	flag.Var(&c.Mode, "mode", "")
	flag.IntVar(&c.Step, "step", 0, "")
	flag.BoolVar(&c.Empty, "empty", false, "")
	flag.BoolVar(&c.Print, "print", false, "")
	flag.DurationVar(&c.Play, "play", 0, "")
	flag.Var(&c.Key, "key", "")
	flag.StringVar(&c.LogFile, "log", "", "")
	flag.BoolVar(&c.Verbose, "verbose", false, "")
}

// Validate reports flag combinations that can't work together.
func (c *config) Validate() error {
	if len(c.File) > 0 && len(c.Fetch) > 0 {
		return fmt.Errorf("-file and -fetch can't be used together")
	}
	if c.Step < 0 {
		return fmt.Errorf("-step must not be negative: %d", c.Step)
	}
	if c.Play < 0 {
		return fmt.Errorf("-play must not be negative: %v", c.Play)
	}
	return nil
}

// Args rebuilds a list of arguments from which this configuration may be
// parsed.
func (c *config) Args() []string {
	var args []string
	if len(c.File) > 0 {
		args = append(args, "-file", c.File)
	}
	if len(c.Fetch) > 0 {
		args = append(args, "-fetch", c.Fetch)
	}
	if c.Mode != payload.Unknown {
		args = append(args, "-mode", c.Mode.String())
	}
	if c.Step != 0 {
		args = append(args, "-step", strconv.Itoa(c.Step))
	}
	if c.Empty {
		args = append(args, "-empty")
	}
	if c.Print {
		args = append(args, "-print")
	}
	if c.Play != 0 {
		args = append(args, "-play", c.Play.String())
	}
	if c.Key != _setKey {
		args = append(args, "-key", c.Key.String())
	}
	if len(c.LogFile) > 0 {
		args = append(args, "-log", c.LogFile)
	}
	if c.Verbose {
		args = append(args, "-verbose")
	}
	return args
}

// keyPolicy selects how nodes are identified.
type keyPolicy int

const (
	// Collision-free keys. This is the zero value.
	_setKey keyPolicy = iota

	// Concatenated symbols. Collisions are reported as errors.
	_joinKey
)

var _ flag.Value = (*keyPolicy)(nil)

func (k keyPolicy) String() string {
	switch k {
	case _setKey:
		return "set"
	case _joinKey:
		return "join"
	default:
		return fmt.Sprintf("keyPolicy(%d)", int(k))
	}
}

func (k *keyPolicy) Set(name string) error {
	switch name {
	case "set":
		*k = _setKey
	case "join":
		*k = _joinKey
	default:
		return fmt.Errorf("unknown key policy %q: must be set or join", name)
	}
	return nil
}

func (k keyPolicy) KeyFunc() codetree.KeyFunc {
	if k == _joinKey {
		return codetree.JoinKey
	}
	return codetree.SetKey
}
