// codereplay replays the steps of a prefix coding algorithm as a tree,
// one step at a time.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/abhinav/codereplay/internal/log"
	"github.com/abhinav/codereplay/internal/paniclog"
	"github.com/benbjohnson/clock"
	tcell "github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"
)

var _version = "dev"

// _logfileEnv names a file that logs are written to.
// It takes precedence over -log.
const _logfileEnv = "CODEREPLAY_LOG"

var _main = mainCmd{
	Stdin:   os.Stdin,
	Stdout:  os.Stdout,
	Stderr:  os.Stderr,
	Getenv:  os.Getenv,
	Environ: os.Environ,
}

func main() {
	if err := _main.Run(os.Args[1:]); err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(_main.Stderr, err)
		os.Exit(1)
	}
}

type mainCmd struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Getenv  func(string) string // == os.Getenv
	Environ func() []string     // == os.Environ

	// Overrides for tests.
	newScreen func() (tcell.Screen, error) // == tcell.NewScreen
	clock     clock.Clock
	runTarget runTargetFunc
}

const _name = "codereplay"

const _usage = `usage: %v [options]

Replays the steps of a Huffman, Tunstall, or Shannon-Fano run as a code tree.
Steps are read from a response of the coding service: a JSON document with a
"steps" list, and optionally "encoding", "input", and metrics.

Use the arrow keys (or h and l) to step back and forth, Home and End (or g
and G) to jump to the first and last steps, space to play, and q to quit.

The following flags are available:

	-file FILE
		file to read the response from.
		Reads stdin if unspecified or '-'.
	-fetch COMMAND
		command that prints the response to stdout.
			-fetch 'curl -sf -d @input.json localhost:8000/huffman'
		Its stderr is logged.
	-mode MODE
		algorithm that produced the steps:
		huffman, tunstall, or shannon-fano.
		Uses the response's "mode" field, or guesses from the shape of
		its steps by default.
	-step N
		step to show first, counting from 1.
		Shows the last step by default.
	-empty
		start before the first step, with an empty tree.
	-print
		print the tree, its code words, and metrics to stdout and exit
		instead of starting the terminal UI.
	-play INTERVAL
		step forward automatically at this interval.
			-play 500ms
	-key POLICY
		how nodes are identified: 'set' of symbols (default),
		or 'join', the concatenation of symbols.
	-log FILE
		file to write logs to.
		Uses stderr by default.
		The CODEREPLAY_LOG environment variable overrides this.
	-verbose
		log more output.
	-version
		display version information.
`

func (cmd *mainCmd) init() {
	if cmd.Getenv == nil {
		cmd.Getenv = os.Getenv
	}
	if cmd.Environ == nil {
		cmd.Environ = os.Environ
	}
	if cmd.newScreen == nil {
		cmd.newScreen = tcell.NewScreen
	}
	if cmd.clock == nil {
		cmd.clock = clock.New()
	}
	if cmd.runTarget == nil {
		cmd.runTarget = runTarget
	}
}

// Run runs codereplay with the given command line arguments.
func (cmd *mainCmd) Run(args []string) (err error) {
	cmd.init()

	stderr := cmd.Stderr
	logfile := cmd.Getenv(_logfileEnv)
	if len(logfile) > 0 {
		f, ferr := openLog(logfile)
		if ferr != nil {
			return ferr
		}
		defer multierr.AppendInvoke(&err, multierr.Close(f))
		stderr = f
	}

	flag := flag.NewFlagSet(_name, flag.ContinueOnError)
	flag.SetOutput(stderr)
	flag.Usage = func() {
		fmt.Fprintf(flag.Output(), _usage, flag.Name())
	}
	cfg := newConfig(flag)
	version := flag.Bool("version", false, "")
	if err := flag.Parse(args); err != nil {
		return err
	}

	if *version {
		fmt.Fprintf(cmd.Stdout, "codereplay version %v\n", _version)
		return nil
	}

	if args := flag.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected arguments %q", args)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if len(logfile) == 0 && len(cfg.LogFile) > 0 {
		f, ferr := openLog(cfg.LogFile)
		if ferr != nil {
			return ferr
		}
		defer multierr.AppendInvoke(&err, multierr.Close(f))
		stderr = f
	}

	defer paniclog.Recover(&err, stderr)

	logger := log.New(stderr)
	if cfg.Verbose {
		logger = logger.WithLevel(log.Debug)
	}
	logger.Debugf("running with %q", cfg.Args())

	target := &app{
		Log:       logger,
		Stdin:     cmd.Stdin,
		Stdout:    cmd.Stdout,
		Environ:   cmd.Environ,
		NewScreen: cmd.newScreen,
		Clock:     cmd.clock,
	}
	return cmd.runTarget(context.Background(), target, cfg)
}

func openLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %q: %w", path, err)
	}
	return f, nil
}

// runTargetFunc runs the application. It's replaced in tests.
type runTargetFunc func(context.Context, interface {
	Run(context.Context, *config) error
}, *config) error

func runTarget(ctx context.Context, target interface {
	Run(context.Context, *config) error
}, cfg *config,
) error {
	return target.Run(ctx, cfg)
}
