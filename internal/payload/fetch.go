package payload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/abhinav/codereplay/internal/log"
	shellwords "github.com/mattn/go-shellwords"
	"go.uber.org/multierr"
)

// StdinPath is the file path that refers to standard input.
const StdinPath = "-"

//go:generate mockgen -destination mock_fetcher_test.go -package payload github.com/abhinav/codereplay/internal/payload Fetcher

// Fetcher retrieves the raw bytes of a response.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

var (
	_ Fetcher = (*FileFetcher)(nil)
	_ Fetcher = (*CommandFetcher)(nil)
)

// FileFetcher reads a response saved to a file.
type FileFetcher struct {
	// Path to the file. StdinPath reads from Stdin instead.
	Path string

	Stdin io.Reader // == os.Stdin
}

// Fetch reads the whole file.
func (f *FileFetcher) Fetch(context.Context) ([]byte, error) {
	if f.Path == StdinPath {
		stdin := f.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(f.Path)
}

// CommandFetcher runs a command and reads the response from its standard
// output. For example,
//
//	curl -sf -d @input.json http://localhost:8000/huffman
//
// Anything the command prints to stderr is logged.
type CommandFetcher struct {
	Cmd  string
	Args []string
	Log  *log.Logger

	Environ func() []string // == os.Environ
}

// NewCommandFetcher builds a CommandFetcher from a multi-word shell
// command.
func NewCommandFetcher(command string, logger *log.Logger) (*CommandFetcher, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	return &CommandFetcher{
		Cmd:  args[0],
		Args: args[1:],
		Log:  logger,
	}, nil
}

// Fetch runs the command to completion.
func (f *CommandFetcher) Fetch(ctx context.Context) (_ []byte, err error) {
	logger := f.Log
	if logger == nil {
		logger = log.Discard
	}
	logw := &log.Writer{Log: logger.WithName(f.Cmd)}
	defer multierr.AppendInvoke(&err, multierr.Close(logw))

	environ := f.Environ
	if environ == nil {
		environ = os.Environ
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Cmd, f.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = logw
	cmd.Env = environ()
	logger.Debugf("running %q %q", f.Cmd, f.Args)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %v: %w", f.Cmd, err)
	}
	return stdout.Bytes(), nil
}

// Load fetches a response and decodes it.
func Load(ctx context.Context, f Fetcher, mode Mode) (*Response, error) {
	b, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(b), mode)
}
