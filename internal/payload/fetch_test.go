package payload

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhinav/codereplay/internal/log"
	"github.com/abhinav/codereplay/internal/log/logtest"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFetcher(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resp.json")
	require.NoError(t, os.WriteFile(path, []byte(_huffmanJSON), 0o644))

	got, err := (&FileFetcher{Path: path}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, _huffmanJSON, string(got))
}

func TestFileFetcherStdin(t *testing.T) {
	t.Parallel()

	f := FileFetcher{
		Path:  StdinPath,
		Stdin: strings.NewReader("hello"),
	}
	got, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestFileFetcherMissing(t *testing.T) {
	t.Parallel()

	f := FileFetcher{Path: filepath.Join(t.TempDir(), "nope.json")}
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewCommandFetcher(t *testing.T) {
	t.Parallel()

	f, err := NewCommandFetcher(`curl -sf -d '{"n": 2}' http://localhost:8000/huffman`, log.Discard)
	require.NoError(t, err)
	assert.Equal(t, "curl", f.Cmd)
	assert.Equal(t, []string{"-sf", "-d", `{"n": 2}`, "http://localhost:8000/huffman"}, f.Args)
}

func TestNewCommandFetcherErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		_, err := NewCommandFetcher("  ", log.Discard)
		assert.ErrorContains(t, err, "empty command")
	})

	t.Run("unterminated quote", func(t *testing.T) {
		t.Parallel()

		_, err := NewCommandFetcher(`echo 'foo`, log.Discard)
		assert.ErrorContains(t, err, "parse command")
	})
}

func TestCommandFetcher(t *testing.T) {
	t.Parallel()

	var logbuf bytes.Buffer
	f, err := NewCommandFetcher(`sh -c 'echo "$GREETING"; printf " 50%%\r100%%\n" >&2; echo oops >&2'`, log.New(&logbuf))
	require.NoError(t, err)
	f.Environ = func() []string { return []string{"GREETING=hello"} }

	got, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))
	assert.Contains(t, logbuf.String(), "[sh] oops")
	assert.Contains(t, logbuf.String(), "[sh] 100%")
	assert.NotContains(t, logbuf.String(), "50%")
}

func TestCommandFetcherFailure(t *testing.T) {
	t.Parallel()

	f, err := NewCommandFetcher(`sh -c 'exit 3'`, logtest.NewLogger(t))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "run sh")
	assert.ErrorContains(t, err, "exit status 3")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		fetcher := NewMockFetcher(gomock.NewController(t))
		fetcher.EXPECT().Fetch(ctx).Return([]byte(_shannonFanoJSON), nil)

		resp, err := Load(ctx, fetcher, Unknown)
		require.NoError(t, err)
		assert.Equal(t, ShannonFano, resp.Mode)
		assert.Len(t, resp.Events, 3)
	})

	t.Run("fetch error", func(t *testing.T) {
		t.Parallel()

		fetcher := NewMockFetcher(gomock.NewController(t))
		fetcher.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("great sadness"))

		_, err := Load(context.Background(), fetcher, Unknown)
		assert.ErrorContains(t, err, "great sadness")
	})
}
