package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/abhinav/codereplay/internal/codetree"
	"github.com/abhinav/codereplay/internal/hierarchy"
	"github.com/abhinav/codereplay/internal/log"
	"github.com/abhinav/codereplay/internal/payload"
	"github.com/abhinav/codereplay/internal/replayview"
	"github.com/abhinav/codereplay/internal/ui"
	"github.com/benbjohnson/clock"
	tcell "github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// app loads a response and replays it, either in the terminal UI or as a
// printed report.
type app struct {
	Log     *log.Logger
	Stdin   io.Reader
	Stdout  io.Writer
	Environ func() []string // == os.Environ

	NewScreen func() (tcell.Screen, error) // == tcell.NewScreen
	Clock     clock.Clock                  // drives -play
}

// Run runs the application with the provided configuration.
func (a *app) Run(ctx context.Context, cfg *config) error {
	fetcher, err := a.fetcher(cfg)
	if err != nil {
		return err
	}

	resp, err := payload.Load(ctx, fetcher, cfg.Mode)
	if err != nil {
		return fmt.Errorf("load steps: %w", err)
	}
	a.Log.With(
		log.OmitEmpty(slog.String, "file", cfg.File),
		log.OmitEmpty(slog.String, "fetch", cfg.Fetch),
	).Debugf("loaded %d %v steps", len(resp.Events), resp.Mode)

	ctrl := codetree.NewController(codetree.Config{
		KeyFunc:    cfg.Key.KeyFunc(),
		StartEmpty: cfg.Empty,
		Log:        a.Log.WithName("replay"),
	})
	if err := ctrl.SetLog(resp.Events); err != nil {
		return fmt.Errorf("replay %v steps: %w", resp.Mode, err)
	}
	if cfg.Step > 0 {
		if err := ctrl.JumpTo(cfg.Step - 1); err != nil {
			return fmt.Errorf("-step %d: %w", cfg.Step, err)
		}
	}

	if cfg.Print {
		return a.print(resp, ctrl)
	}
	return a.interactive(cfg, ctrl)
}

func (a *app) fetcher(cfg *config) (payload.Fetcher, error) {
	if len(cfg.Fetch) > 0 {
		f, err := payload.NewCommandFetcher(cfg.Fetch, a.Log)
		if err != nil {
			return nil, err
		}
		f.Environ = a.Environ
		return f, nil
	}

	path := cfg.File
	if len(path) == 0 {
		path = payload.StdinPath
	}
	return &payload.FileFetcher{Path: path, Stdin: a.Stdin}, nil
}

func (a *app) interactive(cfg *config, ctrl *codetree.Controller) error {
	screen, err := a.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var player *replayview.Player
	if cfg.Play > 0 {
		player = &replayview.Player{
			Interval: cfg.Play,
			Clock:    a.Clock,
		}
	}

	var uiApp ui.App
	view := (&replayview.WidgetConfig{
		Controller: ctrl,
		Player:     player,
		Quit:       uiApp.Stop,
		Log:        a.Log.WithName("view"),
	}).Build()
	uiApp.Root = view
	uiApp.Screen = screen
	uiApp.Log = a.Log

	uiApp.Start()
	if player != nil {
		player.Start()
		defer player.Stop()
		view.Refresh()
	}
	return uiApp.Wait()
}

// print writes the tree at the cursor, its code words, and the metrics
// reported by the service.
func (a *app) print(resp *payload.Response, ctrl *codetree.Controller) error {
	tree := ctrl.Tree()
	_, hi := ctrl.Bounds()

	var out strings.Builder
	mode := resp.Mode.String()
	if len(mode) == 0 {
		mode = "unknown"
	}
	fmt.Fprintf(&out, "%v: step %d/%d\n", mode, tree.Step+1, hi+1)

	h := hierarchy.Build(tree.Root)
	hs := []*hierarchy.Hierarchy{h}
	for _, n := range tree.Pending() {
		hs = append(hs, hierarchy.Build(n))
	}
	r, err := replayview.Render(hs...)
	if err != nil {
		return err
	}
	if len(r.Text) > 0 {
		out.WriteString("\n")
		out.WriteString(r.Text)
	}

	// Code words are only meaningful once everything is under one root.
	if len(tree.Pending()) == 0 && h.Len() > 0 {
		words, err := h.Codewords(hierarchy.DefaultAlphabet)
		if err != nil {
			return err
		}

		var width int
		for _, w := range words {
			width = max(width, runewidth.StringWidth(w.Label))
		}

		// Compare with the service only for the finished tree.
		final := tree.Step == hi

		out.WriteString("\ncode words:\n")
		for _, w := range words {
			fmt.Fprintf(&out, "  %v  %v", runewidth.FillRight(w.Label, width), w.Code)
			if want, ok := resp.Encoding[w.Label]; ok && final && want != w.Code {
				a.Log.Infof("code word for %q is %q, but the service reported %q", w.Label, w.Code, want)
				fmt.Fprintf(&out, "  (service: %v)", want)
			}
			out.WriteString("\n")
		}
	}

	metrics := []struct {
		name  string
		value *float64
	}{
		{"entropy", resp.Metrics.Entropy},
		{"average length", resp.Metrics.AverageLength},
		{"efficiency", resp.Metrics.Efficiency},
	}
	var wroteMetric bool
	for _, m := range metrics {
		if m.value == nil {
			continue
		}
		if !wroteMetric {
			out.WriteString("\n")
			wroteMetric = true
		}
		fmt.Fprintf(&out, "%v  %.3f\n", runewidth.FillRight(m.name, len("average length")), *m.value)
	}

	_, err = io.WriteString(a.Stdout, out.String())
	return err
}
