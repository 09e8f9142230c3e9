// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/cuervo/main.go
// Summary: Terminal web browser entry point.
// Usage: Run `cuervo [flags] [url]`. Press g to open an address, q to quit.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"

	"golang.org/x/term"

	"github.com/framegrace/cuervo/config"
	"github.com/framegrace/cuervo/internal/catalog"
	"github.com/framegrace/cuervo/internal/embedder"
	"github.com/framegrace/cuervo/internal/engine/cdp"
	browserruntime "github.com/framegrace/cuervo/internal/runtime/browser"
	"github.com/framegrace/cuervo/internal/trace"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliOptions are the parsed command line. set records which flags were
// given explicitly so they can override config.
type cliOptions struct {
	locale     string
	enginePath string
	headless   bool
	waker      string
	trace      bool
	dumpTrace  int
	screenshot string
	panicLog   string
	saveConfig bool
	version    bool
	url        string

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	fs := flag.NewFlagSet("cuervo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &cliOptions{set: make(map[string]bool)}

	fs.StringVar(&o.locale, "locale", "", "Message locale, e.g. es_ES.UTF-8 (default: from environment)")
	fs.StringVar(&o.enginePath, "engine-path", "", "Path to the Chrome or Chromium binary")
	fs.BoolVar(&o.headless, "headless", true, "Run the browser engine without a window")
	fs.StringVar(&o.waker, "waker", "", "Event-loop waker: signal or polling")
	fs.BoolVar(&o.trace, "trace", false, "Record engine events to the trace journal")
	fs.IntVar(&o.dumpTrace, "dump-trace", 0, "Print the last N events of the most recent traced run and exit")
	fs.StringVar(&o.screenshot, "screenshot", "", "Write a PNG of each loaded page to this file")
	fs.StringVar(&o.panicLog, "panic-log", "", "File to append panic stack traces")
	fs.BoolVar(&o.saveConfig, "save-config", false, "Store the given flags in the config file and exit")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	switch fs.NArg() {
	case 0:
	case 1:
		o.url = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected at most one URL, got %d arguments", fs.NArg())
	}
	if o.set["waker"] && o.waker != config.WakerSignal && o.waker != config.WakerPolling {
		return nil, fmt.Errorf("unknown waker %q (want %s or %s)", o.waker, config.WakerSignal, config.WakerPolling)
	}
	return o, nil
}

// apply overlays explicitly set flags on the config settings.
func (o *cliOptions) apply(s *config.Settings) {
	if o.set["locale"] {
		s.Locale = o.locale
	}
	if o.set["engine-path"] {
		s.Engine.ExecPath = o.enginePath
	}
	if o.set["headless"] {
		s.Engine.Headless = o.headless
	}
	if o.set["waker"] {
		s.Waker = o.waker
	}
	if o.set["trace"] {
		s.Trace.Enabled = o.trace
	}
	if o.set["screenshot"] {
		s.Engine.ScreenshotPath = o.screenshot
	}
}

// store writes explicitly set flags into cfg using config file keys.
func (o *cliOptions) store(cfg config.Config) {
	if o.set["locale"] {
		cfg.Set("", "locale", o.locale)
	}
	if o.set["engine-path"] {
		cfg.Set(config.SectionEngine, "exec_path", o.enginePath)
	}
	if o.set["headless"] {
		cfg.Set(config.SectionEngine, "headless", o.headless)
	}
	if o.set["waker"] {
		cfg.Set(config.SectionWaker, "mode", o.waker)
	}
	if o.set["trace"] {
		cfg.Set(config.SectionTrace, "enabled", o.trace)
	}
	if o.set["screenshot"] {
		cfg.Set(config.SectionEngine, "screenshot_path", o.screenshot)
	}
}

// startURL parses the positional address. Bare hosts get the default scheme.
func startURL(raw, defaultScheme string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := embedder.ParseURL(raw)
	if errors.Is(err, embedder.ErrRelativeURL) {
		u, err = embedder.ParseURL(defaultScheme + raw)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid start address %q: %w", raw, err)
	}
	return u, nil
}

func loadBundle(override string) (*catalog.Bundle, error) {
	raw := catalog.DetectLocale(override)
	locale, err := catalog.ParseLocale(raw)
	if err != nil {
		log.Printf("Catalog: Ignoring locale %q: %v", raw, err)
		locale, _ = catalog.ParseLocale(catalog.DefaultLocale)
	}
	bundle, err := catalog.Load(locale)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	if err := bundle.Validate(catalog.RequiredKeys...); err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return bundle, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, embedder.Version)
		fmt.Fprintln(stdout, embedder.UserAgent(embedder.DefaultDesktopUserAgent, embedder.Version))
		return nil
	}

	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("resolve config paths: %w", err)
	}
	if err := paths.EnsureConfigDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	logFile, err := setupLogging(paths.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		log.SetOutput(io.Discard)
	} else {
		defer logFile.Close()
	}
	log.Printf("Starting %s", embedder.Version)

	cfg := config.System()
	if err := config.Err(); err != nil {
		log.Printf("Config: Using defaults: %v", err)
	}
	if opts.saveConfig {
		opts.store(cfg)
		config.SetSystem(cfg)
		path, err := config.SaveSystem()
		if err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(stdout, "Saved configuration to %s\n", path)
		return nil
	}
	settings := config.Resolve(cfg)
	opts.apply(&settings)

	tracePath, err := settings.TracePath()
	if err != nil {
		return fmt.Errorf("resolve trace path: %w", err)
	}
	if opts.dumpTrace > 0 {
		return trace.DumpLast(stdout, tracePath, opts.dumpTrace)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("cuervo needs an interactive terminal")
	}

	bundle, err := loadBundle(settings.Locale)
	if err != nil {
		return err
	}
	initial, err := startURL(opts.url, settings.UI.DefaultScheme)
	if err != nil {
		return err
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		cols, rows = 80, 24
	}
	fbSize := embedder.Size{Width: settings.UI.FramebufferWidth, Height: settings.UI.FramebufferHeight}
	surface, err := embedder.NewSurface(fbSize)
	if err != nil {
		return fmt.Errorf("create render surface: %w", err)
	}

	var waker embedder.EventLoopWaker = embedder.PollingWaker{}
	if settings.Waker == config.WakerSignal {
		waker = embedder.NewSignalWaker()
	}
	host := browserruntime.NewHost(bundle, waker)
	methods, err := browserruntime.NewMethods(waker, nil)
	if err != nil {
		return err
	}
	window := embedder.NewWindow(host,
		embedder.NewCoordinates(0, 0, cols, rows, fbSize.Width, fbSize.Height),
		settings.UI.HiDPIScale, surface)

	target := embedder.WindowTarget()
	if settings.Engine.ScreenshotPath != "" {
		target = embedder.PNGFileTarget(settings.Engine.ScreenshotPath)
	}

	runOpts := browserruntime.Options{
		Host:           host,
		Window:         window,
		Waker:          waker,
		Bundle:         bundle,
		DefaultScheme:  settings.UI.DefaultScheme,
		AnimationFrame: settings.UI.AnimationFrame,
		DrainPoll:      settings.UI.DrainPoll,
		DebugInterval:  settings.UI.DebugBarInterval,
		InitialURL:     initial,
		Panics:         browserruntime.NewPanicLogger(opts.panicLog),
	}

	if settings.Trace.Enabled {
		tcfg := trace.DefaultConfig(tracePath)
		tcfg.BatchSize = settings.Trace.BatchSize
		tcfg.BatchTimeout = settings.Trace.BatchTimeout
		journal, err := trace.Open(tcfg, trace.RunInfo{Version: embedder.Version, Locale: bundle.Locale.String()})
		if err != nil {
			return fmt.Errorf("open trace journal: %w", err)
		}
		defer func() {
			if err := journal.Close(); err != nil {
				log.Printf("Trace: Close failed: %v", err)
			}
		}()
		runOpts.Recorder = journal
		log.Printf("Trace: Recording run %s to %s", journal.RunID(), tracePath)
	}

	engine, id, err := cdp.New(context.Background(), embedder.Options{
		Methods:   methods,
		Window:    window,
		UserAgent: settings.Engine.UserAgent,
		Target:    target,
	}, cdp.Config{
		ExecPath:       settings.Engine.ExecPath,
		Headless:       settings.Engine.Headless,
		StartupTimeout: settings.Engine.StartupTimeout,
	})
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	runOpts.Engine = engine
	runOpts.Context = id

	if err := browserruntime.Run(runOpts); err != nil {
		engine.Deinit()
		return err
	}
	log.Printf("Exited cleanly")
	return nil
}
