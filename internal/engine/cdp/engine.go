// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/engine/cdp/engine.go
// Summary: Browser engine backed by Chrome through the DevTools protocol.
// Usage: cmd/cuervo constructs one Engine per process with New.
// Notes: The host goroutine is the only caller of Pump, Events and Deinit.
// Protocol work runs on goroutines that report back through the ready
// queue and the event-loop waker.

package cdp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/framegrace/cuervo/internal/embedder"
)

// Config carries the Chrome process settings.
type Config struct {
	// ExecPath selects the browser binary. Empty searches the usual locations.
	ExecPath       string
	Headless       bool
	StartupTimeout time.Duration
}

// DefaultConfig returns headless settings with a 30s startup budget.
func DefaultConfig() Config {
	return Config{Headless: true, StartupTimeout: 30 * time.Second}
}

// Engine implements embedder.Engine on top of chromedp.
type Engine struct {
	window    embedder.WindowMethods
	target    embedder.CompositeTarget
	protocols *embedder.ProtocolRegistry
	queue     *readyQueue

	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	// trMu guards tr and id; listeners start before the tab is known.
	trMu sync.Mutex
	tr   *translator
	id   embedder.BrowsingContextID

	opMu   sync.Mutex
	ops    sync.WaitGroup
	closed bool

	animating  bool
	quitting   atomic.Bool
	deinitOnce sync.Once
}

var _ embedder.Engine = (*Engine)(nil)

// New starts Chrome, opens the single top-level tab and returns its id.
func New(ctx context.Context, opts embedder.Options, cfg Config) (*Engine, embedder.BrowsingContextID, error) {
	if opts.Methods == nil || opts.Window == nil {
		return nil, "", errors.New("engine: embedder methods and window are required")
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = DefaultConfig().StartupTimeout
	}

	waker := opts.Methods.CreateEventLoopWaker()
	var xr embedder.XRRegistry
	opts.Methods.RegisterXR(&xr)
	if n := len(xr.Devices()); n > 0 {
		log.Printf("Engine: %d XR devices registered, XR is not supported by this engine", n)
	}

	ua := opts.UserAgent
	if ua == "" {
		if version, ok := opts.Methods.VersionString(); ok {
			ua = embedder.UserAgent(embedder.DefaultDesktopUserAgent, version)
		}
	}

	coords := opts.Window.Coordinates()
	css := cssViewport(coords)
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(css.Width, css.Height),
	)
	if ua != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(ua))
	}
	if cfg.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithErrorf(log.Printf))

	e := &Engine{
		window:      opts.Window,
		target:      opts.Target,
		protocols:   opts.Methods.ProtocolHandlers(),
		queue:       newReadyQueue(waker),
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}
	e.tr = newTranslator("", e.answerDialog)

	chromedp.ListenTarget(tabCtx, e.handle)
	chromedp.ListenBrowser(tabCtx, e.handle)

	started := make(chan error, 1)
	go func() {
		started <- chromedp.Run(tabCtx, setMetrics(coords))
	}()
	timer := time.NewTimer(cfg.StartupTimeout)
	defer timer.Stop()
	select {
	case err := <-started:
		if err != nil {
			tabCancel()
			allocCancel()
			return nil, "", fmt.Errorf("start browser: %w", err)
		}
	case <-timer.C:
		tabCancel()
		allocCancel()
		return nil, "", fmt.Errorf("start browser: no response after %s", cfg.StartupTimeout)
	}

	c := chromedp.FromContext(tabCtx)
	if c == nil || c.Target == nil {
		tabCancel()
		allocCancel()
		return nil, "", errors.New("start browser: no target attached")
	}
	id := e.bind(c.Target.TargetID)

	log.Printf("Engine: Started %s (viewport %s, css %s)", id, coords.Viewport.Size, css)
	return e, id, nil
}

// bind records the attached tab as the top-level browsing context. Listeners
// are already running, so id and the translator's main frame change together.
func (e *Engine) bind(tid target.ID) embedder.BrowsingContextID {
	e.trMu.Lock()
	defer e.trMu.Unlock()
	e.id = embedder.BrowsingContextID(tid)
	e.tr.targetID = tid
	return e.id
}

// ID returns the top-level browsing context id.
func (e *Engine) ID() embedder.BrowsingContextID {
	e.trMu.Lock()
	defer e.trMu.Unlock()
	return e.id
}

func (e *Engine) Pump(cmds ...embedder.Command) {
	for _, cmd := range cmds {
		if e.quitting.Load() {
			log.Printf("Engine: Ignoring %T after quit", cmd)
			continue
		}
		switch c := cmd.(type) {
		case embedder.OpenWebView:
			e.open(c.URL)
		case embedder.WindowResized:
			coords := e.window.Coordinates()
			e.spawn("resize", func(ctx context.Context) error {
				return chromedp.Run(ctx, setMetrics(coords))
			})
		case embedder.Reload:
			e.spawn("reload", func(ctx context.Context) error {
				return chromedp.Run(ctx, page.Reload())
			})
		case embedder.Stop:
			e.spawn("stop", func(ctx context.Context) error {
				return chromedp.Run(ctx, page.StopLoading())
			})
		case embedder.Quit:
			e.quit()
		default:
			log.Printf("Engine: Unknown command %T", cmd)
		}
	}
}

// Events returns the ready queue. Load transitions double as the animating
// signal so the host keeps redrawing while a page is in flight.
func (e *Engine) Events() []embedder.Envelope {
	envs := e.queue.drain()
	for _, env := range envs {
		switch env.Event.(type) {
		case embedder.LoadStarted:
			e.setAnimating(true)
		case embedder.LoadComplete, embedder.Panic, embedder.ShutdownComplete:
			e.setAnimating(false)
		}
	}
	return envs
}

// Deinit releases the browser process. Later calls do nothing.
func (e *Engine) Deinit() {
	e.deinitOnce.Do(func() {
		e.opMu.Lock()
		e.closed = true
		e.opMu.Unlock()
		e.tabCancel()
		e.allocCancel()
		e.ops.Wait()
		log.Printf("Engine: Deinitialized")
	})
}

func (e *Engine) setAnimating(on bool) {
	if e.animating == on {
		return
	}
	e.animating = on
	e.window.OnAnimatingChanged(on)
}

func (e *Engine) open(u *url.URL) {
	if u == nil {
		return
	}
	if h, ok := e.protocols.Lookup(u.Scheme); ok {
		e.spawn("load "+u.Scheme, func(ctx context.Context) error {
			return e.serve(ctx, h, u)
		})
		return
	}
	target := u.String()
	e.spawn("navigate", func(ctx context.Context) error {
		return chromedp.Run(ctx, chromedp.Navigate(target))
	})
}

// serve renders a registered scheme's document into a blank page.
func (e *Engine) serve(ctx context.Context, h embedder.ProtocolHandler, u *url.URL) error {
	body, contentType, err := h.Load(ctx, u)
	if err != nil {
		log.Printf("Engine: Protocol %s failed for %s: %v", u.Scheme, u, err)
		body, contentType = errorDocument(u, err), "text/html"
	}
	doc := documentHTML(body, contentType)

	e.trMu.Lock()
	e.tr.setVirtualURL(u.String())
	e.trMu.Unlock()

	return chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
	)
}

func (e *Engine) quit() {
	if e.quitting.Swap(true) {
		return
	}
	log.Printf("Engine: Shutting down")
	e.opMu.Lock()
	e.ops.Add(1)
	e.opMu.Unlock()
	go func() {
		defer e.ops.Done()
		defer e.recoverPanic("quit")
		if err := chromedp.Cancel(e.tabCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Engine: Browser close returned %v", err)
		}
		e.queue.push(embedder.Envelope{Event: embedder.ShutdownComplete{}})
	}()
}

func (e *Engine) handle(ev interface{}) {
	e.trMu.Lock()
	events, fx := e.tr.translate(ev)
	id := e.id
	e.trMu.Unlock()

	envs := make([]embedder.Envelope, 0, len(events))
	for _, ev := range events {
		envs = append(envs, embedder.Envelope{Context: id, Event: ev})
	}
	e.queue.push(envs...)

	switch fx {
	case effectLoaded:
		e.spawn("present", e.present)
		e.spawn("history", e.history)
	case effectHistory:
		e.spawn("history", e.history)
	}
}

func (e *Engine) answerDialog(accept bool, text string) {
	e.spawn("dialog", func(ctx context.Context) error {
		return chromedp.Run(ctx, page.HandleJavaScriptDialog(accept).WithPromptText(text))
	})
}

func (e *Engine) history(ctx context.Context) error {
	var current int64
	var entries []*page.NavigationEntry
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		current, entries, err = page.GetNavigationHistory().Do(ctx)
		return err
	}))
	if err != nil {
		return err
	}
	e.queue.push(embedder.Envelope{Context: e.ID(), Event: historyEvent(current, len(entries))})
	return nil
}

// spawn runs fn against the tab context on a tracked goroutine. Work is
// dropped once Deinit has started.
func (e *Engine) spawn(name string, fn func(ctx context.Context) error) {
	e.opMu.Lock()
	if e.closed {
		e.opMu.Unlock()
		return
	}
	e.ops.Add(1)
	e.opMu.Unlock()

	go func() {
		defer e.ops.Done()
		defer e.recoverPanic(name)
		if err := fn(e.tabCtx); err != nil && e.tabCtx.Err() == nil && !e.quitting.Load() {
			log.Printf("Engine: %s failed: %v", name, err)
		}
	}()
}

func (e *Engine) recoverPanic(name string) {
	if r := recover(); r != nil {
		stack := string(debug.Stack())
		log.Printf("Engine: panic in %s: %v\n%s", name, r, stack)
		e.queue.push(embedder.Envelope{Context: e.ID(), Event: embedder.Panic{
			Reason:    fmt.Sprintf("%s: %v", name, r),
			Backtrace: stack,
		}})
	}
}

func setMetrics(coords embedder.EmbedderCoordinates) chromedp.Action {
	css := cssViewport(coords)
	return emulation.SetDeviceMetricsOverride(int64(css.Width), int64(css.Height), 0, false)
}

// cssViewport converts the device-pixel viewport into CSS pixels using the
// hidpi scale. A terminal cell is one device pixel, so small scales give the
// page a desktop-sized layout.
func cssViewport(coords embedder.EmbedderCoordinates) embedder.Size {
	scale := float64(coords.HiDPIScale)
	if scale <= 0 {
		scale = 1
	}
	size := embedder.Size{
		Width:  int(math.Round(float64(coords.Viewport.Size.Width) / scale)),
		Height: int(math.Round(float64(coords.Viewport.Size.Height) / scale)),
	}
	if size.Width < 1 {
		size.Width = 1
	}
	if size.Height < 1 {
		size.Height = 1
	}
	return size
}

func historyEvent(current int64, total int) embedder.HistoryChanged {
	return embedder.HistoryChanged{
		CanGoBack:    current > 0,
		CanGoForward: int(current) < total-1,
	}
}
