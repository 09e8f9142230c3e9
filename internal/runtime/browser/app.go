// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/browser/app.go
// Summary: Terminal run loop for the browser front-end.
// Usage: cmd/cuervo builds the engine and calls Run.
// Notes: One goroutine owns the engine. Terminal input arrives through a
// poll goroutine; wake tokens, animation frames and signals share the
// same select.

package browserruntime

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/cuervo/internal/catalog"
	"github.com/framegrace/cuervo/internal/embedder"
)

// Recorder persists delivered events.
type Recorder interface {
	Record(ts time.Time, env embedder.Envelope)
}

// Options configures Run.
type Options struct {
	Engine  embedder.Engine
	Context embedder.BrowsingContextID
	Window  *embedder.Window
	Host    *Host
	Waker   embedder.EventLoopWaker
	Bundle  *catalog.Bundle

	DefaultScheme  string
	AnimationFrame time.Duration
	DrainPoll      time.Duration
	DebugInterval  time.Duration

	// InitialURL is opened before the first wait when non-nil.
	InitialURL *url.URL
	Recorder   Recorder
	Panics     *PanicLogger
	// Signals overrides process signal delivery. Nil installs a handler for
	// SIGINT, SIGTERM and SIGHUP.
	Signals <-chan os.Signal
}

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// Run drives the UI until the user quits, then drains the engine. The
// screen is restored after the engine has been deinitialized.
func Run(opts Options) error {
	if opts.Engine == nil || opts.Host == nil || opts.Bundle == nil {
		return errors.New("run: engine, host and bundle are required")
	}
	panics := opts.Panics
	if panics == nil {
		panics = NewPanicLogger("")
	}
	defer panics.Recover("run")

	if opts.AnimationFrame <= 0 {
		opts.AnimationFrame = 16 * time.Millisecond
	}
	if opts.DefaultScheme == "" {
		opts.DefaultScheme = "https://"
	}

	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("create screen failed: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen failed: %w", err)
	}
	defer screen.Fini()
	panics.OnPanic(screen.Fini)
	screen.EnablePaste()
	opts.Host.attach(screen)

	machine := NewMachine(opts.Context, opts.DefaultScheme)
	bar := newDebugBar(opts.DebugInterval)
	driver := NewDriver(opts.Engine, opts.Host, embedder.WakeChannel(opts.Waker), opts.DrainPoll)
	driver.Observe(func(env embedder.Envelope) {
		bar.push(env.String())
	})
	if opts.Recorder != nil {
		rec := opts.Recorder
		driver.Observe(func(env embedder.Envelope) {
			rec.Record(time.Now(), env)
		})
	}

	sigCh := opts.Signals
	if sigCh == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(ch)
		sigCh = ch
	}

	if opts.Window != nil {
		width, height := screen.Size()
		if opts.Window.Resize(width, height) {
			driver.Tick(embedder.WindowResized{})
		}
	}
	if opts.InitialURL != nil {
		driver.Tick(embedder.OpenWebView{Context: opts.Context, URL: opts.InitialURL})
	}

	events := make(chan tcell.Event, 32)
	stopEvents := make(chan struct{})
	panics.Go("eventPoll", func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-stopEvents:
				close(events)
				return
			}
		}
	})
	defer func() {
		close(stopEvents)
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	wakeCh := embedder.WakeChannel(opts.Waker)
	frame := 0
	debugWas := false

	for !driver.ShutdownSeen() {
		now := time.Now()
		if machine.Debug() && !debugWas {
			bar.reset(opts.Bundle.Text(catalog.KeyDebugOn), now)
		}
		debugWas = machine.Debug()
		bar.advance(now)

		animating := opts.Host.Animating()
		if animating {
			frame++
		}
		if machine.Mode() == ModeURLInput {
			width, _ := screen.Size()
			machine.Input().Scroll(popupInputWidth(width))
		}
		render(screen, view{
			bundle:    opts.Bundle,
			machine:   machine,
			status:    opts.Host.Status(),
			statusErr: opts.Host.status.isError(),
			debug:     bar.line(),
			animating: animating,
			frame:     frame,
		})

		var tick <-chan time.Time
		var timer *time.Timer
		switch {
		case animating:
			timer = time.NewTimer(opts.AnimationFrame)
		case machine.Debug() && bar.pending():
			timer = time.NewTimer(bar.interval)
		case wakeCh == nil:
			// Polling wakers never signal; pump at frame rate instead.
			timer = time.NewTimer(opts.AnimationFrame)
		}
		if timer != nil {
			tick = timer.C
		}

		var cmd embedder.Command
		exit := false
		select {
		case ev, ok := <-events:
			if !ok {
				exit = true
				break
			}
			cmd, exit = handleScreenEvent(ev, machine, opts.Window, screen)
		case <-wakeCh:
		case <-tick:
		case sig := <-sigCh:
			log.Printf("Run: Received %v, shutting down", sig)
			exit = true
		}
		if timer != nil {
			timer.Stop()
		}
		if exit {
			break
		}
		if _, ok := cmd.(embedder.Stop); ok {
			opts.Host.status.stopped()
		}
		driver.Tick(cmd)
	}

	opts.Host.status.message(opts.Bundle.Text(catalog.KeyQuitting))
	render(screen, view{bundle: opts.Bundle, machine: machine, status: opts.Host.Status(), debug: bar.line()})
	driver.Drain()
	return nil
}

// handleScreenEvent maps one terminal event to at most one command.
func handleScreenEvent(ev tcell.Event, machine *Machine, window *embedder.Window, screen tcell.Screen) (embedder.Command, bool) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		screen.Sync()
		if window == nil {
			return nil, false
		}
		width, height := e.Size()
		if window.Resize(width, height) {
			return embedder.WindowResized{}, false
		}
		return nil, false
	case *tcell.EventKey:
		out := machine.HandleKey(e)
		return out.Command, out.Exit
	}
	return nil, false
}
