// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/browser/host.go
// Summary: Host callbacks for the terminal front-end and the embedder methods
// handed to the engine.

package browserruntime

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/cuervo/internal/catalog"
	"github.com/framegrace/cuervo/internal/embedder"
)

// Host receives engine notifications on the run-loop goroutine. Callbacks
// not overridden here fall through to the embedded defaults.
type Host struct {
	embedder.DefaultHost

	bundle *catalog.Bundle
	status *statusBar
	waker  embedder.EventLoopWaker

	animating atomic.Bool
	shutdown  atomic.Bool

	mu     sync.Mutex
	screen tcell.Screen
}

var _ embedder.HostCallbacks = (*Host)(nil)

// NewHost builds the host. waker is woken on animation changes so the run
// loop re-evaluates its wait.
func NewHost(bundle *catalog.Bundle, waker embedder.EventLoopWaker) *Host {
	if waker == nil {
		waker = embedder.PollingWaker{}
	}
	return &Host{bundle: bundle, status: &statusBar{}, waker: waker}
}

// attach binds the screen used for clipboard writes.
func (h *Host) attach(screen tcell.Screen) {
	h.mu.Lock()
	h.screen = screen
	h.mu.Unlock()
}

// Animating reports the engine's last animating state.
func (h *Host) Animating() bool { return h.animating.Load() }

// ShutdownComplete reports whether the engine confirmed shutdown.
func (h *Host) ShutdownComplete() bool { return h.shutdown.Load() }

// Status renders the current status line.
func (h *Host) Status() string { return h.status.Text(h.bundle) }

func (h *Host) OnAnimatingChanged(animating bool) {
	if h.animating.Swap(animating) != animating {
		h.waker.Wake()
	}
}

func (h *Host) OnLoadStarted() { h.status.loading() }

func (h *Host) OnLoadEnded() { h.status.loaded() }

func (h *Host) OnTitleChanged(title string) { h.status.setTitle(title) }

func (h *Host) OnURLChanged(u string) { h.status.setURL(u) }

func (h *Host) PromptAlert(msg string, _ bool) {
	h.status.message(h.bundle.Format(catalog.KeyAlert, catalog.Args{"message": msg}))
}

func (h *Host) SetClipboardContents(contents string) {
	h.mu.Lock()
	screen := h.screen
	h.mu.Unlock()
	if screen != nil {
		screen.SetClipboard([]byte(contents))
	}
}

func (h *Host) OnShutdownComplete() {
	h.shutdown.Store(true)
	log.Printf("Host: Engine shutdown complete")
}

func (h *Host) OnPanic(reason, backtrace string) {
	log.Printf("Host: Engine panic: %s\n%s", reason, backtrace)
	h.status.fail(h.bundle.Format(catalog.KeyEnginePanic, catalog.Args{"reason": reason}))
}

func (h *Host) OnDevtoolsStarted(port int, token string, err error) {
	if err != nil {
		log.Printf("Host: Devtools failed to start: %v", err)
		return
	}
	log.Printf("Host: Devtools listening on port %d", port)
}

// Methods implements embedder.EmbedderMethods for a terminal front-end.
type Methods struct {
	waker     embedder.EventLoopWaker
	protocols *embedder.ProtocolRegistry
}

var _ embedder.EmbedderMethods = (*Methods)(nil)

// NewMethods registers the built-in cuervo: scheme next to any handlers
// already in protocols.
func NewMethods(waker embedder.EventLoopWaker, protocols *embedder.ProtocolRegistry) (*Methods, error) {
	if waker == nil {
		waker = embedder.PollingWaker{}
	}
	if protocols == nil {
		protocols = embedder.NewProtocolRegistry()
	}
	if _, ok := protocols.Lookup(AboutScheme); !ok {
		if err := protocols.Register(AboutScheme, embedder.ProtocolHandlerFunc(aboutPage)); err != nil {
			return nil, fmt.Errorf("register %s: %w", AboutScheme, err)
		}
	}
	return &Methods{waker: waker, protocols: protocols}, nil
}

func (m *Methods) CreateEventLoopWaker() embedder.EventLoopWaker { return m.waker.Clone() }

// RegisterXR offers no devices.
func (m *Methods) RegisterXR(*embedder.XRRegistry) {}

func (m *Methods) ProtocolHandlers() *embedder.ProtocolRegistry { return m.protocols }

func (m *Methods) VersionString() (string, bool) { return embedder.Version, true }

// AboutScheme serves the browser's own pages.
const AboutScheme = "cuervo"

func aboutPage(_ context.Context, u *url.URL) ([]byte, string, error) {
	switch u.Opaque {
	case "version":
		body := fmt.Sprintf(
			"<!DOCTYPE html><html><head><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>",
			embedder.Version,
			embedder.Version,
			embedder.UserAgent(embedder.DefaultDesktopUserAgent, embedder.Version),
		)
		return []byte(body), "text/html; charset=utf-8", nil
	}
	return nil, "", fmt.Errorf("unknown page %q", u.Opaque)
}
