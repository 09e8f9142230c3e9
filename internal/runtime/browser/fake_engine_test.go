// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package browserruntime

import (
	"sync"
	"testing"
	"time"

	"github.com/framegrace/cuervo/internal/catalog"
	"github.com/framegrace/cuervo/internal/embedder"
)

// fakeEngine records pumps and confirms shutdown after a fixed number of
// pumps following Quit.
type fakeEngine struct {
	mu            sync.Mutex
	pumps         [][]embedder.Command
	pending       []embedder.Envelope
	confirmAfter  int
	quitPump      int
	confirmed     bool
	deinits       int
	eventsAfterQt int
	waker         embedder.EventLoopWaker
}

func newFakeEngine(confirmAfter int) *fakeEngine {
	return &fakeEngine{confirmAfter: confirmAfter, quitPump: -1}
}

func (e *fakeEngine) Pump(cmds ...embedder.Command) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pumps = append(e.pumps, append([]embedder.Command(nil), cmds...))
	for _, cmd := range cmds {
		if _, ok := cmd.(embedder.Quit); ok && e.quitPump < 0 {
			e.quitPump = len(e.pumps) - 1
		}
	}
	if e.quitPump < 0 || e.confirmed {
		return
	}
	if len(e.pumps)-1-e.quitPump >= e.confirmAfter {
		e.confirmed = true
		e.pending = append(e.pending, embedder.Envelope{Event: embedder.ShutdownComplete{}})
		return
	}
	for i := 0; i < e.eventsAfterQt; i++ {
		e.pending = append(e.pending, embedder.Envelope{Context: "ctx", Event: embedder.LoadComplete{}})
	}
	if e.waker != nil {
		e.waker.Wake()
	}
}

func (e *fakeEngine) push(envs ...embedder.Envelope) {
	e.mu.Lock()
	e.pending = append(e.pending, envs...)
	e.mu.Unlock()
}

func (e *fakeEngine) Events() []embedder.Envelope {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.pending
	e.pending = nil
	return out
}

func (e *fakeEngine) Deinit() {
	e.mu.Lock()
	e.deinits++
	e.mu.Unlock()
}

func (e *fakeEngine) commands() []embedder.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []embedder.Command
	for _, p := range e.pumps {
		out = append(out, p...)
	}
	return out
}

func (e *fakeEngine) pumpCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pumps)
}

func (e *fakeEngine) deinitCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deinits
}

func countCommands[T embedder.Command](cmds []embedder.Command) int {
	n := 0
	for _, c := range cmds {
		if _, ok := c.(T); ok {
			n++
		}
	}
	return n
}

func testBundle(t *testing.T) *catalog.Bundle {
	t.Helper()
	b, err := catalog.Load(catalog.Locale{Language: "en", Region: "US"})
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}
	return b
}

func waitFor(cond func() bool, timeout time.Duration, t *testing.T, what string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
