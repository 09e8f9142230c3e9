// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/browser/status.go
// Summary: Status line and debug event bar state.

package browserruntime

import (
	"fmt"
	"sync"
	"time"

	"github.com/framegrace/cuervo/internal/catalog"
)

type statusKind int

const (
	statusNone statusKind = iota
	statusLoading
	statusLoaded
	statusStopped
	statusMessage
	statusError
)

// statusBar tracks what the bottom line says about the page.
type statusBar struct {
	mu     sync.Mutex
	kind   statusKind
	url    string
	title  string
	detail string
}

func (s *statusBar) loading() {
	s.mu.Lock()
	s.kind = statusLoading
	s.mu.Unlock()
}

func (s *statusBar) loaded() {
	s.mu.Lock()
	if s.kind == statusLoading {
		s.kind = statusLoaded
	}
	s.mu.Unlock()
}

func (s *statusBar) stopped() {
	s.mu.Lock()
	if s.kind == statusLoading {
		s.kind = statusStopped
	}
	s.mu.Unlock()
}

func (s *statusBar) setTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

func (s *statusBar) setURL(u string) {
	s.mu.Lock()
	if s.url != u {
		s.title = ""
	}
	s.url = u
	s.mu.Unlock()
}

func (s *statusBar) message(text string) {
	s.mu.Lock()
	s.kind = statusMessage
	s.detail = text
	s.mu.Unlock()
}

func (s *statusBar) fail(text string) {
	s.mu.Lock()
	s.kind = statusError
	s.detail = text
	s.mu.Unlock()
}

// Text renders the status line through the bundle.
func (s *statusBar) Text(bundle *catalog.Bundle) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.kind {
	case statusLoading:
		return bundle.Format(catalog.KeyStatusLoading, catalog.Args{"url": s.url})
	case statusLoaded:
		title := s.title
		if title == "" {
			title = s.url
		}
		return bundle.Format(catalog.KeyStatusLoaded, catalog.Args{"title": title})
	case statusStopped:
		return bundle.Text(catalog.KeyStatusStopped)
	case statusMessage, statusError:
		return s.detail
	}
	return ""
}

func (s *statusBar) isError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind == statusError
}

// debugBar shows queued engine events one at a time.
type debugBar struct {
	interval time.Duration
	queue    []string
	current  string
	shownAt  time.Time
}

const debugQueueLimit = 1024

func newDebugBar(interval time.Duration) *debugBar {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &debugBar{interval: interval}
}

func (b *debugBar) push(line string) {
	if len(b.queue) >= debugQueueLimit {
		b.queue = b.queue[1:]
	}
	b.queue = append(b.queue, line)
}

// advance shows the next queued line once the current one has been up for
// the interval. It reports whether the bar changed.
func (b *debugBar) advance(now time.Time) bool {
	if len(b.queue) == 0 {
		return false
	}
	if b.current != "" && now.Sub(b.shownAt) < b.interval {
		return false
	}
	b.current = b.queue[0]
	b.queue = b.queue[1:]
	b.shownAt = now
	return true
}

// pending reports whether more lines are waiting.
func (b *debugBar) pending() bool { return len(b.queue) > 0 }

// reset announces debug mode with notice and drops anything queued.
func (b *debugBar) reset(notice string, now time.Time) {
	b.queue = b.queue[:0]
	b.current = notice
	b.shownAt = now
}

func (b *debugBar) line() string {
	if len(b.queue) == 0 {
		return b.current
	}
	return fmt.Sprintf("%s (%d queued)", b.current, len(b.queue))
}
