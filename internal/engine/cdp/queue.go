// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cdp

import (
	"sync"

	"github.com/framegrace/cuervo/internal/embedder"
)

// readyQueue collects events from listener goroutines until the host
// drains them. Every push wakes the host.
type readyQueue struct {
	mu     sync.Mutex
	events []embedder.Envelope
	waker  embedder.EventLoopWaker
}

func newReadyQueue(w embedder.EventLoopWaker) *readyQueue {
	if w == nil {
		w = embedder.PollingWaker{}
	}
	return &readyQueue{waker: w}
}

func (q *readyQueue) push(envs ...embedder.Envelope) {
	if len(envs) == 0 {
		return
	}
	q.mu.Lock()
	q.events = append(q.events, envs...)
	q.mu.Unlock()
	q.waker.Wake()
}

func (q *readyQueue) drain() []embedder.Envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}
