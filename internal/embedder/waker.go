// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/embedder/waker.go
// Summary: Event-loop wakers the engine uses to ask the host for another pump.

package embedder

// EventLoopWaker is held by the engine and may be called from any goroutine.
// Wake is advisory: it must not block and must not call into the engine.
type EventLoopWaker interface {
	Wake()
	Clone() EventLoopWaker
}

// PollingWaker ignores wake requests. Hosts using it pump every tick.
type PollingWaker struct{}

func (PollingWaker) Wake() {}

func (PollingWaker) Clone() EventLoopWaker { return PollingWaker{} }

// SignalWaker pushes a token into a single-slot channel. Pending tokens
// coalesce, so any number of wakes before the host reads produce one pump.
type SignalWaker struct {
	ch chan struct{}
}

// NewSignalWaker creates a waker with a fresh wake channel.
func NewSignalWaker() *SignalWaker {
	return &SignalWaker{ch: make(chan struct{}, 1)}
}

func (w *SignalWaker) Wake() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// Clone returns a handle sharing the same channel.
func (w *SignalWaker) Clone() EventLoopWaker { return &SignalWaker{ch: w.ch} }

// C is the receive side the host merges into its input wait.
func (w *SignalWaker) C() <-chan struct{} { return w.ch }

// WakeChannel returns the wake channel of w, or nil for wakers that never
// signal. A nil channel blocks forever in a select.
func WakeChannel(w EventLoopWaker) <-chan struct{} {
	if sw, ok := w.(*SignalWaker); ok {
		return sw.C()
	}
	return nil
}
