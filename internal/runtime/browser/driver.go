// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/browser/driver.go
// Summary: Pump and drain loop around an embedder.Engine.
// Notes: The driver is the only caller of the engine. Shutdown waits for
// the engine's confirmation with no timeout.

package browserruntime

import (
	"log"
	"sync"
	"time"

	"github.com/framegrace/cuervo/internal/embedder"
)

// Observer sees every envelope after it has been dispatched.
type Observer func(embedder.Envelope)

// Driver pumps the engine and routes its events to the host.
type Driver struct {
	engine embedder.Engine
	host   embedder.HostCallbacks
	wake   <-chan struct{}
	poll   time.Duration

	observers []Observer
	shutdown  bool
	pumps     int

	deinitOnce sync.Once
}

// NewDriver wires engine to host. wake is the signal waker channel, nil for
// polling; poll bounds each wait during drain.
func NewDriver(engine embedder.Engine, host embedder.HostCallbacks, wake <-chan struct{}, poll time.Duration) *Driver {
	if host == nil {
		host = embedder.DefaultHost{}
	}
	if poll <= 0 {
		poll = time.Millisecond
	}
	return &Driver{engine: engine, host: host, wake: wake, poll: poll}
}

// Observe registers fn to see every delivered event.
func (d *Driver) Observe(fn Observer) {
	if fn != nil {
		d.observers = append(d.observers, fn)
	}
}

// Tick pumps once, with cmd when non-nil and with no commands otherwise,
// then dispatches the ready events.
func (d *Driver) Tick(cmd embedder.Command) {
	if cmd != nil {
		d.engine.Pump(cmd)
	} else {
		d.engine.Pump()
	}
	d.pumps++
	d.dispatch()
}

// ShutdownSeen reports whether ShutdownComplete has been delivered.
func (d *Driver) ShutdownSeen() bool { return d.shutdown }

// Pumps counts engine pumps so far.
func (d *Driver) Pumps() int { return d.pumps }

func (d *Driver) dispatch() {
	for _, env := range d.engine.Events() {
		if env.Event == nil {
			continue
		}
		if _, ok := env.Event.(embedder.ShutdownComplete); ok {
			d.shutdown = true
		}
		if !embedder.Dispatch(d.host, env.Event) {
			log.Printf("Driver: Ignoring event %s", env.Event.Kind())
		}
		for _, fn := range d.observers {
			fn(env)
		}
	}
}

// Drain asks the engine to quit and pumps until it confirms, then calls
// Deinit. It returns the number of pumps spent draining.
func (d *Driver) Drain() int {
	start := d.pumps
	if !d.shutdown {
		log.Printf("Driver: Draining engine")
		d.Tick(embedder.Quit{})
		for !d.shutdown {
			d.wait()
			d.Tick(nil)
		}
	}
	d.Deinit()
	drained := d.pumps - start
	log.Printf("Driver: Engine drained after %d pumps", drained)
	return drained
}

func (d *Driver) wait() {
	timer := time.NewTimer(d.poll)
	defer timer.Stop()
	select {
	case <-d.wake:
	case <-timer.C:
	}
}

// Deinit releases the engine once.
func (d *Driver) Deinit() {
	d.deinitOnce.Do(d.engine.Deinit)
}
