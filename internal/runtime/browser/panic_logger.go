// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/browser/panic_logger.go
// Summary: Last-resort panic reporting for UI and engine goroutines.
// Notes: A panic in any goroutine leaves the terminal in raw mode unless the
// screen is restored first, so restore hooks run before the report reaches
// stderr.

package browserruntime

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"
)

// PanicLogger captures panic stack traces and optionally persists them to disk.
type PanicLogger struct {
	path   string
	stderr io.Writer
	exit   func(code int)

	mu       sync.Mutex
	restores []func()
	fired    bool
}

// NewPanicLogger constructs a panic logger that appends to path if non-empty.
func NewPanicLogger(path string) *PanicLogger {
	return &PanicLogger{path: path, stderr: os.Stderr, exit: os.Exit}
}

// OnPanic registers fn to run once before the report is printed. Hooks run
// in reverse registration order.
func (p *PanicLogger) OnPanic(fn func()) {
	p.mu.Lock()
	p.restores = append(p.restores, fn)
	p.mu.Unlock()
}

// Recover should be deferred in goroutines. It reports the panic and exits
// with status 2.
func (p *PanicLogger) Recover(where string) {
	if r := recover(); r != nil {
		p.report(where, r)
		p.exit(2)
	}
}

// Go starts fn in a goroutine with panic recovery bound to where.
func (p *PanicLogger) Go(where string, fn func()) {
	go func() {
		defer p.Recover(where)
		fn()
	}()
}

func (p *PanicLogger) report(where string, r interface{}) {
	buf := make([]byte, 1<<16)
	stack := buf[:runtime.Stack(buf, true)]
	log.Printf("panic in %s: %v\n%s", where, r, stack)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.fired {
		p.fired = true
		for i := len(p.restores) - 1; i >= 0; i-- {
			p.runRestore(p.restores[i])
		}
	}
	fmt.Fprintf(p.stderr, "cuervo: panic in %s: %v\n", where, r)
	if p.path == "" {
		return
	}
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("panic: unable to write panic log: %v", err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "[%s] panic in %s: %v\n%s\n", time.Now().Format(time.RFC3339Nano), where, r, stack)
	fmt.Fprintf(p.stderr, "cuervo: stack trace written to %s\n", p.path)
}

// runRestore isolates a failing hook so the report still gets out.
func (p *PanicLogger) runRestore(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic: restore hook failed: %v", r)
		}
	}()
	fn()
}
