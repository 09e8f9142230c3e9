// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package browserruntime

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPanicLoggerRestoresBeforeReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panic.log")
	var stderr bytes.Buffer
	p := NewPanicLogger(path)
	p.stderr = &stderr

	var order []string
	p.OnPanic(func() { order = append(order, "screen") })
	p.OnPanic(func() { order = append(order, "engine") })
	p.OnPanic(func() { panic("hook broke") })

	exited := make(chan int, 1)
	p.exit = func(code int) { exited <- code }

	p.Go("worker", func() { panic("boom") })
	select {
	case code := <-exited:
		if code != 2 {
			t.Fatalf("exit code = %d", code)
		}
	case <-time.After(time.Second):
		t.Fatal("panic not recovered")
	}

	if strings.Join(order, ",") != "engine,screen" {
		t.Fatalf("restore order = %v", order)
	}
	if !strings.Contains(stderr.String(), "panic in worker: boom") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read panic log: %v", err)
	}
	if !strings.Contains(string(data), "panic in worker: boom") {
		t.Fatalf("panic log = %q", data)
	}
}

func TestPanicLoggerRestoresOnce(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPanicLogger("")
	p.stderr = &stderr
	p.exit = func(int) {}
	restores := 0
	p.OnPanic(func() { restores++ })

	for i := 0; i < 2; i++ {
		func() {
			defer p.Recover("loop")
			panic("again")
		}()
	}
	if restores != 1 {
		t.Fatalf("restores = %d, want 1", restores)
	}
	if strings.Count(stderr.String(), "panic in loop") != 2 {
		t.Fatalf("stderr = %q", stderr.String())
	}
}
