// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package browserruntime

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/framegrace/cuervo/internal/embedder"
)

func TestHostStatusTransitions(t *testing.T) {
	h := NewHost(testBundle(t), nil)
	if h.Status() != "" {
		t.Fatalf("initial status = %q", h.Status())
	}

	h.OnURLChanged("https://example.com/")
	h.OnLoadStarted()
	if got := h.Status(); got != "Loading https://example.com/" {
		t.Fatalf("loading status = %q", got)
	}
	h.OnLoadEnded()
	if got := h.Status(); got != "https://example.com/" {
		t.Fatalf("untitled page should show its URL, got %q", got)
	}
	h.OnTitleChanged("Example Domain")
	if got := h.Status(); got != "Example Domain" {
		t.Fatalf("loaded status = %q", got)
	}

	h.PromptAlert("hi", false)
	if got := h.Status(); got != "Page says: hi" {
		t.Fatalf("alert status = %q", got)
	}

	h.OnPanic("boom", "stack")
	if got := h.Status(); got != "Engine failure: boom" || !h.status.isError() {
		t.Fatalf("panic status = %q", got)
	}
}

func TestHostStopKeepsStoppedStatus(t *testing.T) {
	h := NewHost(testBundle(t), nil)
	h.OnURLChanged("https://slow.example/")
	h.OnLoadStarted()
	h.status.stopped()
	h.OnLoadEnded()
	if got := h.Status(); got != "Stopped" {
		t.Fatalf("status = %q, want Stopped", got)
	}
}

func TestHostAnimatingWakes(t *testing.T) {
	w := embedder.NewSignalWaker()
	h := NewHost(testBundle(t), w)

	h.OnAnimatingChanged(true)
	if !h.Animating() {
		t.Fatalf("animating flag not set")
	}
	select {
	case <-w.C():
	default:
		t.Fatalf("animation change should wake the loop")
	}

	h.OnAnimatingChanged(true)
	select {
	case <-w.C():
		t.Fatalf("repeated state should not wake")
	default:
	}

	h.OnAnimatingChanged(false)
	if h.Animating() {
		t.Fatalf("animating flag not cleared")
	}
}

func TestHostKeepsDefaults(t *testing.T) {
	h := NewHost(testBundle(t), nil)
	if !h.OnAllowNavigation("https://example.com/") {
		t.Fatalf("navigation should be allowed by default")
	}
	if got := h.PromptYesNo("sure?", false); got != embedder.PromptDismissed {
		t.Fatalf("yes/no = %v", got)
	}
	if _, ok := h.GetClipboardContents(); ok {
		t.Fatalf("clipboard should be empty")
	}
	// No screen attached yet.
	h.SetClipboardContents("copied")
}

func TestMethods(t *testing.T) {
	w := embedder.NewSignalWaker()
	m, err := NewMethods(w, nil)
	if err != nil {
		t.Fatalf("NewMethods: %v", err)
	}
	if v, ok := m.VersionString(); !ok || v != embedder.Version {
		t.Fatalf("version = %q %v", v, ok)
	}

	clone := m.CreateEventLoopWaker()
	clone.Wake()
	select {
	case <-w.C():
	default:
		t.Fatalf("engine waker should share the host channel")
	}

	var xr embedder.XRRegistry
	m.RegisterXR(&xr)
	if len(xr.Devices()) != 0 {
		t.Fatalf("no XR devices expected")
	}

	h, ok := m.ProtocolHandlers().Lookup(AboutScheme)
	if !ok {
		t.Fatalf("%s: not registered", AboutScheme)
	}
	u, err := embedder.ParseURL("cuervo:version")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body, ctype, err := h.Load(context.Background(), u)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(ctype, "text/html") || !strings.Contains(string(body), "Cuervo 0.1b (like w3m)") {
		t.Fatalf("version page = %s %s", ctype, body)
	}

	missing, _ := url.Parse("cuervo:nothing")
	if _, _, err := h.Load(context.Background(), missing); err == nil {
		t.Fatalf("unknown page should fail")
	}
}

func TestMethodsKeepsExistingHandler(t *testing.T) {
	reg := embedder.NewProtocolRegistry()
	custom := embedder.ProtocolHandlerFunc(func(context.Context, *url.URL) ([]byte, string, error) {
		return []byte("mine"), "text/plain", nil
	})
	if err := reg.Register(AboutScheme, custom); err != nil {
		t.Fatalf("register: %v", err)
	}
	m, err := NewMethods(nil, reg)
	if err != nil {
		t.Fatalf("NewMethods: %v", err)
	}
	h, _ := m.ProtocolHandlers().Lookup(AboutScheme)
	body, _, _ := h.Load(context.Background(), &url.URL{Scheme: AboutScheme, Opaque: "version"})
	if string(body) != "mine" {
		t.Fatalf("existing handler replaced")
	}
}

func TestDebugBarRotation(t *testing.T) {
	b := newDebugBar(100 * time.Millisecond)
	now := time.Unix(0, 0)
	b.reset("debug on", now)
	b.push("a")
	b.push("b")
	if got := b.line(); got != "debug on (2 queued)" {
		t.Fatalf("line = %q", got)
	}
	if b.advance(now.Add(50 * time.Millisecond)) {
		t.Fatalf("advanced before the interval")
	}
	if !b.advance(now.Add(100 * time.Millisecond)) {
		t.Fatalf("did not advance after the interval")
	}
	if got := b.line(); got != "a (1 queued)" {
		t.Fatalf("line = %q", got)
	}
	b.advance(now.Add(250 * time.Millisecond))
	if got := b.line(); got != "b" || b.pending() {
		t.Fatalf("line = %q pending=%v", got, b.pending())
	}
	if b.advance(now.Add(time.Second)) {
		t.Fatalf("empty queue should not advance")
	}
}

func TestDebugBarBounded(t *testing.T) {
	b := newDebugBar(0)
	for i := 0; i < debugQueueLimit+10; i++ {
		b.push("x")
	}
	if len(b.queue) != debugQueueLimit {
		t.Fatalf("queue = %d, want %d", len(b.queue), debugQueueLimit)
	}
}
