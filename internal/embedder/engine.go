// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/embedder/engine.go
// Summary: Engine runtime contract and the embedder capabilities passed at construction.

package embedder

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Engine is the browser engine as seen by the host. Calls are made from a
// single goroutine in the order Pump, Events; Deinit is called exactly once
// after ShutdownComplete has been observed.
type Engine interface {
	// Pump delivers cmds (possibly none) and runs one engine cycle.
	Pump(cmds ...Command)
	// Events returns and clears the ready event queue.
	Events() []Envelope
	Deinit()
}

// EmbedderMethods is implemented by the host and consumed once at engine
// construction.
type EmbedderMethods interface {
	CreateEventLoopWaker() EventLoopWaker
	RegisterXR(registry *XRRegistry)
	ProtocolHandlers() *ProtocolRegistry
	VersionString() (string, bool)
}

// CompositeTargetKind selects where the engine composites frames.
type CompositeTargetKind int

const (
	TargetWindow CompositeTargetKind = iota
	TargetPNGFile
)

// CompositeTarget is the composite destination handed to the engine.
type CompositeTarget struct {
	Kind CompositeTargetKind
	Path string
}

// WindowTarget composites into the window surface.
func WindowTarget() CompositeTarget { return CompositeTarget{Kind: TargetWindow} }

// PNGFileTarget additionally writes a screenshot to path after each load.
func PNGFileTarget(path string) CompositeTarget {
	return CompositeTarget{Kind: TargetPNGFile, Path: path}
}

// Options are the inputs to engine construction.
type Options struct {
	Methods EmbedderMethods
	Window  WindowMethods
	// UserAgent overrides the engine default when non-empty.
	UserAgent string
	Target    CompositeTarget
}

// Constructor builds an engine and its initial top-level browsing context.
type Constructor func(ctx context.Context, opts Options) (Engine, BrowsingContextID, error)

// XRRegistry collects XR devices offered by the embedder. Terminal hosts
// register none.
type XRRegistry struct {
	devices []string
}

func (r *XRRegistry) AddDevice(name string) { r.devices = append(r.devices, name) }

func (r *XRRegistry) Devices() []string { return append([]string(nil), r.devices...) }

// ProtocolHandler serves documents for a custom URL scheme.
type ProtocolHandler interface {
	Load(ctx context.Context, u *url.URL) (body []byte, contentType string, err error)
}

// ProtocolHandlerFunc adapts a function to ProtocolHandler.
type ProtocolHandlerFunc func(ctx context.Context, u *url.URL) ([]byte, string, error)

func (f ProtocolHandlerFunc) Load(ctx context.Context, u *url.URL) ([]byte, string, error) {
	return f(ctx, u)
}

// ProtocolRegistry maps lowercase schemes to handlers.
type ProtocolRegistry struct {
	mu       sync.RWMutex
	handlers map[string]ProtocolHandler
}

// NewProtocolRegistry returns an empty registry.
func NewProtocolRegistry() *ProtocolRegistry {
	return &ProtocolRegistry{handlers: make(map[string]ProtocolHandler)}
}

// Register adds a handler. Built-in network schemes cannot be overridden.
func (r *ProtocolRegistry) Register(scheme string, h ProtocolHandler) error {
	scheme = strings.ToLower(scheme)
	if _, special := specialSchemes[scheme]; special || scheme == "file" {
		return fmt.Errorf("protocol %q is handled by the engine", scheme)
	}
	if scheme == "" || h == nil {
		return fmt.Errorf("invalid protocol registration for %q", scheme)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[scheme]; exists {
		return fmt.Errorf("protocol %q already registered", scheme)
	}
	r.handlers[scheme] = h
	return nil
}

// Lookup returns the handler for scheme, if any.
func (r *ProtocolRegistry) Lookup(scheme string) (ProtocolHandler, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[strings.ToLower(scheme)]
	return h, ok
}

// Schemes lists registered schemes in sorted order.
func (r *ProtocolRegistry) Schemes() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for s := range r.handlers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
