// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/embedder/window.go
// Summary: Coordinate and animation adapter implementing the engine windowing contract.
// Usage: Constructed once at startup and handed to the engine constructor.
// Notes: Geometry is read by value; the engine never holds a live reference.

package embedder

import (
	"fmt"
	"image"
	"sync"
)

// WindowMethods is the windowing capability the engine consumes.
type WindowMethods interface {
	Coordinates() EmbedderCoordinates
	OnAnimatingChanged(animating bool)
	Surface() *Surface
}

// Surface is the shared render target. It is owned by the Window; engines
// borrow it for drawing through Draw.
type Surface struct {
	mu  sync.Mutex
	img *image.RGBA
}

// NewSurface allocates a render target of the given size.
func NewSurface(size Size) (*Surface, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("create surface: invalid size %s", size)
	}
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))}, nil
}

// Size reports the surface dimensions.
func (s *Surface) Size() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.img.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// Draw runs fn with exclusive access to the pixel buffer.
func (s *Surface) Draw(fn func(img *image.RGBA)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.img)
}

// Window adapts terminal geometry to the engine windowing contract.
type Window struct {
	host    HostCallbacks
	density float32
	surface *Surface

	mu     sync.RWMutex
	coords Coordinates
}

// NewWindow constructs the adapter. host receives animation notifications.
func NewWindow(host HostCallbacks, coords Coordinates, density float32, surface *Surface) *Window {
	if host == nil {
		host = DefaultHost{}
	}
	if density <= 0 {
		density = 1
	}
	return &Window{
		host:    host,
		density: density,
		surface: surface,
		coords:  coords,
	}
}

// Coordinates returns a snapshot of the current geometry.
func (w *Window) Coordinates() EmbedderCoordinates {
	w.mu.RLock()
	c := w.coords
	w.mu.RUnlock()
	return EmbedderCoordinates{
		Viewport:     c.Viewport,
		Framebuffer:  c.Framebuffer,
		Window:       c.Viewport.Size,
		WindowOrigin: Point{},
		Screen:       c.Viewport.Size,
		ScreenAvail:  c.Viewport.Size,
		HiDPIScale:   w.density,
	}
}

// OnAnimatingChanged forwards every transition to the host.
func (w *Window) OnAnimatingChanged(animating bool) {
	w.host.OnAnimatingChanged(animating)
}

// Surface returns the shared render target.
func (w *Window) Surface() *Surface { return w.surface }

// Resize replaces the viewport size. It reports whether anything changed.
func (w *Window) Resize(width, height int) bool {
	size := Size{Width: width, Height: height}.clamp()
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.coords.Viewport.Size == size {
		return false
	}
	w.coords.Viewport.Size = size
	return true
}
