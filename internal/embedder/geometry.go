// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/embedder/geometry.go
// Summary: Device-pixel geometry shared between the window adapter and the engine.

package embedder

import "fmt"

// Point is a device-pixel position.
type Point struct {
	X, Y int
}

// Size is a device-pixel extent.
type Size struct {
	Width, Height int
}

// Rect is an origin plus a size.
type Rect struct {
	Origin Point
	Size   Size
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// clamp returns s with both dimensions forced to at least 1.
func (s Size) clamp() Size {
	if s.Width < 1 {
		s.Width = 1
	}
	if s.Height < 1 {
		s.Height = 1
	}
	return s
}

// Coordinates is the mutable geometry owned by a Window.
// The engine renders into Framebuffer; Viewport is the visible bound.
type Coordinates struct {
	Viewport    Rect
	Framebuffer Size
}

// NewCoordinates builds coordinates with sizes clamped to 1x1.
func NewCoordinates(x, y, width, height, fbWidth, fbHeight int) Coordinates {
	return Coordinates{
		Viewport: Rect{
			Origin: Point{X: x, Y: y},
			Size:   Size{Width: width, Height: height}.clamp(),
		},
		Framebuffer: Size{Width: fbWidth, Height: fbHeight}.clamp(),
	}
}

// EmbedderCoordinates is the snapshot handed to the engine on every query.
type EmbedderCoordinates struct {
	Viewport     Rect
	Framebuffer  Size
	Window       Size
	WindowOrigin Point
	Screen       Size
	ScreenAvail  Size
	HiDPIScale   float32
}
