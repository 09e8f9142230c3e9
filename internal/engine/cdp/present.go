// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cdp

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/chromedp/chromedp"

	"github.com/framegrace/cuervo/internal/embedder"
)

// present captures the viewport after a load, composites it into the
// window surface and, for the PNG target, writes it to disk.
func (e *Engine) present(ctx context.Context) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if e.target.Kind == embedder.TargetPNGFile && e.target.Path != "" {
		if err := os.WriteFile(e.target.Path, buf, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", e.target.Path, err)
		}
	}
	surface := e.window.Surface()
	if surface == nil {
		return nil
	}
	frame, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("decode capture: %w", err)
	}
	surface.Draw(func(dst *image.RGBA) {
		composite(dst, frame)
	})
	return nil
}

// composite copies the top-left of src into dst without scaling.
func composite(dst *image.RGBA, src image.Image) {
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
}
