// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the system configuration file.

package config

// Section names.
const (
	SectionEngine = "engine"
	SectionUI     = "ui"
	SectionWaker  = "waker"
	SectionTrace  = "trace"
)

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"locale": "",
	})
	cfg.RegisterDefaults(SectionEngine, Section{
		"exec_path":          "",
		"headless":           true,
		"user_agent":         "",
		"startup_timeout_ms": 30000,
		"screenshot_path":    "",
	})
	cfg.RegisterDefaults(SectionUI, Section{
		"default_scheme":     "https://",
		"hidpi_scale":        0.05,
		"framebuffer_width":  1,
		"framebuffer_height": 1,
		"animation_frame_ms": 16,
		"drain_poll_ms":      1,
		"debug_bar_ms":       100,
	})
	cfg.RegisterDefaults(SectionWaker, Section{
		"mode": "signal",
	})
	cfg.RegisterDefaults(SectionTrace, Section{
		"enabled":          false,
		"path":             "",
		"batch_size":       64,
		"batch_timeout_ms": 1000,
	})
}
