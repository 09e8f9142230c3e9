// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/settings.go
// Summary: Typed view of the system config consumed by cmd/cuervo.

package config

import (
	"path/filepath"
	"time"
)

// Waker modes.
const (
	WakerSignal  = "signal"
	WakerPolling = "polling"
)

// Settings is the resolved configuration for one run.
type Settings struct {
	Locale string
	Engine EngineSettings
	UI     UISettings
	Waker  string
	Trace  TraceSettings
}

type EngineSettings struct {
	ExecPath       string
	Headless       bool
	UserAgent      string
	StartupTimeout time.Duration
	ScreenshotPath string
}

type UISettings struct {
	DefaultScheme     string
	HiDPIScale        float32
	FramebufferWidth  int
	FramebufferHeight int
	AnimationFrame    time.Duration
	DrainPoll         time.Duration
	DebugBarInterval  time.Duration
}

type TraceSettings struct {
	Enabled      bool
	Path         string
	BatchSize    int
	BatchTimeout time.Duration
}

// Resolve reads typed settings from cfg, filling gaps with defaults.
func Resolve(cfg Config) Settings {
	if cfg == nil {
		cfg = make(Config)
	}
	s := Settings{
		Locale: cfg.GetString("", "locale", ""),
		Engine: EngineSettings{
			ExecPath:       cfg.GetString(SectionEngine, "exec_path", ""),
			Headless:       cfg.GetBool(SectionEngine, "headless", true),
			UserAgent:      cfg.GetString(SectionEngine, "user_agent", ""),
			StartupTimeout: cfg.GetMillis(SectionEngine, "startup_timeout_ms", 30*time.Second),
			ScreenshotPath: cfg.GetString(SectionEngine, "screenshot_path", ""),
		},
		UI: UISettings{
			DefaultScheme:     cfg.GetString(SectionUI, "default_scheme", "https://"),
			HiDPIScale:        float32(cfg.GetFloat(SectionUI, "hidpi_scale", 0.05)),
			FramebufferWidth:  cfg.GetInt(SectionUI, "framebuffer_width", 1),
			FramebufferHeight: cfg.GetInt(SectionUI, "framebuffer_height", 1),
			AnimationFrame:    cfg.GetMillis(SectionUI, "animation_frame_ms", 16*time.Millisecond),
			DrainPoll:         cfg.GetMillis(SectionUI, "drain_poll_ms", time.Millisecond),
			DebugBarInterval:  cfg.GetMillis(SectionUI, "debug_bar_ms", 100*time.Millisecond),
		},
		Waker: cfg.GetString(SectionWaker, "mode", WakerSignal),
		Trace: TraceSettings{
			Enabled:      cfg.GetBool(SectionTrace, "enabled", false),
			Path:         cfg.GetString(SectionTrace, "path", ""),
			BatchSize:    cfg.GetInt(SectionTrace, "batch_size", 64),
			BatchTimeout: cfg.GetMillis(SectionTrace, "batch_timeout_ms", time.Second),
		},
	}
	if s.Waker != WakerPolling {
		s.Waker = WakerSignal
	}
	if s.UI.HiDPIScale <= 0 {
		s.UI.HiDPIScale = 0.05
	}
	if s.UI.AnimationFrame <= 0 {
		s.UI.AnimationFrame = 16 * time.Millisecond
	}
	return s
}

// TracePath returns the journal location, defaulting to trace.db in the
// config root.
func (s Settings) TracePath() (string, error) {
	if s.Trace.Path != "" {
		return s.Trace.Path, nil
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "trace.db"), nil
}
