// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/cuervo/paths.go
// Summary: Standard paths for cuervo configuration and runtime files.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/framegrace/cuervo/config"
)

// Paths holds standard file paths for cuervo.
type Paths struct {
	ConfigDir string // <UserConfigDir>/cuervo
	LogPath   string // <UserConfigDir>/cuervo/logs/cuervo.log
}

// GetPaths returns the standard paths for cuervo files.
func GetPaths() (*Paths, error) {
	root, err := config.Root()
	if err != nil {
		return nil, fmt.Errorf("get config directory: %w", err)
	}
	return &Paths{
		ConfigDir: root,
		LogPath:   filepath.Join(root, "logs", "cuervo.log"),
	}, nil
}

// EnsureConfigDir creates the configuration and log directories.
func (p *Paths) EnsureConfigDir() error {
	return os.MkdirAll(filepath.Dir(p.LogPath), 0o750)
}

// setupLogging sends the standard logger to the log file. The terminal
// belongs to the UI while cuervo runs.
func setupLogging(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return file, nil
}
