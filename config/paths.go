// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for cuervo configuration.

package config

import (
	"os"
	"path/filepath"
)

// Root returns the cuervo configuration directory.
func Root() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cuervo"), nil
}

func systemConfigPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, systemConfigName), nil
}
