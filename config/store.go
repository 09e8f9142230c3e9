// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load and default-writing logic for the config store.

package config

import "log"

func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		log.Printf("Config: Failed to resolve system config path: %v", err)
		system = make(Config)
		applySystemDefaults(system)
		return err
	}

	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		log.Printf("Config: Failed to read system config %s: %v", path, readErr)
		cfg = make(Config)
	}

	if !exists || (readErr == nil && len(cfg) == 0) {
		cfg = defaultSystemConfig()
		if err := writeConfig(path, cfg); err != nil {
			log.Printf("Config: Failed to write default system config: %v", err)
			if readErr == nil {
				readErr = err
			}
		}
	}
	applySystemDefaults(cfg)

	system = cfg
	if readErr == nil && exists {
		log.Printf("Config: Loaded system config from %s", path)
	}
	return readErr
}
