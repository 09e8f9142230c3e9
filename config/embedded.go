// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Loads and caches parsed defaults from the embedded JSON file.
// The embedded JSON in defaults/ is the single source of truth.

package config

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/framegrace/cuervo/defaults"
)

var (
	embeddedSystemOnce sync.Once
	embeddedSystem     Config
	embeddedSystemErr  error
)

// embeddedSystemDefaults returns the parsed system defaults from embedded JSON.
// The result is cached after the first call.
func embeddedSystemDefaults() (Config, error) {
	embeddedSystemOnce.Do(func() {
		var cfg Config
		if err := json.Unmarshal(defaults.SystemConfig(), &cfg); err != nil {
			embeddedSystemErr = err
			return
		}
		embeddedSystem = cfg
	})
	return embeddedSystem, embeddedSystemErr
}

// defaultSystemConfig returns a copy of the embedded system defaults, or an
// empty config if they cannot be parsed.
func defaultSystemConfig() Config {
	cfg, err := embeddedSystemDefaults()
	if err != nil {
		log.Printf("Config: Embedded defaults are invalid: %v", err)
		return make(Config)
	}
	return Clone(cfg)
}
