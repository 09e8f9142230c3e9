// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/catalog/catalog.go
// Summary: Localized display strings loaded from embedded TOML bundles.
// Usage: Load once at startup; a load or validation failure is fatal.

package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed bundles/*.toml
var bundles embed.FS

// Message keys used by the browser UI.
const (
	KeyWelcome       = "welcome"
	KeyGoto          = "goto"
	KeyHelpBase      = "help-base"
	KeyHelpInput     = "help-input"
	KeyStatusLoading = "status-loading"
	KeyStatusLoaded  = "status-loaded"
	KeyStatusStopped = "status-stopped"
	KeyURLInvalid    = "url-invalid"
	KeyAlert         = "alert"
	KeyEnginePanic   = "engine-panic"
	KeyDebugOn       = "debug-on"
	KeyQuitting      = "quitting"
)

// RequiredKeys lists every key the UI formats.
var RequiredKeys = []string{
	KeyWelcome, KeyGoto, KeyHelpBase, KeyHelpInput,
	KeyStatusLoading, KeyStatusLoaded, KeyStatusStopped,
	KeyURLInvalid, KeyAlert, KeyEnginePanic, KeyDebugOn, KeyQuitting,
}

// Args are named placeholder values for Format.
type Args map[string]string

// Bundle holds the messages of one language.
type Bundle struct {
	Locale   Locale
	messages map[string]string
}

// Load returns the bundle for the language of locale, falling back to
// English for languages without a bundle.
func Load(locale Locale) (*Bundle, error) {
	lang := locale.Language
	if !hasBundle(lang) {
		lang = "en"
	}
	data, err := bundles.ReadFile("bundles/" + lang + ".toml")
	if err != nil {
		return nil, fmt.Errorf("read %s bundle: %w", lang, err)
	}
	return Parse(locale, data)
}

// Parse decodes a TOML bundle. Every value must be a string.
func Parse(locale Locale, data []byte) (*Bundle, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s bundle: %w", locale, err)
	}
	messages := make(map[string]string, len(raw))
	for key, value := range raw {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("parse %s bundle: message %q is %T, want string", locale, key, value)
		}
		messages[key] = s
	}
	return &Bundle{Locale: locale, messages: messages}, nil
}

// Validate reports the keys missing from the bundle.
func (b *Bundle) Validate(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if _, ok := b.messages[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%s bundle is missing %s", b.Locale, strings.Join(missing, ", "))
	}
	return nil
}

// Format returns the message for key with {name} placeholders replaced.
// Unknown keys render as the key itself; Validate catches them at startup.
func (b *Bundle) Format(key string, args Args) string {
	msg, ok := b.messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for name, value := range args {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Text is Format without arguments.
func (b *Bundle) Text(key string) string { return b.Format(key, nil) }

func hasBundle(lang string) bool {
	if lang == "" {
		return false
	}
	_, err := bundles.Open("bundles/" + lang + ".toml")
	return err == nil
}
