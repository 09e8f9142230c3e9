// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package embedder

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Version is the product version string. It is not localized.
const Version = "cuervo 0.1b"

// DefaultDesktopUserAgent is the base user agent when the engine does not
// report one.
const DefaultDesktopUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"

// UserAgent appends the product token to base, e.g.
// "<base> Cuervo 0.1b (like w3m)".
func UserAgent(base, version string) string {
	product := capitalize(version)
	if base == "" {
		return product + " (like w3m)"
	}
	return base + " " + product + " (like w3m)"
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[n:])
	return b.String()
}
