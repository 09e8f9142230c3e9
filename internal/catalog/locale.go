// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when the environment names none.
const DefaultLocale = "en-US"

// Locale is a parsed language identifier such as "es-ES".
type Locale struct {
	Language string
	Region   string
}

func (l Locale) String() string {
	if l.Region == "" {
		return l.Language
	}
	return l.Language + "-" + l.Region
}

// ParseLocale accepts BCP 47 style ("es-ES") and POSIX style
// ("es_ES.UTF-8@euro") identifiers. "C" and "POSIX" map to DefaultLocale.
// Well-formed languages missing from the x/text registry are kept as written.
func ParseLocale(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		s = DefaultLocale
	}
	if s == "" {
		return Locale{}, errors.New("empty locale")
	}
	id := strings.ReplaceAll(s, "_", "-")
	tag, err := language.Parse(id)
	var unknown language.ValueError
	if err != nil && !errors.As(err, &unknown) {
		return Locale{}, fmt.Errorf("invalid locale %q: %w", s, err)
	}

	base, _ := tag.Base()
	loc := Locale{Language: base.String()}
	if loc.Language == "und" {
		primary := strings.ToLower(strings.SplitN(id, "-", 2)[0])
		if err == nil || !strings.EqualFold(unknown.Subtag(), primary) {
			return Locale{}, fmt.Errorf("invalid language in locale %q", s)
		}
		loc.Language = primary
	}
	if region, conf := tag.Region(); conf == language.Exact {
		loc.Region = region.String()
	}
	return loc, nil
}

// DetectLocale returns override when set, otherwise the first non-empty of
// LC_ALL, LC_MESSAGES and LANG, otherwise DefaultLocale.
func DetectLocale(override string) string {
	if override != "" {
		return override
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return DefaultLocale
}
