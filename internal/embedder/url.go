// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/embedder/url.go
// Summary: Parses user-entered addresses into absolute URLs the engine accepts.

package embedder

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL    = errors.New("empty URL")
	ErrRelativeURL = errors.New("relative URL without a base")
	ErrEmptyHost   = errors.New("empty host")
)

// specialSchemes require an authority with a non-empty host.
var specialSchemes = map[string]uint16{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
	"ftp":   21,
}

// ParseURL parses an address typed by the user. It accepts absolute URLs
// only; hosts of network schemes are IDNA-normalized and paths default to "/".
func ParseURL(input string) (*url.URL, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, ErrEmptyURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, err
	}
	if u.Scheme == "" {
		return nil, ErrRelativeURL
	}
	u.Scheme = strings.ToLower(u.Scheme)

	if _, special := specialSchemes[u.Scheme]; !special {
		return u, nil
	}
	if u.Opaque != "" {
		// "https:example.com" is read as "https://example.com".
		return ParseURL(u.Scheme + "://" + strings.TrimLeft(u.Opaque, "/") + suffix(u))
	}
	if err := normalizeHost(u); err != nil {
		return nil, err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

func suffix(u *url.URL) string {
	var b strings.Builder
	if u.RawQuery != "" || u.ForceQuery {
		b.WriteString("?" + u.RawQuery)
	}
	if u.Fragment != "" {
		b.WriteString("#" + u.EscapedFragment())
	}
	return b.String()
}

func normalizeHost(u *url.URL) error {
	hostname := u.Hostname()
	if hostname == "" {
		return ErrEmptyHost
	}
	port := u.Port()
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n > 65535 {
			return fmt.Errorf("invalid port %q", port)
		}
		if specialSchemes[u.Scheme] == uint16(n) {
			port = ""
		}
	}

	if strings.HasPrefix(u.Host, "[") {
		if ip := net.ParseIP(hostname); ip == nil {
			return fmt.Errorf("invalid IPv6 address %q", hostname)
		}
		hostname = "[" + hostname + "]"
	} else {
		ascii, err := idna.Lookup.ToASCII(hostname)
		if err != nil {
			return fmt.Errorf("invalid host %q: %w", hostname, err)
		}
		hostname = ascii
	}
	if port != "" {
		hostname += ":" + port
	}
	u.Host = hostname
	return nil
}
