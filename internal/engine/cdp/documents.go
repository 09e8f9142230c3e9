// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cdp

import (
	"fmt"
	"mime"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// documentHTML turns a protocol handler response into markup for
// SetDocumentContent. Non-HTML bodies are shown preformatted.
func documentHTML(body []byte, contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && (mediaType == "text/html" || mediaType == "application/xhtml+xml") {
		return string(body)
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><body><pre>")
	b.WriteString(html.EscapeString(string(body)))
	b.WriteString("</pre></body></html>")
	return b.String()
}

func errorDocument(u *url.URL, err error) []byte {
	return []byte(fmt.Sprintf(
		"<!DOCTYPE html><html><head><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>",
		html.EscapeString(u.String()),
		html.EscapeString(u.String()),
		html.EscapeString(err.Error()),
	))
}
