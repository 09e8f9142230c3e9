// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/browser/urlinput.go
// Summary: Single-line address editor used by the goto popup.

package browserruntime

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// URLInput is a single-line rune buffer with a caret.
type URLInput struct {
	buf    []rune
	caret  int
	offset int // first visible rune
}

// NewURLInput returns an editor holding seed with the caret at the end.
func NewURLInput(seed string) *URLInput {
	in := &URLInput{}
	in.Set(seed)
	return in
}

// Set replaces the buffer and moves the caret to the end.
func (in *URLInput) Set(s string) {
	in.buf = []rune(s)
	in.caret = len(in.buf)
	in.offset = 0
}

func (in *URLInput) Text() string { return string(in.buf) }

// Caret returns the caret position in runes.
func (in *URLInput) Caret() int { return in.caret }

// HandleKey applies an editing key. It reports whether the key was consumed
// and whether the text changed.
func (in *URLInput) HandleKey(ev *tcell.EventKey) (handled, edited bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		in.move(in.caret - 1)
		return true, false
	case tcell.KeyRight:
		in.move(in.caret + 1)
		return true, false
	case tcell.KeyHome:
		in.move(0)
		return true, false
	case tcell.KeyEnd:
		in.move(len(in.buf))
		return true, false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if in.caret == 0 {
			return true, false
		}
		in.buf = append(in.buf[:in.caret-1], in.buf[in.caret:]...)
		in.caret--
		return true, true
	case tcell.KeyDelete:
		if in.caret >= len(in.buf) {
			return true, false
		}
		in.buf = append(in.buf[:in.caret], in.buf[in.caret+1:]...)
		return true, true
	}

	switch ctrlLetter(ev) {
	case 'a':
		in.move(0)
		return true, false
	case 'e':
		in.move(len(in.buf))
		return true, false
	case 'u':
		if in.caret == 0 {
			return true, false
		}
		in.buf = append([]rune(nil), in.buf[in.caret:]...)
		in.caret = 0
		return true, true
	case 'k':
		if in.caret == len(in.buf) {
			return true, false
		}
		in.buf = in.buf[:in.caret]
		return true, true
	case 'w':
		start := in.wordStart()
		if start == in.caret {
			return true, false
		}
		in.buf = append(in.buf[:start], in.buf[in.caret:]...)
		in.caret = start
		return true, true
	case 0:
	default:
		return false, false
	}

	if ev.Key() != tcell.KeyRune || ev.Modifiers()&(tcell.ModAlt|tcell.ModMeta) != 0 {
		return false, false
	}
	r := ev.Rune()
	if !unicode.IsPrint(r) {
		return false, false
	}
	in.buf = append(in.buf[:in.caret], append([]rune{r}, in.buf[in.caret:]...)...)
	in.caret++
	return true, true
}

func (in *URLInput) move(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(in.buf) {
		pos = len(in.buf)
	}
	in.caret = pos
}

// wordStart finds where Ctrl+W stops: trailing separators are skipped, then
// everything back to the previous separator is removed.
func (in *URLInput) wordStart() int {
	i := in.caret
	for i > 0 && isURLSeparator(in.buf[i-1]) {
		i--
	}
	for i > 0 && !isURLSeparator(in.buf[i-1]) {
		i--
	}
	return i
}

func isURLSeparator(r rune) bool {
	switch r {
	case '/', '.', ':', '?', '&', '=', '#', ' ':
		return true
	}
	return false
}

// Scroll moves the horizontal offset so the caret stays visible in width
// columns. The offset only moves when the caret leaves the window.
func (in *URLInput) Scroll(width int) {
	in.offset = in.scrolled(width)
}

func (in *URLInput) scrolled(width int) int {
	off := in.offset
	if off > in.caret {
		off = in.caret
	}
	// Keep one column free for the caret at the end of the text.
	for off < in.caret && runewidth.StringWidth(string(in.buf[off:in.caret]))+1 > width {
		off++
	}
	return off
}

// View returns the slice of text that fits in width columns and the caret
// column within it. It does not modify the editor.
func (in *URLInput) View(width int) (string, int) {
	if width <= 0 {
		return "", 0
	}
	off := in.scrolled(width)
	col := runewidth.StringWidth(string(in.buf[off:in.caret]))

	visible := make([]rune, 0, width)
	used := 0
	for _, r := range in.buf[off:] {
		w := runewidth.RuneWidth(r)
		if used+w > width {
			break
		}
		visible = append(visible, r)
		used += w
	}
	return string(visible), col
}

// ctrlLetter returns the lowercase letter of a Ctrl+letter chord, or 0.
// Terminals report these either as legacy control keys or as a rune with
// the Ctrl modifier.
func ctrlLetter(ev *tcell.EventKey) rune {
	k := ev.Key()
	switch k {
	case tcell.KeyBackspace, tcell.KeyTab, tcell.KeyEnter:
		return 0
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return 'a' + rune(k-tcell.KeyCtrlA)
	}
	if k == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 {
		return unicode.ToLower(ev.Rune())
	}
	return 0
}
