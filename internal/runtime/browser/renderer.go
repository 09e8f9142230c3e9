// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/browser/renderer.go
// Summary: Draws the browser chrome onto a tcell screen.
// Usage: Called once per tick from Run; a pure projection of the view.

package browserruntime

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/cuervo/internal/catalog"
)

var spinnerFrames = []rune{'|', '/', '-', '\\'}

// view is everything render needs for one frame.
type view struct {
	bundle    *catalog.Bundle
	machine   *Machine
	status    string
	statusErr bool
	debug     string
	animating bool
	frame     int
}

var (
	styleBase   = tcell.StyleDefault
	styleStatus = tcell.StyleDefault.Reverse(true)
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHelp   = tcell.StyleDefault.Dim(true)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleInput  = tcell.StyleDefault.Underline(true)
)

func render(screen tcell.Screen, v view) {
	width, height := screen.Size()
	screen.SetStyle(styleBase)
	screen.Clear()
	screen.HideCursor()
	if width <= 0 || height <= 0 {
		screen.Show()
		return
	}

	for i, line := range strings.Split(v.bundle.Text(catalog.KeyWelcome), "\n") {
		if 1+i >= height-2 {
			break
		}
		drawText(screen, 2, 1+i, width-4, styleBase, line)
	}

	if height >= 2 {
		status := v.status
		if v.animating {
			status = string(spinnerFrames[v.frame%len(spinnerFrames)]) + " " + status
		}
		style := styleStatus
		if v.statusErr {
			style = styleError.Reverse(true)
		}
		fillRow(screen, height-2, width, style)
		drawText(screen, 0, height-2, width, style, status)
	}

	bottom := v.bundle.Text(catalog.KeyHelpBase)
	if v.machine.Mode() == ModeURLInput {
		bottom = v.bundle.Text(catalog.KeyHelpInput)
	}
	bottomStyle := styleHelp
	if v.machine.Debug() {
		bottom = v.debug
		bottomStyle = styleBase
	}
	drawText(screen, 0, height-1, width, bottomStyle, bottom)

	if v.machine.Mode() == ModeURLInput {
		renderPopup(screen, v, width, height)
	}
	screen.Show()
}

// popupWidth is the goto box width for a screen width columns wide.
func popupWidth(width int) int {
	boxW := width - 4
	if boxW > 72 {
		boxW = 72
	}
	if boxW < 8 {
		boxW = width
	}
	return boxW
}

// popupInputWidth is the editable width inside the goto box.
func popupInputWidth(width int) int { return popupWidth(width) - 2 }

func renderPopup(screen tcell.Screen, v view, width, height int) {
	boxW := popupWidth(width)
	boxH := 3
	errText := ""
	if err := v.machine.InputError(); err != nil {
		errText = v.bundle.Format(catalog.KeyURLInvalid, catalog.Args{"error": err.Error()})
		boxH = 4
	}
	x := (width - boxW) / 2
	y := (height - boxH) / 2
	if y < 0 {
		y = 0
	}

	drawBox(screen, x, y, boxW, boxH, " "+v.bundle.Text(catalog.KeyGoto)+" ")

	innerW := popupInputWidth(width)
	text, caret := v.machine.Input().View(innerW)
	for col := 0; col < innerW; col++ {
		screen.SetContent(x+1+col, y+1, ' ', nil, styleInput)
	}
	drawText(screen, x+1, y+1, innerW, styleInput, text)
	screen.ShowCursor(x+1+caret, y+1)

	if errText != "" {
		drawText(screen, x+1, y+2, innerW, styleError, errText)
	}
}

func drawBox(screen tcell.Screen, x, y, w, h int, title string) {
	if w < 2 || h < 2 {
		return
	}
	for col := x; col < x+w; col++ {
		for row := y; row < y+h; row++ {
			screen.SetContent(col, row, ' ', nil, styleBase)
		}
	}
	for col := x + 1; col < x+w-1; col++ {
		screen.SetContent(col, y, tcell.RuneHLine, nil, styleBorder)
		screen.SetContent(col, y+h-1, tcell.RuneHLine, nil, styleBorder)
	}
	for row := y + 1; row < y+h-1; row++ {
		screen.SetContent(x, row, tcell.RuneVLine, nil, styleBorder)
		screen.SetContent(x+w-1, row, tcell.RuneVLine, nil, styleBorder)
	}
	screen.SetContent(x, y, tcell.RuneULCorner, nil, styleBorder)
	screen.SetContent(x+w-1, y, tcell.RuneURCorner, nil, styleBorder)
	screen.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, styleBorder)
	screen.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, styleBorder)
	drawText(screen, x+2, y, w-4, styleBorder.Bold(true), title)
}

func fillRow(screen tcell.Screen, y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawText writes s from (x, y) and clips at maxW columns.
func drawText(screen tcell.Screen, x, y, maxW int, style tcell.Style, s string) int {
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxW {
			break
		}
		screen.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}
