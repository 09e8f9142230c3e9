// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/browser/machine.go
// Summary: Two-mode keyboard state machine that turns keys into engine commands.
// Usage: The run loop feeds every tcell key event to HandleKey.
// Notes: HandleKey is synchronous and returns at most one command.

package browserruntime

import (
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/cuervo/internal/embedder"
)

// Mode is the UI state.
type Mode int

const (
	ModeBase Mode = iota
	ModeURLInput
)

func (m Mode) String() string {
	if m == ModeURLInput {
		return "UrlInput"
	}
	return "Base"
}

// Outcome is the result of feeding one key to the machine.
type Outcome struct {
	Command embedder.Command
	Exit    bool
}

// Machine holds the UI mode and the goto buffer.
type Machine struct {
	mode          Mode
	context       embedder.BrowsingContextID
	defaultScheme string

	input    *URLInput
	inputErr error
	debug    bool
}

// NewMachine starts in Base mode. defaultScheme seeds the goto buffer.
func NewMachine(id embedder.BrowsingContextID, defaultScheme string) *Machine {
	return &Machine{
		context:       id,
		defaultScheme: defaultScheme,
		input:         NewURLInput(""),
	}
}

func (m *Machine) Mode() Mode { return m.mode }

// Input is the goto editor. Its contents are meaningful only in ModeURLInput.
func (m *Machine) Input() *URLInput { return m.input }

// InputError is the last parse failure, cleared by any edit.
func (m *Machine) InputError() error { return m.inputErr }

// Debug reports whether the debug event bar is shown.
func (m *Machine) Debug() bool { return m.debug }

// HandleEvent routes key events to HandleKey. Everything else leaves the
// state untouched.
func (m *Machine) HandleEvent(ev tcell.Event) Outcome {
	if key, ok := ev.(*tcell.EventKey); ok {
		return m.HandleKey(key)
	}
	return Outcome{}
}

func (m *Machine) HandleKey(ev *tcell.EventKey) Outcome {
	if ev == nil {
		return Outcome{}
	}
	if m.mode == ModeURLInput {
		return m.handleInput(ev)
	}
	return m.handleBase(ev)
}

func (m *Machine) handleBase(ev *tcell.EventKey) Outcome {
	switch ctrlLetter(ev) {
	case 'p':
		m.debug = !m.debug
		return Outcome{}
	case 'r':
		return Outcome{Command: embedder.Reload{Context: m.context}}
	case 's':
		return Outcome{Command: embedder.Stop{Context: m.context}}
	}
	if ev.Key() != tcell.KeyRune || ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
		return Outcome{}
	}
	switch ev.Rune() {
	case 'q':
		return Outcome{Exit: true}
	case 'g':
		m.mode = ModeURLInput
		m.input.Set(m.defaultScheme)
		m.inputErr = nil
	}
	return Outcome{}
}

func (m *Machine) handleInput(ev *tcell.EventKey) Outcome {
	switch ev.Key() {
	case tcell.KeyEnter:
		u, err := embedder.ParseURL(m.input.Text())
		if err != nil {
			log.Printf("Input: Rejected address %q: %v", m.input.Text(), err)
			m.inputErr = err
			return Outcome{}
		}
		m.leaveInput()
		return Outcome{Command: embedder.OpenWebView{Context: m.context, URL: u}}
	case tcell.KeyEsc:
		m.leaveInput()
		return Outcome{}
	}
	switch ctrlLetter(ev) {
	case 'c':
		m.leaveInput()
		return Outcome{}
	case 'q':
		return Outcome{Exit: true}
	}
	if _, edited := m.input.HandleKey(ev); edited {
		m.inputErr = nil
	}
	return Outcome{}
}

func (m *Machine) leaveInput() {
	m.mode = ModeBase
	m.input.Set("")
	m.inputErr = nil
}
