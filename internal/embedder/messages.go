// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/embedder/messages.go
// Summary: Host-to-engine commands and engine-to-host events.

package embedder

import (
	"fmt"
	"net/url"
)

// BrowsingContextID names the single top-level browsing context.
type BrowsingContextID string

// Command is a host-originated instruction delivered through Engine.Pump.
type Command interface {
	command()
}

// OpenWebView loads URL in the given top-level context.
type OpenWebView struct {
	Context BrowsingContextID
	URL     *url.URL
}

// WindowResized tells the engine to re-query window coordinates.
type WindowResized struct{}

// Reload reloads the current document of Context.
type Reload struct {
	Context BrowsingContextID
}

// Stop aborts any load in progress in Context.
type Stop struct {
	Context BrowsingContextID
}

// Quit starts engine shutdown. The engine answers with ShutdownComplete.
type Quit struct{}

func (OpenWebView) command()   {}
func (WindowResized) command() {}
func (Reload) command()        {}
func (Stop) command()          {}
func (Quit) command()          {}

// Event is an engine-originated message. Hosts must ignore kinds they do
// not recognise.
type Event interface {
	Kind() string
}

// Envelope pairs an event with the context that raised it. Context is empty
// for engine-wide events.
type Envelope struct {
	Context BrowsingContextID
	Event   Event
}

func (e Envelope) String() string {
	if e.Context == "" {
		return describe(e.Event)
	}
	return fmt.Sprintf("%s %s", shortID(e.Context), describe(e.Event))
}

func shortID(id BrowsingContextID) string {
	s := string(id)
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

func describe(ev Event) string {
	if s, ok := ev.(fmt.Stringer); ok {
		return s.String()
	}
	if ev == nil {
		return "<nil>"
	}
	return ev.Kind()
}

type (
	LoadStarted  struct{}
	LoadComplete struct{}

	TitleChanged struct{ Title string }
	URLChanged   struct{ URL string }

	HistoryChanged struct {
		CanGoBack    bool
		CanGoForward bool
	}

	// ShutdownComplete confirms the engine has stopped after Quit.
	ShutdownComplete struct{}

	Panic struct {
		Reason    string
		Backtrace string
	}

	IMEShow struct {
		Type      InputMethodType
		Text      string
		Cursor    int
		Multiline bool
		Bounds    Rect
	}
	IMEHide struct{}

	SetClipboard struct{ Contents string }

	MediaSessionMetadata struct {
		Title, Artist, Album string
	}
	MediaSessionPlaybackChanged struct{ State MediaSessionPlaybackState }
	MediaSessionPosition        struct {
		Duration, Position, PlaybackRate float64
	}

	DevtoolsStarted struct {
		Port  int
		Token string
		Err   error
	}

	ContextMenu struct {
		Title string
		Items []string
	}
)

// PromptKind selects the host callback used for a Prompt.
type PromptKind int

const (
	PromptKindAlert PromptKind = iota
	PromptKindYesNo
	PromptKindOkCancel
	PromptKindInput
)

// Prompt asks the host a modal question. Respond is called exactly once by
// Dispatch with the host's answer; it must not block.
type Prompt struct {
	PromptKind PromptKind
	Message    string
	Default    string
	Trusted    bool
	Respond    func(result PromptResult, text string)
}

// AllowNavigation asks whether the engine may navigate to URL.
type AllowNavigation struct {
	URL     string
	Respond func(allow bool)
}

// GetClipboard asks the host for clipboard contents.
type GetClipboard struct {
	Respond func(contents string, ok bool)
}

func (LoadStarted) Kind() string                 { return "LoadStarted" }
func (LoadComplete) Kind() string                { return "LoadComplete" }
func (TitleChanged) Kind() string                { return "TitleChanged" }
func (URLChanged) Kind() string                  { return "URLChanged" }
func (HistoryChanged) Kind() string              { return "HistoryChanged" }
func (ShutdownComplete) Kind() string            { return "Shutdown" }
func (Panic) Kind() string                       { return "Panic" }
func (IMEShow) Kind() string                     { return "ShowIME" }
func (IMEHide) Kind() string                     { return "HideIME" }
func (SetClipboard) Kind() string                { return "SetClipboardContents" }
func (GetClipboard) Kind() string                { return "GetClipboardContents" }
func (MediaSessionMetadata) Kind() string        { return "MediaSessionMetadata" }
func (MediaSessionPlaybackChanged) Kind() string { return "MediaSessionPlaybackStateChange" }
func (MediaSessionPosition) Kind() string        { return "MediaSessionSetPositionState" }
func (DevtoolsStarted) Kind() string             { return "OnDevtoolsStarted" }
func (ContextMenu) Kind() string                 { return "ShowContextMenu" }
func (Prompt) Kind() string                      { return "Prompt" }
func (AllowNavigation) Kind() string             { return "AllowNavigationRequest" }

func (e TitleChanged) String() string { return fmt.Sprintf("TitleChanged(%q)", e.Title) }
func (e URLChanged) String() string   { return fmt.Sprintf("URLChanged(%s)", e.URL) }
func (e Panic) String() string        { return fmt.Sprintf("Panic(%s)", e.Reason) }
func (e HistoryChanged) String() string {
	return fmt.Sprintf("HistoryChanged(back=%t, forward=%t)", e.CanGoBack, e.CanGoForward)
}
func (e Prompt) String() string          { return fmt.Sprintf("Prompt(%q)", e.Message) }
func (e AllowNavigation) String() string { return fmt.Sprintf("AllowNavigationRequest(%s)", e.URL) }
