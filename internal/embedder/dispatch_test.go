// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package embedder

import "testing"

type unknownEvent struct{}

func (unknownEvent) Kind() string { return "SomethingNew" }

type recordingHost struct {
	DefaultHost
	titles []string
	loads  int
	ended  int
	alerts []string
	shut   bool
}

func (h *recordingHost) OnTitleChanged(title string) { h.titles = append(h.titles, title) }
func (h *recordingHost) OnLoadStarted()              { h.loads++ }
func (h *recordingHost) OnLoadEnded()                { h.ended++ }
func (h *recordingHost) PromptAlert(msg string, _ bool) {
	h.alerts = append(h.alerts, msg)
}
func (h *recordingHost) OnShutdownComplete() { h.shut = true }

func TestDispatchRoutesKnownEvents(t *testing.T) {
	h := &recordingHost{}
	events := []Event{
		LoadStarted{},
		TitleChanged{Title: "Example"},
		LoadComplete{},
		ShutdownComplete{},
	}
	for _, ev := range events {
		if !Dispatch(h, ev) {
			t.Fatalf("%s should be handled", ev.Kind())
		}
	}
	if h.loads != 1 || h.ended != 1 || !h.shut {
		t.Fatalf("unexpected host state: %+v", h)
	}
	if len(h.titles) != 1 || h.titles[0] != "Example" {
		t.Fatalf("titles = %v", h.titles)
	}
}

func TestDispatchIgnoresUnknownEvents(t *testing.T) {
	h := &recordingHost{}
	if Dispatch(h, unknownEvent{}) {
		t.Fatalf("unknown event should report unhandled")
	}
	if Dispatch(h, nil) {
		t.Fatalf("nil event should report unhandled")
	}
}

func TestDispatchDefaultsAnswerRequests(t *testing.T) {
	tests := []struct {
		name       string
		kind       PromptKind
		wantResult PromptResult
	}{
		{"yes/no dismissed", PromptKindYesNo, PromptDismissed},
		{"ok/cancel dismissed", PromptKindOkCancel, PromptDismissed},
		{"input dismissed", PromptKindInput, PromptDismissed},
		{"alert acknowledged", PromptKindAlert, PromptPrimary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answered := 0
			var got PromptResult
			Dispatch(DefaultHost{}, Prompt{
				PromptKind: tt.kind,
				Message:    "?",
				Respond: func(r PromptResult, _ string) {
					answered++
					got = r
				},
			})
			if answered != 1 {
				t.Fatalf("Respond called %d times", answered)
			}
			if got != tt.wantResult {
				t.Fatalf("result = %v, want %v", got, tt.wantResult)
			}
		})
	}

	allowed := false
	Dispatch(nil, AllowNavigation{URL: "https://example.com/", Respond: func(a bool) { allowed = a }})
	if !allowed {
		t.Fatalf("default host should allow navigation")
	}

	clipboardOK := true
	Dispatch(DefaultHost{}, GetClipboard{Respond: func(_ string, ok bool) { clipboardOK = ok }})
	if clipboardOK {
		t.Fatalf("default clipboard should be empty")
	}
}

func TestDispatchAlertReachesHost(t *testing.T) {
	h := &recordingHost{}
	Dispatch(h, Prompt{PromptKind: PromptKindAlert, Message: "hi"})
	if len(h.alerts) != 1 || h.alerts[0] != "hi" {
		t.Fatalf("alerts = %v", h.alerts)
	}
}

func TestEnvelopeString(t *testing.T) {
	env := Envelope{Context: "0123456789abcdef", Event: TitleChanged{Title: "x"}}
	if got := env.String(); got != `01234567 TitleChanged("x")` {
		t.Fatalf("String() = %q", got)
	}
	if got := (Envelope{Event: LoadComplete{}}).String(); got != "LoadComplete" {
		t.Fatalf("String() = %q", got)
	}
}

type mediaHost struct {
	DefaultHost
	states []MediaSessionPlaybackState
}

func (h *mediaHost) OnMediaSessionPlaybackStateChange(state MediaSessionPlaybackState) {
	h.states = append(h.states, state)
}

func TestDispatchMediaPlaybackChange(t *testing.T) {
	h := &mediaHost{}
	ev := MediaSessionPlaybackChanged{State: MediaSessionPlaying}
	if !Dispatch(h, ev) {
		t.Fatalf("playback change should be handled")
	}
	if len(h.states) != 1 || h.states[0] != MediaSessionPlaying {
		t.Fatalf("states = %v", h.states)
	}
	if ev.Kind() != "MediaSessionPlaybackStateChange" {
		t.Fatalf("kind = %q", ev.Kind())
	}
}
