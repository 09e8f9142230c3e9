// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/embedder/host.go
// Summary: Host callback contract raised by the engine glue layer.
// Usage: Embed DefaultHost and override only the notifications a host acts on.

package embedder

// PromptResult is the answer to a yes/no or ok/cancel prompt.
type PromptResult int

const (
	// PromptDismissed is the safe answer when a prompt is not shown.
	PromptDismissed PromptResult = iota
	PromptPrimary
	PromptSecondary
)

func (r PromptResult) String() string {
	switch r {
	case PromptPrimary:
		return "primary"
	case PromptSecondary:
		return "secondary"
	default:
		return "dismissed"
	}
}

// InputMethodType describes the focused text field for IME purposes.
type InputMethodType string

// MediaSessionPlaybackState mirrors the media session API states.
type MediaSessionPlaybackState int

const (
	MediaSessionNone MediaSessionPlaybackState = iota
	MediaSessionPlaying
	MediaSessionPaused
)

// HostCallbacks receives asynchronous notifications from the engine.
// Implementations must return promptly; none of these may block the engine.
type HostCallbacks interface {
	PromptAlert(msg string, trusted bool)
	PromptYesNo(msg string, trusted bool) PromptResult
	PromptOkCancel(msg string, trusted bool) PromptResult
	PromptInput(msg, def string, trusted bool) (string, bool)
	ShowContextMenu(title string, items []string)

	OnLoadStarted()
	OnLoadEnded()
	OnTitleChanged(title string)
	OnAllowNavigation(url string) bool
	OnURLChanged(url string)
	OnHistoryChanged(canGoBack, canGoForward bool)
	// OnAnimatingChanged reports animation state. While animating the host
	// should pump on a frame timer instead of waiting for a wake.
	OnAnimatingChanged(animating bool)
	OnShutdownComplete()

	OnIMEShow(kind InputMethodType, text string, cursor int, multiline bool, bounds Rect)
	OnIMEHide()
	GetClipboardContents() (string, bool)
	SetClipboardContents(contents string)

	OnMediaSessionMetadata(title, artist, album string)
	OnMediaSessionPlaybackStateChange(state MediaSessionPlaybackState)
	OnMediaSessionSetPositionState(duration, position, playbackRate float64)

	OnDevtoolsStarted(port int, token string, err error)
	OnPanic(reason string, backtrace string)
}

// DefaultHost implements HostCallbacks with no-op notifications and safe
// answers: navigation is allowed, prompts are dismissed.
type DefaultHost struct{}

var _ HostCallbacks = DefaultHost{}

func (DefaultHost) PromptAlert(string, bool) {}

func (DefaultHost) PromptYesNo(string, bool) PromptResult { return PromptDismissed }

func (DefaultHost) PromptOkCancel(string, bool) PromptResult { return PromptDismissed }

func (DefaultHost) PromptInput(string, string, bool) (string, bool) { return "", false }

func (DefaultHost) ShowContextMenu(string, []string) {}

func (DefaultHost) OnLoadStarted() {}

func (DefaultHost) OnLoadEnded() {}

func (DefaultHost) OnTitleChanged(string) {}

func (DefaultHost) OnAllowNavigation(string) bool { return true }

func (DefaultHost) OnURLChanged(string) {}

func (DefaultHost) OnHistoryChanged(bool, bool) {}

func (DefaultHost) OnAnimatingChanged(bool) {}

func (DefaultHost) OnShutdownComplete() {}

func (DefaultHost) OnIMEShow(InputMethodType, string, int, bool, Rect) {}

func (DefaultHost) OnIMEHide() {}

func (DefaultHost) GetClipboardContents() (string, bool) { return "", false }

func (DefaultHost) SetClipboardContents(string) {}

func (DefaultHost) OnMediaSessionMetadata(string, string, string) {}

func (DefaultHost) OnMediaSessionPlaybackStateChange(MediaSessionPlaybackState) {}

func (DefaultHost) OnMediaSessionSetPositionState(float64, float64, float64) {}

func (DefaultHost) OnDevtoolsStarted(int, string, error) {}

func (DefaultHost) OnPanic(string, string) {}
