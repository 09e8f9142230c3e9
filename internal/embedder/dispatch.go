// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/embedder/dispatch.go
// Summary: Routes engine events to host callbacks.

package embedder

// Dispatch delivers ev to the matching host callback. Events with a reply
// channel are always answered, using host defaults if nothing better exists.
// It reports false for event kinds it does not know; those are ignored.
func Dispatch(host HostCallbacks, ev Event) bool {
	if host == nil {
		host = DefaultHost{}
	}
	switch e := ev.(type) {
	case LoadStarted:
		host.OnLoadStarted()
	case LoadComplete:
		host.OnLoadEnded()
	case TitleChanged:
		host.OnTitleChanged(e.Title)
	case URLChanged:
		host.OnURLChanged(e.URL)
	case HistoryChanged:
		host.OnHistoryChanged(e.CanGoBack, e.CanGoForward)
	case ShutdownComplete:
		host.OnShutdownComplete()
	case Panic:
		host.OnPanic(e.Reason, e.Backtrace)
	case IMEShow:
		host.OnIMEShow(e.Type, e.Text, e.Cursor, e.Multiline, e.Bounds)
	case IMEHide:
		host.OnIMEHide()
	case SetClipboard:
		host.SetClipboardContents(e.Contents)
	case GetClipboard:
		contents, ok := host.GetClipboardContents()
		if e.Respond != nil {
			e.Respond(contents, ok)
		}
	case MediaSessionMetadata:
		host.OnMediaSessionMetadata(e.Title, e.Artist, e.Album)
	case MediaSessionPlaybackChanged:
		host.OnMediaSessionPlaybackStateChange(e.State)
	case MediaSessionPosition:
		host.OnMediaSessionSetPositionState(e.Duration, e.Position, e.PlaybackRate)
	case DevtoolsStarted:
		host.OnDevtoolsStarted(e.Port, e.Token, e.Err)
	case ContextMenu:
		host.ShowContextMenu(e.Title, e.Items)
	case AllowNavigation:
		allow := host.OnAllowNavigation(e.URL)
		if e.Respond != nil {
			e.Respond(allow)
		}
	case Prompt:
		dispatchPrompt(host, e)
	default:
		return false
	}
	return true
}

func dispatchPrompt(host HostCallbacks, p Prompt) {
	var (
		result = PromptDismissed
		text   string
	)
	switch p.PromptKind {
	case PromptKindAlert:
		host.PromptAlert(p.Message, p.Trusted)
		result = PromptPrimary
	case PromptKindYesNo:
		result = host.PromptYesNo(p.Message, p.Trusted)
	case PromptKindOkCancel:
		result = host.PromptOkCancel(p.Message, p.Trusted)
	case PromptKindInput:
		if s, ok := host.PromptInput(p.Message, p.Default, p.Trusted); ok {
			result = PromptPrimary
			text = s
		}
	}
	if p.Respond != nil {
		p.Respond(result, text)
	}
}
