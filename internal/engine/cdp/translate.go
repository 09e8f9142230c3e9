// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/engine/cdp/translate.go
// Summary: Maps DevTools protocol events onto embedder events.
// Notes: Runs on the chromedp listener goroutine. Must not issue CDP calls.

package cdp

import (
	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"

	"github.com/framegrace/cuervo/internal/embedder"
)

// effect is follow-up work the engine schedules after a translated event.
type effect int

const (
	effectNone effect = iota
	effectLoaded
	effectHistory
)

// dialogFunc answers an open JavaScript dialog.
type dialogFunc func(accept bool, promptText string)

// translator keeps the page state needed to turn raw protocol events into
// deduplicated embedder events. The main frame shares its id with the
// target, which is how subframe traffic is filtered out.
type translator struct {
	targetID target.ID
	dialog   dialogFunc

	title   string
	url     string
	virtual string // URL shown while a registered scheme's document is loaded
	loading bool
}

func newTranslator(id target.ID, dialog dialogFunc) *translator {
	return &translator{targetID: id, dialog: dialog}
}

// setVirtualURL makes the next about:blank navigation report u instead.
func (t *translator) setVirtualURL(u string) { t.virtual = u }

func (t *translator) isMainFrame(id string) bool {
	return id == string(t.targetID)
}

func (t *translator) translate(ev interface{}) ([]embedder.Event, effect) {
	switch e := ev.(type) {
	case *page.EventFrameStartedLoading:
		if !t.isMainFrame(string(e.FrameID)) || t.loading {
			return nil, effectNone
		}
		t.loading = true
		return []embedder.Event{embedder.LoadStarted{}}, effectNone

	case *page.EventLoadEventFired:
		if !t.loading {
			return nil, effectLoaded
		}
		t.loading = false
		return []embedder.Event{embedder.LoadComplete{}}, effectLoaded

	case *page.EventFrameStoppedLoading:
		if !t.isMainFrame(string(e.FrameID)) || !t.loading {
			return nil, effectNone
		}
		t.loading = false
		return []embedder.Event{embedder.LoadComplete{}}, effectNone

	case *page.EventFrameNavigated:
		if e.Frame == nil || e.Frame.ParentID != "" {
			return nil, effectNone
		}
		return t.urlChanged(e.Frame.URL), effectHistory

	case *page.EventNavigatedWithinDocument:
		if !t.isMainFrame(string(e.FrameID)) {
			return nil, effectNone
		}
		return t.urlChanged(e.URL), effectHistory

	case *target.EventTargetInfoChanged:
		info := e.TargetInfo
		if info == nil || info.TargetID != t.targetID {
			return nil, effectNone
		}
		var out []embedder.Event
		if info.Title != "" && info.Title != t.title && info.Title != info.URL {
			t.title = info.Title
			out = append(out, embedder.TitleChanged{Title: info.Title})
		}
		out = append(out, t.urlChanged(info.URL)...)
		return out, effectNone

	case *page.EventJavascriptDialogOpening:
		return []embedder.Event{t.prompt(e)}, effectNone

	case *inspector.EventTargetCrashed:
		t.loading = false
		return []embedder.Event{embedder.Panic{Reason: "renderer process crashed"}}, effectNone
	}
	return nil, effectNone
}

func (t *translator) urlChanged(raw string) []embedder.Event {
	if raw == "about:blank" && t.virtual != "" {
		raw = t.virtual
	} else if raw != "about:blank" {
		t.virtual = ""
	}
	if raw == "" || raw == t.url {
		return nil
	}
	t.url = raw
	return []embedder.Event{embedder.URLChanged{URL: raw}}
}

func (t *translator) prompt(e *page.EventJavascriptDialogOpening) embedder.Prompt {
	p := embedder.Prompt{
		Message: e.Message,
		Default: e.DefaultPrompt,
	}
	switch e.Type {
	case page.DialogTypeAlert:
		p.PromptKind = embedder.PromptKindAlert
	case page.DialogTypeConfirm:
		p.PromptKind = embedder.PromptKindOkCancel
	case page.DialogTypePrompt:
		p.PromptKind = embedder.PromptKindInput
	default:
		p.PromptKind = embedder.PromptKindYesNo
	}
	dialog := t.dialog
	p.Respond = func(result embedder.PromptResult, text string) {
		if dialog != nil {
			dialog(result == embedder.PromptPrimary, text)
		}
	}
	return p
}
