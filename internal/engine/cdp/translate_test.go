// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cdp

import (
	"errors"
	"image"
	"image/color"
	"net/url"
	"strings"
	"testing"

	cdptypes "github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"

	"github.com/framegrace/cuervo/internal/embedder"
)

const mainID = target.ID("MAINFRAME0001")

func TestTranslateLoadLifecycle(t *testing.T) {
	tr := newTranslator(mainID, nil)

	events, _ := tr.translate(&page.EventFrameStartedLoading{FrameID: cdptypes.FrameID("child")})
	if len(events) != 0 {
		t.Fatalf("subframe load should be ignored, got %v", events)
	}

	events, _ = tr.translate(&page.EventFrameStartedLoading{FrameID: cdptypes.FrameID(mainID)})
	if len(events) != 1 || events[0] != (embedder.LoadStarted{}) {
		t.Fatalf("expected LoadStarted, got %v", events)
	}
	events, _ = tr.translate(&page.EventFrameStartedLoading{FrameID: cdptypes.FrameID(mainID)})
	if len(events) != 0 {
		t.Fatalf("repeated start should be coalesced, got %v", events)
	}

	events, fx := tr.translate(&page.EventLoadEventFired{})
	if len(events) != 1 || events[0] != (embedder.LoadComplete{}) {
		t.Fatalf("expected LoadComplete, got %v", events)
	}
	if fx != effectLoaded {
		t.Fatalf("load should schedule present, got %v", fx)
	}

	events, _ = tr.translate(&page.EventFrameStoppedLoading{FrameID: cdptypes.FrameID(mainID)})
	if len(events) != 0 {
		t.Fatalf("stop after load should be silent, got %v", events)
	}
}

func TestTranslateStopEndsLoad(t *testing.T) {
	tr := newTranslator(mainID, nil)
	tr.translate(&page.EventFrameStartedLoading{FrameID: cdptypes.FrameID(mainID)})
	events, _ := tr.translate(&page.EventFrameStoppedLoading{FrameID: cdptypes.FrameID(mainID)})
	if len(events) != 1 || events[0] != (embedder.LoadComplete{}) {
		t.Fatalf("expected LoadComplete on stop, got %v", events)
	}
}

func TestTranslateNavigationAndTitle(t *testing.T) {
	tr := newTranslator(mainID, nil)

	events, fx := tr.translate(&page.EventFrameNavigated{Frame: &cdptypes.Frame{ID: cdptypes.FrameID(mainID), URL: "https://example.com/"}})
	if len(events) != 1 || events[0] != (embedder.URLChanged{URL: "https://example.com/"}) {
		t.Fatalf("expected URLChanged, got %v", events)
	}
	if fx != effectHistory {
		t.Fatalf("navigation should refresh history, got %v", fx)
	}

	events, _ = tr.translate(&page.EventFrameNavigated{Frame: &cdptypes.Frame{ID: "sub", ParentID: cdptypes.FrameID(mainID), URL: "https://ads.example/"}})
	if len(events) != 0 {
		t.Fatalf("subframe navigation should be ignored, got %v", events)
	}

	events, _ = tr.translate(&target.EventTargetInfoChanged{TargetInfo: &target.Info{
		TargetID: mainID,
		Title:    "Example Domain",
		URL:      "https://example.com/",
	}})
	if len(events) != 1 || events[0] != (embedder.TitleChanged{Title: "Example Domain"}) {
		t.Fatalf("expected only TitleChanged, got %v", events)
	}

	events, _ = tr.translate(&target.EventTargetInfoChanged{TargetInfo: &target.Info{
		TargetID: mainID,
		Title:    "Example Domain",
		URL:      "https://example.com/",
	}})
	if len(events) != 0 {
		t.Fatalf("unchanged info should be silent, got %v", events)
	}

	events, _ = tr.translate(&target.EventTargetInfoChanged{TargetInfo: &target.Info{
		TargetID: "OTHER",
		Title:    "Popup",
	}})
	if len(events) != 0 {
		t.Fatalf("other targets should be ignored, got %v", events)
	}
}

func TestTranslateVirtualURL(t *testing.T) {
	tr := newTranslator(mainID, nil)
	tr.setVirtualURL("cuervo:version")

	events, _ := tr.translate(&page.EventFrameNavigated{Frame: &cdptypes.Frame{ID: cdptypes.FrameID(mainID), URL: "about:blank"}})
	if len(events) != 1 || events[0] != (embedder.URLChanged{URL: "cuervo:version"}) {
		t.Fatalf("expected virtual URL, got %v", events)
	}

	events, _ = tr.translate(&page.EventFrameNavigated{Frame: &cdptypes.Frame{ID: cdptypes.FrameID(mainID), URL: "https://example.com/"}})
	if len(events) != 1 || events[0] != (embedder.URLChanged{URL: "https://example.com/"}) {
		t.Fatalf("expected real URL, got %v", events)
	}
	if tr.virtual != "" {
		t.Fatalf("virtual URL should clear after a real navigation")
	}
}

func TestTranslateDialogs(t *testing.T) {
	type answer struct {
		accept bool
		text   string
	}
	var got []answer
	tr := newTranslator(mainID, func(accept bool, text string) {
		got = append(got, answer{accept, text})
	})

	tests := []struct {
		dialog page.DialogType
		kind   embedder.PromptKind
	}{
		{page.DialogTypeAlert, embedder.PromptKindAlert},
		{page.DialogTypeConfirm, embedder.PromptKindOkCancel},
		{page.DialogTypePrompt, embedder.PromptKindInput},
		{page.DialogTypeBeforeunload, embedder.PromptKindYesNo},
	}
	for _, tt := range tests {
		t.Run(string(tt.dialog), func(t *testing.T) {
			events, _ := tr.translate(&page.EventJavascriptDialogOpening{
				Type:          tt.dialog,
				Message:       "hello",
				DefaultPrompt: "seed",
			})
			if len(events) != 1 {
				t.Fatalf("expected one prompt, got %v", events)
			}
			p, ok := events[0].(embedder.Prompt)
			if !ok {
				t.Fatalf("expected Prompt, got %T", events[0])
			}
			if p.PromptKind != tt.kind || p.Message != "hello" || p.Default != "seed" {
				t.Fatalf("unexpected prompt %+v", p)
			}
		})
	}

	events, _ := tr.translate(&page.EventJavascriptDialogOpening{Type: page.DialogTypePrompt})
	p := events[0].(embedder.Prompt)
	p.Respond(embedder.PromptPrimary, "typed")
	p.Respond(embedder.PromptDismissed, "")
	if len(got) != 2 || got[0] != (answer{true, "typed"}) || got[1] != (answer{false, ""}) {
		t.Fatalf("unexpected dialog answers %v", got)
	}
}

func TestTranslateCrash(t *testing.T) {
	tr := newTranslator(mainID, nil)
	tr.translate(&page.EventFrameStartedLoading{FrameID: cdptypes.FrameID(mainID)})
	events, _ := tr.translate(&inspector.EventTargetCrashed{})
	if len(events) != 1 {
		t.Fatalf("expected Panic, got %v", events)
	}
	if _, ok := events[0].(embedder.Panic); !ok {
		t.Fatalf("expected Panic, got %T", events[0])
	}
	if tr.loading {
		t.Fatalf("crash should end the load")
	}
}

func TestTranslateIgnoresUnknown(t *testing.T) {
	tr := newTranslator(mainID, nil)
	events, fx := tr.translate(&page.EventDomContentEventFired{})
	if len(events) != 0 || fx != effectNone {
		t.Fatalf("unknown event should be ignored, got %v %v", events, fx)
	}
}

type countingWaker struct{ n int }

func (w *countingWaker) Wake()                          { w.n++ }
func (w *countingWaker) Clone() embedder.EventLoopWaker { return w }

func TestReadyQueueWakesAndDrains(t *testing.T) {
	w := &countingWaker{}
	q := newReadyQueue(w)
	q.push()
	if w.n != 0 {
		t.Fatalf("empty push should not wake")
	}
	q.push(embedder.Envelope{Event: embedder.LoadStarted{}}, embedder.Envelope{Event: embedder.LoadComplete{}})
	q.push(embedder.Envelope{Event: embedder.ShutdownComplete{}})
	if w.n != 2 {
		t.Fatalf("expected 2 wakes, got %d", w.n)
	}
	got := q.drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if len(q.drain()) != 0 {
		t.Fatalf("drain should clear the queue")
	}
}

func TestCSSViewport(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		scale float32
		want  embedder.Size
	}{
		{"terminal cells", 80, 24, 0.05, embedder.Size{Width: 1600, Height: 480}},
		{"unit scale", 1024, 768, 1, embedder.Size{Width: 1024, Height: 768}},
		{"zero scale", 10, 10, 0, embedder.Size{Width: 10, Height: 10}},
		{"upscale clamps", 1, 1, 4, embedder.Size{Width: 1, Height: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords := embedder.EmbedderCoordinates{
				Viewport:   embedder.Rect{Size: embedder.Size{Width: tt.w, Height: tt.h}},
				HiDPIScale: tt.scale,
			}
			if got := cssViewport(coords); got != tt.want {
				t.Fatalf("cssViewport = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoryEvent(t *testing.T) {
	if got := historyEvent(0, 1); got.CanGoBack || got.CanGoForward {
		t.Fatalf("single entry has no history: %+v", got)
	}
	if got := historyEvent(1, 3); !got.CanGoBack || !got.CanGoForward {
		t.Fatalf("middle entry: %+v", got)
	}
}

func TestDocumentHTML(t *testing.T) {
	if got := documentHTML([]byte("<p>hi</p>"), "text/html; charset=utf-8"); got != "<p>hi</p>" {
		t.Fatalf("html passthrough = %q", got)
	}
	got := documentHTML([]byte("a < b"), "text/plain")
	if !strings.Contains(got, "<pre>a &lt; b</pre>") {
		t.Fatalf("plain text should be escaped in pre, got %q", got)
	}
	u, _ := url.Parse("cuervo:missing")
	doc := string(errorDocument(u, errors.New("no such page")))
	if !strings.Contains(doc, "no such page") || !strings.Contains(doc, "cuervo:missing") {
		t.Fatalf("error document = %q", doc)
	}
}

func TestCompositeCopiesTopLeft(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(3, 3, color.RGBA{B: 255, A: 255})
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))
	composite(dst, src)
	if got := dst.RGBAAt(0, 0); got.R != 255 {
		t.Fatalf("origin pixel = %v", got)
	}
	if got := dst.RGBAAt(1, 1); got.B != 0 {
		t.Fatalf("pixel outside surface leaked in: %v", got)
	}
}
