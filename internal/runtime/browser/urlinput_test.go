// Copyright © 2025 Cuervo contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package browserruntime

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestURLInputEditing(t *testing.T) {
	tests := []struct {
		name      string
		seed      string
		keys      []*tcell.EventKey
		want      string
		wantCaret int
	}{
		{"insert at end", "ab", []*tcell.EventKey{runeKey('c')}, "abc", 3},
		{"insert after home", "bc", []*tcell.EventKey{key(tcell.KeyHome), runeKey('a')}, "abc", 1},
		{"left then insert", "ac", []*tcell.EventKey{key(tcell.KeyLeft), runeKey('b')}, "abc", 2},
		{"backspace", "abc", []*tcell.EventKey{key(tcell.KeyBackspace2)}, "ab", 2},
		{"backspace at start", "abc", []*tcell.EventKey{key(tcell.KeyHome), key(tcell.KeyBackspace)}, "abc", 0},
		{"delete", "abc", []*tcell.EventKey{key(tcell.KeyHome), key(tcell.KeyDelete)}, "bc", 0},
		{"delete at end", "abc", []*tcell.EventKey{key(tcell.KeyDelete)}, "abc", 3},
		{"ctrl a then e", "abc", []*tcell.EventKey{ctrlKey(tcell.KeyCtrlA), ctrlKey(tcell.KeyCtrlE)}, "abc", 3},
		{"ctrl u", "https://x", []*tcell.EventKey{key(tcell.KeyLeft), ctrlKey(tcell.KeyCtrlU)}, "x", 0},
		{"ctrl k", "https://x", []*tcell.EventKey{key(tcell.KeyHome), key(tcell.KeyRight), ctrlKey(tcell.KeyCtrlK)}, "h", 1},
		{"ctrl w word", "https://example.com", []*tcell.EventKey{ctrlKey(tcell.KeyCtrlW)}, "https://example.", 16},
		{"ctrl w separators", "https://", []*tcell.EventKey{ctrlKey(tcell.KeyCtrlW)}, "", 0},
		{"right clamps", "ab", []*tcell.EventKey{key(tcell.KeyRight), key(tcell.KeyRight)}, "ab", 2},
		{"wide runes", "", []*tcell.EventKey{runeKey('ü'), runeKey('世')}, "ü世", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewURLInput(tt.seed)
			for _, ev := range tt.keys {
				in.HandleKey(ev)
			}
			if in.Text() != tt.want {
				t.Fatalf("text = %q, want %q", in.Text(), tt.want)
			}
			if in.Caret() != tt.wantCaret {
				t.Fatalf("caret = %d, want %d", in.Caret(), tt.wantCaret)
			}
		})
	}
}

func TestURLInputReportsEdits(t *testing.T) {
	in := NewURLInput("ab")
	if handled, edited := in.HandleKey(key(tcell.KeyLeft)); !handled || edited {
		t.Fatalf("movement: handled=%v edited=%v", handled, edited)
	}
	if handled, edited := in.HandleKey(runeKey('x')); !handled || !edited {
		t.Fatalf("insert: handled=%v edited=%v", handled, edited)
	}
	if handled, _ := in.HandleKey(key(tcell.KeyF1)); handled {
		t.Fatalf("function keys should not be handled")
	}
	if handled, _ := in.HandleKey(ctrlKey(tcell.KeyCtrlT)); handled {
		t.Fatalf("unbound ctrl keys should not be handled")
	}
}

func TestURLInputViewScrollsWithCaret(t *testing.T) {
	in := NewURLInput("https://example.com/path")
	text, col := in.View(10)
	if col != 9 {
		t.Fatalf("caret column = %d, want 9", col)
	}
	if text != ".com/path" {
		t.Fatalf("visible = %q", text)
	}

	in.HandleKey(key(tcell.KeyHome))
	text, col = in.View(10)
	if col != 0 || text != "https://ex" {
		t.Fatalf("after home: %q col %d", text, col)
	}

	wide := NewURLInput("世界世界")
	text, col = wide.View(5)
	if col != 4 || text != "世界" {
		t.Fatalf("wide view: %q col %d", text, col)
	}
}

func TestURLInputScrollKeepsWindowUntilCaretLeaves(t *testing.T) {
	in := NewURLInput("https://example.com/path")
	in.Scroll(10)
	for i := 0; i < 3; i++ {
		in.HandleKey(key(tcell.KeyLeft))
	}
	in.Scroll(10)
	text, col := in.View(10)
	if text != ".com/path" || col != 6 {
		t.Fatalf("after left: %q col %d", text, col)
	}

	in.HandleKey(key(tcell.KeyHome))
	in.Scroll(10)
	if text, col = in.View(10); text != "https://ex" || col != 0 {
		t.Fatalf("after home: %q col %d", text, col)
	}
}

func TestURLInputViewIsReadOnly(t *testing.T) {
	in := NewURLInput("https://example.com/path")
	before := *in
	first, _ := in.View(10)
	second, _ := in.View(10)
	if in.offset != before.offset || in.caret != before.caret || first != second {
		t.Fatalf("View changed the editor: offset %d->%d", before.offset, in.offset)
	}
}
