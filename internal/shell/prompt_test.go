package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/workbench/internal/tabgroup"
)

func TestLinePrompt(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		fallback    tabgroup.Decision
		want        tabgroup.Decision
		asked       int
	}{
		{"save", "s\n", true, tabgroup.Cancel, tabgroup.Save, 1},
		{"discard word", "Discard\n", true, tabgroup.Cancel, tabgroup.Discard, 1},
		{"empty cancels", "\n", true, tabgroup.Save, tabgroup.Cancel, 1},
		{"asks again", "maybe\nd\n", true, tabgroup.Cancel, tabgroup.Discard, 2},
		{"end of input cancels", "", true, tabgroup.Save, tabgroup.Cancel, 1},
		{"non-interactive fallback", "s\n", false, tabgroup.Discard, tabgroup.Discard, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewLineSource()
			src.Feed(strings.NewReader(tt.input))
			var out bytes.Buffer
			p := NewLinePrompt(src, &out, tt.interactive, tt.fallback, nil)

			if got := p.AskSaveDiscardCancel("a.txt"); got != tt.want {
				t.Errorf("decision = %v, want %v", got, tt.want)
			}
			if n := strings.Count(out.String(), `Save changes to "a.txt"?`); n != tt.asked {
				t.Errorf("asked %d times, want %d", n, tt.asked)
			}
		})
	}
}

func TestLinePromptWithoutInput(t *testing.T) {
	p := NewLinePrompt(NewLineSource(), &bytes.Buffer{}, true, tabgroup.Save, nil)
	if got := p.AskSaveDiscardCancel("a.txt"); got != tabgroup.Cancel {
		t.Errorf("decision = %v, want cancel", got)
	}
}

func TestLinePicker(t *testing.T) {
	src := NewLineSource()
	src.Feed(strings.NewReader("  /tmp/x.txt \n\n"))
	var out bytes.Buffer
	p := NewLinePicker(src, &out, true)

	path, ok := p.PickSave()
	if !ok || path != "/tmp/x.txt" {
		t.Errorf("PickSave() = %q, %v", path, ok)
	}
	if _, ok := p.PickOpen(); ok {
		t.Error("empty answer should dismiss the picker")
	}
	if _, ok := p.PickOpen(); ok {
		t.Error("end of input should dismiss the picker")
	}
	if !strings.Contains(out.String(), "Save as: ") || !strings.Contains(out.String(), "Open file: ") {
		t.Errorf("output = %q", out.String())
	}

	quiet := NewLinePicker(src, &out, false)
	if _, ok := quiet.PickOpen(); ok {
		t.Error("non-interactive picker should be dismissed")
	}
}
