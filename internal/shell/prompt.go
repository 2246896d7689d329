package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/tabgroup"
)

// LineSource delivers input lines read by a background goroutine. The
// command loop and interactive prompts read from the same source, so a
// prompt raised during a command consumes the next line typed.
type LineSource struct {
	once  sync.Once
	lines chan string
	fed   bool
	mu    sync.Mutex
}

// NewLineSource creates a source with no input attached.
func NewLineSource() *LineSource {
	return &LineSource{lines: make(chan string)}
}

// Feed starts reading r line by line. The channel returned by Lines is
// closed at end of input. Feed has no effect after the first call.
func (s *LineSource) Feed(r io.Reader) {
	s.once.Do(func() {
		s.mu.Lock()
		s.fed = true
		s.mu.Unlock()

		go func() {
			defer close(s.lines)
			sc := bufio.NewScanner(r)
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				s.lines <- sc.Text()
			}
		}()
	})
}

// Lines returns the line channel.
func (s *LineSource) Lines() <-chan string {
	return s.lines
}

// Next blocks for the next line. ok is false at end of input or when no
// input was ever attached.
func (s *LineSource) Next() (string, bool) {
	s.mu.Lock()
	fed := s.fed
	s.mu.Unlock()
	if !fed {
		return "", false
	}
	line, ok := <-s.lines
	return line, ok
}

// LinePrompt implements tabgroup.Prompt over a LineSource. When not
// interactive it answers every question with the fallback decision.
type LinePrompt struct {
	src         *LineSource
	out         io.Writer
	interactive bool
	fallback    tabgroup.Decision
	logger      *logging.Logger
}

// NewLinePrompt creates a prompt writing questions to out.
func NewLinePrompt(src *LineSource, out io.Writer, interactive bool, fallback tabgroup.Decision, logger *logging.Logger) *LinePrompt {
	return &LinePrompt{
		src:         src,
		out:         out,
		interactive: interactive,
		fallback:    fallback,
		logger:      logger.WithComponent("prompt"),
	}
}

// AskSaveDiscardCancel implements tabgroup.Prompt.
func (p *LinePrompt) AskSaveDiscardCancel(name string) tabgroup.Decision {
	if !p.interactive {
		p.logger.Info("unsaved changes", "name", name, "decision", p.fallback.String())
		return p.fallback
	}
	for {
		fmt.Fprintf(p.out, "Save changes to %q? [s]ave, [d]iscard, [c]ancel: ", name)
		line, ok := p.src.Next()
		if !ok {
			return tabgroup.Cancel
		}
		switch answer := strings.ToLower(strings.TrimSpace(line)); answer {
		case "s", "save", "d", "discard", "c", "cancel", "":
			return tabgroup.ParseDecision(answer)
		}
	}
}

// LinePicker implements tabgroup.PathPicker over a LineSource. An empty
// answer dismisses the picker.
type LinePicker struct {
	src         *LineSource
	out         io.Writer
	interactive bool
}

// NewLinePicker creates a picker writing questions to out.
func NewLinePicker(src *LineSource, out io.Writer, interactive bool) *LinePicker {
	return &LinePicker{src: src, out: out, interactive: interactive}
}

// PickOpen implements tabgroup.PathPicker.
func (p *LinePicker) PickOpen() (string, bool) {
	return p.ask("Open file: ")
}

// PickSave implements tabgroup.PathPicker.
func (p *LinePicker) PickSave() (string, bool) {
	return p.ask("Save as: ")
}

func (p *LinePicker) ask(question string) (string, bool) {
	if !p.interactive {
		return "", false
	}
	fmt.Fprint(p.out, question)
	line, ok := p.src.Next()
	if !ok {
		return "", false
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}
