// Package shell is a line-oriented front end for a workspace. Each input
// line names a command and its arguments; the command runs against the
// workspace and its output is written back.
//
// Input, file watching and config reload all funnel into Run, which is the
// only goroutine that touches the workspace.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/tabgroup"
	"github.com/dshills/workbench/internal/watcher"
	"github.com/dshills/workbench/internal/workspace"
)

// ConfigReloader is called when the watched config file changes.
type ConfigReloader func(path string) error

// Shell executes commands against a workspace.
type Shell struct {
	ws       *workspace.Workspace
	reg      *Registry
	src      *LineSource
	out      io.Writer
	prompt   string
	tabWidth int
	watcher  *watcher.Watcher
	watched  map[string]string // absolute path -> document path
	cfgPath  string
	onConfig ConfigReloader
	logger   *logging.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithOutput sets the writer for command output. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.out = w
	}
}

// WithLineSource sets the input source shared with line prompts.
func WithLineSource(src *LineSource) Option {
	return func(s *Shell) {
		s.src = src
	}
}

// WithPrompt sets the string printed before each command line.
func WithPrompt(p string) Option {
	return func(s *Shell) {
		s.prompt = p
	}
}

// WithTabWidth sets the tab width used for display columns.
func WithTabWidth(n int) Option {
	return func(s *Shell) {
		s.tabWidth = n
	}
}

// WithWatcher makes the shell watch open documents for external changes.
func WithWatcher(w *watcher.Watcher) Option {
	return func(s *Shell) {
		s.watcher = w
	}
}

// WithConfigReload watches path and calls fn when it changes.
// It requires WithWatcher.
func WithConfigReload(path string, fn ConfigReloader) Option {
	return func(s *Shell) {
		s.cfgPath = path
		s.onConfig = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Shell) {
		s.logger = l
	}
}

// New creates a shell with the builtin commands registered.
func New(ws *workspace.Workspace, opts ...Option) *Shell {
	s := &Shell{
		ws:       ws,
		reg:      NewRegistry(),
		out:      io.Discard,
		tabWidth: document.DefaultTabWidth,
		watched:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.src == nil {
		s.src = NewLineSource()
	}
	s.logger = s.logger.WithComponent("shell")
	registerBuiltins(s.reg)

	if s.watcher != nil {
		if s.cfgPath != "" {
			if abs, err := filepath.Abs(s.cfgPath); err == nil {
				s.cfgPath = abs
			}
			if err := s.watcher.Watch(s.cfgPath); err != nil {
				s.logger.Warn("config not watched", "path", s.cfgPath, "error", err)
			}
		}
		ws.AddObserver(workspace.ObserverFuncs{
			OnTabList: func(*tabgroup.Group) { s.syncWatches() },
			OnLayout:  s.syncWatches,
		})
		s.syncWatches()
	}
	return s
}

// Workspace returns the workspace the shell drives.
func (s *Shell) Workspace() *workspace.Workspace {
	return s.ws
}

// Registry returns the command registry.
func (s *Shell) Registry() *Registry {
	return s.reg
}

// Register adds a command.
func (s *Shell) Register(cmd *Command) error {
	return s.reg.Register(cmd)
}

// Exec runs one command line and returns its output. Blank lines and lines
// starting with '#' do nothing.
func (s *Shell) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil
	}
	words, err := splitArgs(line)
	if err != nil {
		return "", err
	}
	return s.Call(words[0], words[1:]...)
}

// Call runs the named command with already split arguments.
func (s *Shell) Call(name string, args ...string) (string, error) {
	cmd, ok := s.reg.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if !cmd.accepts(len(args)) {
		return "", &UsageError{Command: cmd.Name, Usage: cmd.Usage}
	}
	s.logger.Debug("exec", "command", name, "args", len(args))
	return cmd.Run(s, args)
}

// Run reads commands from in until end of input, the quit command, or ctx
// is cancelled. Command errors are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	s.src.Feed(in)

	var (
		events <-chan watcher.Event
		errs   <-chan error
	)
	if s.watcher != nil {
		events = s.watcher.Events()
		errs = s.watcher.Errors()
	}

	s.printPrompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-s.src.Lines():
			if !ok {
				return nil
			}
			out, err := s.Exec(line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			s.print(out, err)
			s.printPrompt()

		case ev := <-events:
			s.handleEvent(ev)

		case err := <-errs:
			s.logger.Warn("watcher error", "error", err)
		}
	}
}

func (s *Shell) print(out string, err error) {
	if out != "" {
		fmt.Fprintln(s.out, out)
	}
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) printPrompt() {
	if s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
}

func (s *Shell) handleEvent(ev watcher.Event) {
	if ev.Path == s.cfgPath && s.onConfig != nil {
		if err := s.onConfig(ev.Path); err != nil {
			s.logger.Warn("config reload failed", "path", ev.Path, "error", err)
			return
		}
		s.logger.Info("config reloaded", "path", ev.Path)
		return
	}

	docPath, ok := s.watched[ev.Path]
	if !ok {
		return
	}
	if ev.Op == watcher.Removed {
		s.logger.Warn("file removed", "path", docPath)
		return
	}
	n, err := s.ws.ReloadFromDisk(docPath)
	if err != nil {
		s.logger.Warn("reload failed", "path", docPath, "error", err)
		return
	}
	if n > 0 {
		fmt.Fprintf(s.out, "reloaded %s\n", docPath)
	}
}

// syncWatches makes the watched set match the paths of open documents.
func (s *Shell) syncWatches() {
	want := make(map[string]string)
	for _, g := range s.ws.Groups() {
		for _, doc := range g.Documents() {
			if doc.IsUntitled() {
				continue
			}
			abs, err := filepath.Abs(doc.Path())
			if err != nil {
				continue
			}
			want[abs] = doc.Path()
		}
	}

	for abs := range s.watched {
		if _, ok := want[abs]; ok || abs == s.cfgPath {
			continue
		}
		if err := s.watcher.Unwatch(abs); err != nil && !errors.Is(err, watcher.ErrNotWatching) {
			s.logger.Debug("unwatch failed", "path", abs, "error", err)
		}
		delete(s.watched, abs)
	}
	for abs, p := range want {
		if _, ok := s.watched[abs]; ok {
			s.watched[abs] = p
			continue
		}
		if abs == s.cfgPath {
			s.watched[abs] = p
			continue
		}
		err := s.watcher.Watch(abs)
		if err != nil && !errors.Is(err, watcher.ErrAlreadyWatched) {
			s.logger.Debug("watch failed", "path", abs, "error", err)
			continue
		}
		s.watched[abs] = p
	}
}
