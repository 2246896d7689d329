package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/workbench/internal/config"
	"github.com/dshills/workbench/internal/filestore"
	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/search"
	"github.com/dshills/workbench/internal/shell"
	"github.com/dshills/workbench/internal/tabgroup"
	"github.com/dshills/workbench/internal/textbuf"
	"github.com/dshills/workbench/internal/watcher"
	"github.com/dshills/workbench/internal/workspace"
)

type sessionOptions struct {
	out         io.Writer
	interactive bool
	watch       bool
}

// session wires configuration, logging, the workspace and the shell.
type session struct {
	flags   *flags
	cfg     *config.Config
	logger  *logging.Logger
	ws      *workspace.Workspace
	shell   *shell.Shell
	watcher *watcher.Watcher
	out     io.Writer
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(f *flags) (*config.Config, string, error) {
	path, required := f.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.noWatch {
		cfg.Watch.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid options: %w", err)
	}
	return cfg, path, nil
}

func newSession(f *flags, o sessionOptions) (*session, error) {
	cfg, cfgPath, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LoggerConfig())

	src := shell.NewLineSource()
	undoLimit := cfg.Editor.UndoLimit
	env := &tabgroup.Env{
		Store:  filestore.NewOSStore(filestore.WithLogger(logger)),
		Prompt: shell.NewLinePrompt(src, o.out, o.interactive, cfg.NonInteractiveDecision(), logger),
		Picker: shell.NewLinePicker(src, o.out, o.interactive),
		Logger: logger,
		NewBuffer: func() textbuf.TextBuffer {
			return textbuf.New(textbuf.WithUndoLimit(undoLimit))
		},
	}
	engine := search.New(
		search.WithCaseSensitive(cfg.Search.CaseSensitive),
		search.WithWholeWord(cfg.Search.WholeWord),
		search.WithLogger(logger),
	)

	s := &session{
		flags:  f,
		cfg:    cfg,
		logger: logger,
		ws:     workspace.New(env, workspace.WithSearch(engine)),
		out:    o.out,
	}

	opts := []shell.Option{
		shell.WithOutput(o.out),
		shell.WithLineSource(src),
		shell.WithLogger(logger),
		shell.WithTabWidth(cfg.Editor.TabWidth),
	}
	if o.interactive {
		opts = append(opts, shell.WithPrompt("> "))
	}
	if o.watch && cfg.Watch.Enabled {
		w, err := watcher.New(
			watcher.WithDebounce(cfg.Watch.Debounce.Std()),
			watcher.WithLogger(logger),
		)
		if err != nil {
			logger.Warn("file watching disabled", "error", err)
		} else {
			s.watcher = w
			opts = append(opts, shell.WithWatcher(w))
			if _, err := os.Stat(cfgPath); err == nil {
				opts = append(opts, shell.WithConfigReload(cfgPath, s.reloadConfig))
			}
		}
	}
	s.shell = shell.New(s.ws, opts...)

	logger.Debug("session started", "config", cfgPath, "interactive", o.interactive, "watch", s.watcher != nil)
	return s, nil
}

// openFiles opens each path in a tab. Failures are reported and skipped.
func (s *session) openFiles(paths []string) {
	for _, p := range paths {
		if _, err := s.shell.Call("open", p); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// reloadConfig applies the settings that can change while running: the
// log level and the search flags.
func (s *session) reloadConfig(string) error {
	cfg, _, err := loadConfig(s.flags)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	s.ws.Search().SetCaseSensitive(cfg.Search.CaseSensitive)
	s.ws.Search().SetWholeWord(cfg.Search.WholeWord)
	return nil
}

// Close releases the watcher.
func (s *session) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
