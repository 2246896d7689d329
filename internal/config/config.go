package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/tabgroup"
)

// Config holds every workbench setting.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Search SearchConfig `toml:"search" yaml:"search"`
	Editor EditorConfig `toml:"editor" yaml:"editor"`
	Prompt PromptConfig `toml:"prompt" yaml:"prompt"`
	Watch  WatchConfig  `toml:"watch" yaml:"watch"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// SearchConfig holds the initial search flags.
type SearchConfig struct {
	CaseSensitive bool `toml:"case_sensitive" yaml:"case_sensitive"`
	WholeWord     bool `toml:"whole_word" yaml:"whole_word"`
}

// EditorConfig configures document buffers.
type EditorConfig struct {
	UndoLimit int `toml:"undo_limit" yaml:"undo_limit"`
	TabWidth  int `toml:"tab_width" yaml:"tab_width"`
}

// PromptConfig configures save confirmations.
type PromptConfig struct {
	// NonInteractive is the decision used when input is not a terminal:
	// "cancel", "discard" or "save".
	NonInteractive string `toml:"non_interactive" yaml:"non_interactive"`
}

// WatchConfig configures external change watching.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
		Editor: EditorConfig{
			UndoLimit: 1000,
			TabWidth:  4,
		},
		Prompt: PromptConfig{
			NonInteractive: tabgroup.Cancel.String(),
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: Duration(200 * time.Millisecond),
		},
	}
}

// DefaultPath returns the conventional config file location, preferring
// an existing YAML file over the TOML default.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	base := filepath.Join(dir, "workbench")
	for _, name := range []string{"config.yaml", "config.yml"} {
		p := filepath.Join(base, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(base, "config.toml")
}

// Load builds the configuration from defaults, the file at path and the
// environment, then validates it. An empty path skips the file layer. A
// missing file is an error only when required is true.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if required {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := cfg.decode(path, data); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays file content onto cfg.
func (c *Config) decode(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(c); err != nil {
			pe := &ParseError{Path: path, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				pe.Line, pe.Column = derr.Position()
			}
			return pe
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn or error"})
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, &ValidationError{Path: "log.format", Value: c.Log.Format, Message: "must be text or json"})
	}
	if c.Editor.UndoLimit < 1 {
		errs = append(errs, &ValidationError{Path: "editor.undo_limit", Value: c.Editor.UndoLimit, Message: "must be at least 1"})
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		errs = append(errs, &ValidationError{Path: "editor.tab_width", Value: c.Editor.TabWidth, Message: "must be between 1 and 16"})
	}
	switch c.Prompt.NonInteractive {
	case "cancel", "discard", "save":
	default:
		errs = append(errs, &ValidationError{Path: "prompt.non_interactive", Value: c.Prompt.NonInteractive, Message: "must be cancel, discard or save"})
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &ValidationError{Path: "watch.debounce", Value: c.Watch.Debounce.Std(), Message: "must not be negative"})
	}
	return errors.Join(errs...)
}

// NonInteractiveDecision returns the configured fallback prompt decision.
func (c *Config) NonInteractiveDecision() tabgroup.Decision {
	return tabgroup.ParseDecision(c.Prompt.NonInteractive)
}

// LoggerConfig returns the logging configuration for these settings.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Log.Level)
	cfg.Format = logging.Format(c.Log.Format)
	return cfg
}
