package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "WORKBENCH_"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envSetter func(c *Config, v string) error

// envMapping maps environment variables to settings.
var envMapping = map[string]envSetter{
	"WORKBENCH_LOG_LEVEL":  func(c *Config, v string) error { c.Log.Level = v; return nil },
	"WORKBENCH_LOG_FORMAT": func(c *Config, v string) error { c.Log.Format = strings.ToLower(v); return nil },
	"WORKBENCH_SEARCH_CASE_SENSITIVE": func(c *Config, v string) error {
		return parseBool(v, &c.Search.CaseSensitive)
	},
	"WORKBENCH_SEARCH_WHOLE_WORD": func(c *Config, v string) error {
		return parseBool(v, &c.Search.WholeWord)
	},
	"WORKBENCH_EDITOR_UNDO_LIMIT": func(c *Config, v string) error {
		return parseInt(v, &c.Editor.UndoLimit)
	},
	"WORKBENCH_EDITOR_TAB_WIDTH": func(c *Config, v string) error {
		return parseInt(v, &c.Editor.TabWidth)
	},
	"WORKBENCH_PROMPT_NON_INTERACTIVE": func(c *Config, v string) error {
		c.Prompt.NonInteractive = strings.ToLower(v)
		return nil
	},
	"WORKBENCH_WATCH_ENABLED": func(c *Config, v string) error {
		return parseBool(v, &c.Watch.Enabled)
	},
	"WORKBENCH_WATCH_DEBOUNCE": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Watch.Debounce = Duration(d)
		return nil
	},
}

// ApplyEnv overrides settings from WORKBENCH_* variables found by lookup.
// Variables are applied in name order and every invalid one is reported.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	var errs []error
	for _, name := range EnvVars() {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := envMapping[name](c, strings.TrimSpace(v)); err != nil {
			errs = append(errs, fmt.Errorf("environment %s=%q: %w", name, v, err))
		}
	}
	return errors.Join(errs...)
}

// EnvVars returns the sorted names of the supported environment variables.
func EnvVars() []string {
	return slices.Sorted(maps.Keys(envMapping))
}

func parseBool(s string, dst *bool) error {
	switch strings.ToLower(s) {
	case "yes", "on":
		*dst = true
		return nil
	case "no", "off":
		*dst = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseInt(s string, dst *int) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
