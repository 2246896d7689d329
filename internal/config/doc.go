// Package config loads workbench settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A config file, TOML or YAML chosen by extension
//  3. WORKBENCH_* environment variables
//  4. Command-line flags, applied by the caller
//
// Example config.toml:
//
//	[log]
//	level = "debug"
//	format = "json"
//
//	[search]
//	case_sensitive = true
//
//	[editor]
//	undo_limit = 500
//
//	[prompt]
//	non_interactive = "discard"
//
//	[watch]
//	enabled = true
//	debounce = "250ms"
package config
