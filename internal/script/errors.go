package script

import "errors"

// Errors returned by the runner.
var (
	// ErrScriptFailed wraps Lua compile and runtime errors.
	ErrScriptFailed = errors.New("script failed")

	// ErrTimeout indicates the script ran past its time limit.
	ErrTimeout = errors.New("script timed out")
)
