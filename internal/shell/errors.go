package shell

import (
	"errors"
	"fmt"
)

// Errors returned by the shell.
var (
	// ErrUnknownCommand indicates no command is registered under the name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDuplicateCommand indicates a command name is already registered.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrQuit is returned by the quit command to end the session.
	ErrQuit = errors.New("quit")

	// ErrUnterminatedQuote indicates a quoted argument without its closing quote.
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

// UsageError reports arguments a command cannot accept.
type UsageError struct {
	Command string
	Usage   string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s %s", e.Command, e.Usage)
}
