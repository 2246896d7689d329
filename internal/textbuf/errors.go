package textbuf

import "errors"

// Errors returned by buffer operations.
var (
	// ErrOffsetOutOfRange indicates an offset is outside the buffer.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrNotRuneBoundary indicates an offset inside a UTF-8 sequence.
	ErrNotRuneBoundary = errors.New("offset inside a character")

	// ErrRangeInvalid indicates a range whose end precedes its start.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)
