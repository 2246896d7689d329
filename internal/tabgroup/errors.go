package tabgroup

import "errors"

// ErrCancelled indicates the user aborted a close or save.
// Batch operations stop at the first cancellation.
var ErrCancelled = errors.New("cancelled")

// IsCancelled returns true if err is or wraps ErrCancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
