package textbuf

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithText sets the initial buffer content. The buffer starts unmodified.
func WithText(text string) Option {
	return func(b *Buffer) {
		b.text = text
	}
}

// WithUndoLimit caps the number of undo steps kept.
func WithUndoLimit(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.history.maxEntries = n
		}
	}
}
