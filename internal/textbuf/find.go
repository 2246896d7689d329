package textbuf

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// FindFlags controls how Find matches a query.
type FindFlags struct {
	// Backward searches for the last match ending at or before the offset.
	Backward bool
	// CaseSensitive disables case folding.
	CaseSensitive bool
	// WholeWord rejects matches adjacent to a word character.
	WholeWord bool
}

// Matcher locates literal occurrences of a query in text.
type Matcher struct {
	query     string
	flags     FindFlags
	re        *regexp.Regexp
	wholeWord bool
}

// NewMatcher compiles a literal query under the given flags.
// An empty query yields a matcher that never matches.
func NewMatcher(query string, flags FindFlags) *Matcher {
	m := &Matcher{query: query, flags: flags, wholeWord: flags.WholeWord}
	if query == "" {
		return m
	}

	prefix := ""
	if !flags.CaseSensitive {
		prefix = "(?i)"
	}
	// QuoteMeta output always compiles.
	m.re = regexp.MustCompile(prefix + regexp.QuoteMeta(query))
	return m
}

// Query returns the literal query.
func (m *Matcher) Query() string {
	return m.query
}

// sameAs reports whether the matcher was built for query and flags.
// Direction does not affect compilation.
func (m *Matcher) sameAs(query string, flags FindFlags) bool {
	return m.query == query &&
		m.flags.CaseSensitive == flags.CaseSensitive &&
		m.flags.WholeWord == flags.WholeWord
}

// Next returns the first match starting at or after from.
func (m *Matcher) Next(text string, from ByteOffset) (Range, bool) {
	if m.re == nil {
		return Range{}, false
	}
	pos := clamp(from, len(text))

	for int(pos) <= len(text) {
		loc := m.re.FindStringIndex(text[pos:])
		if loc == nil {
			return Range{}, false
		}
		cand := NewRange(pos+ByteOffset(loc[0]), pos+ByteOffset(loc[1]))
		if !m.wholeWord || IsWholeWord(text, cand) {
			return cand, true
		}
		pos = cand.Start + runeLenAt(text, cand.Start)
	}
	return Range{}, false
}

// Prev returns the last match that ends at or before before.
func (m *Matcher) Prev(text string, before ByteOffset) (Range, bool) {
	if m.re == nil {
		return Range{}, false
	}
	limit := clamp(before, len(text))

	var (
		best  Range
		found bool
		pos   ByteOffset
	)
	for {
		cand, ok := m.Next(text, pos)
		if !ok || cand.End > limit {
			break
		}
		best, found = cand, true
		pos = cand.Start + runeLenAt(text, cand.Start)
	}
	return best, found
}

// IsWordRune reports whether r is a letter, digit or underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsWholeWord reports whether the characters on both sides of r, where
// present, are not word characters.
func IsWholeWord(text string, r Range) bool {
	if r.Start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:r.Start])
		if IsWordRune(before) {
			return false
		}
	}
	if int(r.End) < len(text) {
		after, _ := utf8.DecodeRuneInString(text[r.End:])
		if IsWordRune(after) {
			return false
		}
	}
	return true
}

func runeLenAt(text string, off ByteOffset) ByteOffset {
	if int(off) >= len(text) {
		return 1
	}
	_, size := utf8.DecodeRuneInString(text[off:])
	if size == 0 {
		size = 1
	}
	return ByteOffset(size)
}

// IsRuneBoundary reports whether off lies between two UTF-8 sequences of
// text, or at either end.
func IsRuneBoundary(text string, off ByteOffset) bool {
	if off < 0 || int(off) > len(text) {
		return false
	}
	return int(off) == len(text) || utf8.RuneStart(text[off])
}

func clamp(off ByteOffset, n int) ByteOffset {
	if off < 0 {
		return 0
	}
	if int(off) > n {
		return ByteOffset(n)
	}
	return off
}
