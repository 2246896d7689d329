package shell

import (
	"strconv"
	"strings"
	"unicode"
)

// splitArgs splits a command line into words. Double-quoted words use Go
// escape rules; single-quoted words are taken literally.
func splitArgs(line string) ([]string, error) {
	var (
		args   []string
		cur    strings.Builder
		inWord bool
	)
	rs := []rune(line)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		case r == '"':
			end := i + 1
			for end < len(rs) && rs[end] != '"' {
				if rs[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(rs) {
				return nil, ErrUnterminatedQuote
			}
			word, err := strconv.Unquote(string(rs[i : end+1]))
			if err != nil {
				return nil, err
			}
			cur.WriteString(word)
			inWord = true
			i = end
		case r == '\'':
			end := i + 1
			for end < len(rs) && rs[end] != '\'' {
				end++
			}
			if end >= len(rs) {
				return nil, ErrUnterminatedQuote
			}
			cur.WriteString(string(rs[i+1 : end]))
			inWord = true
			i = end
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
