// Package filestore provides the file read/write capability used by
// documents. Content crosses this boundary as UTF-8 text: reads reject
// invalid encodings and strip a leading byte order mark.
package filestore

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// FileStore reads and writes whole text files.
type FileStore interface {
	// Read returns the decoded content of path.
	Read(path string) (string, error)
	// Write replaces the content of path with text.
	Write(path string, text string) error
}

// decode validates raw file bytes and strips a UTF-8 BOM.
func decode(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrDecode
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
