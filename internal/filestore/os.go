package filestore

import (
	"os"
	"path/filepath"

	"github.com/dshills/workbench/internal/logging"
)

// OSStore implements FileStore on the operating system's file system.
type OSStore struct {
	perm   os.FileMode
	logger *logging.Logger
}

// OSOption configures an OSStore.
type OSOption func(*OSStore)

// WithPerm sets the permission bits used for new files.
func WithPerm(perm os.FileMode) OSOption {
	return func(s *OSStore) {
		s.perm = perm
	}
}

// WithLogger sets the store logger.
func WithLogger(l *logging.Logger) OSOption {
	return func(s *OSStore) {
		s.logger = l.WithComponent("filestore")
	}
}

// NewOSStore creates a store backed by the OS file system.
func NewOSStore(opts ...OSOption) *OSStore {
	s := &OSStore{perm: 0644}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure OSStore implements FileStore.
var _ FileStore = (*OSStore)(nil)

// Read reads and decodes path.
func (s *OSStore) Read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", NewIOError("read", path, err)
	}
	if info.IsDir() {
		return "", NewIOError("read", path, ErrIsDirectory)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", NewIOError("read", path, err)
	}
	text, err := decode(data)
	if err != nil {
		return "", NewIOError("read", path, err)
	}

	s.logger.Debug("file read", "path", path, "bytes", len(data))
	return text, nil
}

// Write writes text to path through a temporary file in the same
// directory, so a failed write leaves the previous content intact.
func (s *OSStore) Write(path string, text string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return NewIOError("write", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return NewIOError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return NewIOError("write", path, err)
	}

	perm := s.perm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return NewIOError("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return NewIOError("write", path, err)
	}

	s.logger.Debug("file written", "path", path, "bytes", len(text))
	return nil
}
