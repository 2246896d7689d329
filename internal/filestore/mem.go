package filestore

import (
	"path"
	"sort"
	"sync"
)

// MemStore implements FileStore in memory. It is used by tests and by
// scripted sessions that must not touch the disk.
//
// MemStore is safe for concurrent use.
type MemStore struct {
	mu       sync.RWMutex
	files    map[string][]byte
	failures map[string]error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		files:    make(map[string][]byte),
		failures: make(map[string]error),
	}
}

// Ensure MemStore implements FileStore.
var _ FileStore = (*MemStore)(nil)

// Read returns the decoded content stored at p.
func (m *MemStore) Read(p string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p = path.Clean(p)
	if err, ok := m.failures[p]; ok {
		return "", NewIOError("read", p, err)
	}
	data, ok := m.files[p]
	if !ok {
		return "", NewIOError("read", p, ErrNotFound)
	}
	text, err := decode(data)
	if err != nil {
		return "", NewIOError("read", p, err)
	}
	return text, nil
}

// Write stores text at p.
func (m *MemStore) Write(p string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean(p)
	if err, ok := m.failures[p]; ok {
		return NewIOError("write", p, err)
	}
	m.files[p] = []byte(text)
	return nil
}

// Put stores raw bytes at p without validation.
func (m *MemStore) Put(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(p)] = append([]byte(nil), data...)
}

// Get returns the raw bytes stored at p.
func (m *MemStore) Get(p string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path.Clean(p)]
	return data, ok
}

// Fail makes every read and write of p fail with err. A nil err clears it.
func (m *MemStore) Fail(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if err == nil {
		delete(m.failures, p)
		return
	}
	m.failures[p] = err
}

// Paths returns the stored paths in sorted order.
func (m *MemStore) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
