// Package watcher reports external changes to files open in the workspace.
//
// Files are watched through their parent directories so that editors and
// tools that save by renaming a temporary file are still observed. Bursts
// of events for one file are coalesced into a single Event delivered after
// the debounce delay.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/workbench/internal/logging"
)

// Errors returned by the watcher.
var (
	ErrWatcherClosed  = errors.New("watcher is closed")
	ErrPathNotExist   = errors.New("path does not exist")
	ErrNotWatching    = errors.New("path is not being watched")
	ErrIsDirectory    = errors.New("path is a directory")
	ErrAlreadyWatched = errors.New("path is already watched")
)

// Op is the kind of change.
type Op int

const (
	// Changed means the file was written or replaced.
	Changed Op = iota
	// Removed means the file was deleted or renamed away.
	Removed
)

// String returns the op name.
func (o Op) String() string {
	if o == Removed {
		return "removed"
	}
	return "changed"
}

// Event describes a change to a watched file.
type Event struct {
	Path string
	Op   Op
}

// DefaultDebounce is the coalescing delay used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches individual files. It is safe for concurrent use.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]int
	pending map[string]*pendingEvent
	delay   time.Duration
	closed  bool

	events  chan Event
	errors  chan error
	closeCh chan struct{}
	wg      sync.WaitGroup

	logger *logging.Logger
}

type pendingEvent struct {
	op    Op
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l.WithComponent("watcher")
	}
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]*pendingEvent),
		delay:   DefaultDebounce,
		events:  make(chan Event, 64),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events returns the channel of debounced events. It is not closed by
// Close; select on it together with a done channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Watch starts watching the file at path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if info.IsDir() {
		return ErrIsDirectory
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return ErrAlreadyWatched
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	w.logger.Debug("watching", "path", abs)
	return nil
}

// Unwatch stops watching the file at path.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[abs] {
		return ErrNotWatching
	}
	delete(w.files, abs)
	if p, ok := w.pending[abs]; ok {
		p.timer.Stop()
		delete(w.pending, abs)
	}

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// IsWatching reports whether path is watched.
func (w *Watcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// Paths returns the watched file paths.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	return out
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for p, pe := range w.pending {
		pe.timer.Stop()
		delete(w.pending, p)
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	op := Changed
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		op = Removed
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
	default:
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[path] {
		return
	}

	if p, ok := w.pending[path]; ok {
		p.op = op
		p.timer.Reset(w.delay)
		return
	}
	p := &pendingEvent{op: op}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(path) })
	w.pending[path] = p
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	op := p.op
	w.mu.Unlock()

	// A rename-over save reports Remove for the old inode followed by
	// Create for the new one; the file existing now means it changed.
	if op == Removed {
		if _, err := os.Stat(path); err == nil {
			op = Changed
		}
	}

	w.logger.Debug("file event", "path", path, "op", op.String())
	select {
	case w.events <- Event{Path: path, Op: op}:
	case <-w.closeCh:
	}
}
