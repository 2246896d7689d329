package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestWatchReportsChange(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch(p); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if !w.IsWatching(p) {
		t.Error("IsWatching() = false")
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(p, []byte("v2"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	ev := waitEvent(t, w)
	if ev.Path != p || ev.Op != Changed {
		t.Errorf("event = %+v", ev)
	}

	select {
	case extra := <-w.Events():
		t.Errorf("burst should coalesce into one event, got extra %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "watched.txt")
	other := filepath.Join(dir, "other.txt")
	_ = os.WriteFile(p, []byte("x"), 0644)

	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	_ = w.Watch(p)

	_ = os.WriteFile(other, []byte("y"), 0644)
	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchRemove(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gone.txt")
	_ = os.WriteFile(p, []byte("x"), 0644)

	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	_ = w.Watch(p)

	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, w); ev.Op != Removed {
		t.Errorf("event = %+v, want removed", ev)
	}
}

func TestWatchErrors(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f.txt")
	_ = os.WriteFile(p, []byte("x"), 0644)

	w, err := New()
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Watch(filepath.Join(dir, "missing")); !errors.Is(err, ErrPathNotExist) {
		t.Errorf("Watch(missing) = %v", err)
	}
	if err := w.Watch(dir); !errors.Is(err, ErrIsDirectory) {
		t.Errorf("Watch(dir) = %v", err)
	}
	_ = w.Watch(p)
	if err := w.Watch(p); !errors.Is(err, ErrAlreadyWatched) {
		t.Errorf("second Watch() = %v", err)
	}
	if err := w.Unwatch(p); err != nil {
		t.Errorf("Unwatch() = %v", err)
	}
	if err := w.Unwatch(p); !errors.Is(err, ErrNotWatching) {
		t.Errorf("second Unwatch() = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := w.Watch(p); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Error("second Close() should be a no-op")
	}
}
