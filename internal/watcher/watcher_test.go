package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func nextEvent(t *testing.T, w *Watcher) (Event, bool) {
	t.Helper()
	select {
	case evt := <-w.Events():
		return evt, true
	default:
		return Event{}, false
	}
}

func TestScanReportsContentChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	writeFile(t, path, "members: []\n")

	w := New(Options{})
	defer w.Stop()
	if err := w.Track(path); err != nil {
		t.Fatalf("track: %v", err)
	}

	w.Scan()
	if evt, ok := nextEvent(t, w); ok {
		t.Fatalf("expected no event before a change, got %+v", evt)
	}

	writeFile(t, path, "members:\n  - name: Ada Lovelace\n")
	w.Scan()
	evt, ok := nextEvent(t, w)
	if !ok {
		t.Fatalf("expected change event")
	}
	if evt.Kind != EventChanged || evt.Path != path {
		t.Fatalf("unexpected event %+v", evt)
	}
	if string(evt.Data) != "members:\n  - name: Ada Lovelace\n" {
		t.Fatalf("expected new content, got %q", evt.Data)
	}

	w.Scan()
	if evt, ok := nextEvent(t, w); ok {
		t.Fatalf("expected change to be reported once, got %+v", evt)
	}
}

func TestScanIgnoresTouchWithoutContentChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	writeFile(t, path, "members: []\n")

	w := New(Options{})
	defer w.Stop()
	if err := w.Track(path); err != nil {
		t.Fatalf("track: %v", err)
	}
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	w.Scan()
	if evt, ok := nextEvent(t, w); ok {
		t.Fatalf("expected no event for touch, got %+v", evt)
	}
}

func TestScanReportsMissingThenRestored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	writeFile(t, path, "members: []\n")

	w := New(Options{})
	defer w.Stop()
	if err := w.Track(path); err != nil {
		t.Fatalf("track: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	w.Scan()
	evt, ok := nextEvent(t, w)
	if !ok || evt.Kind != EventMissing {
		t.Fatalf("expected missing event, got %+v (ok=%v)", evt, ok)
	}
	w.Scan()
	if evt, ok := nextEvent(t, w); ok {
		t.Fatalf("expected missing to be reported once, got %+v", evt)
	}

	writeFile(t, path, "members: []\n")
	w.Scan()
	evt, ok = nextEvent(t, w)
	if !ok || evt.Kind != EventChanged {
		t.Fatalf("expected restored file to report a change, got %+v (ok=%v)", evt, ok)
	}
}

func TestTrackMissingFileFails(t *testing.T) {
	w := New(Options{})
	defer w.Stop()
	if err := w.Track(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if err := w.Track(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestStopClosesEvents(t *testing.T) {
	w := New(Options{Interval: 10 * time.Millisecond})
	w.Start()
	w.Stop()
	w.Stop()
	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("events channel not closed")
	}
}
