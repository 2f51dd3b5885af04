package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

type EventKind int

const (
	EventChanged EventKind = iota
	EventMissing
)

func (k EventKind) String() string {
	if k == EventMissing {
		return "missing"
	}
	return "changed"
}

// Event reports a tracked file whose content changed or that disappeared.
// Data holds the new content for EventChanged.
type Event struct {
	Path string
	Kind EventKind
	Data []byte
}

type Options struct {
	Interval time.Duration
	Buffer   int
}

type fingerprint struct {
	mod  time.Time
	size int64
	hash string
}

type entry struct {
	fp      fingerprint
	missing bool
}

// Watcher polls tracked files. Metadata is compared first; content is only
// read and hashed when modtime or size moved, so touching a file without
// changing it emits nothing.
type Watcher struct {
	mu       sync.Mutex
	entries  map[string]*entry
	out      chan Event
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
	started  bool
	closed   bool
}

const (
	defaultInterval = time.Second
	defaultBuffer   = 8
)

func New(opts Options) *Watcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	buf := opts.Buffer
	if buf <= 0 {
		buf = defaultBuffer
	}
	return &Watcher{
		entries:  make(map[string]*entry),
		out:      make(chan Event, buf),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Events is closed by Stop.
func (w *Watcher) Events() <-chan Event {
	return w.out
}

// Track records the current state of path as the baseline.
func (w *Watcher) Track(path string) error {
	clean, ok := cleanPath(path)
	if !ok {
		return errdef.New(errdef.CodeFilesystem, "watch: empty path")
	}
	info, err := os.Stat(clean)
	if err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "watch %q", clean)
	}
	data, err := os.ReadFile(clean)
	if err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "watch %q", clean)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.entries[clean] = &entry{fp: fingerprintOf(info, data)}
	return nil
}

func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started || w.closed {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Scan()
			case <-w.stop:
				return
			}
		}
	}()
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.stop)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.out)
}

// Scan checks every tracked file once. Events that do not fit in the buffer
// are dropped; the next change is reported against the updated baseline.
func (w *Watcher) Scan() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	for path, e := range w.entries {
		evt, ok := check(path, e)
		if !ok {
			continue
		}
		select {
		case w.out <- evt:
		default:
		}
	}
}

func check(path string, e *entry) (Event, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || e.missing {
			return Event{}, false
		}
		e.missing = true
		return Event{Path: path, Kind: EventMissing}, true
	}
	if !e.missing && info.ModTime().Equal(e.fp.mod) && info.Size() == e.fp.size {
		return Event{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if e.missing {
			return Event{}, false
		}
		e.missing = true
		return Event{Path: path, Kind: EventMissing}, true
	}
	next := fingerprintOf(info, data)
	changed := e.missing || next.hash != e.fp.hash
	e.fp = next
	e.missing = false
	if !changed {
		return Event{}, false
	}
	return Event{Path: path, Kind: EventChanged, Data: data}, true
}

func cleanPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	clean := filepath.Clean(path)
	if clean == "." {
		return "", false
	}
	return clean, true
}

func fingerprintOf(info fs.FileInfo, data []byte) fingerprint {
	sum := sha256.Sum256(data)
	return fingerprint{
		mod:  info.ModTime(),
		size: info.Size(),
		hash: hex.EncodeToString(sum[:]),
	}
}
