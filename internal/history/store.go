package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
	"github.com/unkn0wn-root/mentionpad/internal/mention"
)

const defaultMaxEntries = 500

// Entry is one sent message. Drafts are never recorded.
type Entry struct {
	ID       string    `json:"id"`
	SentAt   time.Time `json:"sentAt"`
	Message  string    `json:"message"`
	Mentions []string  `json:"mentions,omitempty"`
	Source   string    `json:"source,omitempty"`
}

// Store is a newest-first message log persisted as JSON. It loads lazily on
// first use and is safe for concurrent use.
type Store struct {
	path       string
	maxEntries int
	entries    []Entry
	mu         sync.RWMutex
	loaded     bool
}

func NewStore(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Store{path: path, maxEntries: maxEntries}
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoadedLocked()
}

// Record appends message sent at the given time, extracting its mentions.
func (s *Store) Record(message string, at time.Time, source string) (Entry, error) {
	entry := complete(Entry{
		SentAt:  at,
		Message: strings.TrimSpace(message),
		Source:  source,
	})
	if err := s.Append(entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func complete(entry Entry) Entry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	if entry.Mentions == nil {
		entry.Mentions = mention.Names(entry.Message)
	}
	return entry
}

// Append stores entry, filling a missing ID, time or mention list.
func (s *Store) Append(entry Entry) error {
	if strings.TrimSpace(entry.Message) == "" {
		return errdef.New(errdef.CodeHistory, "refusing to record an empty message")
	}
	entry = complete(entry)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(); err != nil {
		return err
	}

	s.entries = append([]Entry{entry}, s.entries...)
	s.sortEntriesLocked()
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return s.persist()
}

func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copies := make([]Entry, len(s.entries))
	copy(copies, s.entries)
	return copies
}

// Latest returns the most recent entry.
func (s *Store) Latest() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[0], true
}

// Frequent ranks mentioned names by how often they were sent, most first,
// ties broken by the most recent use.
func (s *Store) Frequent(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	var order []string
	for _, entry := range s.entries {
		for _, m := range entry.Mentions {
			if counts[m] == 0 {
				order = append(order, m)
			}
			counts[m]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "create history dir")
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodeHistory, err, "encode history")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write history tmp")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "replace history file")
	}
	return nil
}

func (s *Store) sortEntriesLocked() {
	if len(s.entries) < 2 {
		return
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].SentAt.After(s.entries[j].SentAt)
	})
}

func (s *Store) ensureLoadedLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		data = nil
	case err != nil:
		return errdef.Wrap(errdef.CodeHistory, err, "read history")
	}

	s.entries = []Entry{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.entries); err != nil {
			return errdef.Wrap(errdef.CodeHistory, err, "parse history")
		}
	}
	s.sortEntriesLocked()
	s.loaded = true
	return nil
}
