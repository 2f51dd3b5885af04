package history

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

func TestStoreRecordExtractsMentions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewStore(path, 10)

	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	entry, err := store.Record("  hi @Ada Lovelace and @Bob  ", at, "local")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if entry.ID == "" {
		t.Fatalf("expected generated id")
	}
	if entry.Message != "hi @Ada Lovelace and @Bob" {
		t.Fatalf("expected trimmed message, got %q", entry.Message)
	}
	if want := []string{"Ada Lovelace", "Bob"}; !reflect.DeepEqual(entry.Mentions, want) {
		t.Fatalf("expected mentions %q, got %q", want, entry.Mentions)
	}

	reloaded := NewStore(path, 10)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := reloaded.Entries()
	if len(got) != 1 || got[0].ID != entry.ID || !got[0].SentAt.Equal(at) {
		t.Fatalf("expected persisted entry, got %+v", got)
	}
}

func TestStoreOrdersNewestFirstAndTrims(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.json"), 2)
	t1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, msg := range []string{"first", "second", "third"} {
		if err := store.Append(Entry{ID: msg, Message: msg, SentAt: t1.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("append %s: %v", msg, err)
		}
	}
	if err := store.Append(Entry{ID: "late", Message: "late", SentAt: t1.Add(-time.Hour)}); err != nil {
		t.Fatalf("append late: %v", err)
	}

	got := store.Entries()
	if len(got) != 2 || got[0].ID != "third" || got[1].ID != "second" {
		t.Fatalf("expected third then second, got %+v", got)
	}
	if latest, ok := store.Latest(); !ok || latest.ID != "third" {
		t.Fatalf("expected latest third, got %+v (ok=%v)", latest, ok)
	}
}

func TestStoreRejectsEmptyMessage(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.json"), 10)
	err := store.Append(Entry{Message: " \n"})
	if errdef.CodeOf(err) != errdef.CodeHistory {
		t.Fatalf("expected history error, got %v", err)
	}
}

func TestStoreFrequentRanksByCountThenRecency(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.json"), 10)
	t1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, msg := range []string{"@Cy one", "@Bob two", "@Ada three", "@Bob and @Ada", "@Bob again"} {
		if err := store.Append(Entry{ID: msg, Message: msg, SentAt: t1.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	freq := store.Frequent(0)
	want := []string{"Bob", "Ada", "Cy"}
	if len(freq) != len(want) {
		t.Fatalf("expected %v, got %v", want, freq)
	}
	for i := range want {
		if freq[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, freq)
		}
	}
	if top := store.Frequent(1); len(top) != 1 || top[0] != "Bob" {
		t.Fatalf("expected Bob most frequent, got %q", top)
	}
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := NewStore(path, 10).Load()
	if errdef.CodeOf(err) != errdef.CodeHistory {
		t.Fatalf("expected history parse error, got %v", err)
	}
}
