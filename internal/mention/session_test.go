package mention

import "testing"

func TestSessionSpliceUsesSnapshot(t *testing.T) {
	s := NewSession()
	s.Begin(Token{Start: 3, Query: "A"}, "hi @A there", 5)

	text, cursor, ok := s.Splice("Ada Lovelace")
	if !ok {
		t.Fatalf("expected splice on active session")
	}
	if text != "hi @Ada Lovelace there" {
		t.Fatalf("expected spliced text, got %q", text)
	}
	if cursor != 3+12+2 {
		t.Fatalf("expected cursor 17, got %d", cursor)
	}
}

func TestSessionSpliceAddsSpaceAtEnd(t *testing.T) {
	s := NewSession()
	s.Begin(Token{Start: 5, Query: "Bo"}, "ping @Bo", 8)
	text, cursor, _ := s.Splice("Bob")
	if text != "ping @Bob " || cursor != 10 {
		t.Fatalf("expected %q at 10, got %q at %d", "ping @Bob ", text, cursor)
	}
}

func TestSessionResetAndState(t *testing.T) {
	s := NewSession()
	if s.State() != Idle || s.Selected() != NoSelection || s.Start() != -1 {
		t.Fatalf("unexpected fresh session %+v", s)
	}
	s.Begin(Token{Start: 0, Query: "B"}, "@B", 2)
	s.Move(1, 3)
	if s.State() != Composing || s.Selected() != 0 {
		t.Fatalf("expected composing with selection 0, got %v/%d", s.State(), s.Selected())
	}
	s.Begin(Token{Start: 0, Query: "Bo"}, "@Bo", 3)
	if s.Selected() != NoSelection {
		t.Fatalf("expected selection reset on new query, got %d", s.Selected())
	}
	if text, cursor := s.Snapshot(); text != "@Bo" || cursor != 3 {
		t.Fatalf("expected refreshed snapshot, got %q/%d", text, cursor)
	}
	s.Reset()
	if _, _, ok := s.Splice("Bob"); ok {
		t.Fatalf("expected no splice after reset")
	}
	if s.State().String() != "idle" {
		t.Fatalf("expected idle, got %s", s.State())
	}
}
