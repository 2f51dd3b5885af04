package mention

import "unicode"

// State is the mention state machine position.
type State int

const (
	Idle State = iota
	Composing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	default:
		return "unknown"
	}
}

// Session tracks the mention currently being composed together with a
// snapshot of the buffer taken when its query was issued. Confirmations are
// always spliced into the snapshot, never into the live buffer.
type Session struct {
	active      bool
	start       int
	selected    int
	savedText   string
	savedCursor int
}

func NewSession() Session {
	return Session{start: -1, selected: NoSelection}
}

func (s *Session) Reset() {
	*s = NewSession()
}

// Begin (re)opens the session for tok and snapshots text and cursor.
func (s *Session) Begin(tok Token, text string, cursor int) {
	s.active = true
	s.start = tok.Start
	s.selected = ResetSelection()
	s.savedText = text
	s.savedCursor = cursor
}

func (s Session) State() State {
	if s.active {
		return Composing
	}
	return Idle
}

func (s Session) Active() bool {
	return s.active
}

func (s Session) Start() int {
	return s.start
}

func (s Session) Selected() int {
	return s.selected
}

func (s Session) Snapshot() (text string, cursor int) {
	return s.savedText, s.savedCursor
}

// Query is the text between "@" and the snapshot cursor, i.e. what was last
// sent to the suggestion source.
func (s Session) Query() string {
	if !s.active {
		return ""
	}
	runes := []rune(s.savedText)
	start := min(max(s.start+1, 0), len(runes))
	end := min(max(s.savedCursor, start), len(runes))
	return string(runes[start:end])
}

// ClearSelection forgets the highlighted suggestion without closing the
// session. A new list makes the old index meaningless.
func (s *Session) ClearSelection() {
	s.selected = ResetSelection()
}

// Move shifts the highlighted suggestion within a list of count items.
func (s *Session) Move(delta, count int) int {
	s.selected = ClampMove(s.selected, delta, count)
	return s.selected
}

// Splice replaces the query in the snapshot with "@name" plus a separating
// space and returns the new text and the cursor offset just past that space.
// The space is reused when the text after the query already starts with one.
func (s Session) Splice(name string) (string, int, bool) {
	if !s.active {
		return "", 0, false
	}
	runes := []rune(s.savedText)
	start := min(max(s.start, 0), len(runes))
	end := min(max(s.savedCursor, start), len(runes))
	before := runes[:start]
	after := runes[end:]

	insert := []rune("@" + name)
	if len(after) == 0 || !unicode.IsSpace(after[0]) {
		insert = append(insert, ' ')
	}
	out := make([]rune, 0, len(before)+len(insert)+len(after))
	out = append(out, before...)
	out = append(out, insert...)
	out = append(out, after...)
	return string(out), start + len([]rune(name)) + 2, true
}
