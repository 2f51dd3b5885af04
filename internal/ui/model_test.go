package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/mentionpad/internal/directory"
	"github.com/unkn0wn-root/mentionpad/internal/history"
	"github.com/unkn0wn-root/mentionpad/internal/relay"
	"github.com/unkn0wn-root/mentionpad/internal/theme"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)

type modelHarness struct {
	t       *testing.T
	model   Model
	store   *history.Store
	clipped []string
}

func newHarness(t *testing.T) *modelHarness {
	t.Helper()
	dir, err := directory.NewMemory([]directory.Member{
		{Name: "Ada Lovelace"},
		{Name: "Alan Turing"},
		{Name: "Bob Stone"},
	})
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	h := &modelHarness{
		t:     t,
		store: history.NewStore(filepath.Join(t.TempDir(), "history.json"), 50),
	}
	h.model = New(Config{
		Theme:     theme.DefaultTheme(),
		Directory: dir,
		History:   h.store,
		Location:  time.UTC,
		Now:       func() time.Time { return fixedNow },
		Clipboard: func(s string) error {
			h.clipped = append(h.clipped, s)
			return nil
		},
	})
	h.drive(tea.WindowSizeMsg{Width: 80, Height: 24})
	return h
}

// drive feeds msgs through Update and runs every resulting command until
// nothing is left.
func (h *modelHarness) drive(msgs ...tea.Msg) {
	h.t.Helper()
	queue := append([]tea.Msg(nil), msgs...)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		next, cmd := h.model.Update(msg)
		h.model = next.(Model)
		queue = append(queue, collect(cmd)...)
	}
}

// step runs a single Update and returns its command unexecuted.
func (h *modelHarness) step(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func typeKeys(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func press(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestModelCommitsSuggestionWithTab(t *testing.T) {
	h := newHarness(t)
	h.drive(typeKeys("hi @Alan")...)

	if !h.model.ctrl.Composing() {
		t.Fatalf("expected a mention to be composing")
	}
	if h.model.list.Len() != 1 || h.model.list.items[0] != "Alan Turing" {
		t.Fatalf("expected Alan Turing suggestion, got %v", h.model.list.items)
	}

	h.drive(press(tea.KeyTab))
	if got := h.model.Text(); got != "hi @Alan Turing " {
		t.Fatalf("expected committed mention, got %q", got)
	}
	if h.model.ctrl.Composing() || h.model.list.Visible() {
		t.Fatalf("expected session closed and list hidden after commit")
	}
	if !strings.Contains(h.model.mirror.Markup(), `<span class="mention">@Alan Turing </span>`) {
		t.Fatalf("expected highlighted mention in mirror, got %q", h.model.mirror.Markup())
	}
}

func TestModelNavigatesWithArrowsAndConfirmsWithEnter(t *testing.T) {
	h := newHarness(t)
	h.drive(typeKeys("@A")...)
	if h.model.list.Len() < 2 {
		t.Fatalf("expected at least two suggestions, got %v", h.model.list.items)
	}
	second := h.model.list.items[1]

	h.drive(press(tea.KeyDown), press(tea.KeyDown), press(tea.KeyUp), press(tea.KeyDown))
	if h.model.list.Selected() != 1 {
		t.Fatalf("expected second item highlighted, got %d", h.model.list.Selected())
	}
	h.drive(press(tea.KeyEnter))
	if got := h.model.Text(); got != "@"+second+" " {
		t.Fatalf("expected %q, got %q", "@"+second+" ", got)
	}
	if len(h.store.Entries()) != 0 {
		t.Fatalf("expected Enter on a suggestion not to send")
	}
}

func TestModelEnterSendsAndRecordsHistory(t *testing.T) {
	h := newHarness(t)
	h.drive(typeKeys("hello @Bob")...)
	h.drive(press(tea.KeyTab))
	h.drive(press(tea.KeyEnter))

	if h.model.Text() != "" {
		t.Fatalf("expected input cleared, got %q", h.model.Text())
	}
	entry, ok := h.model.log.latest()
	if !ok || entry.message != "hello @Bob Stone" {
		t.Fatalf("expected logged message, got %+v", entry)
	}
	latest, ok := h.store.Latest()
	if !ok || latest.Message != "hello @Bob Stone" || latest.Source != sourceLocal {
		t.Fatalf("expected history entry, got %+v", latest)
	}
	if !latest.SentAt.Equal(fixedNow) {
		t.Fatalf("expected sent at %v, got %v", fixedNow, latest.SentAt)
	}
	if h.model.statusMessage.level != statusSuccess {
		t.Fatalf("expected success status, got %+v", h.model.statusMessage)
	}
}

func TestModelDropsSuggestionsAfterEscape(t *testing.T) {
	h := newHarness(t)
	var pending []tea.Cmd
	for _, msg := range typeKeys("@Al") {
		pending = append(pending, h.step(msg))
	}
	h.drive(press(tea.KeyEsc))
	if h.model.ctrl.Composing() {
		t.Fatalf("expected escape to close the session")
	}

	for _, cmd := range pending {
		h.drive(collect(cmd)...)
	}
	if h.model.list.Visible() {
		t.Fatalf("expected late suggestions to be dropped, got %v", h.model.list.items)
	}
}

func TestModelIgnoresStaleQueryResults(t *testing.T) {
	h := newHarness(t)
	h.step(typeKeys("@")[0])
	stale := h.step(typeKeys("A")[0])
	h.drive(typeKeys("d")...)
	if h.model.list.Len() != 1 || h.model.list.items[0] != "Ada Lovelace" {
		t.Fatalf("expected results for Ad, got %v", h.model.list.items)
	}

	h.drive(collect(stale)...)
	h.drive(suggestionsMsg{seq: -1, query: "X", names: []string{"Xavier"}})
	if h.model.list.Len() != 1 || h.model.list.items[0] != "Ada Lovelace" {
		t.Fatalf("expected stale results to be dropped, got %v", h.model.list.items)
	}
}

func TestModelSendFormClearsOnFollowingUpdate(t *testing.T) {
	h := newHarness(t)
	h.drive(typeKeys("note to self")...)

	cmd := h.step(press(tea.KeyCtrlS))
	if h.model.Text() != "note to self" {
		t.Fatalf("expected text kept until the deferred clear, got %q", h.model.Text())
	}
	h.drive(collect(cmd)...)
	if h.model.Text() != "" {
		t.Fatalf("expected cleared input, got %q", h.model.Text())
	}
	if entry, ok := h.model.log.latest(); !ok || entry.message != "note to self" {
		t.Fatalf("expected sent message in log, got %+v", entry)
	}
}

func TestModelCopyLastShowsFeedbackUntilReset(t *testing.T) {
	h := newHarness(t)
	h.step(press(tea.KeyCtrlY))
	if h.model.copied || len(h.clipped) != 0 {
		t.Fatalf("expected nothing copied without messages")
	}

	h.drive(typeKeys("ship it")...)
	h.drive(press(tea.KeyEnter))

	if cmd := h.step(press(tea.KeyCtrlY)); cmd == nil {
		t.Fatalf("expected a reset timer")
	}
	if !h.model.copied || len(h.clipped) != 1 || h.clipped[0] != "ship it" {
		t.Fatalf("expected copied feedback, got copied=%v clipped=%v", h.model.copied, h.clipped)
	}
	first := h.model.copiedSeq
	h.step(press(tea.KeyCtrlY))

	h.step(copiedResetMsg{seq: first})
	if !h.model.copied {
		t.Fatalf("expected an older timer not to clear newer feedback")
	}
	h.step(copiedResetMsg{seq: h.model.copiedSeq})
	if h.model.copied {
		t.Fatalf("expected feedback cleared")
	}
}

func TestModelCopyLastReportsClipboardFailure(t *testing.T) {
	h := newHarness(t)
	h.model.clipboard = func(string) error { return errors.New("no display") }
	h.drive(typeKeys("x")...)
	h.drive(press(tea.KeyEnter))
	h.step(press(tea.KeyCtrlY))
	if h.model.copied || h.model.statusMessage.level != statusWarn {
		t.Fatalf("expected warning status, got %+v", h.model.statusMessage)
	}
}

func TestModelChordsToggleHelpAndSwallowUnbound(t *testing.T) {
	h := newHarness(t)
	h.drive(press(tea.KeyCtrlX), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if !h.model.showHelp {
		t.Fatalf("expected help toggled on")
	}
	if !strings.Contains(h.model.View(), "Next suggestion") {
		t.Fatalf("expected help text in view")
	}

	h.drive(press(tea.KeyCtrlX), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	if h.model.Text() != "" {
		t.Fatalf("expected unbound chord step not to be typed, got %q", h.model.Text())
	}
	h.drive(press(tea.KeyF1))
	if h.model.showHelp {
		t.Fatalf("expected help toggled off")
	}
}

func TestModelQuit(t *testing.T) {
	h := newHarness(t)
	msgs := collect(h.step(press(tea.KeyCtrlC)))
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if _, ok := msgs[0].(tea.QuitMsg); !ok {
		t.Fatalf("expected quit, got %T", msgs[0])
	}
}

func TestModelLoadsHistoryOldestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := history.NewStore(path, 50)
	if _, err := store.Record("first", fixedNow.Add(-time.Hour), sourceLocal); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := store.Record("second @Ada Lovelace", fixedNow.Add(-time.Minute), sourceLocal); err != nil {
		t.Fatalf("record: %v", err)
	}

	m := New(Config{
		History:  history.NewStore(path, 50),
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	if len(m.log.entries) != 2 || m.log.entries[0].message != "first" {
		t.Fatalf("expected two entries oldest first, got %+v", m.log.entries)
	}
	if !m.lastSentAt.Equal(fixedNow.Add(-time.Minute)) {
		t.Fatalf("expected last sent from history, got %v", m.lastSentAt)
	}
}

func TestModelHandlesRelayEvents(t *testing.T) {
	h := newHarness(t)
	for _, msg := range typeKeys("@Bo") {
		h.step(msg)
	}

	h.model.handleRelayEvent(relay.Event{Kind: relay.EventMentions, Names: []string{"Bob Stone"}})
	if h.model.list.Len() != 1 {
		t.Fatalf("expected relay suggestions while composing")
	}
	h.model.handleRelayEvent(relay.Event{Kind: relay.EventMentionSelected, Selected: "Bob Stone"})
	if h.model.Text() != "@Bob Stone " {
		t.Fatalf("expected relay selection committed, got %q", h.model.Text())
	}

	h.step(statusMsg{})
	h.model.handleRelayEvent(relay.Event{Kind: relay.EventMentions, Names: []string{"Ada Lovelace"}})
	if h.model.list.Visible() {
		t.Fatalf("expected relay suggestions to be dropped while idle")
	}

	sent := fixedNow.Add(-2 * time.Minute)
	h.model.handleRelayEvent(relay.Event{Kind: relay.EventMessage, Message: "from afar", SentAt: sent})
	latest, ok := h.store.Latest()
	if !ok || latest.Message != "from afar" || latest.Source != sourceRelay {
		t.Fatalf("expected relay message recorded, got %+v", latest)
	}

	h.model.handleRelayEvent(relay.Event{Kind: relay.EventError, Err: errors.New("boom")})
	if h.model.statusMessage.level != statusError || h.model.statusMessage.text != "boom" {
		t.Fatalf("expected error status, got %+v", h.model.statusMessage)
	}
}

func TestModelViewShowsFrameAndPlaceholder(t *testing.T) {
	h := newHarness(t)
	view := h.model.View()
	for _, want := range []string{"mentionpad", "source: local", "Type a message"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}

	h.drive(typeKeys("@A")...)
	if !strings.Contains(h.model.View(), "@Ada Lovelace") {
		t.Fatalf("expected suggestion box in view")
	}
}

func TestModelRanksFrequentMentionsFirst(t *testing.T) {
	h := newHarness(t)
	for _, msg := range []string{"ping @Bob Stone", "thanks @Bob Stone", "cc @Alan Turing"} {
		if _, err := h.store.Record(msg, fixedNow, sourceLocal); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	h.drive(typeKeys("@A")...)
	if h.model.list.Len() < 2 || h.model.list.items[0] != "Alan Turing" {
		t.Fatalf("expected previously mentioned Alan Turing first, got %v", h.model.list.items)
	}
}

func TestPreferFrequentKeepsDirectoryOrderOtherwise(t *testing.T) {
	got := preferFrequent(
		[]string{"Ada Lovelace", "Alan Turing", "Bob Stone", "Cy Young"},
		[]string{"Cy Young", "Nobody Here", "Alan Turing"},
	)
	want := []string{"Cy Young", "Alan Turing", "Ada Lovelace", "Bob Stone"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestModelNewListDropsStaleHighlight(t *testing.T) {
	h := newHarness(t)
	h.drive(typeKeys("@A")...)
	if h.model.list.Len() < 2 {
		t.Fatalf("expected at least two suggestions, got %v", h.model.list.items)
	}

	held := h.step(typeKeys("l")[0])
	h.drive(press(tea.KeyDown), press(tea.KeyDown))
	if h.model.ctrl.Session().Selected() != 1 || h.model.list.Selected() != 1 {
		t.Fatalf("expected second row highlighted before the new list arrives")
	}

	h.drive(collect(held)...)
	if h.model.list.Selected() != -1 || h.model.ctrl.Session().Selected() != -1 {
		t.Fatalf("expected highlight cleared on new list, list=%d session=%d",
			h.model.list.Selected(), h.model.ctrl.Session().Selected())
	}
	first := h.model.list.items[0]
	h.drive(press(tea.KeyEnter))
	if got, want := h.model.Text(), "@"+first+" "; got != want {
		t.Fatalf("expected Enter to commit the first visible row %q, got %q", want, got)
	}
}

func TestModelDropsResultsForAnotherQuery(t *testing.T) {
	h := newHarness(t)
	h.drive(typeKeys("@Ad")...)
	before := append([]string(nil), h.model.list.items...)

	h.drive(suggestionsMsg{seq: h.model.local.seq, query: "Bo", names: []string{"Bob Stone"}})
	if len(h.model.list.items) != len(before) || h.model.list.items[0] != before[0] {
		t.Fatalf("expected results for another query to be ignored, got %v", h.model.list.items)
	}
}

func TestModelRelayListDropsStaleHighlight(t *testing.T) {
	h := newHarness(t)
	h.drive(typeKeys("@A")...)
	h.drive(press(tea.KeyDown), press(tea.KeyDown))

	h.model.handleRelayEvent(relay.Event{Kind: relay.EventMentions, Names: []string{"Ada Lovelace", "Alan Turing"}})
	if h.model.ctrl.Session().Selected() != -1 {
		t.Fatalf("expected relay list to clear the highlight, got %d", h.model.ctrl.Session().Selected())
	}
}
