package ui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/mentionpad/internal/bindings"
	"github.com/unkn0wn-root/mentionpad/internal/config"
	"github.com/unkn0wn-root/mentionpad/internal/directory"
	"github.com/unkn0wn-root/mentionpad/internal/history"
	"github.com/unkn0wn-root/mentionpad/internal/mention"
	"github.com/unkn0wn-root/mentionpad/internal/relay"
	"github.com/unkn0wn-root/mentionpad/internal/telemetry"
	"github.com/unkn0wn-root/mentionpad/internal/theme"
	"github.com/unkn0wn-root/mentionpad/internal/timefmt"
	"github.com/unkn0wn-root/mentionpad/internal/watcher"
)

const (
	inputRows        = 3
	copiedFeedback   = 2 * time.Second
	inputPlaceholder = "Type a message, @ to mention someone"
)

type Config struct {
	Theme     theme.Theme
	Bindings  *bindings.Map
	Mention   config.MentionSettings
	Directory directory.Directory
	// Relay, when set, replaces Directory for queries and delivers messages
	// through the relay server instead of recording them locally.
	Relay      *relay.Client
	History    *history.Store
	Telemetry  telemetry.Instrumenter
	TimeFormat timefmt.Format
	Location   *time.Location
	Clipboard  func(string) error
	Now        func() time.Time
	Version    string

	// RosterWatcher reports edits to the roster behind Directory and
	// ReloadRoster applies them, returning the new member count.
	RosterWatcher *watcher.Watcher
	ReloadRoster  func(data []byte) (int, error)
}

type Model struct {
	theme    theme.Theme
	bindings *bindings.Map
	resolver *bindings.Resolver
	help     help.Model
	showHelp bool

	ctrl   *mention.Controller
	mirror *terminalMirror
	list   *suggestionList
	local  *directorySource
	relay  *relay.Client
	queue  *cmdQueue
	log    *messageLog
	store  *history.Store

	rosterWatcher *watcher.Watcher
	reloadRoster  func([]byte) (int, error)

	clipboard  func(string) error
	now        func() time.Time
	loc        *time.Location
	copied     bool
	copiedSeq  int
	lastSentAt time.Time

	statusMessage statusMsg
	sourceLabel   string
	version       string

	width  int
	height int
	ready  bool
}

func New(cfg Config) Model {
	bm := cfg.Bindings
	if bm == nil {
		bm = bindings.DefaultMap()
	}
	inst := cfg.Telemetry
	if inst == nil {
		inst = telemetry.Noop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	writeClipboard := cfg.Clipboard
	if writeClipboard == nil {
		writeClipboard = clipboard.WriteAll
	}
	settings := config.NormaliseMentionSettings(cfg.Mention)

	m := Model{
		theme:     cfg.Theme.ForProfile(lipgloss.ColorProfile()),
		bindings:  bm,
		resolver:  bindings.NewResolver(bm),
		help:      help.New(),
		mirror:    newTerminalMirror(),
		relay:     cfg.Relay,
		queue:     &cmdQueue{},
		log:       newMessageLog(cfg.TimeFormat, cfg.Location),
		store:     cfg.History,
		clipboard: writeClipboard,
		now:       now,
		loc:       cfg.Location,
		version:   cfg.Version,

		rosterWatcher: cfg.RosterWatcher,
		reloadRoster:  cfg.ReloadRoster,
	}

	var (
		ctrl     *mention.Controller
		source   mention.SuggestionSource
		sink     mention.SubmissionSink
		activate func(string)
	)
	if cfg.Relay != nil {
		source = cfg.Relay
		sink = cfg.Relay
		activate = cfg.Relay.SelectMention
		m.sourceLabel = sourceRelay
	} else {
		dir := cfg.Directory
		if dir == nil {
			dir, _ = directory.NewMemory(nil)
		}
		m.local = &directorySource{
			dir:       dir,
			history:   cfg.History,
			limit:     settings.ListLimit,
			telemetry: inst,
			queue:     m.queue,
		}
		source = m.local
		sink = &historySink{store: cfg.History, telemetry: inst, queue: m.queue, now: now}
		activate = func(name string) { ctrl.MentionSelected(name) }
		m.sourceLabel = sourceLocal
	}

	m.list = newSuggestionList(settings.ListLimit, activate)
	ctrl = mention.NewController(mention.Config{
		Source:   source,
		List:     m.list,
		Sink:     sink,
		Mirror:   m.mirror,
		Renderer: mention.Renderer{HighlightClass: settings.HighlightClass},
	})
	m.ctrl = ctrl
	m.ctrl.Attach()
	m.loadHistory()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForRelay(m.relay), waitForRoster(m.rosterWatcher))
}

// loadHistory seeds the message log with previously sent messages.
func (m *Model) loadHistory() {
	if m.store == nil {
		return
	}
	if err := m.store.Load(); err != nil {
		m.setStatusMessage(statusMsg{text: "History unavailable: " + err.Error(), level: statusWarn})
		return
	}
	entries := m.store.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		m.log.entries = append(m.log.entries, logEntry{at: entries[i].SentAt, message: entries[i].Message})
	}
	if latest, ok := m.store.Latest(); ok {
		m.lastSentAt = latest.SentAt
	}
	m.log.refresh(m.theme)
	m.log.vp.GotoBottom()
}

func (m *Model) setStatusMessage(msg statusMsg) {
	m.statusMessage = msg
}

// Text returns the current draft.
func (m Model) Text() string { return m.ctrl.Text() }
