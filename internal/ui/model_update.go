package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/mentionpad/internal/bindings"
	"github.com/unkn0wn-root/mentionpad/internal/errdef"
	"github.com/unkn0wn-root/mentionpad/internal/mention"
	"github.com/unkn0wn-root/mentionpad/internal/relay"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.ready = true
		m.applyLayout()
	case tea.KeyMsg:
		if cmd := m.handleKey(typed); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case statusMsg:
		m.setStatusMessage(typed)
	case suggestionsMsg:
		m.handleSuggestions(typed)
	case messageSentMsg:
		m.handleMessageSent(typed)
	case relayEventMsg:
		m.handleRelayEvent(typed.event)
		cmds = append(cmds, waitForRelay(m.relay))
	case relayClosedMsg:
		m.setStatusMessage(statusMsg{text: "Relay connection closed", level: statusError})
	case rosterChangedMsg:
		m.handleRosterChange(typed.event)
		cmds = append(cmds, waitForRoster(m.rosterWatcher))
	case formSubmittedMsg:
		m.ctrl.FormSubmitted()
	case copiedResetMsg:
		if typed.seq == m.copiedSeq {
			m.copied = false
		}
	}

	m.syncInput()
	cmds = append(cmds, m.queue.drain()...)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Paste {
		m.resolver.Reset()
		m.ctrl.Press(mention.Runes(string(msg.Runes)))
		return nil
	}

	chord := m.resolver.Pending() != ""
	binding, ok := m.resolver.Feed(msg.String())
	if !ok {
		if prefix := m.resolver.Pending(); prefix != "" {
			m.setStatusMessage(statusMsg{text: prefix + " …", level: statusInfo})
			return nil
		}
		if chord {
			m.setStatusMessage(statusMsg{text: "Unbound key sequence", level: statusInfo})
			return nil
		}
		if text := typedText(msg); text != "" {
			m.ctrl.Press(mention.Runes(text))
		}
		return nil
	}

	if k, ok := bindings.ControllerKey(binding.Action); ok {
		m.ctrl.Press(k)
		return nil
	}

	switch binding.Action {
	case bindings.ActionSendForm:
		return m.sendForm()
	case bindings.ActionCopyLast:
		return m.copyLast()
	case bindings.ActionScrollUp:
		m.log.scroll(-m.log.page())
	case bindings.ActionScrollDown:
		m.log.scroll(m.log.page())
	case bindings.ActionToggleHelp:
		m.showHelp = !m.showHelp
		m.applyLayout()
	case bindings.ActionQuit:
		return tea.Quit
	}
	return nil
}

// typedText returns the characters a key press inserts, if any.
func typedText(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return ""
		}
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	default:
		return ""
	}
}

// sendForm is the send-button path: the message goes out directly and the
// input is cleared on the next update.
func (m *Model) sendForm() tea.Cmd {
	message := strings.TrimSpace(m.ctrl.Text())
	if message == "" {
		return nil
	}
	if m.relay != nil {
		m.relay.SendMessage(message)
	} else {
		(&historySink{
			store:     m.store,
			telemetry: m.local.telemetry,
			queue:     m.queue,
			now:       m.now,
		}).SendMessage(message)
	}
	return func() tea.Msg { return formSubmittedMsg{} }
}

func (m *Model) handleSuggestions(msg suggestionsMsg) {
	if m.local == nil || !m.local.current(msg.seq) {
		return
	}
	if query, ok := m.ctrl.Query(); !ok || query != msg.query {
		return
	}
	if msg.err != nil {
		m.setStatusMessage(statusMsg{text: "Suggestions failed: " + errdef.Message(msg.err), level: statusWarn})
		m.list.Clear()
		return
	}
	m.list.SetItems(msg.names)
	m.ctrl.ListUpdated()
}

func (m *Model) handleMessageSent(msg messageSentMsg) {
	m.appendMessage(msg.message, msg.at)
	if msg.err != nil {
		m.setStatusMessage(statusMsg{text: "History not saved: " + errdef.Message(msg.err), level: statusWarn})
		return
	}
	m.setStatusMessage(statusMsg{text: "Sent", level: statusSuccess})
}

func (m *Model) handleRelayEvent(ev relay.Event) {
	switch ev.Kind {
	case relay.EventMentions:
		if m.ctrl.Composing() {
			m.list.SetItems(ev.Names)
			m.ctrl.ListUpdated()
		}
	case relay.EventMentionSelected:
		m.ctrl.MentionSelected(ev.Selected)
	case relay.EventMessage:
		at := ev.SentAt
		if at.IsZero() {
			at = m.now()
		}
		m.appendMessage(ev.Message, at)
		if m.store != nil {
			if _, err := m.store.Record(ev.Message, at, sourceRelay); err != nil {
				m.setStatusMessage(statusMsg{text: "History not saved: " + errdef.Message(err), level: statusWarn})
			}
		}
	case relay.EventError:
		m.setStatusMessage(statusMsg{text: errdef.Message(ev.Err), level: statusError})
	}
}

func (m *Model) appendMessage(message string, at time.Time) {
	m.log.append(m.theme, logEntry{at: at, message: message})
	if at.After(m.lastSentAt) {
		m.lastSentAt = at
	}
}
