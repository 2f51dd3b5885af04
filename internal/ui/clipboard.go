package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// copyLast puts the newest message on the clipboard and shows "copied" until
// the feedback timer fires. A later copy restarts the timer.
func (m *Model) copyLast() tea.Cmd {
	entry, ok := m.log.latest()
	if !ok {
		m.setStatusMessage(statusMsg{text: "Nothing to copy yet", level: statusInfo})
		return nil
	}
	if err := m.clipboard(entry.message); err != nil {
		m.setStatusMessage(statusMsg{text: "Clipboard unavailable: " + err.Error(), level: statusWarn})
		return nil
	}
	m.copied = true
	m.copiedSeq++
	seq := m.copiedSeq
	m.setStatusMessage(statusMsg{text: "Copied last message", level: statusSuccess})
	return tea.Tick(copiedFeedback, func(time.Time) tea.Msg {
		return copiedResetMsg{seq: seq}
	})
}
