package ui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/mentionpad/internal/watcher"
)

func waitForRoster(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return nil
		}
		return rosterChangedMsg{event: evt}
	}
}

// handleRosterChange applies an edited roster. A removed or broken file
// leaves the current members in place.
func (m *Model) handleRosterChange(evt watcher.Event) {
	name := filepath.Base(evt.Path)
	if evt.Kind == watcher.EventMissing {
		m.setStatusMessage(statusMsg{
			text:  fmt.Sprintf("%s removed on disk. Keeping current roster.", name),
			level: statusWarn,
		})
		return
	}
	if m.reloadRoster == nil {
		return
	}
	n, err := m.reloadRoster(evt.Data)
	if err != nil {
		m.setStatusMessage(statusMsg{
			text:  fmt.Sprintf("%s not reloaded: %v", name, err),
			level: statusError,
		})
		return
	}
	m.setStatusMessage(statusMsg{
		text:  fmt.Sprintf("Reloaded %s (%d members)", name, n),
		level: statusSuccess,
	})
}
