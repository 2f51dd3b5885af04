package ui

import (
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/mentionpad/internal/mention"
	"github.com/unkn0wn-root/mentionpad/internal/theme"
	"github.com/unkn0wn-root/mentionpad/internal/timefmt"
)

type logEntry struct {
	at      time.Time
	message string
}

// messageLog shows sent messages oldest first and follows new ones.
type messageLog struct {
	vp      viewport.Model
	entries []logEntry
	format  timefmt.Format
	loc     *time.Location
}

func newMessageLog(format timefmt.Format, loc *time.Location) *messageLog {
	return &messageLog{
		vp:     viewport.New(0, 0),
		format: format,
		loc:    loc,
	}
}

func (l *messageLog) setSize(th theme.Theme, width, height int) {
	l.vp.Width = max(width, 0)
	l.vp.Height = max(height, 0)
	l.refresh(th)
}

func (l *messageLog) append(th theme.Theme, e logEntry) {
	l.entries = append(l.entries, e)
	l.refresh(th)
	l.vp.GotoBottom()
}

func (l *messageLog) latest() (logEntry, bool) {
	if len(l.entries) == 0 {
		return logEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

func (l *messageLog) scroll(delta int) {
	if delta < 0 {
		l.vp.ScrollUp(-delta)
		return
	}
	l.vp.ScrollDown(delta)
}

func (l *messageLog) page() int {
	return max(l.vp.Height-1, 1)
}

func (l *messageLog) view() string {
	return l.vp.View()
}

func (l *messageLog) refresh(th theme.Theme) {
	if len(l.entries) == 0 {
		l.vp.SetContent(th.Placeholder.Render("No messages yet"))
		return
	}
	width := l.vp.Width
	blocks := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		stamp := th.LogTimestamp.Render(timefmt.Local(e.at, l.format, l.loc))
		body := renderLogMessage(th, e.message)
		if width > 0 {
			body = lipgloss.NewStyle().Width(width).Render(body)
		}
		blocks = append(blocks, stamp+"\n"+body)
	}
	l.vp.SetContent(strings.Join(blocks, "\n\n"))
}

func renderLogMessage(th theme.Theme, message string) string {
	var b strings.Builder
	for _, sp := range mention.Spans(message) {
		chunk := message[sp.Start:sp.End]
		if sp.Mention {
			name := strings.TrimRightFunc(chunk, unicode.IsSpace)
			b.WriteString(th.LogMention.Render(name))
			if tail := chunk[len(name):]; tail != "" {
				b.WriteString(th.LogMessage.Render(tail))
			}
			continue
		}
		b.WriteString(th.LogMessage.Render(chunk))
	}
	return b.String()
}
