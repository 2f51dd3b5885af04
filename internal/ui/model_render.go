package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/unkn0wn-root/mentionpad/internal/bindings"
	"github.com/unkn0wn-root/mentionpad/internal/timefmt"
	"github.com/unkn0wn-root/mentionpad/internal/ui/scroll"
)

const helpColumnSize = 5

func (m *Model) innerSize() (int, int) {
	w := max(m.width-m.theme.AppFrame.GetHorizontalFrameSize(), 0)
	h := max(m.height-m.theme.AppFrame.GetVerticalFrameSize(), 0)
	return w, h
}

func (m *Model) inputWidth() int {
	w, _ := m.innerSize()
	return max(w-m.theme.InputBorder.GetHorizontalFrameSize(), 1)
}

func (m *Model) applyLayout() {
	w, h := m.innerSize()
	m.help.Width = w
	used := 2 + inputRows + m.theme.InputBorder.GetVerticalFrameSize()
	if m.showHelp {
		used += lipgloss.Height(m.helpView())
	}
	logOuter := max(h-used, 0)
	m.log.setSize(
		m.theme,
		max(w-m.theme.LogBorder.GetHorizontalFrameSize(), 0),
		max(logOuter-m.theme.LogBorder.GetVerticalFrameSize(), 0),
	)
}

// syncInput keeps the mirror scrolled to the cursor row and hides the
// suggestion list once no mention is being composed.
func (m *Model) syncInput() {
	lay := m.mirror.layout(m.inputWidth(), m.ctrl.Cursor())
	top := scroll.Reveal(lay.cursorRow, lay.cursorRow, m.mirror.Top(), inputRows, len(lay.rows))
	m.ctrl.Scroll(top)
	if !m.ctrl.Composing() {
		m.list.Clear()
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initialising..."
	}
	w, _ := m.innerSize()

	sections := []string{
		m.renderHeader(w),
		m.renderLog(w),
		m.renderInput(),
	}
	if m.showHelp {
		sections = append(sections, m.helpView())
	}
	sections = append(sections, m.renderStatus(w))
	return m.theme.AppFrame.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderHeader(width int) string {
	parts := []string{m.theme.HeaderTitle.Render("mentionpad")}
	if m.version != "" {
		parts = append(parts, m.theme.HeaderValue.Render(m.version))
	}
	parts = append(parts, m.theme.HeaderValue.Render("source: "+m.sourceLabel))
	if !m.lastSentAt.IsZero() {
		parts = append(parts, m.theme.HeaderValue.Render(
			"last sent "+timefmt.Relative(m.lastSentAt, m.now(), m.loc),
		))
	}
	if m.copied {
		parts = append(parts, m.theme.Notification.Render("copied"))
	}
	line := m.theme.Header.Render(strings.Join(parts, "  "))
	return ansi.Truncate(line, width, "…")
}

// renderLog draws the message log with the suggestion box laid over its
// bottom rows, right above the input.
func (m Model) renderLog(width int) string {
	block := m.theme.LogBorder.Render(m.log.view())
	if !m.list.Visible() {
		return block
	}
	lines := strings.Split(block, "\n")
	box := strings.Split(m.list.view(m.theme, width), "\n")
	if len(box) > len(lines) {
		box = box[len(box)-len(lines):]
	}
	copy(lines[len(lines)-len(box):], box)
	return strings.Join(lines, "\n")
}

func (m Model) renderInput() string {
	lay := m.mirror.layout(m.inputWidth(), m.ctrl.Cursor())
	buf := m.ctrl.Buffer()
	selStart, selEnd := buf.Selection()
	body := m.mirror.render(m.theme, lay, mirrorView{
		height:      inputRows,
		cursor:      m.ctrl.Cursor(),
		selStart:    selStart,
		selEnd:      selEnd,
		focused:     true,
		placeholder: inputPlaceholder,
	})
	return m.theme.InputBorder.Width(m.inputWidth()).Render(body)
}

func (m Model) renderStatus(width int) string {
	style := m.theme.StatusBarValue
	switch m.statusMessage.level {
	case statusError:
		style = m.theme.Error
	case statusSuccess:
		style = m.theme.Success
	case statusWarn:
		style = m.theme.Error.Faint(true)
	}
	left := style.Render(m.statusMessage.text)
	if m.ctrl.Composing() {
		left = m.theme.StatusBarKey.Render("@") + " " + left
	}
	hints := m.shortHints()
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(hints)-m.theme.StatusBar.GetHorizontalFrameSize(), 1)
	line := m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + hints)
	return ansi.Truncate(line, width, "…")
}

func (m Model) shortHints() string {
	actions := []bindings.ActionID{
		bindings.ActionSubmit,
		bindings.ActionConfirm,
		bindings.ActionToggleHelp,
	}
	parts := make([]string, 0, len(actions))
	for _, action := range actions {
		bs := m.bindings.Bindings(action)
		if len(bs) == 0 {
			continue
		}
		parts = append(parts,
			m.theme.StatusBarKey.Render(strings.Join(bs[0].Steps, " "))+" "+
				m.theme.StatusBarValue.Render(strings.ToLower(bindings.Describe(action))),
		)
	}
	return strings.Join(parts, "  ")
}

func (m Model) helpView() string {
	all := m.bindings.HelpBindings()
	var groups [][]key.Binding
	for start := 0; start < len(all); start += helpColumnSize {
		groups = append(groups, all[start:min(start+helpColumnSize, len(all))])
	}
	return m.help.FullHelpView(groups)
}
