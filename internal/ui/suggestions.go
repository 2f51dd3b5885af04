package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/unkn0wn-root/mentionpad/internal/mention"
	"github.com/unkn0wn-root/mentionpad/internal/theme"
	"github.com/unkn0wn-root/mentionpad/internal/ui/scroll"
)

const maxSuggestionBoxWidth = 48

// suggestionList is the popup under the input. It implements
// mention.SuggestionList; activating an item hands its name to activate,
// which must end in Controller.MentionSelected.
type suggestionList struct {
	items    []string
	selected int
	offset   int
	height   int
	activate func(name string)
}

func newSuggestionList(height int, activate func(string)) *suggestionList {
	return &suggestionList{
		selected: mention.ResetSelection(),
		height:   max(height, 1),
		activate: activate,
	}
}

func (l *suggestionList) Len() int { return len(l.items) }

func (l *suggestionList) Highlight(index int) {
	if index < 0 || index >= len(l.items) {
		return
	}
	l.selected = index
	l.offset = scroll.Align(index, l.offset, l.height, len(l.items))
}

func (l *suggestionList) Activate(index int) {
	if index < 0 || index >= len(l.items) || l.activate == nil {
		return
	}
	l.activate(l.items[index])
}

func (l *suggestionList) SetItems(names []string) {
	l.items = append(l.items[:0:0], names...)
	l.selected = mention.ResetSelection()
	l.offset = 0
}

func (l *suggestionList) Clear() {
	l.SetItems(nil)
}

func (l *suggestionList) Visible() bool { return len(l.items) > 0 }

func (l *suggestionList) Selected() int { return l.selected }

// view draws the visible window of the list inside the suggestion box. Rows
// are padded to a common cell width so the selected bar spans the box.
func (l *suggestionList) view(th theme.Theme, width int) string {
	if len(l.items) == 0 || width <= 0 {
		return ""
	}
	boxWidth := min(width, maxSuggestionBoxWidth)
	inner := max(boxWidth-th.SuggestionBox.GetHorizontalFrameSize(), 1)

	end := min(l.offset+l.height, len(l.items))
	lines := make([]string, 0, end-l.offset+1)
	for i := l.offset; i < end; i++ {
		label := "@" + l.items[i]
		if runewidth.StringWidth(label) > inner {
			label = runewidth.Truncate(label, inner, "…")
		}
		label = runewidth.FillRight(label, inner)
		style := th.SuggestionItem
		if i == l.selected {
			style = th.SuggestionSelected
		}
		lines = append(lines, style.Render(label))
	}
	if hidden := len(l.items) - (end - l.offset); hidden > 0 {
		lines = append(lines, th.SuggestionHint.Render(
			runewidth.Truncate(pluralMore(hidden), inner, "…"),
		))
	}

	box := th.SuggestionBox.Render(strings.Join(lines, "\n"))
	rows := strings.Split(box, "\n")
	for i, row := range rows {
		rows[i] = ansi.Truncate(row, width, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func pluralMore(n int) string {
	if n == 1 {
		return "1 more"
	}
	return strconv.Itoa(n) + " more"
}
