package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/unkn0wn-root/mentionpad/internal/theme"
)

// terminalMirror is the terminal rendition of the highlight overlay. It keeps
// the markup pushed by the controller and draws it, wrapped, with the cursor
// and selection laid on top.
type terminalMirror struct {
	markup string
	runs   []markupRun
	top    int
}

func newTerminalMirror() *terminalMirror {
	return &terminalMirror{}
}

func (m *terminalMirror) SetMarkup(markup string) {
	m.markup = markup
	m.runs = parseMarkup(markup)
}

func (m *terminalMirror) SetScrollTop(top int) {
	m.top = max(top, 0)
}

func (m *terminalMirror) Markup() string { return m.markup }

func (m *terminalMirror) Top() int { return m.top }

func (m *terminalMirror) empty() bool { return len(m.runs) == 0 }

type mirrorCell struct {
	r       rune
	mention bool
	pos     int
}

type mirrorLayout struct {
	rows      [][]mirrorCell
	cursorRow int
}

// layout wraps the mirrored text into rows no wider than width cells. A blank
// cell is added where the cursor sits past the last character of a line.
func (m *terminalMirror) layout(width, cursor int) mirrorLayout {
	width = max(width, 1)
	var (
		rows      [][]mirrorCell
		row       []mirrorCell
		rowWidth  int
		cursorRow int
		pos       int
	)
	breakRow := func() {
		rows = append(rows, row)
		row = nil
		rowWidth = 0
	}
	push := func(c mirrorCell) {
		w := max(runewidth.RuneWidth(c.r), 1)
		if rowWidth+w > width && len(row) > 0 {
			breakRow()
		}
		if c.pos == cursor {
			cursorRow = len(rows)
		}
		row = append(row, c)
		rowWidth += w
	}

	for _, run := range m.runs {
		for _, r := range run.text {
			if r == '\n' {
				if pos == cursor {
					push(mirrorCell{r: ' ', pos: pos})
				}
				breakRow()
				pos++
				continue
			}
			if r == '\t' {
				r = ' '
			}
			push(mirrorCell{r: r, mention: run.mention, pos: pos})
			pos++
		}
	}
	if pos == cursor {
		push(mirrorCell{r: ' ', pos: pos})
	}
	rows = append(rows, row)
	return mirrorLayout{rows: rows, cursorRow: cursorRow}
}

type cellStyle uint8

const (
	cellPlain cellStyle = iota
	cellMention
	cellSelected
	cellCursor
)

type mirrorView struct {
	height      int
	cursor      int
	selStart    int
	selEnd      int
	focused     bool
	placeholder string
}

func (m *terminalMirror) render(th theme.Theme, lay mirrorLayout, v mirrorView) string {
	styles := map[cellStyle]lipgloss.Style{
		cellPlain:    th.InputText,
		cellMention:  th.Mention,
		cellSelected: th.InputText.Reverse(true),
		cellCursor:   th.Cursor,
	}
	classify := func(c mirrorCell) cellStyle {
		switch {
		case v.focused && c.pos == v.cursor:
			return cellCursor
		case c.pos >= v.selStart && c.pos < v.selEnd:
			return cellSelected
		case c.mention:
			return cellMention
		default:
			return cellPlain
		}
	}

	top := min(m.top, max(len(lay.rows)-v.height, 0))
	lines := make([]string, 0, v.height)
	for i := top; i < len(lay.rows) && len(lines) < v.height; i++ {
		lines = append(lines, renderCells(lay.rows[i], styles, classify))
	}
	if m.empty() && v.placeholder != "" && len(lines) > 0 {
		lines[0] += th.Placeholder.Render(v.placeholder)
	}
	for len(lines) < v.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func renderCells(
	cells []mirrorCell,
	styles map[cellStyle]lipgloss.Style,
	classify func(mirrorCell) cellStyle,
) string {
	var (
		out     strings.Builder
		chunk   strings.Builder
		current cellStyle
	)
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		out.WriteString(styles[current].Render(chunk.String()))
		chunk.Reset()
	}
	for i, c := range cells {
		kind := classify(c)
		if i > 0 && kind != current {
			flush()
		}
		current = kind
		chunk.WriteRune(c.r)
	}
	flush()
	return out.String()
}
