package mention

// Buffer is the plain-text content of the input with a caret and an optional
// selection anchor. Offsets are rune offsets.
type Buffer struct {
	text   []rune
	caret  int
	anchor int
}

func NewBuffer(text string, cursor int) Buffer {
	var b Buffer
	b.Set(text, cursor)
	return b
}

// Set replaces the content and places a collapsed cursor, clamped to bounds.
func (b *Buffer) Set(text string, cursor int) {
	b.text = []rune(text)
	b.SetCursor(cursor)
}

func (b *Buffer) SetCursor(cursor int) {
	b.caret = b.clamp(cursor)
	b.anchor = b.caret
}

func (b Buffer) String() string {
	return string(b.text)
}

func (b Buffer) Len() int {
	return len(b.text)
}

func (b Buffer) Cursor() int {
	return b.caret
}

func (b Buffer) HasSelection() bool {
	return b.caret != b.anchor
}

// Selection returns the ordered selection bounds. Both equal the cursor when
// nothing is selected.
func (b Buffer) Selection() (int, int) {
	if b.anchor < b.caret {
		return b.anchor, b.caret
	}
	return b.caret, b.anchor
}

func (b *Buffer) Clear() {
	b.text = nil
	b.caret = 0
	b.anchor = 0
}

// Insert replaces the selection (if any) with s and leaves the cursor after it.
func (b *Buffer) Insert(s string) {
	start, end := b.Selection()
	ins := []rune(s)
	out := make([]rune, 0, len(b.text)-(end-start)+len(ins))
	out = append(out, b.text[:start]...)
	out = append(out, ins...)
	out = append(out, b.text[end:]...)
	b.text = out
	b.SetCursor(start + len(ins))
}

// Delete removes [start, end) and collapses the cursor at start.
func (b *Buffer) Delete(start, end int) {
	start = b.clamp(start)
	end = b.clamp(end)
	if end < start {
		start, end = end, start
	}
	b.text = append(b.text[:start:start], b.text[end:]...)
	b.SetCursor(start)
}

func (b *Buffer) DeleteBackward() {
	if b.HasSelection() {
		b.Delete(b.Selection())
		return
	}
	if b.caret == 0 {
		return
	}
	b.Delete(b.caret-1, b.caret)
}

func (b *Buffer) DeleteForward() {
	if b.HasSelection() {
		b.Delete(b.Selection())
		return
	}
	if b.caret >= len(b.text) {
		return
	}
	b.Delete(b.caret, b.caret+1)
}

// Move shifts the caret by delta runes. With extend the anchor stays put.
func (b *Buffer) Move(delta int, extend bool) {
	if !extend && b.HasSelection() {
		start, end := b.Selection()
		if delta < 0 {
			b.SetCursor(start)
		} else {
			b.SetCursor(end)
		}
		return
	}
	b.moveTo(b.caret+delta, extend)
}

func (b *Buffer) Home(extend bool) {
	b.moveTo(b.lineStart(b.caret), extend)
}

func (b *Buffer) End(extend bool) {
	b.moveTo(b.lineEnd(b.caret), extend)
}

// MoveLine moves the caret delta lines up or down keeping the column when
// the target line is long enough.
func (b *Buffer) MoveLine(delta int, extend bool) {
	pos := b.caret
	col := pos - b.lineStart(pos)
	for ; delta < 0; delta++ {
		start := b.lineStart(pos)
		if start == 0 {
			b.moveTo(0, extend)
			return
		}
		pos = b.lineStart(start - 1)
	}
	for ; delta > 0; delta-- {
		end := b.lineEnd(pos)
		if end >= len(b.text) {
			b.moveTo(len(b.text), extend)
			return
		}
		pos = end + 1
	}
	b.moveTo(min(pos+col, b.lineEnd(pos)), extend)
}

// Line returns the zero-based line index of the caret.
func (b Buffer) Line() int {
	line := 0
	for _, r := range b.text[:b.caret] {
		if r == '\n' {
			line++
		}
	}
	return line
}

func (b *Buffer) moveTo(pos int, extend bool) {
	b.caret = b.clamp(pos)
	if !extend {
		b.anchor = b.caret
	}
}

func (b Buffer) lineStart(pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if b.text[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func (b Buffer) lineEnd(pos int) int {
	for i := pos; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			return i
		}
	}
	return len(b.text)
}

func (b Buffer) clamp(pos int) int {
	return min(max(pos, 0), len(b.text))
}
