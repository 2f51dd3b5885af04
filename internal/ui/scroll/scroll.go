// Package scroll computes offsets for fixed-height windows over longer lists.
package scroll

// Align returns the offset of an h-row window over total rows that keeps sel
// visible with a small margin. The current offset is kept when sel is already
// comfortably inside it, so moving the highlight does not jump the list.
func Align(sel, off, h, total int) int {
	if h <= 0 || total <= 0 {
		return 0
	}
	sel = clamp(sel, 0, total-1)
	h = min(h, total)
	maxOff := total - h
	off = clamp(off, 0, maxOff)
	if sel == total-1 {
		return maxOff
	}

	buf := max(h/4, 1)
	if h <= 2 {
		buf = 0
	}
	switch {
	case sel < off+buf:
		return clamp(sel-buf, 0, maxOff)
	case sel > off+h-1-buf:
		return clamp(sel-(h-1-buf), 0, maxOff)
	default:
		return off
	}
}

// Reveal returns an offset that shows rows [start,end] in an h-row window,
// leaving the offset alone when the span is already visible.
func Reveal(start, end, off, h, total int) int {
	if h <= 0 || total <= 0 {
		return 0
	}
	start = clamp(start, 0, total-1)
	end = clamp(end, start, total-1)
	h = min(h, total)
	maxOff := total - h
	off = clamp(off, 0, maxOff)
	if start >= off && end <= off+h-1 {
		return off
	}
	if end-start+1 > h || start < off {
		return clamp(start, 0, maxOff)
	}
	return clamp(end-h+1, 0, maxOff)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
