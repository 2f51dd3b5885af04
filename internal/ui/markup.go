package ui

import (
	"html"
	"strings"
)

// markupRun is a stretch of mirrored text that is either all mention or all
// plain.
type markupRun struct {
	text    string
	mention bool
}

// parseMarkup turns highlight markup back into text runs. Any span counts as
// a highlight regardless of its class. The extra break the renderer adds
// after a trailing newline is dropped so the runs hold exactly the buffer
// text.
func parseMarkup(markup string) []markupRun {
	var (
		runs      []markupRun
		b         strings.Builder
		inMention bool
	)
	flush := func() {
		if b.Len() == 0 {
			return
		}
		runs = append(runs, markupRun{text: html.UnescapeString(b.String()), mention: inMention})
		b.Reset()
	}

	for i := 0; i < len(markup); {
		rest := markup[i:]
		switch {
		case strings.HasPrefix(rest, "<br>"):
			b.WriteByte('\n')
			i += len("<br>")
		case strings.HasPrefix(rest, "</span>"):
			flush()
			inMention = false
			i += len("</span>")
		case strings.HasPrefix(rest, "<span"):
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				b.WriteString(rest)
				i = len(markup)
				continue
			}
			flush()
			inMention = true
			i += end + 1
		default:
			b.WriteByte(markup[i])
			i++
		}
	}
	flush()

	if n := len(runs); n > 0 && strings.HasSuffix(runs[n-1].text, "\n") {
		last := strings.TrimSuffix(runs[n-1].text, "\n")
		if last == "" {
			runs = runs[:n-1]
		} else {
			runs[n-1].text = last
		}
	}
	return runs
}
