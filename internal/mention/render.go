package mention

import (
	"html"
	"strings"
)

// DefaultHighlightClass is the class attribute of the highlight container.
const DefaultHighlightClass = "mention"

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\n", "<br>",
)

// Renderer produces overlay markup for the mirror surface.
type Renderer struct {
	HighlightClass string
}

// Render returns text as escaped markup with every mention wrapped in a
// highlight span. A trailing newline produces an extra line break so the
// mirror keeps the same height as the input.
func (r Renderer) Render(text string) string {
	if text == "" {
		return ""
	}
	class := r.HighlightClass
	if class == "" {
		class = DefaultHighlightClass
	}
	open := `<span class="` + html.EscapeString(class) + `">`

	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, sp := range Spans(text) {
		chunk := text[sp.Start:sp.End]
		if !sp.Mention {
			b.WriteString(markupEscaper.Replace(chunk))
			continue
		}
		b.WriteString(open)
		b.WriteString(markupEscaper.Replace(chunk))
		b.WriteString("</span>")
	}
	if strings.HasSuffix(text, "\n") {
		b.WriteString("<br>")
	}
	return b.String()
}

// Render renders text with the default highlight class.
func Render(text string) string {
	return Renderer{}.Render(text)
}
