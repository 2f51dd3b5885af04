package mention

import (
	"regexp"
	"unicode/utf8"
)

// namePattern is the lexical form of a mention: "@" and a capitalised word,
// an optional second capitalised word, and at most one trailing whitespace.
const namePattern = `@[A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)?\s?`

var (
	nameRe     = regexp.MustCompile(namePattern)
	trailingRe = regexp.MustCompile(`(?:` + namePattern + `)$`)
	wholeRe    = regexp.MustCompile(`^(?:` + namePattern + `)$`)
)

// Span is a half-open byte range of text. Mention marks ranges matched by
// the mention pattern.
type Span struct {
	Start   int
	End     int
	Mention bool
}

// Spans splits text into alternating literal and mention ranges covering the
// whole string in order.
func Spans(text string) []Span {
	if text == "" {
		return nil
	}
	matches := nameRe.FindAllStringIndex(text, -1)
	spans := make([]Span, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Start: last, End: m[0]})
		}
		spans = append(spans, Span{Start: m[0], End: m[1], Mention: true})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Start: last, End: len(text)})
	}
	return spans
}

// TrailingLen reports the rune length of the mention that ends exactly at the
// end of prefix, or 0 when prefix does not end in one.
func TrailingLen(prefix string) int {
	loc := trailingRe.FindStringIndex(prefix)
	if loc == nil {
		return 0
	}
	return utf8.RuneCountInString(prefix[loc[0]:loc[1]])
}

// Names returns every mention in text with the leading "@" and surrounding
// whitespace removed, in order of appearance.
func Names(text string) []string {
	var out []string
	for _, sp := range Spans(text) {
		if !sp.Mention {
			continue
		}
		out = append(out, normalizeName(text[sp.Start+1:sp.End]))
	}
	return out
}

// IsName reports whether "@"+name is highlighted as a single mention, so a
// committed name renders and deletes as one unit.
func IsName(name string) bool {
	if name == "" || name != normalizeName(name) {
		return false
	}
	return wholeRe.MatchString("@" + name)
}

func normalizeName(raw string) string {
	fields := make([]rune, 0, len(raw))
	space := false
	for _, r := range raw {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			space = true
			continue
		}
		if space && len(fields) > 0 {
			fields = append(fields, ' ')
		}
		space = false
		fields = append(fields, r)
	}
	return string(fields)
}
