package mention

import "strings"

// MaxQueryLen is the longest query, in runes, that keeps a mention active.
const MaxQueryLen = 50

// Token is an in-progress mention: Start is the rune offset of the "@" and
// Query is everything between it and the cursor.
type Token struct {
	Start int
	Query string
}

// Detect scans backward from cursor to the nearest "@" on the current line and
// reports the mention being composed there, if any.
func Detect(text string, cursor int) (Token, bool) {
	runes := []rune(text)
	if cursor <= 0 || cursor > len(runes) {
		return Token{}, false
	}
	at := -1
	for i := cursor - 1; i >= 0; i-- {
		if runes[i] == '@' {
			at = i
			break
		}
		if runes[i] == '\n' {
			break
		}
	}
	if at < 0 {
		return Token{}, false
	}
	query := runes[at+1 : cursor]
	if len(query) < 1 || len(query) > MaxQueryLen {
		return Token{}, false
	}
	q := string(query)
	if strings.Contains(q, "\n") {
		return Token{}, false
	}
	return Token{Start: at, Query: q}, true
}
