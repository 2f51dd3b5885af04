package mention

// SuggestionSource receives query requests. Calls are fire-and-forget; results
// come back to the host, which shows them only while Composing.
type SuggestionSource interface {
	SearchMentions(query string)
	ClearMentions()
}

// SuggestionList is the visible list of candidates. Activate must behave like
// a click on the item: the host eventually calls Controller.MentionSelected
// with the item's name.
type SuggestionList interface {
	Len() int
	Highlight(index int)
	Activate(index int)
}

// SubmissionSink accepts finished messages.
type SubmissionSink interface {
	SendMessage(message string)
}

// Mirror is the overlay surface that displays highlighted markup.
type Mirror interface {
	SetMarkup(markup string)
	SetScrollTop(top int)
}

type nopSource struct{}

func (nopSource) SearchMentions(string) {}

func (nopSource) ClearMentions() {}

type nopList struct{}

func (nopList) Len() int { return 0 }

func (nopList) Highlight(int) {}

func (nopList) Activate(int) {}

type nopSink struct{}

func (nopSink) SendMessage(string) {}

type nopMirror struct{}

func (nopMirror) SetMarkup(string) {}

func (nopMirror) SetScrollTop(int) {}
