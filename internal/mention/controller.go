package mention

import "strings"

type Config struct {
	Source   SuggestionSource
	List     SuggestionList
	Sink     SubmissionSink
	Mirror   Mirror
	Renderer Renderer
}

// Controller drives the mention state machine for one text input. It owns the
// buffer and the session; every method runs to completion on the caller's
// goroutine and must not be called concurrently.
type Controller struct {
	buf      Buffer
	session  Session
	source   SuggestionSource
	list     SuggestionList
	sink     SubmissionSink
	mirror   Mirror
	renderer Renderer
	markup   string
}

func NewController(cfg Config) *Controller {
	c := &Controller{
		session:  NewSession(),
		source:   cfg.Source,
		list:     cfg.List,
		sink:     cfg.Sink,
		mirror:   cfg.Mirror,
		renderer: cfg.Renderer,
	}
	if c.source == nil {
		c.source = nopSource{}
	}
	if c.list == nil {
		c.list = nopList{}
	}
	if c.sink == nil {
		c.sink = nopSink{}
	}
	if c.mirror == nil {
		c.mirror = nopMirror{}
	}
	return c
}

// Attach resets the session and renders the current buffer into the mirror.
func (c *Controller) Attach() {
	c.session.Reset()
	c.syncMirror()
}

func (c *Controller) Text() string { return c.buf.String() }

func (c *Controller) Cursor() int { return c.buf.Cursor() }

func (c *Controller) Buffer() Buffer { return c.buf }

func (c *Controller) Markup() string { return c.markup }

func (c *Controller) Session() Session { return c.session }

func (c *Controller) State() State { return c.session.State() }

func (c *Controller) Composing() bool { return c.session.Active() }

// Query returns the query of the open session.
func (c *Controller) Query() (string, bool) {
	if !c.session.Active() {
		return "", false
	}
	return c.session.Query(), true
}

// ListUpdated must be called when the suggestion list is replaced from
// outside. The highlight is dropped so Tab/Enter fall back to the first item
// of the new list.
func (c *Controller) ListUpdated() {
	c.session.ClearSelection()
}

// KeyDown handles a key before any default editing. It returns true when the
// key was consumed and the host must not apply its default action.
func (c *Controller) KeyDown(k Key) bool {
	if c.session.Active() {
		if count := c.list.Len(); count > 0 {
			switch k.Code {
			case KeyDown:
				c.list.Highlight(c.session.Move(1, count))
				return true
			case KeyUp:
				c.list.Highlight(c.session.Move(-1, count))
				return true
			case KeyTab, KeyEnter:
				if idx, ok := CommitIndex(c.session.Selected(), count); ok {
					c.list.Activate(idx)
				}
				return true
			}
		}
		switch k.Code {
		case KeyEscape:
			c.closeSession()
			return true
		case KeyTab:
			return true
		case KeyEnter:
			if !k.Shift {
				return true
			}
		}
	}

	if k.Code == KeyBackspace && c.deleteTrailingMention() {
		return true
	}

	if k.Code == KeyEnter && !k.Shift {
		c.submit()
		return true
	}
	return false
}

// Input is the text-change event of a host-owned field.
func (c *Controller) Input(text string, cursor int) {
	c.buf.Set(text, cursor)
	c.changed()
}

// Press handles a key for hosts that let the controller edit the buffer
// itself: KeyDown first, then default editing, then the text-change event.
func (c *Controller) Press(k Key) {
	if c.KeyDown(k) {
		return
	}
	before := c.buf.String()
	switch k.Code {
	case KeyRunes:
		c.buf.Insert(k.Text)
	case KeyEnter:
		c.buf.Insert("\n")
	case KeyBackspace:
		c.buf.DeleteBackward()
	case KeyDelete:
		c.buf.DeleteForward()
	case KeyLeft:
		c.buf.Move(-1, k.Shift)
	case KeyRight:
		c.buf.Move(1, k.Shift)
	case KeyUp:
		c.buf.MoveLine(-1, k.Shift)
	case KeyDown:
		c.buf.MoveLine(1, k.Shift)
	case KeyHome:
		c.buf.Home(k.Shift)
	case KeyEnd:
		c.buf.End(k.Shift)
	}
	if c.buf.String() != before {
		c.changed()
	}
}

// MentionSelected commits name into the text captured when the query was
// issued. It reports false when no mention is being composed.
func (c *Controller) MentionSelected(name string) bool {
	text, cursor, ok := c.session.Splice(name)
	if !ok {
		return false
	}
	c.buf.Set(text, cursor)
	c.session.Reset()
	c.syncMirror()
	return true
}

// FormSubmitted clears the input after the host submitted it through a path
// other than Enter.
func (c *Controller) FormSubmitted() {
	c.session.Reset()
	c.buf.Clear()
	c.syncMirror()
}

// Scroll keeps the mirror at the same scroll offset as the input.
func (c *Controller) Scroll(top int) {
	c.mirror.SetScrollTop(top)
}

func (c *Controller) changed() {
	c.syncMirror()

	text := c.buf.String()
	cursor := c.buf.Cursor()
	if tok, ok := Detect(text, cursor); ok {
		c.session.Begin(tok, text, cursor)
		c.source.SearchMentions(tok.Query)
		return
	}
	if c.session.Active() {
		c.closeSession()
	}
}

func (c *Controller) closeSession() {
	c.session.Reset()
	c.source.ClearMentions()
}

func (c *Controller) deleteTrailingMention() bool {
	if c.buf.HasSelection() {
		return false
	}
	cursor := c.buf.Cursor()
	if cursor <= 0 {
		return false
	}
	prefix := string([]rune(c.buf.String())[:cursor])
	n := TrailingLen(prefix)
	if n == 0 {
		return false
	}
	c.buf.Delete(cursor-n, cursor)
	c.changed()
	return true
}

// submit sends the trimmed buffer. The buffer is cleared before the sink sees
// the message and is not restored if delivery fails.
func (c *Controller) submit() {
	message := strings.TrimSpace(c.buf.String())
	if message == "" {
		return
	}
	c.buf.Clear()
	c.syncMirror()
	c.session.Reset()
	c.sink.SendMessage(message)
}

func (c *Controller) syncMirror() {
	c.markup = c.renderer.Render(c.buf.String())
	c.mirror.SetMarkup(c.markup)
}
