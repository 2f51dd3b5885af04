package relay

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

const (
	defaultSendQueue   = 32
	defaultEventBuffer = 64
	defaultDialTimeout = 10 * time.Second
	maxFrameBytes      = 1 << 20
)

// Event is something the server pushed that the host should act on. Exactly
// one of Names, Selected, Message or Err is meaningful, by Kind.
type Event struct {
	Kind     EventName
	Ref      string
	Names    []string
	Selected string
	Message  string
	SentAt   time.Time
	Err      error
}

type DialOptions struct {
	Header      http.Header
	HTTPClient  *http.Client
	DialTimeout time.Duration
}

// Client implements the mention suggestion source and submission sink over a
// relay connection. Its outbound methods never block the caller; inbound
// events arrive on Events.
type Client struct {
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	sendCh chan Frame
	events chan Event
	once   sync.Once
	done   chan struct{}
	loops  sync.WaitGroup

	dropped atomic.Int64

	mu        sync.Mutex
	latestRef string
	newRef    func() string
}

func Dial(ctx context.Context, url string, opts DialOptions) (*Client, error) {
	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, url, &websocket.DialOptions{
		HTTPHeader: opts.Header,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeRelay, err, "dial %s", url)
	}
	conn.SetReadLimit(maxFrameBytes)
	return newClient(conn), nil
}

func newClient(conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		sendCh: make(chan Frame, defaultSendQueue),
		events: make(chan Event, defaultEventBuffer),
		done:   make(chan struct{}),
		newRef: uuid.NewString,
	}
	c.loops.Add(2)
	go c.writeLoop()
	go c.readLoop()
	go func() {
		c.loops.Wait()
		close(c.events)
		close(c.done)
	}()
	return c
}

// Events is closed once the connection ends.
func (c *Client) Events() <-chan Event {
	return c.events
}

// SearchMentions issues a query under a fresh ref. Replies carrying an older
// ref are dropped.
func (c *Client) SearchMentions(query string) {
	ref := c.newRef()
	c.mu.Lock()
	c.latestRef = ref
	c.mu.Unlock()
	c.enqueue(Frame{Event: EventSearchMentions, Ref: ref, Query: query})
}

// ClearMentions withdraws the outstanding query; any reply to it is dropped.
func (c *Client) ClearMentions() {
	c.mu.Lock()
	c.latestRef = ""
	c.mu.Unlock()
	c.enqueue(Frame{Event: EventClearMentions})
}

// SelectMention asks the server to confirm name for the current query. The
// confirmation arrives as an EventMentionSelected event.
func (c *Client) SelectMention(name string) {
	c.mu.Lock()
	ref := c.latestRef
	c.mu.Unlock()
	c.enqueue(Frame{Event: EventSelectMention, Ref: ref, Name: name})
}

func (c *Client) SendMessage(message string) {
	c.enqueue(Frame{Event: EventSendMessage, Message: message})
}

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		err = c.conn.Close(websocket.StatusNormalClosure, "")
		c.cancel()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Done is closed when the connection has ended and Events is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Dropped counts frames discarded because the send queue was full.
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

func (c *Client) enqueue(f Frame) {
	select {
	case <-c.ctx.Done():
		return
	default:
	}
	select {
	case c.sendCh <- f:
	default:
		c.dropped.Add(1)
	}
}

func (c *Client) writeLoop() {
	defer c.loops.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case f := <-c.sendCh:
			data, err := Encode(f)
			if err != nil {
				c.emit(Event{Kind: EventError, Err: err})
				continue
			}
			if err := c.conn.Write(c.ctx, websocket.MessageText, data); err != nil {
				if c.ctx.Err() == nil {
					c.emit(Event{Kind: EventError, Err: errdef.Wrap(errdef.CodeRelay, err, "send %s", f.Event)})
				}
				c.cancel()
				return
			}
		}
	}
}

func (c *Client) readLoop() {
	defer c.loops.Done()
	defer c.cancel()

	for {
		typ, data, err := c.conn.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				c.emit(Event{Kind: EventError, Err: errdef.Wrap(errdef.CodeRelay, err, "read")})
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		f, err := Decode(data)
		if err != nil {
			c.emit(Event{Kind: EventError, Err: err})
			continue
		}
		if ev, ok := c.accept(f); ok {
			c.emit(ev)
		}
	}
}

// accept turns a server frame into an Event, dropping stale suggestion lists.
func (c *Client) accept(f Frame) (Event, bool) {
	switch f.Event {
	case EventMentions:
		c.mu.Lock()
		current := c.latestRef
		c.mu.Unlock()
		if current == "" || f.Ref != current {
			return Event{}, false
		}
		return Event{Kind: EventMentions, Ref: f.Ref, Names: f.Names}, true
	case EventMentionSelected:
		return Event{Kind: EventMentionSelected, Selected: f.Name}, true
	case EventMessage:
		ev := Event{Kind: EventMessage, Message: f.Message}
		if f.SentAt != nil {
			ev.SentAt = *f.SentAt
		}
		return ev, true
	case EventError:
		return Event{Kind: EventError, Err: errdef.New(errdef.CodeRelay, "%s", f.Error)}, true
	default:
		return Event{}, false
	}
}

func (c *Client) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}
