package relay

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/unkn0wn-root/mentionpad/internal/directory"
	"github.com/unkn0wn-root/mentionpad/internal/errdef"
	"github.com/unkn0wn-root/mentionpad/internal/telemetry"
)

const writeTimeout = 5 * time.Second

// Server answers mention queries from a directory and fans sent messages out
// to every connected client.
type Server struct {
	Directory directory.Directory
	Limit     int
	// OnMessage, when set, sees every accepted message before it is broadcast.
	OnMessage func(ctx context.Context, message string, at time.Time) error
	Telemetry telemetry.Instrumenter
	Now       func() time.Time
	// OriginPatterns is passed to websocket.Accept; empty allows same origin only.
	OriginPatterns []string

	mu    sync.Mutex
	peers map[*websocket.Conn]struct{}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.OriginPatterns,
	})
	if err != nil {
		return
	}
	conn.SetReadLimit(maxFrameBytes)
	s.join(conn)
	defer s.leave(conn)

	ctx, cancel := context.WithCancel(r.Context())
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
	}()

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		f, err := Decode(data)
		if err != nil {
			s.reply(ctx, conn, Frame{Event: EventError, Error: errdef.Message(err)})
			continue
		}
		if f.Event == EventSearchMentions {
			// searches may finish out of order; clients match replies by ref
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				s.handle(ctx, conn, f)
			}()
			continue
		}
		s.handle(ctx, conn, f)
	}
}

// Peers reports the number of connected clients.
func (s *Server) Peers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

func (s *Server) handle(ctx context.Context, conn *websocket.Conn, f Frame) {
	switch f.Event {
	case EventSearchMentions:
		names, err := s.search(ctx, f.Query)
		if err != nil {
			s.reply(ctx, conn, Frame{Event: EventError, Error: errdef.Message(err)})
			return
		}
		if names == nil {
			names = []string{}
		}
		s.reply(ctx, conn, Frame{Event: EventMentions, Ref: f.Ref, Names: names})
	case EventSelectMention:
		s.reply(ctx, conn, Frame{Event: EventMentionSelected, Name: strings.TrimSpace(f.Name)})
	case EventSendMessage:
		s.publish(ctx, conn, f.Message)
	case EventClearMentions:
	default:
		s.reply(ctx, conn, Frame{
			Event: EventError,
			Error: "unexpected event " + string(f.Event),
		})
	}
}

func (s *Server) search(ctx context.Context, query string) ([]string, error) {
	if s.Directory == nil {
		return nil, errdef.New(errdef.CodeDirectory, "no directory configured")
	}
	ctx, span := s.instrumenter().StartQuery(ctx, telemetry.QueryStart{
		Source: "relay",
		Query:  query,
	})
	names, err := s.Directory.Search(ctx, query, s.Limit)
	span.End(telemetry.QueryResult{Count: len(names), Err: err})
	return names, err
}

func (s *Server) publish(ctx context.Context, from *websocket.Conn, message string) {
	at := s.now()
	ctx, span := s.instrumenter().StartSubmit(ctx, telemetry.SubmitStart{
		Source:   "relay",
		Length:   len([]rune(message)),
		Mentions: telemetry.CountMentions(message),
	})
	if s.OnMessage != nil {
		if err := s.OnMessage(ctx, message, at); err != nil {
			span.End(err)
			s.reply(ctx, from, Frame{Event: EventError, Error: errdef.Message(err)})
			return
		}
	}
	span.End(nil)

	out := Frame{Event: EventMessage, Message: message, SentAt: &at}
	for _, peer := range s.snapshot() {
		s.reply(ctx, peer, out)
	}
}

func (s *Server) reply(ctx context.Context, conn *websocket.Conn, f Frame) {
	data, err := Encode(f)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, data)
}

func (s *Server) join(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.peers == nil {
		s.peers = make(map[*websocket.Conn]struct{})
	}
	s.peers[conn] = struct{}{}
}

func (s *Server) leave(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.peers, conn)
	s.mu.Unlock()
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) snapshot() []*websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*websocket.Conn, 0, len(s.peers))
	for c := range s.peers {
		out = append(out, c)
	}
	return out
}

func (s *Server) instrumenter() telemetry.Instrumenter {
	if s.Telemetry == nil {
		return telemetry.Noop()
	}
	return s.Telemetry
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
