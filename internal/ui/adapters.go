package ui

import (
	"context"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/mentionpad/internal/directory"
	"github.com/unkn0wn-root/mentionpad/internal/history"
	"github.com/unkn0wn-root/mentionpad/internal/relay"
	"github.com/unkn0wn-root/mentionpad/internal/telemetry"
)

const (
	searchTimeout = 3 * time.Second
	sourceLocal   = "local"
	sourceRelay   = "relay"
)

// cmdQueue collects the commands collaborators produce while the controller
// runs so Update can hand them to the runtime.
type cmdQueue struct {
	cmds []tea.Cmd
}

func (q *cmdQueue) push(cmd tea.Cmd) {
	if cmd != nil {
		q.cmds = append(q.cmds, cmd)
	}
}

func (q *cmdQueue) drain() []tea.Cmd {
	out := q.cmds
	q.cmds = nil
	return out
}

// directorySource answers mention queries from a local directory. Every query
// and every clear bumps seq; results tagged with an older seq are stale.
type directorySource struct {
	dir       directory.Directory
	history   *history.Store
	limit     int
	telemetry telemetry.Instrumenter
	queue     *cmdQueue
	seq       int
}

func (s *directorySource) SearchMentions(query string) {
	s.seq++
	seq := s.seq
	dir := s.dir
	store := s.history
	limit := s.limit
	inst := s.telemetry
	s.queue.push(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		ctx, span := inst.StartQuery(ctx, telemetry.QueryStart{Source: sourceLocal, Query: query})
		names, err := dir.Search(ctx, query, limit)
		if err == nil && store != nil {
			names = preferFrequent(names, store.Frequent(0))
		}
		span.End(telemetry.QueryResult{Count: len(names), Err: err})
		return suggestionsMsg{seq: seq, query: query, names: names, err: err}
	})
}

// preferFrequent moves names the user has mentioned before to the front,
// most used first. Everything else keeps the directory's order.
func preferFrequent(names, frequent []string) []string {
	if len(names) < 2 || len(frequent) == 0 {
		return names
	}
	rank := make(map[string]int, len(frequent))
	for i, name := range frequent {
		rank[name] = i
	}
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int {
		ra, okA := rank[a]
		rb, okB := rank[b]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
	return out
}

func (s *directorySource) ClearMentions() {
	s.seq++
}

func (s *directorySource) current(seq int) bool {
	return seq == s.seq
}

// historySink delivers messages locally: they are recorded in history and
// echoed into the message log.
type historySink struct {
	store     *history.Store
	telemetry telemetry.Instrumenter
	queue     *cmdQueue
	now       func() time.Time
}

func (s *historySink) SendMessage(message string) {
	at := s.now()
	store := s.store
	inst := s.telemetry
	s.queue.push(func() tea.Msg {
		_, span := inst.StartSubmit(context.Background(), telemetry.SubmitStart{
			Source:   sourceLocal,
			Length:   len([]rune(message)),
			Mentions: telemetry.CountMentions(message),
		})
		var err error
		if store != nil {
			_, err = store.Record(message, at, sourceLocal)
		}
		span.End(err)
		return messageSentMsg{message: message, at: at, err: err}
	})
}

// waitForRelay reads one event from the relay connection.
func waitForRelay(client *relay.Client) tea.Cmd {
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-client.Events()
		if !ok {
			return relayClosedMsg{}
		}
		return relayEventMsg{event: ev}
	}
}
