// Package relay carries mention queries, selections and sent messages over a
// WebSocket as JSON text frames.
package relay

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

type EventName string

// Client to server.
const (
	EventSearchMentions EventName = "search_mentions"
	EventClearMentions  EventName = "clear_mentions"
	EventSelectMention  EventName = "select_mention"
	EventSendMessage    EventName = "send_message"
)

// Server to client.
const (
	EventMentions        EventName = "mentions"
	EventMentionSelected EventName = "mention_selected"
	EventMessage         EventName = "message"
	EventError           EventName = "error"
)

// Frame is the single wire shape; which fields are set depends on Event.
type Frame struct {
	Event   EventName  `json:"event"`
	Ref     string     `json:"ref,omitempty"`
	Query   string     `json:"query,omitempty"`
	Name    string     `json:"name,omitempty"`
	Names   []string   `json:"names,omitempty"`
	Message string     `json:"message,omitempty"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func Encode(f Frame) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeProtocol, err, "encode %s", f.Event)
	}
	return data, nil
}

func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, errdef.Wrap(errdef.CodeProtocol, err, "decode frame")
	}
	if err := f.validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

func (f Frame) validate() error {
	switch f.Event {
	case EventSearchMentions:
		if strings.TrimSpace(f.Ref) == "" {
			return errdef.New(errdef.CodeProtocol, "%s requires ref", f.Event)
		}
	case EventSelectMention, EventMentionSelected:
		if strings.TrimSpace(f.Name) == "" {
			return errdef.New(errdef.CodeProtocol, "%s requires name", f.Event)
		}
	case EventSendMessage, EventMessage:
		if strings.TrimSpace(f.Message) == "" {
			return errdef.New(errdef.CodeProtocol, "%s requires message", f.Event)
		}
	case EventMentions:
		if strings.TrimSpace(f.Ref) == "" {
			return errdef.New(errdef.CodeProtocol, "%s requires ref", f.Event)
		}
	case EventClearMentions, EventError:
	case "":
		return errdef.New(errdef.CodeProtocol, "frame missing event")
	default:
		return errdef.New(errdef.CodeProtocol, "unknown event %q", f.Event)
	}
	return nil
}
