package relay

import (
	"strings"
	"testing"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

func TestDecodeValidates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"search", `{"event":"search_mentions","ref":"r1","query":"Bo"}`, true},
		{"search without ref", `{"event":"search_mentions","query":"Bo"}`, false},
		{"clear", `{"event":"clear_mentions"}`, true},
		{"select without name", `{"event":"select_mention","ref":"r1"}`, false},
		{"blank message", `{"event":"send_message","message":"  "}`, false},
		{"mentions", `{"event":"mentions","ref":"r1","names":["Bob"]}`, true},
		{"unknown", `{"event":"dance"}`, false},
		{"missing event", `{}`, false},
		{"not json", `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			if (err == nil) != tt.ok {
				t.Fatalf("expected ok=%v, got err=%v", tt.ok, err)
			}
			if err != nil && errdef.CodeOf(err) != errdef.CodeProtocol {
				t.Fatalf("expected protocol error, got %s", errdef.CodeOf(err))
			}
		})
	}
}

func TestEncodeOmitsUnsetFields(t *testing.T) {
	data, err := Encode(Frame{Event: EventClearMentions})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := string(data); got != `{"event":"clear_mentions"}` {
		t.Fatalf("unexpected frame %s", got)
	}
	if _, err := Encode(Frame{Event: EventSendMessage}); err == nil || !strings.Contains(err.Error(), "requires message") {
		t.Fatalf("expected validation error, got %v", err)
	}
}
