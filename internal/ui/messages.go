package ui

import (
	"time"

	"github.com/unkn0wn-root/mentionpad/internal/relay"
	"github.com/unkn0wn-root/mentionpad/internal/watcher"
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
	statusSuccess
)

type statusMsg struct {
	text  string
	level statusLevel
}

// suggestionsMsg carries the result of a local directory query. seq ties it
// to the query that produced it so late answers can be dropped.
type suggestionsMsg struct {
	seq   int
	query string
	names []string
	err   error
}

type messageSentMsg struct {
	message string
	at      time.Time
	err     error
}

type relayEventMsg struct {
	event relay.Event
}

type relayClosedMsg struct{}

type rosterChangedMsg struct {
	event watcher.Event
}

type formSubmittedMsg struct{}

type copiedResetMsg struct {
	seq int
}
