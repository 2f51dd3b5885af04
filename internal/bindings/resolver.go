package bindings

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Resolver turns key presses into actions. A press that starts a chord is
// held as Pending until the next press completes or abandons it.
type Resolver struct {
	m       *Map
	pending string
}

func NewResolver(m *Map) *Resolver {
	return &Resolver{m: m}
}

// Pending returns the chord prefix waiting for its second step.
func (r *Resolver) Pending() string {
	return r.pending
}

func (r *Resolver) Reset() {
	r.pending = ""
}

// Feed resolves one key press. ok is false when the key is unbound, starts a
// chord, or does not complete the pending one. An abandoned chord swallows
// the second key.
func (r *Resolver) Feed(raw string) (Binding, bool) {
	step := NormalizeKeyString(raw)
	prefix := r.pending
	r.pending = ""
	switch {
	case step == "":
		return Binding{}, false
	case prefix != "":
		id, ok := r.m.lookupChord(prefix, step)
		if !ok {
			return Binding{}, false
		}
		return Binding{Action: id, Steps: []string{prefix, step}}, true
	case r.m.isPrefix(step):
		r.pending = step
		return Binding{}, false
	}
	id, ok := r.m.lookup(step)
	if !ok {
		return Binding{}, false
	}
	return Binding{Action: id, Steps: []string{step}}, true
}

// HelpBindings returns one bubbles key.Binding per bound action, in action
// order, for the help component.
func (m *Map) HelpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(definitions))
	for _, def := range definitions {
		bs := m.Bindings(def.id)
		if len(bs) == 0 {
			continue
		}
		keys := make([]string, len(bs))
		for i, b := range bs {
			keys[i] = b.String()
		}
		out = append(out, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), def.description),
		))
	}
	return out
}
