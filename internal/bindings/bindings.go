package bindings

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

// ActionID names something a key can do, e.g. "submit" or "suggest_next".
type ActionID string

// Binding is a key sequence of one step, or two for a chord such as
// "ctrl+x h".
type Binding struct {
	Action ActionID
	Steps  []string
}

func (b Binding) String() string { return strings.Join(b.Steps, " ") }

// Map is the resolved key table. The zero value binds nothing.
type Map struct {
	byAction map[ActionID][]Binding
	single   map[string]ActionID
	chords   map[string]map[string]ActionID
}

// DefaultMap returns the built-in key table.
func DefaultMap() *Map {
	return assemble(defaultTable())
}

// Load reads bindings.toml, or bindings.json when there is no TOML file, from
// dir and layers it over the defaults. An action listed in the file loses all
// of its default keys. Without either file the defaults are returned.
func Load(dir string) (*Map, error) {
	for _, name := range []string{"bindings.toml", "bindings.json"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeFilesystem, err, "read bindings %q", path)
		}
		overrides, err := decodeOverrides(data, filepath.Ext(name))
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeConfig, err, "bindings %q", path)
		}
		table := defaultTable()
		for id, seqs := range overrides {
			table[id] = seqs
		}
		if err := validate(table); err != nil {
			return nil, errdef.Wrap(errdef.CodeConfig, err, "bindings %q", path)
		}
		return assemble(table), nil
	}
	return DefaultMap(), nil
}

// Bindings lists the keys bound to action in the order they were declared.
func (m *Map) Bindings(action ActionID) []Binding {
	if m == nil {
		return nil
	}
	src := m.byAction[action]
	if len(src) == 0 {
		return nil
	}
	out := make([]Binding, len(src))
	for i, b := range src {
		out[i] = Binding{Action: b.Action, Steps: slices.Clone(b.Steps)}
	}
	return out
}

func (m *Map) lookup(step string) (ActionID, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.single[step]
	return id, ok
}

func (m *Map) lookupChord(prefix, next string) (ActionID, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.chords[prefix][next]
	return id, ok
}

func (m *Map) isPrefix(step string) bool {
	if m == nil {
		return false
	}
	_, ok := m.chords[step]
	return ok
}

// table maps every action to its key sequences.
type table map[ActionID][][]string

func defaultTable() table {
	t := make(table, len(definitions))
	for _, def := range definitions {
		seqs := make([][]string, len(def.defaults))
		for i, seq := range def.defaults {
			seqs[i] = slices.Clone(seq)
		}
		t[def.id] = seqs
	}
	return t
}

// assemble indexes t without checking it. Tables read from disk go through
// validate first.
func assemble(t table) *Map {
	m := &Map{
		byAction: make(map[ActionID][]Binding, len(t)),
		single:   make(map[string]ActionID),
		chords:   make(map[string]map[string]ActionID),
	}
	for _, def := range definitions {
		for _, seq := range t[def.id] {
			m.byAction[def.id] = append(m.byAction[def.id], Binding{Action: def.id, Steps: seq})
			switch len(seq) {
			case 1:
				m.single[seq[0]] = def.id
			case 2:
				if m.chords[seq[0]] == nil {
					m.chords[seq[0]] = make(map[string]ActionID)
				}
				m.chords[seq[0]][seq[1]] = def.id
			}
		}
	}
	return m
}

// validate rejects tables the resolver could not use unambiguously: a key
// bound twice, a chord prefix that is also a key of its own, sequences longer
// than two steps, and chords on actions forwarded to the text input.
func validate(t table) error {
	owner := make(map[string]ActionID)
	prefixes := make(map[string]ActionID)
	var errs []error
	for _, def := range definitions {
		for _, seq := range t[def.id] {
			switch {
			case len(seq) == 0 || len(seq) > 2:
				errs = append(errs, errdef.New(errdef.CodeConfig, "%s: a binding has one or two steps", def.id))
				continue
			case len(seq) == 2 && def.key != nil:
				errs = append(errs, errdef.New(errdef.CodeConfig, "%s: editing keys cannot be chords", def.id))
				continue
			case len(seq) == 2:
				prefixes[seq[0]] = def.id
			}
			k := strings.Join(seq, " ")
			if prev, ok := owner[k]; ok {
				errs = append(errs, errdef.New(errdef.CodeConfig, "%q is bound to both %s and %s", k, prev, def.id))
				continue
			}
			owner[k] = def.id
		}
	}
	for prefix, id := range prefixes {
		if prev, ok := owner[prefix]; ok {
			errs = append(errs, errdef.New(
				errdef.CodeConfig,
				"%q starts a chord for %s and is also bound to %s",
				prefix, id, prev,
			))
		}
	}
	return errors.Join(errs...)
}

type overridesFile struct {
	Bindings map[string][]string `json:"bindings" toml:"bindings"`
}

func decodeOverrides(data []byte, ext string) (table, error) {
	var file overridesFile
	var err error
	if ext == ".json" {
		err = json.Unmarshal(data, &file)
	} else {
		err = toml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, err
	}

	out := make(table, len(file.Bindings))
	for name, specs := range file.Bindings {
		id := ActionID(name)
		if _, ok := definitionLookup[id]; !ok {
			return nil, errdef.New(errdef.CodeConfig, "unknown action %q", name)
		}
		seqs := make([][]string, 0, len(specs))
		for _, spec := range specs {
			var seq []string
			for _, field := range strings.Fields(spec) {
				step := NormalizeKeyString(field)
				if step == "" {
					return nil, errdef.New(errdef.CodeConfig, "%s: bad key %q", name, field)
				}
				seq = append(seq, step)
			}
			seqs = append(seqs, seq)
		}
		out[id] = seqs
	}
	return out, nil
}

var modifierOrder = []string{"ctrl", "alt", "shift"}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"meta":    "alt",
	"shift":   "shift",
}

// NormalizeKeyString turns a key as a user writes it ("Ctrl+Shift+K", "A",
// "?") into the form bubbletea reports ("ctrl+shift+k", "shift+a",
// "shift+/"). It returns "" when raw names no key.
func NormalizeKeyString(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case raw == "?":
		return "shift+/"
	case raw == "+":
		return "+"
	}
	if r := []rune(raw); len(r) == 1 {
		lower := strings.ToLower(raw)
		if lower != raw {
			return "shift+" + lower
		}
		return raw
	}

	parts := strings.Split(strings.ToLower(raw), "+")
	name := parts[len(parts)-1]
	if name == "" {
		return ""
	}
	mods := make(map[string]bool, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierAliases[p]
		if !ok {
			return ""
		}
		mods[mod] = true
	}
	out := make([]string, 0, len(parts))
	for _, mod := range modifierOrder {
		if mods[mod] {
			out = append(out, mod)
		}
	}
	return strings.Join(append(out, name), "+")
}

// KnownActions returns every action in declaration order.
func KnownActions() []ActionID {
	ids := make([]ActionID, len(definitions))
	for i, def := range definitions {
		ids[i] = def.id
	}
	return ids
}
