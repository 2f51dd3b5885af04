// Package directory holds the backends that answer mention queries: an
// in-memory roster ranked with fuzzy matching and a SQLite member table.
package directory

import (
	"context"
	"strings"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
	"github.com/unkn0wn-root/mentionpad/internal/mention"
)

// DefaultLimit caps results when a caller passes a non-positive limit.
const DefaultLimit = 8

// Member is one person that can be mentioned. Name is what gets inserted;
// Handle and Aliases only widen what a query matches.
type Member struct {
	Name    string   `yaml:"name"    json:"name"`
	Handle  string   `yaml:"handle"  json:"handle,omitempty"`
	Aliases []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Directory answers a mention query with display names, best match first.
type Directory interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Close() error
}

func (m Member) keys() []string {
	keys := make([]string, 0, 2+len(m.Aliases))
	keys = append(keys, m.Name)
	if h := strings.TrimSpace(m.Handle); h != "" {
		keys = append(keys, h)
	}
	for _, a := range m.Aliases {
		if a = strings.TrimSpace(a); a != "" {
			keys = append(keys, a)
		}
	}
	return keys
}

// Validate reports an error when the name would not render as one mention.
func (m Member) Validate() error {
	if !mention.IsName(m.Name) {
		return errdef.New(
			errdef.CodeDirectory,
			"member name %q must be one or two capitalised words",
			m.Name,
		)
	}
	return nil
}

func normalizeMembers(in []Member) ([]Member, error) {
	out := make([]Member, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, m := range in {
		m.Name = strings.TrimSpace(m.Name)
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[m.Name]; ok {
			return nil, errdef.New(errdef.CodeDirectory, "duplicate member %q", m.Name)
		}
		seen[m.Name] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
