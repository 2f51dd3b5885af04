package directory

import (
	"context"
	"sort"
	"sync"

	"github.com/sahilm/fuzzy"
)

// Memory ranks a fixed roster with fuzzy subsequence matching over each
// member's name, handle and aliases.
type Memory struct {
	mu      sync.RWMutex
	members []Member
	index   searchIndex
}

// searchIndex flattens every searchable key and remembers its member.
type searchIndex struct {
	keys   []string
	owners []int
}

func (s searchIndex) String(i int) string { return s.keys[i] }

func (s searchIndex) Len() int { return len(s.keys) }

func NewMemory(members []Member) (*Memory, error) {
	m := &Memory{}
	if err := m.Replace(members); err != nil {
		return nil, err
	}
	return m, nil
}

// Replace swaps the roster atomically.
func (m *Memory) Replace(members []Member) error {
	normalized, err := normalizeMembers(members)
	if err != nil {
		return err
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Name < normalized[j].Name
	})
	var idx searchIndex
	for i, member := range normalized {
		for _, k := range member.keys() {
			idx.keys = append(idx.keys, k)
			idx.owners = append(idx.owners, i)
		}
	}
	m.mu.Lock()
	m.members = normalized
	m.index = idx
	m.mu.Unlock()
	return nil
}

func (m *Memory) Members() []Member {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Member, len(m.members))
	copy(out, m.members)
	return out
}

// Search returns up to limit names. An empty query lists the roster in name
// order; otherwise the best-scoring key of each member decides its rank.
func (m *Memory) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = limitOrDefault(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if query == "" {
		n := min(limit, len(m.members))
		out := make([]string, 0, n)
		for _, member := range m.members[:n] {
			out = append(out, member.Name)
		}
		return out, nil
	}

	matches := fuzzy.FindFrom(query, m.index)
	out := make([]string, 0, min(limit, len(matches)))
	seen := make(map[int]struct{}, len(matches))
	for _, match := range matches {
		owner := m.index.owners[match.Index]
		if _, ok := seen[owner]; ok {
			continue
		}
		seen[owner] = struct{}{}
		out = append(out, m.members[owner].Name)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
