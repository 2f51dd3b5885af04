package directory

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

const schema = `
CREATE TABLE IF NOT EXISTS members (
	name    TEXT PRIMARY KEY,
	handle  TEXT NOT NULL DEFAULT '',
	aliases TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS members_handle ON members(handle);
`

// SQLite serves members from a "members" table. Matching is a
// case-insensitive substring match on name, handle or aliases; prefix hits
// on the name rank first.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeDirectory, err, "open %q", path)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errdef.Wrap(errdef.CodeDirectory, err, "prepare schema in %q", path)
	}
	return &SQLite{db: db}, nil
}

// Import upserts members in one transaction.
func (s *SQLite) Import(ctx context.Context, members []Member) error {
	normalized, err := normalizeMembers(members)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errdef.Wrap(errdef.CodeDirectory, err, "begin import")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO members(name, handle, aliases) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET handle = excluded.handle, aliases = excluded.aliases`)
	if err != nil {
		return errdef.Wrap(errdef.CodeDirectory, err, "prepare import")
	}
	defer stmt.Close()

	for _, m := range normalized {
		aliases := strings.Join(m.Aliases, "\n")
		if _, err := stmt.ExecContext(ctx, m.Name, strings.TrimSpace(m.Handle), aliases); err != nil {
			return errdef.Wrap(errdef.CodeDirectory, err, "import %q", m.Name)
		}
	}
	if err := tx.Commit(); err != nil {
		return errdef.Wrap(errdef.CodeDirectory, err, "commit import")
	}
	return nil
}

func (s *SQLite) Search(ctx context.Context, query string, limit int) ([]string, error) {
	limit = limitOrDefault(limit)
	esc := escapeLike(query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM members
		WHERE name LIKE ?1 ESCAPE '\' OR handle LIKE ?1 ESCAPE '\' OR aliases LIKE ?1 ESCAPE '\'
		ORDER BY CASE WHEN name LIKE ?2 ESCAPE '\' THEN 0 ELSE 1 END, name
		LIMIT ?3`,
		"%"+esc+"%", esc+"%", limit,
	)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeDirectory, err, "search %q", query)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errdef.Wrap(errdef.CodeDirectory, err, "scan member")
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errdef.Wrap(errdef.CodeDirectory, err, "search %q", query)
	}
	return out, nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, errdef.Wrap(errdef.CodeDirectory, err, "count members")
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
