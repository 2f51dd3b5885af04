package main

import (
	"context"
	"log"

	"github.com/unkn0wn-root/mentionpad/internal/directory"
	"github.com/unkn0wn-root/mentionpad/internal/errdef"
)

// openDirectory builds the local suggestion directory. With a database the
// roster, if any, is imported into it first; without one the roster is
// served from memory.
func openDirectory(ctx context.Context, rosterPath, dbPath string) (directory.Directory, error) {
	var members []directory.Member
	if rosterPath != "" {
		loaded, err := directory.LoadRoster(rosterPath)
		if err != nil {
			return nil, err
		}
		members = loaded
	}

	if dbPath == "" {
		mem, err := directory.NewMemory(members)
		if err != nil {
			return nil, err
		}
		return mem, nil
	}

	db, err := directory.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		if err := db.Import(ctx, members); err != nil {
			_ = db.Close()
			return nil, errdef.Wrap(errdef.CodeDirectory, err, "import roster into %q", dbPath)
		}
	}
	if n, err := db.Count(ctx); err == nil && n == 0 {
		log.Printf("member database %s is empty; suggestions will be blank", dbPath)
	}
	return db, nil
}

// rosterReloader parses an edited roster and applies it to dir. The memory
// directory swaps its members; the database upserts them.
func rosterReloader(ctx context.Context, dir directory.Directory) func([]byte) (int, error) {
	return func(data []byte) (int, error) {
		members, err := directory.ParseRoster(data)
		if err != nil {
			return 0, err
		}
		switch d := dir.(type) {
		case *directory.Memory:
			err = d.Replace(members)
		case *directory.SQLite:
			err = d.Import(ctx, members)
		default:
			err = errdef.New(errdef.CodeDirectory, "directory %T cannot reload", dir)
		}
		if err != nil {
			return 0, err
		}
		return len(members), nil
	}
}
