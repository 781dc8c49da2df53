package sqliteutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// OpenDB opens a local sqlite file (or ":memory:") and applies the embedded
// schema. A "libsql://" url opens a remote database instead, for deployments
// that keep the sweep history on a hosted replica.
func OpenDB(schema, path string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	if strings.HasPrefix(path, "libsql://") || strings.HasPrefix(path, "wss://") || strings.HasPrefix(path, "https://") {
		db, err = sql.Open("libsql", path)
	} else {
		if path != ":memory:" {
			os.MkdirAll(filepath.Dir(path), 0777)
		}
		db, err = sql.Open("sqlite", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// see https://stackoverflow.com/questions/35804884 for why sqlite needs
	// a single writer connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil && !isRemoteErr(err) {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil && !strings.Contains(err.Error(), "already exists") {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func isRemoteErr(err error) bool {
	return strings.Contains(err.Error(), "not supported")
}
