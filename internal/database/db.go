package database

import (
	"database/sql"

	_ "github.com/glebarez/go-sqlite"
	"github.com/go-faster/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS whitelist (
	user_id  INTEGER PRIMARY KEY,
	username TEXT UNIQUE
);
CREATE TABLE IF NOT EXISTS processing_flags (
	user_id    INTEGER PRIMARY KEY,
	token      TEXT NOT NULL,
	expires_at INTEGER NOT NULL -- unix ms
);
`

// InitDB opens the bot database (whitelist and processing leases) and makes
// sure the tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	// sqlite не любить паралельних записувачів
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create tables")
	}
	return db, nil
}
