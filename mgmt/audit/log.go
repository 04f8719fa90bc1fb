// Package audit is an optional control-command audit log for the
// management dispatcher (SPEC_FULL.md §3 domain stack): every executed
// control command is recorded as (timestamp, command name, requester,
// response code) in a local SQLite database. This is an ambient
// operational concern, distinct from and not excluded by spec.md's
// content-store non-goals.
//
// Grounded on the teacher's std/security/pib/sqlite-pib.go: open via
// database/sql with the mattn/go-sqlite3 driver, schema created on
// first use, simple positional-parameter queries.
package audit

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS control_command_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	command TEXT NOT NULL,
	requester TEXT NOT NULL,
	response_code INTEGER NOT NULL
);
`

// Log is an append-only record of executed control commands.
type Log struct {
	db *sql.DB
}

// Open opens (creating and migrating if absent) a SQLite database at
// path for use as an audit log.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Log{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record appends one entry for an executed control command.
func (l *Log) Record(at time.Time, command, requester string, responseCode uint64) error {
	_, err := l.db.Exec(
		"INSERT INTO control_command_log (ts, command, requester, response_code) VALUES (?, ?, ?, ?)",
		at.Unix(), command, requester, responseCode,
	)
	return err
}

// Entry is one recorded control-command execution.
type Entry struct {
	Time         time.Time
	Command      string
	Requester    string
	ResponseCode uint64
}

// Recent returns up to limit most recent entries, newest first.
func (l *Log) Recent(limit int) ([]Entry, error) {
	rows, err := l.db.Query(
		"SELECT ts, command, requester, response_code FROM control_command_log ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var ts int64
		var e Entry
		if err := rows.Scan(&ts, &e.Command, &e.Requester, &e.ResponseCode); err != nil {
			return nil, err
		}
		e.Time = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
