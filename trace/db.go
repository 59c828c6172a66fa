// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/db47h/simrt"
)

// A DB records a run into a SQLite database: one row per run, one per log
// entry and one per committed register write, so finished simulations can
// be inspected with plain SQL.
//
// Tracer callbacks never fail the simulation. Write errors are kept and
// the first one is reported by Close, after which further writes are
// dropped.
//
type DB struct {
	db    *sql.DB
	runID int64
	err   error // first failed write
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	stopped_at TEXT,
	ticks      INTEGER NOT NULL DEFAULT 0,
	triggered  INTEGER NOT NULL DEFAULT 0,
	idle_stop  INTEGER NOT NULL DEFAULT 0,
	last_stamp INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS logs (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	stamp  INTEGER NOT NULL,
	line   INTEGER NOT NULL,
	module TEXT    NOT NULL,
	text   TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS changes (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	stamp  INTEGER NOT NULL,
	array  TEXT    NOT NULL,
	idx    INTEGER NOT NULL,
	value  TEXT    NOT NULL,
	writer TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS logs_run ON logs(run_id, stamp);
CREATE INDEX IF NOT EXISTS changes_run ON changes(run_id, stamp);
`

// OpenDB opens the trace database at path, creating it and its schema as
// needed, and starts a new run row.
//
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrap(err, "open trace database")
	}
	db.SetMaxOpenConns(1) // SQLite works best with a single writer
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create trace schema")
	}
	res, err := db.Exec(`INSERT INTO runs (started_at) VALUES (?)`, timestamp())
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create run row")
	}
	id, err := res.LastInsertId()
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "run row id")
	}
	return &DB{db: db, runID: id}, nil
}

// Log implements simrt.Tracer.
//
func (d *DB) Log(now simrt.Stamp, line int, module, text string) {
	d.exec(`INSERT INTO logs (run_id, stamp, line, module, text) VALUES (?, ?, ?, ?, ?)`,
		d.runID, int64(now), line, module, text)
}

// Commit implements simrt.Tracer.
//
func (d *DB) Commit(now simrt.Stamp, c simrt.Change) {
	d.exec(`INSERT INTO changes (run_id, stamp, array, idx, value, writer) VALUES (?, ?, ?, ?, ?, ?)`,
		d.runID, int64(c.Stamp), c.Array, c.Index, c.Value, c.Writer)
}

// Idle implements simrt.Tracer.
//
func (d *DB) Idle(now simrt.Stamp, count int) {
	d.exec(`UPDATE runs SET idle_stop = 1 WHERE id = ?`, d.runID)
}

// Finish stamps the run row with the final counters of a completed run.
//
func (d *DB) Finish(st simrt.Stats) {
	idle := 0
	if st.Idle {
		idle = 1
	}
	d.exec(`UPDATE runs SET stopped_at = ?, ticks = ?, triggered = ?, idle_stop = ?, last_stamp = ? WHERE id = ?`,
		timestamp(), int64(st.Ticks), int64(st.Triggered), idle, int64(st.Stamp), d.runID)
}

// Close releases the database and reports the first write error of the
// run, if any.
//
func (d *DB) Close() error {
	cerr := d.db.Close()
	if d.err != nil {
		return errors.Wrap(d.err, "trace database")
	}
	return cerr
}

// RunID returns the identifier of the run row written by this DB.
//
func (d *DB) RunID() int64 {
	return d.runID
}

func (d *DB) exec(query string, args ...any) {
	if d.err != nil {
		return
	}
	if _, err := d.db.Exec(query, args...); err != nil {
		d.err = err
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
