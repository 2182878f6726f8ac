// Package persistence provides the SQLite verdict journal.
// Only evaluation outcomes are written; states of the world never are.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/wellbeing/internal/desire"
)

// Entry kinds.
const (
	KindDesire    = "desire"
	KindWellBeing = "wellbeing"
)

// Entry is one journaled evaluation.
type Entry struct {
	ID        string  `db:"id" json:"id"`
	Kind      string  `db:"kind" json:"kind"`
	Admitted  bool    `db:"admitted" json:"admitted"`
	Reason    string  `db:"reason" json:"reason,omitempty"`
	Detail    string  `db:"detail" json:"detail,omitempty"`
	Score     float64 `db:"score" json:"score"`
	CreatedAt int64   `db:"created_at" json:"created_at"` // Unix millis
}

// Time returns when the entry was written.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.CreatedAt)
}

// Counts summarizes the journal.
type Counts struct {
	Desires   int `db:"desires" json:"desires"`
	Admitted  int `db:"admitted" json:"admitted"`
	WellBeing int `db:"wellbeing" json:"wellbeing"`
}

// DB wraps a SQLite connection for the verdict journal.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS verdicts (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		admitted INTEGER NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		score REAL NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_verdicts_created ON verdicts(created_at);
	CREATE INDEX IF NOT EXISTS idx_verdicts_kind ON verdicts(kind);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func (db *DB) insert(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = db.now().UnixMilli()
	_, err := db.conn.NamedExec(`INSERT INTO verdicts
		(id, kind, admitted, reason, detail, score, created_at)
		VALUES (:id, :kind, :admitted, :reason, :detail, :score, :created_at)`, e)
	if err != nil {
		return Entry{}, fmt.Errorf("insert %s verdict %s: %w", e.Kind, e.ID, err)
	}
	return e, nil
}

// RecordDesire journals a desire verdict under id (a fresh UUID when empty).
func (db *DB) RecordDesire(id string, v desire.Verdict) (Entry, error) {
	return db.insert(Entry{
		ID:       id,
		Kind:     KindDesire,
		Admitted: v.Admitted,
		Reason:   string(v.Reason),
		Detail:   v.Detail,
	})
}

// RecordWellBeing journals a well-being score under id (a fresh UUID when empty).
func (db *DB) RecordWellBeing(id string, score float64) (Entry, error) {
	return db.insert(Entry{
		ID:       id,
		Kind:     KindWellBeing,
		Admitted: true,
		Score:    score,
	})
}

// Recent returns the most recent N entries, newest first.
func (db *DB) Recent(limit int) ([]Entry, error) {
	entries := []Entry{}
	err := db.conn.Select(&entries,
		"SELECT id, kind, admitted, reason, detail, score, created_at FROM verdicts ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return entries, err
}

// Get returns one entry by id.
func (db *DB) Get(id string) (Entry, error) {
	var e Entry
	err := db.conn.Get(&e,
		"SELECT id, kind, admitted, reason, detail, score, created_at FROM verdicts WHERE id = ?", id)
	return e, err
}

// Counts returns journal totals.
func (db *DB) Counts() (Counts, error) {
	var c Counts
	err := db.conn.Get(&c, `SELECT
		COALESCE(SUM(kind = 'desire'), 0) AS desires,
		COALESCE(SUM(kind = 'desire' AND admitted = 1), 0) AS admitted,
		COALESCE(SUM(kind = 'wellbeing'), 0) AS wellbeing
		FROM verdicts`)
	return c, err
}

// Purge deletes every entry and returns how many were removed.
func (db *DB) Purge() (int64, error) {
	res, err := db.conn.Exec("DELETE FROM verdicts")
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	slog.Info("verdict journal purged", "entries", n)
	return n, nil
}
