package bloglet

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DraftStore persists uncommitted editor payloads in SQLite, keyed per
// post, so an in-progress edit survives navigating away and process
// restarts until it is committed or discarded. This is the only durable
// state in the system; the post store itself stays memory-only.
type DraftStore struct {
	db *sql.DB
}

// NewDraftStore opens (or creates) the draft database at path and
// ensures the schema.
func NewDraftStore(path string) (*DraftStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL keeps concurrent reads cheap; the busy timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	s := &DraftStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

func (s *DraftStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS drafts (
    key TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    saved_at TEXT NOT NULL
);
`)
	return err
}

// Save upserts the payload under key.
func (s *DraftStore) Save(key, payload string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO drafts (key, payload, saved_at) VALUES (?, ?, ?)`,
		key, payload, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Load returns the payload stored under key, if any.
func (s *DraftStore) Load(key string) (string, bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM drafts WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// Delete removes the slot under key. Deleting an absent key is a no-op.
func (s *DraftStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, key)
	return err
}

// Keys lists all occupied slots, oldest first.
func (s *DraftStore) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM drafts ORDER BY saved_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
