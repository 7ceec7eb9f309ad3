// Package draft persists in-progress session edits locally so a session
// survives restarts. Drafts are keyed by day id and written wholesale on
// every mutation; the last write wins.
package draft

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/meltforce/liftlog/internal/models"
)

// Store is a SQLite-backed draft store at dir/drafts.db.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the draft database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating draft dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "drafts.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening draft db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session_drafts (
		day_id     INTEGER PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating draft table: %w", err)
	}

	return &Store{db: db}, nil
}

// Load returns the draft for a day. The second return value is false when no
// draft exists.
func (s *Store) Load(dayID int64) (models.SessionDraft, bool, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM session_drafts WHERE day_id = ?`, dayID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading draft for day %d: %w", dayID, err)
	}

	var d models.SessionDraft
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil, false, fmt.Errorf("decoding draft for day %d: %w", dayID, err)
	}
	return d, true, nil
}

// Save overwrites the draft for a day wholesale. Saving the same draft twice
// is a no-op for readers.
func (s *Store) Save(dayID int64, d models.SessionDraft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding draft for day %d: %w", dayID, err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO session_drafts (day_id, payload) VALUES (?, ?)`,
		dayID, string(payload),
	)
	if err != nil {
		return fmt.Errorf("saving draft for day %d: %w", dayID, err)
	}
	return nil
}

// Clear deletes the draft for a day. Clearing an absent draft is not an error.
func (s *Store) Clear(dayID int64) error {
	if _, err := s.db.Exec(`DELETE FROM session_drafts WHERE day_id = ?`, dayID); err != nil {
		return fmt.Errorf("clearing draft for day %d: %w", dayID, err)
	}
	return nil
}

// Close closes the draft database.
func (s *Store) Close() error {
	return s.db.Close()
}
