// Package library persists the farmer's local state: conversation history,
// crop detection history, and settings, in a single SQLite file. Both
// histories are capped so the database stays small on low-end devices.
package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

const (
	DefaultChatLimit      = 50
	DefaultDetectionLimit = 15
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_history (
	id         TEXT PRIMARY KEY,
	ts         TIMESTAMP NOT NULL,
	query      TEXT NOT NULL,
	response   TEXT NOT NULL,
	language   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS detection_history (
	id         TEXT PRIMARY KEY,
	ts         TIMESTAMP NOT NULL,
	result     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_ts ON chat_history(ts);
CREATE INDEX IF NOT EXISTS idx_detection_ts ON detection_history(ts);
`

const offlineModeKey = "offline_mode"

// Store is the SQLite-backed library. Safe for concurrent use; database/sql
// serializes access to the single connection sqlite3 provides.
type Store struct {
	db             *sql.DB
	chatLimit      int
	detectionLimit int
}

// Open opens (and migrates) the library database at path. ":memory:" works
// for tests. Non-positive limits fall back to the defaults.
func Open(path string, chatLimit, detectionLimit int) (*Store, error) {
	if chatLimit <= 0 {
		chatLimit = DefaultChatLimit
	}
	if detectionLimit <= 0 {
		detectionLimit = DefaultDetectionLimit
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening library db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating library db: %w", err)
	}
	return &Store{db: db, chatLimit: chatLimit, detectionLimit: detectionLimit}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendTurn records one conversation turn and evicts the oldest rows
// beyond the chat cap.
func (s *Store) AppendTurn(turn types.ConversationTurn) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO chat_history (id, ts, query, response, language) VALUES (?, ?, ?, ?, ?)`,
		turn.ID, turn.Timestamp.UTC(), turn.Query, turn.Response, turn.Language,
	)
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}
	return s.trim("chat_history", s.chatLimit)
}

// RecentTurns returns up to limit turns, newest first. limit<=0 means the
// full capped history.
func (s *Store) RecentTurns(limit int) ([]types.ConversationTurn, error) {
	if limit <= 0 {
		limit = s.chatLimit
	}
	rows, err := s.db.Query(
		`SELECT id, ts, query, response, language FROM chat_history ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []types.ConversationTurn
	for rows.Next() {
		var t types.ConversationTurn
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Query, &t.Response, &t.Language); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// AppendDetection records one crop health detection and evicts beyond the
// detection cap. The diagnosis is stored as JSON.
func (s *Store) AppendDetection(rec types.DetectionRecord) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encoding diagnosis: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO detection_history (id, ts, result) VALUES (?, ?, ?)`,
		rec.ID, rec.Timestamp.UTC(), string(result),
	); err != nil {
		return fmt.Errorf("inserting detection: %w", err)
	}
	return s.trim("detection_history", s.detectionLimit)
}

// RecentDetections returns up to limit detections, newest first.
func (s *Store) RecentDetections(limit int) ([]types.DetectionRecord, error) {
	if limit <= 0 {
		limit = s.detectionLimit
	}
	rows, err := s.db.Query(
		`SELECT id, ts, result FROM detection_history ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying detections: %w", err)
	}
	defer rows.Close()

	var records []types.DetectionRecord
	for rows.Next() {
		var (
			rec     types.DetectionRecord
			ts      time.Time
			encoded string
		)
		if err := rows.Scan(&rec.ID, &ts, &encoded); err != nil {
			return nil, fmt.Errorf("scanning detection: %w", err)
		}
		rec.Timestamp = ts
		if err := json.Unmarshal([]byte(encoded), &rec.Result); err != nil {
			return nil, fmt.Errorf("decoding diagnosis: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// OfflineMode reads the offline toggle; an unreadable or missing setting
// reports false so the app errs toward full functionality.
func (s *Store) OfflineMode() bool {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, offlineModeKey).Scan(&value)
	if err != nil {
		return false
	}
	mode, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return mode
}

// SetOfflineMode persists the offline toggle.
func (s *Store) SetOfflineMode(offline bool) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		offlineModeKey, strconv.FormatBool(offline),
	)
	if err != nil {
		return fmt.Errorf("saving offline mode: %w", err)
	}
	return nil
}

// trim deletes the oldest rows past limit.
func (s *Store) trim(table string, limit int) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE id NOT IN (SELECT id FROM %s ORDER BY ts DESC, id DESC LIMIT ?)`,
		table, table)
	if _, err := s.db.Exec(query, limit); err != nil {
		return fmt.Errorf("trimming %s: %w", table, err)
	}
	return nil
}
