package store

// This file implements an SQLite-backed emotion-log store.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists the emotion log in an SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("SQLiteStore.NewSQLiteStore: creating SQLite store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully", "dir", dir)

	return &SQLiteStore{db: db}, nil
}

// AppendEmotion inserts entry under sessionID.
func (s *SQLiteStore) AppendEmotion(ctx context.Context, sessionID string, entry models.EmotionLogEntry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO emotion_log (session_id, emotion, recorded_at) VALUES (?, ?, ?)`,
		sessionID, string(entry.Emotion), entry.Timestamp.UTC())
	if err != nil {
		slog.Error("SQLiteStore AppendEmotion failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to insert emotion for session %s: %w", sessionID, err)
	}
	slog.Debug("SQLiteStore AppendEmotion succeeded", "sessionID", sessionID, "emotion", entry.Emotion)
	return nil
}

// ListEmotions returns the entries of sessionID in insertion order.
func (s *SQLiteStore) ListEmotions(ctx context.Context, sessionID string) ([]models.EmotionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT emotion, recorded_at FROM emotion_log WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		slog.Error("SQLiteStore ListEmotions query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query emotions: %w", err)
	}
	return scanEntries(rows)
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	} else {
		slog.Debug("SQLite database connection closed successfully")
	}
	return err
}

// scanEntries reads every (emotion, recorded_at) row and closes rows.
func scanEntries(rows *sql.Rows) ([]models.EmotionLogEntry, error) {
	defer rows.Close()
	var entries []models.EmotionLogEntry
	for rows.Next() {
		var e models.EmotionLogEntry
		var emotion string
		if err := rows.Scan(&emotion, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan emotion row: %w", err)
		}
		e.Emotion = models.Emotion(emotion)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate emotion rows: %w", err)
	}
	return entries, nil
}
