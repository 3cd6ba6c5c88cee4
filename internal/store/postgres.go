package store

// This file implements a PostgreSQL-backed emotion-log store.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	_ "github.com/lib/pq"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists the emotion log in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")
	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

// AppendEmotion inserts entry under sessionID.
func (s *PostgresStore) AppendEmotion(ctx context.Context, sessionID string, entry models.EmotionLogEntry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO emotion_log (session_id, emotion, recorded_at) VALUES ($1, $2, $3)`,
		sessionID, string(entry.Emotion), entry.Timestamp)
	if err != nil {
		slog.Error("PostgresStore AppendEmotion failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to insert emotion for session %s: %w", sessionID, err)
	}
	slog.Debug("PostgresStore AppendEmotion succeeded", "sessionID", sessionID, "emotion", entry.Emotion)
	return nil
}

// ListEmotions returns the entries of sessionID in insertion order.
func (s *PostgresStore) ListEmotions(ctx context.Context, sessionID string) ([]models.EmotionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT emotion, recorded_at FROM emotion_log WHERE session_id = $1 ORDER BY id`, sessionID)
	if err != nil {
		slog.Error("PostgresStore ListEmotions query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query emotions: %w", err)
	}
	return scanEntries(rows)
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close Postgres database", "error", err)
	}
	return err
}
