// Package store provides storage backends for the emotion log.
//
// It includes an in-memory store and persistent SQLite and PostgreSQL stores. Entries are
// keyed by conversation session id and returned in insertion order.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// Store persists emotion-log entries.
type Store interface {
	AppendEmotion(ctx context.Context, sessionID string, entry models.EmotionLogEntry) error
	ListEmotions(ctx context.Context, sessionID string) ([]models.EmotionLogEntry, error)
	Close() error
}

// Opts holds configuration options for store implementations.
type Opts struct {
	DSN    string
	Driver string
}

// Option configures store Opts.
type Option func(*Opts)

// WithSQLiteDSN selects SQLite with the given database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
		o.Driver = "sqlite3"
	}
}

// WithPostgresDSN selects PostgreSQL with the given connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
		o.Driver = "postgres"
	}
}

// DetectDSNType returns "postgres" for URL or keyword/value PostgreSQL connection strings and
// "sqlite3" for everything else.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	for _, key := range []string{"host=", "user=", "dbname=", "sslmode="} {
		if strings.Contains(dsn, key) {
			return "postgres"
		}
	}
	return "sqlite3"
}

// Open returns the store selected by opts; with no DSN it returns an InMemoryStore.
func Open(opts ...Option) (Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	switch {
	case cfg.DSN == "":
		slog.Debug("store.Open: no DSN configured, using in-memory store")
		return NewInMemoryStore(), nil
	case cfg.Driver == "postgres":
		return NewPostgresStore(opts...)
	case cfg.Driver == "sqlite3":
		return NewSQLiteStore(opts...)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// InMemoryStore keeps entries in process memory. It is safe for concurrent use.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]models.EmotionLogEntry
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string][]models.EmotionLogEntry)}
}

// AppendEmotion records entry under sessionID.
func (s *InMemoryStore) AppendEmotion(ctx context.Context, sessionID string, entry models.EmotionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = append(s.entries[sessionID], entry)
	return nil
}

// ListEmotions returns a copy of the entries of sessionID.
func (s *InMemoryStore) ListEmotions(ctx context.Context, sessionID string) ([]models.EmotionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.EmotionLogEntry(nil), s.entries[sessionID]...), nil
}

// Close is a no-op.
func (s *InMemoryStore) Close() error {
	return nil
}
