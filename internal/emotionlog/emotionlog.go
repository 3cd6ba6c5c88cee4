// Package emotionlog records classified emotions in insertion order, suppressing a repeat of the
// most recent emotion observed within a short window.
package emotionlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// DedupWindow is how long a repeated emotion is suppressed after the last accepted entry.
const DedupWindow = 5 * time.Second

// Sink receives every accepted entry. Write failures are logged and never reject the entry.
type Sink interface {
	AppendEmotion(ctx context.Context, sessionID string, entry models.EmotionLogEntry) error
}

// Option configures a Log.
type Option func(*Log)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithSink mirrors accepted entries to sink under sessionID.
func WithSink(sink Sink, sessionID string) Option {
	return func(l *Log) {
		l.sink = sink
		l.sessionID = sessionID
	}
}

// WithEntries seeds the log, for example from persisted entries.
func WithEntries(entries []models.EmotionLogEntry) Option {
	return func(l *Log) {
		l.entries = append(l.entries[:0], entries...)
	}
}

// Log is an append-only emotion log. It is safe for concurrent use.
type Log struct {
	mu        sync.Mutex
	entries   []models.EmotionLogEntry
	now       func() time.Time
	sink      Sink
	sessionID string
}

// New creates an empty Log.
func New(opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records e at the current time. It reports whether the entry was accepted.
func (l *Log) Append(e models.Emotion) bool {
	return l.AppendAt(e, l.now())
}

// AppendAt records e at ts. The observation is dropped when it repeats the last entry's emotion
// no more than DedupWindow after it; only the last entry is compared.
func (l *Log) AppendAt(e models.Emotion, ts time.Time) bool {
	if !e.IsValid() {
		slog.Warn("Log.AppendAt: ignoring invalid emotion", "emotion", e)
		return false
	}

	l.mu.Lock()
	if n := len(l.entries); n > 0 {
		last := l.entries[n-1]
		if last.Emotion == e && ts.Sub(last.Timestamp) <= DedupWindow {
			l.mu.Unlock()
			return false
		}
	}
	entry := models.EmotionLogEntry{Emotion: e, Timestamp: ts}
	l.entries = append(l.entries, entry)
	sink, sessionID := l.sink, l.sessionID
	l.mu.Unlock()

	if sink != nil {
		if err := sink.AppendEmotion(context.Background(), sessionID, entry); err != nil {
			slog.Error("Log.AppendAt: failed to persist entry", "error", err, "sessionID", sessionID, "emotion", e)
		}
	}
	return true
}

// Entries returns a copy of the log in insertion order.
func (l *Log) Entries() []models.EmotionLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.EmotionLogEntry(nil), l.entries...)
}

// Latest returns the most recent entry, if any.
func (l *Log) Latest() (models.EmotionLogEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return models.EmotionLogEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Counts returns how many entries each emotion has. Every emotion is present, possibly with 0.
func (l *Log) Counts() map[models.Emotion]int {
	counts := make(map[models.Emotion]int, len(models.AllEmotions))
	for _, e := range models.AllEmotions {
		counts[e] = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		counts[entry.Emotion]++
	}
	return counts
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
