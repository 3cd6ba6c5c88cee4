// Package conversation runs one user message through the cascades in order and keeps the
// per-session history and emotion log.
package conversation

import (
	"context"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/emotionlog"
	"github.com/BTreeMap/MoodPipe/internal/models"
)

// Classifier is the emotion classification cascade.
type Classifier interface {
	Classify(ctx context.Context, text string, offline bool) models.Emotion
}

// Translator is the translation cascade.
type Translator interface {
	Translate(ctx context.Context, text string, from, to models.Language, offline bool) string
}

// Responder is the response generation cascade.
type Responder interface {
	Respond(ctx context.Context, userText string, p models.Personality, e models.Emotion, history []models.Message, l models.Language, offline bool) string
}

// OfflineSource reports whether offline mode is on.
type OfflineSource interface {
	Offline() bool
}

// Engine bundles the cascades a session drives.
type Engine struct {
	Classifier Classifier
	Translator Translator
	Responder  Responder
	Offline    OfflineSource
	// Sink, when set, receives every accepted emotion-log entry.
	Sink emotionlog.Sink
	// Now replaces time.Now for message and log timestamps.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) offline() bool {
	return e.Offline != nil && e.Offline.Offline()
}
