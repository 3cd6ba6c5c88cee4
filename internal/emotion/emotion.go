// Package emotion implements the emotion classification cascade: a local keyword tier that
// always runs, optionally overridden by an AI tier when the credential is valid and offline
// mode is off.
package emotion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/genai"
	"github.com/BTreeMap/MoodPipe/internal/metrics"
	"github.com/BTreeMap/MoodPipe/internal/models"
)

const classifyPrompt = `Analyze the following text and determine the primary emotion expressed.
Choose exactly one emotion from this list: happy, neutral, sad, anxious, stressed, angry.
Only respond with the emotion name, nothing else.

Text: %q`

// Classifier is the classification cascade.
type Classifier struct {
	creds   genai.ClientSource
	metrics *metrics.Recorder
}

// NewClassifier creates a Classifier. creds may be nil, in which case only the keyword tier runs.
func NewClassifier(creds genai.ClientSource, rec *metrics.Recorder) *Classifier {
	return &Classifier{creds: creds, metrics: rec}
}

// Classify returns the emotion expressed by text. It never fails: AI-tier errors and
// out-of-enumeration answers fall back to the keyword label, and anything unexpected yields
// neutral.
func (c *Classifier) Classify(ctx context.Context, text string, offline bool) (result models.Emotion) {
	start := time.Now()
	defer c.metrics.Observe(metrics.CascadeClassify, start)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Classifier.Classify: recovered from panic, using neutral", "panic", r)
			c.metrics.Tier(metrics.CascadeClassify, metrics.TierFloor, metrics.OutcomeServed)
			result = models.EmotionNeutral
		}
	}()

	keyword := KeywordEmotion(text)

	if offline {
		c.metrics.Tier(metrics.CascadeClassify, metrics.TierAI, metrics.OutcomeSkipped)
		c.metrics.Tier(metrics.CascadeClassify, metrics.TierKeyword, metrics.OutcomeServed)
		slog.Debug("Classifier.Classify: offline, using keyword label", "emotion", keyword)
		return keyword
	}

	if aiLabel, err := c.classifyAI(ctx, text); err == nil {
		c.metrics.Tier(metrics.CascadeClassify, metrics.TierAI, metrics.OutcomeServed)
		slog.Debug("Classifier.Classify: AI label accepted", "emotion", aiLabel, "keyword", keyword)
		return aiLabel
	} else if !errors.Is(err, errTierUnavailable) {
		c.metrics.Tier(metrics.CascadeClassify, metrics.TierAI, metrics.OutcomeFailed)
		slog.Warn("Classifier.Classify: AI tier failed, using keyword label", "error", err, "emotion", keyword)
	} else {
		c.metrics.Tier(metrics.CascadeClassify, metrics.TierAI, metrics.OutcomeSkipped)
	}

	c.metrics.Tier(metrics.CascadeClassify, metrics.TierKeyword, metrics.OutcomeServed)
	return keyword
}

var errTierUnavailable = errors.New("AI tier unavailable")

func (c *Classifier) classifyAI(ctx context.Context, text string) (models.Emotion, error) {
	if c.creds == nil {
		return "", errTierUnavailable
	}
	client, ok := c.creds.Client(ctx)
	if !ok {
		return "", errTierUnavailable
	}
	raw, err := client.Generate(ctx, "", fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		return "", err
	}
	label, err := models.ParseEmotion(raw)
	if err != nil {
		return "", fmt.Errorf("AI returned %q: %w", raw, err)
	}
	return label, nil
}
