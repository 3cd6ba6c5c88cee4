// Package respond implements the response generation cascade: a personality-conditioned AI
// reply, backed by an exhaustive table of canned replies.
package respond

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/genai"
	"github.com/BTreeMap/MoodPipe/internal/metrics"
	"github.com/BTreeMap/MoodPipe/internal/models"
)

// Responder is the response generation cascade.
type Responder struct {
	creds   genai.ClientSource
	metrics *metrics.Recorder
}

// NewResponder creates a Responder. A nil creds source means every reply comes from the
// fallback matrix.
func NewResponder(creds genai.ClientSource, rec *metrics.Recorder) *Responder {
	return &Responder{creds: creds, metrics: rec}
}

// Respond produces a reply to userText. It never fails: offline mode, an unusable credential,
// an AI error, an empty AI answer or a panic all resolve to the fallback matrix entry for
// (personality, emotion, language). history is read, never modified.
func (r *Responder) Respond(ctx context.Context, userText string, p models.Personality, e models.Emotion, history []models.Message, l models.Language, offline bool) (reply string) {
	start := time.Now()
	defer r.metrics.Observe(metrics.CascadeRespond, start)
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Responder.Respond: recovered from panic, using fallback reply", "panic", rec)
			r.metrics.Tier(metrics.CascadeRespond, metrics.TierFallback, metrics.OutcomeServed)
			reply = Fallback(p, e, l)
		}
	}()

	if !p.IsValid() {
		p = models.PersonalitySupportive
	}
	if !e.IsValid() {
		e = models.EmotionNeutral
	}
	if !l.IsValid() {
		l = models.LanguagePrimary
	}

	if offline {
		r.metrics.Tier(metrics.CascadeRespond, metrics.TierAI, metrics.OutcomeSkipped)
		r.metrics.Tier(metrics.CascadeRespond, metrics.TierFallback, metrics.OutcomeServed)
		return Fallback(p, e, l)
	}

	var client genai.Generator
	ok := false
	if r.creds != nil {
		client, ok = r.creds.Client(ctx)
	}
	if !ok {
		slog.Debug("Responder.Respond: AI tier unavailable, using fallback reply", "personality", p, "emotion", e)
		r.metrics.Tier(metrics.CascadeRespond, metrics.TierAI, metrics.OutcomeSkipped)
		r.metrics.Tier(metrics.CascadeRespond, metrics.TierFallback, metrics.OutcomeServed)
		return Fallback(p, e, l)
	}

	out, err := client.Generate(ctx, systemPrompt(p, e, l, history), userText)
	if err != nil || strings.TrimSpace(out) == "" {
		slog.Warn("Responder.Respond: AI tier failed, using fallback reply", "error", err, "personality", p, "emotion", e)
		r.metrics.Tier(metrics.CascadeRespond, metrics.TierAI, metrics.OutcomeFailed)
		r.metrics.Tier(metrics.CascadeRespond, metrics.TierFallback, metrics.OutcomeServed)
		return Fallback(p, e, l)
	}

	r.metrics.Tier(metrics.CascadeRespond, metrics.TierAI, metrics.OutcomeServed)
	return out
}
