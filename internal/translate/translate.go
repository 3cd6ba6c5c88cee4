// Package translate implements the translation cascade: AI tier, then the public translation
// service, then the original text unchanged.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/BTreeMap/MoodPipe/internal/genai"
	"github.com/BTreeMap/MoodPipe/internal/metrics"
	"github.com/BTreeMap/MoodPipe/internal/models"
)

const translatePrompt = `Translate the following text from %s to %s. Only respond with the translation, nothing else:

%q`

// scripts maps the working languages that are written in a distinctive script to that script.
var scripts = map[models.Language]*unicode.RangeTable{
	models.LanguageSecondary: unicode.Devanagari,
}

// IsWrittenIn reports whether text contains at least one letter of l's distinctive script.
// Languages without a registered script never match.
func IsWrittenIn(text string, l models.Language) bool {
	table, ok := scripts[l]
	if !ok {
		return false
	}
	for _, r := range text {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}

// Translator is the translation cascade.
type Translator struct {
	creds   genai.ClientSource
	public  PublicService
	metrics *metrics.Recorder
}

// NewTranslator creates a Translator. Either tier may be nil and is then skipped.
func NewTranslator(creds genai.ClientSource, public PublicService, rec *metrics.Recorder) *Translator {
	return &Translator{creds: creds, public: public, metrics: rec}
}

// Translate converts text between the two languages. It never fails: when every tier fails
// the original text is returned untouched. Empty input and same-language requests return text
// without any network access. Offline mode skips only the AI tier.
func (t *Translator) Translate(ctx context.Context, text string, from, to models.Language, offline bool) (result string) {
	if strings.TrimSpace(text) == "" || from == to {
		return text
	}

	start := time.Now()
	defer t.metrics.Observe(metrics.CascadeTranslate, start)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Translator.Translate: recovered from panic, returning original text", "panic", r)
			t.metrics.Tier(metrics.CascadeTranslate, metrics.TierIdentity, metrics.OutcomeServed)
			result = text
		}
	}()

	if offline {
		t.metrics.Tier(metrics.CascadeTranslate, metrics.TierAI, metrics.OutcomeSkipped)
	} else if out, err := t.translateAI(ctx, text, from, to); err == nil {
		t.metrics.Tier(metrics.CascadeTranslate, metrics.TierAI, metrics.OutcomeServed)
		return out
	} else if errors.Is(err, errTierUnavailable) {
		t.metrics.Tier(metrics.CascadeTranslate, metrics.TierAI, metrics.OutcomeSkipped)
	} else {
		t.metrics.Tier(metrics.CascadeTranslate, metrics.TierAI, metrics.OutcomeFailed)
		slog.Warn("Translator.Translate: AI tier failed, falling back to public service", "error", err)
	}

	if t.public != nil {
		out, err := t.public.Translate(ctx, text, from, to)
		if err == nil && strings.TrimSpace(out) != "" {
			t.metrics.Tier(metrics.CascadeTranslate, metrics.TierPublic, metrics.OutcomeServed)
			return out
		}
		t.metrics.Tier(metrics.CascadeTranslate, metrics.TierPublic, metrics.OutcomeFailed)
		slog.Warn("Translator.Translate: public service failed, returning original text", "error", err)
	}

	t.metrics.Tier(metrics.CascadeTranslate, metrics.TierIdentity, metrics.OutcomeServed)
	return text
}

var errTierUnavailable = errors.New("AI tier unavailable")

func (t *Translator) translateAI(ctx context.Context, text string, from, to models.Language) (string, error) {
	if t.creds == nil {
		return "", errTierUnavailable
	}
	client, ok := t.creds.Client(ctx)
	if !ok {
		return "", errTierUnavailable
	}
	raw, err := client.Generate(ctx, "", fmt.Sprintf(translatePrompt, from.DisplayName(), to.DisplayName(), text))
	if err != nil {
		return "", err
	}
	out := unquote(strings.TrimSpace(raw))
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}

// unquote strips one pair of matching surrounding double quotes the model may echo back.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
