package respond

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/BTreeMap/MoodPipe/internal/credential"
	"github.com/BTreeMap/MoodPipe/internal/genai"
	"github.com/BTreeMap/MoodPipe/internal/locale"
	"github.com/BTreeMap/MoodPipe/internal/metrics"
	"github.com/BTreeMap/MoodPipe/internal/models"
	"github.com/BTreeMap/MoodPipe/internal/testutil"
)

type stubSource struct {
	gen genai.Generator
	ok  bool
}

func (s *stubSource) Client(ctx context.Context) (genai.Generator, bool) {
	return s.gen, s.ok
}

type panicSource struct{}

func (panicSource) Client(ctx context.Context) (genai.Generator, bool) {
	panic("boom")
}

func TestFallback_Coverage(t *testing.T) {
	if err := checkMatrix(); err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, p := range models.AllPersonalities {
		for _, e := range models.AllEmotions {
			for _, l := range models.AllLanguages {
				got := Fallback(p, e, l)
				if strings.TrimSpace(got) == "" {
					t.Errorf("empty fallback for %s/%s/%s", p, e, l)
				}
				if seen[got] {
					t.Errorf("fallback for %s/%s/%s duplicates another entry", p, e, l)
				}
				seen[got] = true
			}
		}
	}
	if len(seen) != 36 {
		t.Errorf("expected 36 distinct replies, got %d", len(seen))
	}
}

func TestFallback_LanguageScript(t *testing.T) {
	for _, p := range models.AllPersonalities {
		for _, e := range models.AllEmotions {
			hi := Fallback(p, e, models.LanguageSecondary)
			if !strings.ContainsAny(hi, "अआइईउऊएऐओऔकखगघचछजझटठडढणतथदधनपफबभमयरलवशषसह") {
				t.Errorf("secondary-language reply for %s/%s is not in Devanagari: %q", p, e, hi)
			}
		}
	}
}

func TestFallback_UnknownValues(t *testing.T) {
	want := Fallback(models.PersonalitySupportive, models.EmotionNeutral, models.LanguagePrimary)
	if got := Fallback("pirate", "bored", "fr-FR"); got != want {
		t.Errorf("expected supportive/neutral/primary reply, got %q", got)
	}
}

func TestEmotionReply(t *testing.T) {
	for _, e := range models.AllEmotions {
		for _, l := range models.AllLanguages {
			if EmotionReply(e, l) == "" {
				t.Errorf("empty emotion-only reply for %s/%s", e, l)
			}
		}
	}
	if got := EmotionReply("bored", models.LanguageSecondary); got != locale.For(models.LanguageSecondary).GenericReply {
		t.Errorf("expected generic reply for unknown emotion, got %q", got)
	}
}

func TestRespond_OfflineNeverCallsAI(t *testing.T) {
	gen := &testutil.FakeGenerator{Reply: "ai reply"}
	spy := &testutil.FactorySpy{Gen: gen}
	r := NewResponder(credential.NewValidator("key", spy.Factory), metrics.NewRecorder())

	for _, p := range models.AllPersonalities {
		for _, e := range models.AllEmotions {
			for _, l := range models.AllLanguages {
				if got := r.Respond(context.Background(), "hello", p, e, nil, l, true); got != Fallback(p, e, l) {
					t.Errorf("offline reply for %s/%s/%s = %q, want fallback", p, e, l, got)
				}
			}
		}
	}
	if gen.CallCount() != 0 || spy.Count() != 0 {
		t.Errorf("expected no AI activity offline, got calls=%d constructions=%d", gen.CallCount(), spy.Count())
	}
}

func TestRespond_AIReplyVerbatim(t *testing.T) {
	gen := &testutil.FakeGenerator{Reply: "  Tell me more.\n"}
	r := NewResponder(&stubSource{gen: gen, ok: true}, nil)
	got := r.Respond(context.Background(), "I lost my job", models.PersonalityCoach, models.EmotionSad, nil, models.LanguagePrimary, false)
	if got != "  Tell me more.\n" {
		t.Errorf("expected verbatim AI reply, got %q", got)
	}
	calls := gen.Calls()
	if len(calls) != 1 || calls[0].UserPrompt != "I lost my job" {
		t.Fatalf("expected user text as the task input, got %+v", calls)
	}
}

func TestRespond_FailuresUseFallback(t *testing.T) {
	want := Fallback(models.PersonalityTherapist, models.EmotionAngry, models.LanguageSecondary)
	tests := []struct {
		name   string
		source genai.ClientSource
	}{
		{"ai error", &stubSource{gen: &testutil.FakeGenerator{Fail: true}, ok: true}},
		{"ai blank", &stubSource{gen: &testutil.FakeGenerator{Reply: " \n"}, ok: true}},
		{"credential unusable", &stubSource{ok: false}},
		{"no source", nil},
		{"panic", panicSource{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResponder(tt.source, nil)
			got := r.Respond(context.Background(), "x", models.PersonalityTherapist, models.EmotionAngry, nil, models.LanguageSecondary, false)
			if got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestSystemPrompt_Assembly(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "मैं उदास हूँ", TranslatedContent: "I am sad"},
		{Role: models.RoleAssistant, Content: "I'm here for you."},
	}
	prompt := systemPrompt(models.PersonalitySupportive, models.EmotionAngry, models.LanguageSecondary, history)

	for _, want := range []string{
		"supportive friend",
		"appears to be: angry",
		"Respond in Hindi (Devanagari script)",
		"Allow them to express feelings safely",
		"Never suggest medical treatments",
		"provide crisis resources",
		"Recent conversation:\nUser: I am sad\nAssistant: I'm here for you.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "मैं उदास हूँ") {
		t.Error("expected the translated form of the user message in context")
	}
}

func TestSystemPrompt_NoHistory(t *testing.T) {
	prompt := systemPrompt(models.PersonalityCoach, models.EmotionHappy, models.LanguagePrimary, nil)
	if strings.Contains(prompt, "Recent conversation") {
		t.Error("expected no context block without history")
	}
	if !strings.Contains(prompt, "Respond in English.") {
		t.Error("expected primary language directive")
	}
}

func TestRecentContext_Window(t *testing.T) {
	var history []models.Message
	for i := 0; i < 15; i++ {
		history = append(history, models.Message{Role: models.RoleUser, Content: fmt.Sprintf("msg-%02d", i)})
	}
	ctx := recentContext(history)
	lines := strings.Split(ctx, "\n")
	if len(lines) != ContextWindow {
		t.Fatalf("expected %d lines, got %d", ContextWindow, len(lines))
	}
	if lines[0] != "User: msg-05" || lines[9] != "User: msg-14" {
		t.Errorf("expected the last ten messages, got first=%q last=%q", lines[0], lines[9])
	}
	if len(history) != 15 {
		t.Error("history must not be modified")
	}
}

func TestRespond_ContextPassedToAI(t *testing.T) {
	gen := &testutil.FakeGenerator{Reply: "ok"}
	r := NewResponder(&stubSource{gen: gen, ok: true}, nil)
	history := []models.Message{{Role: models.RoleUser, Content: "earlier message"}}
	r.Respond(context.Background(), "now", models.PersonalitySupportive, models.EmotionNeutral, history, models.LanguagePrimary, false)
	if !strings.Contains(gen.Calls()[0].SystemPrompt, "User: earlier message") {
		t.Error("expected history in the system prompt")
	}
}
