package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/BTreeMap/MoodPipe/internal/credential"
	"github.com/BTreeMap/MoodPipe/internal/genai"
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

// stubPublic is a PublicService with a fixed answer.
type stubPublic struct {
	out   string
	err   error
	calls int
}

func (s *stubPublic) Translate(ctx context.Context, text string, from, to models.Language) (string, error) {
	s.calls++
	return s.out, s.err
}

type panicPublic struct{}

func (panicPublic) Translate(ctx context.Context, text string, from, to models.Language) (string, error) {
	panic("boom")
}

const (
	en = models.LanguagePrimary
	hi = models.LanguageSecondary
)

func TestIsWrittenIn(t *testing.T) {
	tests := []struct {
		text string
		lang models.Language
		want bool
	}{
		{"मैं उदास हूँ", hi, true},
		{"I feel उदास today", hi, true},
		{"I feel sad", hi, false},
		{"", hi, false},
		{"मैं उदास हूँ", en, false},
	}
	for _, tt := range tests {
		if got := IsWrittenIn(tt.text, tt.lang); got != tt.want {
			t.Errorf("IsWrittenIn(%q, %s) = %v, want %v", tt.text, tt.lang, got, tt.want)
		}
	}
}

func TestTranslate_ShortCircuits(t *testing.T) {
	gen := &testutil.FakeGenerator{Reply: "translated"}
	pub := &stubPublic{out: "public"}
	tr := NewTranslator(&stubSource{gen: gen, ok: true}, pub, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		if got := tr.Translate(context.Background(), text, hi, en, false); got != text {
			t.Errorf("expected blank input %q unchanged, got %q", text, got)
		}
	}
	if got := tr.Translate(context.Background(), "hello", en, en, false); got != "hello" {
		t.Errorf("expected same-language input unchanged, got %q", got)
	}
	if gen.CallCount() != 0 || pub.calls != 0 {
		t.Errorf("expected no tier calls, got ai=%d public=%d", gen.CallCount(), pub.calls)
	}
}

func TestTranslate_AITier(t *testing.T) {
	gen := &testutil.FakeGenerator{Reply: "  \"I am sad\"\n"}
	pub := &stubPublic{out: "public"}
	tr := NewTranslator(&stubSource{gen: gen, ok: true}, pub, nil)

	if got := tr.Translate(context.Background(), "मैं उदास हूँ", hi, en, false); got != "I am sad" {
		t.Errorf("expected trimmed AI translation, got %q", got)
	}
	if pub.calls != 0 {
		t.Error("expected public tier to be skipped when AI succeeds")
	}
	prompt := gen.Calls()[0].UserPrompt
	if !strings.Contains(prompt, "from Hindi to English") || !strings.Contains(prompt, "मैं उदास हूँ") {
		t.Errorf("unexpected prompt: %q", prompt)
	}
}

func TestTranslate_FallsThroughToPublic(t *testing.T) {
	tests := []struct {
		name   string
		source genai.ClientSource
	}{
		{"ai error", &stubSource{gen: &testutil.FakeGenerator{Fail: true}, ok: true}},
		{"ai blank", &stubSource{gen: &testutil.FakeGenerator{Reply: "   "}, ok: true}},
		{"credential unusable", &stubSource{ok: false}},
		{"no source", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &stubPublic{out: "I am sad"}
			tr := NewTranslator(tt.source, pub, nil)
			if got := tr.Translate(context.Background(), "मैं उदास हूँ", hi, en, false); got != "I am sad" {
				t.Errorf("expected public translation, got %q", got)
			}
			if pub.calls != 1 {
				t.Errorf("expected one public call, got %d", pub.calls)
			}
		})
	}
}

func TestTranslate_IdentityFloor(t *testing.T) {
	tests := []struct {
		name string
		pub  PublicService
	}{
		{"public error", &stubPublic{err: errors.New("down")}},
		{"public blank", &stubPublic{out: " "}},
		{"no public", nil},
		{"public panics", panicPublic{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator(&stubSource{gen: &testutil.FakeGenerator{Fail: true}, ok: true}, tt.pub, nil)
			if got := tr.Translate(context.Background(), "मैं उदास हूँ", hi, en, false); got != "मैं उदास हूँ" {
				t.Errorf("expected original text, got %q", got)
			}
		})
	}
}

func TestTranslate_OfflineSkipsOnlyAI(t *testing.T) {
	gen := &testutil.FakeGenerator{Reply: "from ai"}
	spy := &testutil.FactorySpy{Gen: gen}
	v := credential.NewValidator("key", spy.Factory)
	pub := &stubPublic{out: "from public"}
	tr := NewTranslator(v, pub, nil)

	if got := tr.Translate(context.Background(), "नमस्ते", hi, en, true); got != "from public" {
		t.Errorf("expected public translation offline, got %q", got)
	}
	if gen.CallCount() != 0 || spy.Count() != 0 {
		t.Errorf("expected offline mode to avoid the AI entirely, got calls=%d constructions=%d", gen.CallCount(), spy.Count())
	}
}

func TestPublicClient_Success(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[["I am ","मैं ",null,null,10],["sad","उदास हूँ",null,null,10]],null,"hi"]`))
	}))
	defer srv.Close()

	p := NewPublicClient(srv.URL, srv.Client())
	got, err := p.Translate(context.Background(), "मैं उदास हूँ", hi, en)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "I am sad" {
		t.Errorf("expected concatenated segments, got %q", got)
	}
	q := gotQuery.Load().(url.Values)
	if q.Get("sl") != "hi" || q.Get("tl") != "en" || q.Get("client") != "gtx" || q.Get("dt") != "t" || q.Get("q") != "मैं उदास हूँ" {
		t.Errorf("unexpected query: %v", q)
	}
}

func TestPublicClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusTooManyRequests, `[]`},
		{"invalid json", http.StatusOK, `<html>`},
		{"no segments", http.StatusOK, `[null,null,"hi"]`},
		{"blank segments", http.StatusOK, `[[[" ","x"]]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewPublicClient(srv.URL, srv.Client())
			if _, err := p.Translate(context.Background(), "नमस्ते", hi, en); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewPublicClient_Defaults(t *testing.T) {
	p := NewPublicClient("", nil)
	if p.endpoint != DefaultPublicEndpoint {
		t.Errorf("expected default endpoint, got %q", p.endpoint)
	}
	if p.http == nil || p.http.Timeout != DefaultPublicTimeout {
		t.Error("expected default HTTP client with timeout")
	}
}
