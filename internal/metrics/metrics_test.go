package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecorderExposesCounters(t *testing.T) {
	r := NewRecorder()
	r.Tier(CascadeClassify, TierKeyword, OutcomeServed)
	r.Tier(CascadeClassify, TierAI, OutcomeSkipped)
	r.Observe(CascadeClassify, time.Now())
	r.Validation(false)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`moodpipe_cascade_tier_total{cascade="classify",outcome="served",tier="keyword"} 1`,
		`moodpipe_credential_validations_total{result="invalid"} 1`,
		`moodpipe_cascade_duration_seconds_count{cascade="classify"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.Tier(CascadeRespond, TierFallback, OutcomeServed)
	r.Observe(CascadeRespond, time.Now())
	r.Validation(true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from nil recorder, got %d", rec.Code)
	}
}
