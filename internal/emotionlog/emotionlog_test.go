package emotionlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu      sync.Mutex
	entries []models.EmotionLogEntry
	ids     []string
	err     error
}

func (s *recordingSink) AppendEmotion(ctx context.Context, sessionID string, entry models.EmotionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	s.ids = append(s.ids, sessionID)
	return s.err
}

func emotions(entries []models.EmotionLogEntry) []models.Emotion {
	out := make([]models.Emotion, len(entries))
	for i, e := range entries {
		out[i] = e.Emotion
	}
	return out
}

func TestAppendAt_SuppressesRepeatWithinWindow(t *testing.T) {
	l := New()
	l.AppendAt(models.EmotionSad, t0)
	l.AppendAt(models.EmotionSad, t0.Add(3*time.Second))
	l.AppendAt(models.EmotionSad, t0.Add(10*time.Second))

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if !entries[0].Timestamp.Equal(t0) || !entries[1].Timestamp.Equal(t0.Add(10*time.Second)) {
		t.Errorf("expected entries at t=0 and t=10s, got %v and %v", entries[0].Timestamp, entries[1].Timestamp)
	}
}

func TestAppendAt_AlternatingNeverSuppressed(t *testing.T) {
	l := New()
	l.AppendAt(models.EmotionSad, t0)
	l.AppendAt(models.EmotionHappy, t0.Add(3*time.Second))
	l.AppendAt(models.EmotionSad, t0.Add(4*time.Second))

	got := emotions(l.Entries())
	want := []models.Emotion{models.EmotionSad, models.EmotionHappy, models.EmotionSad}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAppendAt_WindowBoundary(t *testing.T) {
	tests := []struct {
		name  string
		delta time.Duration
		want  bool
	}{
		{"exactly five seconds", DedupWindow, false},
		{"just past the window", DedupWindow + time.Millisecond, true},
		{"same instant", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			l.AppendAt(models.EmotionAngry, t0)
			if got := l.AppendAt(models.EmotionAngry, t0.Add(tt.delta)); got != tt.want {
				t.Errorf("AppendAt after %v = %v, want %v", tt.delta, got, tt.want)
			}
		})
	}
}

func TestAppendAt_ComparesLastEntryOnly(t *testing.T) {
	l := New()
	l.AppendAt(models.EmotionSad, t0)
	l.AppendAt(models.EmotionSad, t0.Add(2*time.Second)) // dropped
	l.AppendAt(models.EmotionSad, t0.Add(6*time.Second)) // 6s after the last accepted entry
	if l.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", l.Len())
	}
}

func TestAppend_UsesClock(t *testing.T) {
	now := t0
	l := New(WithClock(func() time.Time { return now }))
	l.Append(models.EmotionHappy)
	now = now.Add(time.Second)
	if l.Append(models.EmotionHappy) {
		t.Error("expected repeat within window to be dropped")
	}
	now = now.Add(5 * time.Second)
	if !l.Append(models.EmotionHappy) {
		t.Error("expected repeat after window to be accepted")
	}
}

func TestAppendAt_RejectsInvalid(t *testing.T) {
	l := New()
	if l.AppendAt("bored", t0) {
		t.Error("expected invalid emotion to be rejected")
	}
	if l.Len() != 0 {
		t.Error("expected empty log")
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	l := New()
	l.AppendAt(models.EmotionSad, t0)
	entries := l.Entries()
	entries[0].Emotion = models.EmotionHappy
	if got, _ := l.Latest(); got.Emotion != models.EmotionSad {
		t.Error("mutating the returned slice must not affect the log")
	}
}

func TestCounts(t *testing.T) {
	l := New()
	l.AppendAt(models.EmotionSad, t0)
	l.AppendAt(models.EmotionHappy, t0.Add(time.Second))
	l.AppendAt(models.EmotionSad, t0.Add(2*time.Second))

	counts := l.Counts()
	if counts[models.EmotionSad] != 2 || counts[models.EmotionHappy] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if len(counts) != len(models.AllEmotions) {
		t.Errorf("expected every emotion present, got %v", counts)
	}
}

func TestSink_ReceivesAcceptedEntriesOnly(t *testing.T) {
	sink := &recordingSink{}
	l := New(WithSink(sink, "session-1"))
	l.AppendAt(models.EmotionSad, t0)
	l.AppendAt(models.EmotionSad, t0.Add(time.Second))
	l.AppendAt(models.EmotionAngry, t0.Add(2*time.Second))

	if len(sink.entries) != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", len(sink.entries))
	}
	for _, id := range sink.ids {
		if id != "session-1" {
			t.Errorf("expected session id session-1, got %q", id)
		}
	}
}

func TestSink_ErrorDoesNotRejectEntry(t *testing.T) {
	l := New(WithSink(&recordingSink{err: errors.New("disk full")}, "s"))
	if !l.AppendAt(models.EmotionSad, t0) {
		t.Error("expected entry accepted despite sink error")
	}
	if l.Len() != 1 {
		t.Error("expected entry kept in memory")
	}
}

func TestWithEntries_SeedsLog(t *testing.T) {
	l := New(WithEntries([]models.EmotionLogEntry{{Emotion: models.EmotionSad, Timestamp: t0}}))
	if l.AppendAt(models.EmotionSad, t0.Add(time.Second)) {
		t.Error("expected seeded last entry to drive de-duplication")
	}
}

func TestAppend_Concurrent(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.AppendAt(models.EmotionSad, t0)
		}()
	}
	wg.Wait()
	if l.Len() != 1 {
		t.Errorf("expected one entry from concurrent duplicates, got %d", l.Len())
	}
}
