package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"true", false, true},
		{"YES", false, true},
		{" on ", false, true},
		{"1", false, true},
		{"false", true, false},
		{"off", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		t.Setenv("MOODPIPE_TEST_BOOL", tt.value)
		if got := ParseBoolEnv("MOODPIPE_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}

func TestFirstEnv(t *testing.T) {
	t.Setenv("MOODPIPE_TEST_A", "")
	t.Setenv("MOODPIPE_TEST_B", "  ")
	t.Setenv("MOODPIPE_TEST_C", "third")
	if got := FirstEnv("MOODPIPE_TEST_A", "MOODPIPE_TEST_B", "MOODPIPE_TEST_C"); got != "third" {
		t.Errorf("expected third, got %q", got)
	}
	if got := FirstEnv("MOODPIPE_TEST_A"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestParseDurationEnv(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Hour},
		{"30m", 30 * time.Minute},
		{" 2h ", 2 * time.Hour},
		{"0", 0},
		{"0s", 0},
		{"-5m", time.Hour},
		{"soon", time.Hour},
	}
	for _, tt := range tests {
		t.Setenv("MOODPIPE_TEST_DURATION", tt.value)
		if got := ParseDurationEnv("MOODPIPE_TEST_DURATION", time.Hour); got != tt.want {
			t.Errorf("ParseDurationEnv(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
