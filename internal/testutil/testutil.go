// Package testutil provides common test doubles and helpers for MoodPipe tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/BTreeMap/MoodPipe/internal/genai"
)

// ErrFakeFailure is the error FakeGenerator returns when configured to fail.
var ErrFakeFailure = errors.New("fake generator failure")

// Call records one Generate invocation.
type Call struct {
	SystemPrompt string
	UserPrompt   string
}

// FakeGenerator is a genai.Generator spy with scripted replies.
// Reply is returned for every call unless Fail is set; ReplyFunc takes precedence over Reply.
type FakeGenerator struct {
	mu        sync.Mutex
	Reply     string
	ReplyFunc func(systemPrompt, userPrompt string) (string, error)
	Fail      bool
	calls     []Call
}

var _ genai.Generator = (*FakeGenerator)(nil)

// Generate records the call and returns the scripted reply.
func (f *FakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	if f.ReplyFunc != nil {
		return f.ReplyFunc(systemPrompt, userPrompt)
	}
	if f.Fail {
		return "", ErrFakeFailure
	}
	return f.Reply, nil
}

// Calls returns a copy of the recorded calls.
func (f *FakeGenerator) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many times Generate ran.
func (f *FakeGenerator) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// ProbeFree returns the calls that were not the credential probe (empty system prompt, "test").
func (f *FakeGenerator) ProbeFree() []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.SystemPrompt == "" && c.UserPrompt == "test" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FactorySpy counts client constructions and hands out Gen for every key.
type FactorySpy struct {
	Gen   genai.Generator
	Err   error
	count atomic.Int32
}

// Factory matches credential.ClientFactory.
func (s *FactorySpy) Factory(ctx context.Context, apiKey string) (genai.Generator, error) {
	s.count.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Gen, nil
}

// Count returns how many clients were constructed.
func (s *FactorySpy) Count() int {
	return int(s.count.Load())
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// DecodeJSONResponse decodes the recorded body into a generic map and checks the status field.
func DecodeJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s' (message %v)", expectedStatus, status, response["message"])
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}
	return response
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}
