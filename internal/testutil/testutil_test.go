package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFakeGenerator(t *testing.T) {
	f := &FakeGenerator{Reply: "hello"}
	got, err := f.Generate(context.Background(), "", "test")
	if err != nil || got != "hello" {
		t.Fatalf("unexpected %q, %v", got, err)
	}
	f.Generate(context.Background(), "sys", "user")
	if f.CallCount() != 2 {
		t.Errorf("expected 2 calls, got %d", f.CallCount())
	}
	free := f.ProbeFree()
	if len(free) != 1 || free[0].SystemPrompt != "sys" {
		t.Errorf("expected probe filtered out, got %+v", free)
	}

	f = &FakeGenerator{Fail: true}
	if _, err := f.Generate(context.Background(), "", "x"); !errors.Is(err, ErrFakeFailure) {
		t.Errorf("expected ErrFakeFailure, got %v", err)
	}

	f = &FakeGenerator{Reply: "ignored", ReplyFunc: func(sys, user string) (string, error) { return user + "!", nil }}
	if got, _ := f.Generate(context.Background(), "", "hi"); got != "hi!" {
		t.Errorf("expected ReplyFunc to win, got %q", got)
	}
}

func TestFactorySpy(t *testing.T) {
	gen := &FakeGenerator{}
	s := &FactorySpy{Gen: gen}
	g, err := s.Factory(context.Background(), "key")
	if err != nil || g != gen {
		t.Fatalf("unexpected %v, %v", g, err)
	}
	s.Err = errors.New("nope")
	if _, err := s.Factory(context.Background(), "key"); err == nil {
		t.Error("expected error")
	}
	if s.Count() != 2 {
		t.Errorf("expected 2 constructions, got %d", s.Count())
	}
}

func TestAssertHTTPStatus(t *testing.T) {
	AssertHTTPStatus(t, http.StatusOK, http.StatusOK, "match")
}

func TestDecodeJSONResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	json.NewEncoder(rr).Encode(map[string]interface{}{"status": "ok", "result": map[string]string{"a": "b"}})
	resp := DecodeJSONResponse(t, rr, "ok")
	if resp["result"].(map[string]interface{})["a"] != "b" {
		t.Errorf("unexpected body %v", resp)
	}
}

func TestCreateHTTPRequest(t *testing.T) {
	req := CreateHTTPRequest(t, http.MethodPost, "/classify", map[string]string{"text": "hi"})
	if req.Method != http.MethodPost || req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("unexpected request %+v", req)
	}
	body, _ := io.ReadAll(req.Body)
	if string(body) != `{"text":"hi"}` {
		t.Errorf("unexpected body %s", body)
	}

	req = CreateHTTPRequest(t, http.MethodGet, "/offline", nil)
	body, _ = io.ReadAll(req.Body)
	if len(body) != 0 {
		t.Errorf("expected empty body, got %s", body)
	}
}
