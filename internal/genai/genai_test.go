package genai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// mockChatService implements chatService for testing.
type mockChatService struct {
	resp   *openai.ChatCompletion
	err    error
	params openai.ChatCompletionNewParams
	calls  int
}

func (m *mockChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.calls++
	m.params = params
	return m.resp, m.err
}

func completion(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestGenerate_Success(t *testing.T) {
	mock := &mockChatService{resp: completion("Hello World")}
	client := &Client{chat: mock, model: "test-model", temperature: 0.1, maxCompletionTokens: 100}
	out, err := client.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "Hello World" {
		t.Errorf("expected 'Hello World', got '%s'", out)
	}
	if len(mock.params.Messages) != 2 {
		t.Errorf("expected system and user messages, got %d", len(mock.params.Messages))
	}
	if string(mock.params.Model) != "test-model" {
		t.Errorf("expected model test-model, got %s", mock.params.Model)
	}
}

func TestGenerate_NoSystemPrompt(t *testing.T) {
	mock := &mockChatService{resp: completion("ok")}
	client := &Client{chat: mock, model: "test-model"}
	if _, err := client.Generate(context.Background(), "", "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.params.Messages) != 1 {
		t.Errorf("expected only the user message, got %d", len(mock.params.Messages))
	}
}

func TestGenerate_ServiceError(t *testing.T) {
	client := &Client{chat: &mockChatService{err: errors.New("service failure")}}
	_, err := client.Generate(context.Background(), "sys", "usr")
	if err == nil || !strings.Contains(err.Error(), "service failure") {
		t.Errorf("expected service failure error, got %v", err)
	}
}

func TestGenerate_NoChoices(t *testing.T) {
	client := &Client{chat: &mockChatService{resp: &openai.ChatCompletion{}}}
	_, err := client.Generate(context.Background(), "sys", "usr")
	if !errors.Is(err, ErrNoChoicesReturned) {
		t.Errorf("expected no choices returned error, got %v", err)
	}
}

func TestGenerate_EmptyContent(t *testing.T) {
	client := &Client{chat: &mockChatService{resp: completion("   ")}}
	_, err := client.Generate(context.Background(), "sys", "usr")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected empty response error, got %v", err)
	}
}

func TestNewClient_NoKey(t *testing.T) {
	_, err := NewClient()
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewClient_WithKey(t *testing.T) {
	cli, err := NewClient(WithAPIKey("test-key"), WithModel("custom"), WithBaseURL("http://localhost:1234/v1"))
	if err != nil {
		t.Fatalf("expected no error with API key, got %v", err)
	}
	if cli == nil || cli.model != "custom" {
		t.Errorf("expected client with custom model, got %+v", cli)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), "llama-farm", WithAPIKey("k"))
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestNew_DefaultsToOpenAI(t *testing.T) {
	gen, err := New(context.Background(), "", WithAPIKey("k"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gen.(*Client); !ok {
		t.Errorf("expected *Client, got %T", gen)
	}
}

// mockContentService implements contentService for testing.
type mockContentService struct {
	resp   *genai.GenerateContentResponse
	err    error
	config *genai.GenerateContentConfig
}

func (m *mockContentService) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.config = config
	return m.resp, m.err
}

func geminiResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func TestGeminiGenerate_Success(t *testing.T) {
	mock := &mockContentService{resp: geminiResponse("namaste")}
	client := &GeminiClient{models: mock, model: "gemini-test", temperature: 0.2}
	out, err := client.Generate(context.Background(), "be kind", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "namaste" {
		t.Errorf("expected namaste, got %q", out)
	}
	if mock.config == nil || mock.config.SystemInstruction == nil {
		t.Error("expected system instruction to be set")
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	client := &GeminiClient{models: &mockContentService{resp: &genai.GenerateContentResponse{}}}
	if _, err := client.Generate(context.Background(), "", "hello"); !errors.Is(err, ErrNoChoicesReturned) {
		t.Errorf("expected ErrNoChoicesReturned, got %v", err)
	}
}

func TestGeminiGenerate_Error(t *testing.T) {
	client := &GeminiClient{models: &mockContentService{err: errors.New("quota exceeded")}}
	_, err := client.Generate(context.Background(), "", "hello")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected quota error, got %v", err)
	}
}

func TestNewGeminiClient_NoKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background()); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}
