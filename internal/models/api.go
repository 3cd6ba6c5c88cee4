// Package models defines API request and response envelopes for MoodPipe endpoints.
package models

import (
	"errors"
	"strings"
)

// MaxTextLength defines the maximum accepted length of user text in any request.
const MaxTextLength = 4096

// Error variables for request validation
var (
	ErrEmptyText   = errors.New("text is required")
	ErrTextTooLong = errors.New("text exceeds maximum length")
	ErrEmptyAPIKey = errors.New("api_key is required")
)

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
	// APIStatusRecorded indicates data was successfully recorded via API.
	APIStatusRecorded APIStatus = "recorded"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// APIResponseBuilder provides a fluent interface for building API responses.
type APIResponseBuilder struct {
	response APIResponse
}

// NewAPIResponseBuilder creates a new APIResponseBuilder instance.
func NewAPIResponseBuilder() *APIResponseBuilder {
	return &APIResponseBuilder{response: APIResponse{}}
}

// WithStatus sets the status of the API response.
func (b *APIResponseBuilder) WithStatus(status APIStatus) *APIResponseBuilder {
	b.response.Status = string(status)
	return b
}

// WithMessage sets the message of the API response.
func (b *APIResponseBuilder) WithMessage(message string) *APIResponseBuilder {
	b.response.Message = message
	return b
}

// WithResult sets the result data of the API response.
func (b *APIResponseBuilder) WithResult(result interface{}) *APIResponseBuilder {
	b.response.Result = result
	return b
}

// Build constructs and returns the final APIResponse.
func (b *APIResponseBuilder) Build() APIResponse {
	return b.response
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusOK).
		WithResult(result).
		Build()
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusError).
		WithMessage(message).
		Build()
}

// Recorded creates a recorded API response with optional result data.
func Recorded(result interface{}) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusRecorded).
		WithResult(result).
		Build()
}

// Advisory is a localized, user-facing notice about a change in ongoing behavior.
type Advisory struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Warning     bool   `json:"warning,omitempty"`
}

// SessionCreateRequest is the payload for POST /sessions.
type SessionCreateRequest struct {
	Personality Personality `json:"personality,omitempty"`
	Language    Language    `json:"language,omitempty"`
}

// Validate validates a SessionCreateRequest.
func (r *SessionCreateRequest) Validate() error {
	if r.Personality != "" && !r.Personality.IsValid() {
		return ErrInvalidPersonality
	}
	return normalizeLanguage(&r.Language)
}

// MessageRequest is the payload for POST /sessions/{id}/messages. An empty Personality or
// Language keeps the session's current value.
type MessageRequest struct {
	Text          string      `json:"text"`
	Personality   Personality `json:"personality,omitempty"`
	Language      Language    `json:"language,omitempty"`
	SensedEmotion *Emotion    `json:"sensed_emotion,omitempty"`
}

// Validate validates a MessageRequest.
func (r *MessageRequest) Validate() error {
	if err := validateText(r.Text); err != nil {
		return err
	}
	if r.Personality != "" && !r.Personality.IsValid() {
		return ErrInvalidPersonality
	}
	if r.SensedEmotion != nil && !r.SensedEmotion.IsValid() {
		return ErrInvalidEmotion
	}
	return canonicalizeLanguage(&r.Language)
}

// MessageReply is the result of one handled conversation turn.
type MessageReply struct {
	Reply                string    `json:"reply"`
	Emotion              Emotion   `json:"emotion"`
	Translated           string    `json:"translated,omitempty"`
	Crisis               bool      `json:"crisis"`
	CrisisNotice         *Advisory `json:"crisis_notice,omitempty"`
	JournalingSuggestion *Advisory `json:"journaling_suggestion,omitempty"`
	// Advisory carries a pending offline-mode notice, if any.
	Advisory *Advisory `json:"advisory,omitempty"`
}

// SensedEmotionRequest is the payload for POST /sessions/{id}/sensed. An empty Language means
// the session language.
type SensedEmotionRequest struct {
	Emotion  Emotion  `json:"emotion"`
	Language Language `json:"language,omitempty"`
}

// Validate validates a SensedEmotionRequest.
func (r *SensedEmotionRequest) Validate() error {
	if !r.Emotion.IsValid() {
		return ErrInvalidEmotion
	}
	return canonicalizeLanguage(&r.Language)
}

// ClassifyRequest is the payload for POST /classify.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// Validate validates a ClassifyRequest. Empty text is allowed; it classifies as neutral.
func (r *ClassifyRequest) Validate() error {
	if len(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// TranslateRequest is the payload for POST /translate.
type TranslateRequest struct {
	Text string   `json:"text"`
	From Language `json:"from"`
	To   Language `json:"to"`
}

// Validate validates a TranslateRequest. Empty text is allowed; it translates to itself.
func (r *TranslateRequest) Validate() error {
	if len(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	if r.From == "" || r.To == "" {
		return ErrInvalidLanguage
	}
	if err := normalizeLanguage(&r.From); err != nil {
		return err
	}
	return normalizeLanguage(&r.To)
}

// RespondRequest is the payload for POST /respond.
type RespondRequest struct {
	Text        string      `json:"text"`
	Personality Personality `json:"personality"`
	Emotion     Emotion     `json:"emotion"`
	Language    Language    `json:"language,omitempty"`
	History     []Message   `json:"history,omitempty"`
}

// Validate validates a RespondRequest. Empty text is allowed; it yields the fallback reply.
func (r *RespondRequest) Validate() error {
	if len(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	if !r.Personality.IsValid() {
		return ErrInvalidPersonality
	}
	if !r.Emotion.IsValid() {
		return ErrInvalidEmotion
	}
	return normalizeLanguage(&r.Language)
}

// CredentialUpdateRequest is the payload for PUT /credential.
type CredentialUpdateRequest struct {
	APIKey string `json:"api_key"`
}

// Validate validates a CredentialUpdateRequest.
func (r *CredentialUpdateRequest) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" {
		return ErrEmptyAPIKey
	}
	return nil
}

// OfflineUpdateRequest is the payload for PUT /offline.
type OfflineUpdateRequest struct {
	Offline  bool     `json:"offline"`
	Language Language `json:"language,omitempty"`
}

// Validate validates an OfflineUpdateRequest.
func (r *OfflineUpdateRequest) Validate() error {
	return normalizeLanguage(&r.Language)
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if len(text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// canonicalizeLanguage canonicalizes a non-empty language and leaves an empty one empty.
func canonicalizeLanguage(l *Language) error {
	if *l == "" {
		return nil
	}
	return normalizeLanguage(l)
}

// normalizeLanguage defaults an empty language to the primary one and canonicalizes the rest.
func normalizeLanguage(l *Language) error {
	if *l == "" {
		*l = LanguagePrimary
		return nil
	}
	parsed, err := ParseLanguage(string(*l))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
