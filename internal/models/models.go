// Package models defines the core data structures for MoodPipe.
//
// It includes the closed enumerations (emotion, personality, language, role) shared by every
// cascade, the conversation message, and the emotion log entry.
package models

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Emotion is one of the six labels the classification cascade can produce.
type Emotion string

const (
	// EmotionHappy indicates a positive, joyful state.
	EmotionHappy Emotion = "happy"
	// EmotionNeutral is the classification floor when nothing else applies.
	EmotionNeutral Emotion = "neutral"
	// EmotionSad indicates sadness or low mood.
	EmotionSad Emotion = "sad"
	// EmotionAnxious indicates worry or fear.
	EmotionAnxious Emotion = "anxious"
	// EmotionStressed indicates pressure or overwhelm.
	EmotionStressed Emotion = "stressed"
	// EmotionAngry indicates anger or frustration.
	EmotionAngry Emotion = "angry"
)

// AllEmotions lists every Emotion in enumeration order.
var AllEmotions = []Emotion{EmotionHappy, EmotionNeutral, EmotionSad, EmotionAnxious, EmotionStressed, EmotionAngry}

// Personality selects the persona used in AI prompts and in the fallback matrix.
type Personality string

const (
	// PersonalitySupportive is a warm, empathetic friend.
	PersonalitySupportive Personality = "supportive"
	// PersonalityTherapist is a professional using therapeutic techniques.
	PersonalityTherapist Personality = "therapist"
	// PersonalityCoach is an action-oriented motivational coach.
	PersonalityCoach Personality = "coach"
)

// AllPersonalities lists every Personality in enumeration order.
var AllPersonalities = []Personality{PersonalitySupportive, PersonalityTherapist, PersonalityCoach}

// Language is one of the two working languages.
type Language string

const (
	// LanguagePrimary is the canonical working language every cascade processes in.
	LanguagePrimary Language = "en-US"
	// LanguageSecondary is the second supported input/output language.
	LanguageSecondary Language = "hi-IN"
)

// AllLanguages lists every Language in enumeration order.
var AllLanguages = []Language{LanguagePrimary, LanguageSecondary}

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks messages written by the person chatting.
	RoleUser Role = "user"
	// RoleAssistant marks generated or fallback replies.
	RoleAssistant Role = "assistant"
)

// Error variables for enumeration parsing
var (
	ErrInvalidEmotion     = errors.New("invalid emotion")
	ErrInvalidPersonality = errors.New("invalid personality")
	ErrInvalidLanguage    = errors.New("invalid language")
)

// IsValid reports whether e is a member of the emotion enumeration.
func (e Emotion) IsValid() bool {
	switch e {
	case EmotionHappy, EmotionNeutral, EmotionSad, EmotionAnxious, EmotionStressed, EmotionAngry:
		return true
	default:
		return false
	}
}

// ParseEmotion normalizes s and returns the matching Emotion.
// Surrounding whitespace, quotes and trailing punctuation are ignored.
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(strings.ToLower(strings.Trim(strings.TrimSpace(s), "\"'`.!,;: \n\t")))
	if !e.IsValid() {
		return "", ErrInvalidEmotion
	}
	return e, nil
}

// IsValid reports whether p is a member of the personality enumeration.
func (p Personality) IsValid() bool {
	switch p {
	case PersonalitySupportive, PersonalityTherapist, PersonalityCoach:
		return true
	default:
		return false
	}
}

// ParsePersonality returns the matching Personality for s (case-insensitive).
func ParsePersonality(s string) (Personality, error) {
	p := Personality(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidPersonality
	}
	return p, nil
}

// IsValid reports whether l is one of the two working languages.
func (l Language) IsValid() bool {
	return l == LanguagePrimary || l == LanguageSecondary
}

// Tag returns the BCP-47 tag of the language.
func (l Language) Tag() language.Tag {
	return language.Make(string(l))
}

// BaseCode returns the ISO 639 code of the language ("en", "hi").
func (l Language) BaseCode() string {
	base, _ := l.Tag().Base()
	return base.String()
}

// DisplayName returns the English name of the language, e.g. "Hindi".
func (l Language) DisplayName() string {
	base, _ := l.Tag().Base()
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return string(l)
}

// ParseLanguage accepts any BCP-47 tag whose base language matches one of the working languages,
// so "hi", "hi-IN" and "HI-in" all resolve to LanguageSecondary.
func ParseLanguage(s string) (Language, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidLanguage
	}
	base, _ := tag.Base()
	for _, l := range AllLanguages {
		if l.BaseCode() == base.String() {
			return l, nil
		}
	}
	return "", ErrInvalidLanguage
}

// Message is one entry of the active conversation session.
type Message struct {
	Role              Role      `json:"role"`
	Content           string    `json:"content"`
	TranslatedContent string    `json:"translated_content,omitempty"`
	Emotion           *Emotion  `json:"emotion,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// ContextText returns the text used when the message is fed back to the AI tier:
// the translated form for user messages that have one, the original content otherwise.
func (m Message) ContextText() string {
	if m.Role == RoleUser && m.TranslatedContent != "" {
		return m.TranslatedContent
	}
	return m.Content
}

// EmotionLogEntry is one accepted observation in the emotion log.
type EmotionLogEntry struct {
	Emotion   Emotion   `json:"emotion"`
	Timestamp time.Time `json:"timestamp"`
}
