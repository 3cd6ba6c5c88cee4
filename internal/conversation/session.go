package conversation

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/emotionlog"
	"github.com/BTreeMap/MoodPipe/internal/locale"
	"github.com/BTreeMap/MoodPipe/internal/models"
	"github.com/BTreeMap/MoodPipe/internal/respond"
	"github.com/BTreeMap/MoodPipe/internal/translate"
)

// Session is one conversation. Turns on the same session run one at a time.
type Session struct {
	ID string

	mu              sync.Mutex
	engine          *Engine
	personality     models.Personality
	language        models.Language
	history         []models.Message
	log             *emotionlog.Log
	pendingSensed   *models.Emotion
	autoMessageSent bool
	// lastActive is the unix-nano time of the last use; read without mu by the idle sweep.
	lastActive atomic.Int64
}

func newSession(id string, engine *Engine, p models.Personality, l models.Language, seed []models.EmotionLogEntry) *Session {
	if !p.IsValid() {
		p = models.PersonalitySupportive
	}
	if !l.IsValid() {
		l = models.LanguagePrimary
	}
	opts := []emotionlog.Option{emotionlog.WithClock(engine.now), emotionlog.WithEntries(seed)}
	if engine.Sink != nil {
		opts = append(opts, emotionlog.WithSink(engine.Sink, id))
	}
	s := &Session{
		ID:          id,
		engine:      engine,
		personality: p,
		language:    l,
		log:         emotionlog.New(opts...),
		history: []models.Message{{
			Role:      models.RoleAssistant,
			Content:   locale.For(l).Greeting,
			Timestamp: engine.now(),
		}},
	}
	s.touch()
	return s
}

func (s *Session) touch() {
	s.lastActive.Store(s.engine.now().UnixNano())
}

// LastActive returns when the session was last created, resumed, or used.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// History returns a copy of the conversation so far.
func (s *Session) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.history...)
}

// Language returns the session's current reply language.
func (s *Session) Language() models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// Emotions returns the session's emotion log.
func (s *Session) Emotions() *emotionlog.Log {
	return s.log
}

// Handle processes one user message: translation when the text is in the secondary script,
// crisis scan, classification (or the sensed emotion), log append, reply generation. It never
// fails; a panic anywhere yields the emotion-only canned reply.
func (s *Session) Handle(ctx context.Context, req models.MessageRequest) (reply models.MessageReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	p := s.personality
	if req.Personality.IsValid() {
		p = req.Personality
		s.personality = p
	}
	l := s.language
	if req.Language.IsValid() {
		l = req.Language
		s.language = l
	}

	var detected models.Emotion
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Session.Handle: recovered from panic, using emotion-only reply", "panic", r, "sessionID", s.ID)
			if detected == "" {
				detected = models.EmotionNeutral
			}
			reply = models.MessageReply{Reply: respond.EmotionReply(detected, l), Emotion: detected}
		}
	}()

	offline := s.engine.offline()
	original := req.Text
	processed := original

	if translate.IsWrittenIn(original, models.LanguageSecondary) && s.engine.Translator != nil {
		if out := s.engine.Translator.Translate(ctx, original, models.LanguageSecondary, models.LanguagePrimary, offline); out != "" && out != original {
			processed = out
			reply.Translated = out
		}
	}

	if IsCrisis(original, processed) {
		slog.Warn("Session.Handle: crisis keywords detected", "sessionID", s.ID)
		reply.Crisis = true
		notice := locale.CrisisNotice(l)
		reply.CrisisNotice = &notice
	}

	switch {
	case req.SensedEmotion != nil && req.SensedEmotion.IsValid():
		detected = *req.SensedEmotion
	case s.pendingSensed != nil:
		detected = *s.pendingSensed
	case s.engine.Classifier != nil:
		detected = s.engine.Classifier.Classify(ctx, processed, offline)
	default:
		detected = models.EmotionNeutral
	}
	s.pendingSensed = nil
	s.log.Append(detected)

	history := append([]models.Message(nil), s.history...)
	var text string
	if s.engine.Responder != nil {
		text = s.engine.Responder.Respond(ctx, processed, p, detected, history, l, offline)
	}
	if text == "" {
		text = respond.Fallback(p, detected, l)
	}

	now := s.engine.now()
	s.history = append(s.history,
		models.Message{Role: models.RoleUser, Content: original, TranslatedContent: reply.Translated, Timestamp: now},
		models.Message{Role: models.RoleAssistant, Content: text, Emotion: &detected, Timestamp: now},
	)

	reply.Reply = text
	reply.Emotion = detected
	switch detected {
	case models.EmotionSad, models.EmotionAnxious, models.EmotionStressed:
		notice := locale.JournalingNotice(l)
		reply.JournalingSuggestion = &notice
	}
	slog.Debug("Session.Handle: turn complete", "sessionID", s.ID, "emotion", detected, "translated", reply.Translated != "", "offline", offline)
	return reply
}

// Sense records an externally sensed emotion. The emotion replaces classification on the next
// turn that does not carry its own. The first accepted sensing of a session also yields the
// first-person phrase to send on the user's behalf; later calls return "".
func (s *Session) Sense(e models.Emotion, l models.Language) (logged bool, autoMessage string) {
	if !e.IsValid() {
		return false, ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if !l.IsValid() {
		l = s.language
	}
	s.pendingSensed = &e
	logged = s.log.Append(e)
	if !s.autoMessageSent {
		s.autoMessageSent = true
		autoMessage = locale.AutoMessage(e, l)
	}
	return logged, autoMessage
}
