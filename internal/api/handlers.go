package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/BTreeMap/MoodPipe/internal/conversation"
	"github.com/BTreeMap/MoodPipe/internal/locale"
	"github.com/BTreeMap/MoodPipe/internal/models"
)

// healthHandler handles GET /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"offline":   s.offline(),
	}
	if s.Credentials != nil {
		health["credential"] = s.Credentials.State().String()
	}
	if s.Sessions != nil {
		health["sessions"] = s.Sessions.Len()
	}
	writeJSONResponse(w, http.StatusOK, models.Success(health))
}

// classifyHandler handles POST /classify
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ClassifyRequest
	if !decodeRequest(w, r, "classifyHandler", &req) {
		return
	}
	e := s.Classifier.Classify(r.Context(), req.Text, s.offline())
	slog.Debug("classifyHandler: classified", "emotion", e)
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{"emotion": e}))
}

// translateHandler handles POST /translate
func (s *Server) translateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.TranslateRequest
	if !decodeRequest(w, r, "translateHandler", &req) {
		return
	}
	out := s.Translator.Translate(r.Context(), req.Text, req.From, req.To, s.offline())
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{"text": out}))
}

// respondHandler handles POST /respond
func (s *Server) respondHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RespondRequest
	if !decodeRequest(w, r, "respondHandler", &req) {
		return
	}
	reply := s.Responder.Respond(r.Context(), req.Text, req.Personality, req.Emotion, req.History, req.Language, s.offline())
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{"reply": reply}))
}

// getCredentialHandler handles GET /credential. It triggers validation when the credential has
// not been checked yet.
func (s *Server) getCredentialHandler(w http.ResponseWriter, r *http.Request) {
	l, _ := languageParam(r)
	valid := s.Credentials.IsValid(r.Context())
	result := map[string]interface{}{
		"valid": valid,
		"state": s.Credentials.State().String(),
	}
	if adv := s.advisory(l); adv != nil {
		result["advisory"] = adv
	}
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// updateCredentialHandler handles PUT /credential
func (s *Server) updateCredentialHandler(w http.ResponseWriter, r *http.Request) {
	l, ok := languageParam(r)
	if !ok {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(models.ErrInvalidLanguage.Error()))
		return
	}
	var req models.CredentialUpdateRequest
	if !decodeRequest(w, r, "updateCredentialHandler", &req) {
		return
	}
	valid := s.Credentials.Update(r.Context(), req.APIKey)
	slog.Info("updateCredentialHandler: credential replaced", "valid", valid)
	result := map[string]interface{}{
		"valid": valid,
		"state": s.Credentials.State().String(),
	}
	if adv := s.advisory(l); adv != nil {
		result["advisory"] = adv
	}
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// getOfflineHandler handles GET /offline
func (s *Server) getOfflineHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{"offline": s.offline()}))
}

// updateOfflineHandler handles PUT /offline
func (s *Server) updateOfflineHandler(w http.ResponseWriter, r *http.Request) {
	var req models.OfflineUpdateRequest
	if !decodeRequest(w, r, "updateOfflineHandler", &req) {
		return
	}
	adv := s.Governor.Set(req.Offline, req.Language)
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"offline":  s.offline(),
		"advisory": adv,
	}))
}

// phraseHandler handles GET /phrases/{emotion}
func (s *Server) phraseHandler(w http.ResponseWriter, r *http.Request) {
	e, err := models.ParseEmotion(r.PathValue("emotion"))
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	l, ok := languageParam(r)
	if !ok {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(models.ErrInvalidLanguage.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{"text": locale.AutoMessage(e, l)}))
}

// createSessionHandler handles POST /sessions
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SessionCreateRequest
	if !decodeRequest(w, r, "createSessionHandler", &req) {
		return
	}
	sess := s.Sessions.Create(req.Personality, req.Language)
	history := sess.History()
	writeJSONResponse(w, http.StatusCreated, models.Success(map[string]interface{}{
		"session_id": sess.ID,
		"greeting":   history[0].Content,
	}))
}

// session resolves the {id} path value, writing 404/500 itself when it cannot.
func (s *Server) session(w http.ResponseWriter, r *http.Request, handler string) (*conversation.Session, bool) {
	id := r.PathValue("id")
	sess, err := s.Sessions.Get(r.Context(), id)
	if errors.Is(err, conversation.ErrSessionNotFound) {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return nil, false
	}
	if err != nil {
		slog.Error(handler+" session lookup failed", "error", err, "sessionID", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load session"))
		return nil, false
	}
	return sess, true
}

// messageHandler handles POST /sessions/{id}/messages
func (s *Server) messageHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, "messageHandler")
	if !ok {
		return
	}
	var req models.MessageRequest
	if !decodeRequest(w, r, "messageHandler", &req) {
		return
	}
	reply := sess.Handle(r.Context(), req)
	reply.Advisory = s.advisory(sess.Language())
	writeJSONResponse(w, http.StatusOK, models.Success(reply))
}

// historyHandler handles GET /sessions/{id}/messages
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, "historyHandler")
	if !ok {
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{"messages": sess.History()}))
}

// emotionsHandler handles GET /sessions/{id}/emotions
func (s *Server) emotionsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, "emotionsHandler")
	if !ok {
		return
	}
	log := sess.Emotions()
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"entries": log.Entries(),
		"counts":  log.Counts(),
	}))
}

// sensedHandler handles POST /sessions/{id}/sensed
func (s *Server) sensedHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, "sensedHandler")
	if !ok {
		return
	}
	var req models.SensedEmotionRequest
	if !decodeRequest(w, r, "sensedHandler", &req) {
		return
	}
	logged, auto := sess.Sense(req.Emotion, req.Language)
	result := map[string]interface{}{"logged": logged}
	if auto != "" {
		result["auto_message"] = auto
	}
	writeJSONResponse(w, http.StatusOK, models.Recorded(result))
}
