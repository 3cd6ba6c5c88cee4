package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// maxRequestBytes caps request bodies.
const maxRequestBytes = 64 << 10

// Pre-marshaled fallback response used when encoding a response fails
var fallbackErrorResponse []byte

func init() {
	var err error
	fallbackErrorResponse, err = json.Marshal(models.Error("Internal server error"))
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal fallback error response at startup: %v", err))
	}
}

// writeJSONResponse writes a JSON response to the http.ResponseWriter with the given status code.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	// Marshal first so an encoding error can still change the status code
	jsonData, err := json.Marshal(response)
	if err != nil {
		slog.Error("Server.writeJSONResponse: failed to marshal JSON response", "error", err)
		jsonData = fallbackErrorResponse
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, writeErr := w.Write(jsonData); writeErr != nil {
		slog.Error("Server.writeJSONResponse: failed to write JSON response", "error", writeErr)
	}
}

// validator is implemented by every request payload.
type validator interface {
	Validate() error
}

// decodeRequest decodes and validates a JSON body into dst, writing a 400 response and
// returning false on failure. An empty body decodes as an empty object.
func decodeRequest(w http.ResponseWriter, r *http.Request, handler string, dst validator) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn(handler+" invalid JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return false
	}
	if err := dst.Validate(); err != nil {
		slog.Warn(handler+" validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return false
	}
	return true
}

// languageParam reads the optional ?language= query parameter, defaulting to the primary
// language. ok is false when the value is present but unsupported.
func languageParam(r *http.Request) (models.Language, bool) {
	raw := r.URL.Query().Get("language")
	if raw == "" {
		return models.LanguagePrimary, true
	}
	l, err := models.ParseLanguage(raw)
	if err != nil {
		return "", false
	}
	return l, true
}
