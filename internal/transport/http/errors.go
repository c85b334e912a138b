package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

type errorPayload struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeJSON encodes before writing the header so an unencodable value becomes a 500, not an empty 200.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("encode response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorPayload{Error: "Internal server error", Code: "INTERNAL_ERROR"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorPayload{Error: message, Code: code})
}

// writeValidationError reports which request fields failed struct validation.
func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body")
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	writeJSON(w, http.StatusBadRequest, errorPayload{
		Error:  "Invalid request data",
		Code:   "INVALID_INPUT",
		Fields: fields,
	})
}

// handleServiceError maps lifecycle errors to HTTP responses. Anything unexpected
// becomes a generic 500 and is only visible in the logs.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	if app.IsClientError(err) {
		log.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "reason", err)
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", reason(err, domain.ErrInvalidInput))
	case errors.Is(err, domain.ErrQuizNotFound):
		writeError(w, http.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz not found")
	case errors.Is(err, domain.ErrAttemptNotFound):
		writeError(w, http.StatusNotFound, "RECORD_NOT_FOUND", "Record or quiz not found")
	case errors.Is(err, domain.ErrQuizInactive):
		writeError(w, http.StatusBadRequest, "QUIZ_INACTIVE", "Quiz is not active")
	case errors.Is(err, domain.ErrAnswerCountMismatch):
		writeError(w, http.StatusBadRequest, "ANSWER_COUNT_MISMATCH", "Number of answers must match questions")
	case errors.Is(err, domain.ErrAlreadyPlayed):
		writeError(w, http.StatusBadRequest, "ALREADY_PLAYED", "You have already played this quiz")
	case errors.Is(err, domain.ErrAlreadyRewarded):
		writeError(w, http.StatusBadRequest, "ALREADY_REWARDED", "Cannot distribute reward: already rewarded")
	case errors.Is(err, domain.ErrRewardNotPassed):
		writeError(w, http.StatusBadRequest, "NOT_PASSED", "Cannot distribute reward: quiz not passed")
	case errors.Is(err, domain.ErrRewardRejected):
		writeError(w, http.StatusBadRequest, "REWARD_REJECTED", "Cannot distribute reward")
	default:
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// reason strips the sentinel prefix from a wrapped validation error.
func reason(err, sentinel error) string {
	msg := err.Error()
	trimmed := strings.TrimPrefix(msg, sentinel.Error()+": ")
	if trimmed == "" || trimmed == msg {
		return "Invalid quiz data"
	}
	return trimmed
}
