package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"quiz-platform/internal/app"
)

// QuizHandler exposes the quiz lifecycle over JSON.
type QuizHandler struct {
	service  *app.QuizService
	validate *validator.Validate
	log      *slog.Logger
}

func NewQuizHandler(service *app.QuizService, log *slog.Logger) *QuizHandler {
	return &QuizHandler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// decode reads a JSON body into dst and runs struct validation. It writes the
// 400 response itself and reports false when the request must stop.
func (h *QuizHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func (h *QuizHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Quiz platform backend is running",
	})
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListQuizzes(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	quizzes := make([]quizResponse, len(views))
	for i, view := range views {
		quizzes[i] = newQuizResponse(view)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quizzes": quizzes,
		"total":   len(quizzes),
	})
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuizResponse(view))
}

func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if !h.decode(w, r, &req) {
		return
	}
	quizID, err := h.service.CreateQuiz(r.Context(), req.toDomain())
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"quizId":  quizID,
		"message": "Quiz created successfully",
	})
}

func (h *QuizHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req playQuizRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.PlayQuiz(r.Context(), chi.URLParam(r, "quizID"), req.Participant, req.answerIndexes())
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.service.GetAttempt(r.Context(), chi.URLParam(r, "address"), chi.URLParam(r, "quizID"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, newAttemptResponse(attempt))
}

func (h *QuizHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *QuizHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	active, err := h.service.ToggleActive(r.Context(), quizID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id":   quizID,
		"is_active": active,
	})
}

func (h *QuizHandler) DistributeReward(w http.ResponseWriter, r *http.Request) {
	var req distributeRewardRequest
	if !h.decode(w, r, &req) {
		return
	}
	confirmation, err := h.service.DistributeReward(r.Context(), req.Participant, req.QuizID, float64(req.RewardAmount))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Reward distributed successfully",
		"participant": confirmation.Participant,
		"quizId":      confirmation.QuizID,
		"amount":      confirmation.Amount,
	})
}
