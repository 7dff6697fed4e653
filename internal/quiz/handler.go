package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/auth"
	httperrors "github.com/fluentora/backend/pkg/http/errors"
)

// Handler provides REST endpoints for quizzes and attempts.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHandler creates quiz HTTP handlers.
func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// publicQuestion is a question with the correct answer stripped, safe to
// hand to a learner taking the quiz.
type publicQuestion struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
	Points  int      `json:"points"`
}

type publicQuiz struct {
	ID           uuid.UUID        `json:"id"`
	CourseID     uuid.UUID        `json:"course_id"`
	Title        string           `json:"title"`
	PassingScore float64          `json:"passing_score"`
	TimeLimit    int              `json:"time_limit_seconds"`
	MaxScore     int              `json:"max_score"`
	Questions    []publicQuestion `json:"questions"`
}

func toPublic(q Quiz) publicQuiz {
	out := publicQuiz{
		ID:           q.ID,
		CourseID:     q.CourseID,
		Title:        q.Title,
		PassingScore: q.PassingScore,
		TimeLimit:    q.TimeLimit,
		MaxScore:     q.MaxScore(),
		Questions:    make([]publicQuestion, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		out.Questions = append(out.Questions, publicQuestion{
			ID:      question.ID,
			Type:    question.Type,
			Prompt:  question.Prompt,
			Options: question.Options,
			Points:  question.Points,
		})
	}
	return out
}

// GetQuiz handles GET /v1/quizzes/{id}
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid quiz id")
		return
	}

	q, err := h.svc.GetQuiz(r.Context(), quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Quiz not found")
			return
		}
		h.logger.Error().Err(err).Msg("get quiz failed")
		httperrors.RespondInternalError(w, "Failed to load quiz")
		return
	}

	respondJSON(w, http.StatusOK, toPublic(q))
}

// ListByCourse handles GET /v1/courses/{id}/quizzes
func (h *Handler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid course id")
		return
	}

	quizzes, err := h.svc.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list quizzes failed")
		httperrors.RespondInternalError(w, "Failed to list quizzes")
		return
	}

	out := make([]publicQuiz, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, toPublic(q))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"quizzes": out})
}

type createQuizRequest struct {
	CourseID     uuid.UUID  `json:"course_id"`
	Title        string     `json:"title"`
	PassingScore float64    `json:"passing_score"`
	TimeLimit    int        `json:"time_limit_seconds"`
	Questions    []Question `json:"questions"`
}

// CreateQuiz handles POST /v1/quizzes (teacher role)
func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	q, err := h.svc.CreateQuiz(r.Context(), Quiz{
		CourseID:     req.CourseID,
		Title:        req.Title,
		PassingScore: req.PassingScore,
		TimeLimit:    req.TimeLimit,
		Questions:    req.Questions,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("create quiz failed")
		httperrors.RespondInternalError(w, "Failed to create quiz")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"quiz_id": q.ID.String()})
}

// StartAttempt handles POST /v1/quizzes/{id}/attempts
func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid quiz id")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	attempt, err := h.svc.StartAttempt(r.Context(), quizID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuizNotFound):
			httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Quiz not found")
		case errors.Is(err, ErrInvalidArgument):
			httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
		default:
			h.logger.Error().Err(err).Msg("start attempt failed")
			httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeAttemptStartFailed, "Failed to start attempt")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"attempt_id": attempt.ID.String(),
		"quiz_id":    attempt.QuizID.String(),
		"started_at": attempt.StartedAt.Format(time.RFC3339Nano),
	})
}

type submitAttemptRequest struct {
	Answers []Answer  `json:"answers"`
	EndTime time.Time `json:"end_time"`
}

// SubmitAttempt handles POST /v1/attempts/{id}/submit
func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid attempt id")
		return
	}

	var req submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	result, err := h.svc.SubmitAttempt(r.Context(), attemptID, req.Answers, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, ErrAttemptNotFound), errors.Is(err, ErrQuizNotFound):
			httperrors.RespondNotFound(w, httperrors.ErrCodeAttemptNotFound, "Attempt not found")
		case errors.Is(err, ErrAttemptSubmitted):
			httperrors.RespondConflict(w, httperrors.ErrCodeAttemptSubmitted, "Attempt already submitted")
		default:
			h.logger.Error().Err(err).Msg("submit attempt failed")
			httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSubmitFailed, "Failed to submit attempt")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ListAttempts handles GET /v1/quizzes/{id}/attempts
func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid quiz id")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	attempts, err := h.svc.ListAttempts(r.Context(), quizID, userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list attempts failed")
		httperrors.RespondInternalError(w, "Failed to list attempts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
