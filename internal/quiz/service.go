package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/db/repository"
	"github.com/fluentora/backend/internal/metrics"
)

// Store is the persistence seam for quiz definitions and attempts.
// *repository.QuizRepository satisfies it.
type Store interface {
	GetQuiz(ctx context.Context, quizID uuid.UUID) (repository.Quiz, error)
	ListQuizzesByCourse(ctx context.Context, courseID uuid.UUID) ([]repository.Quiz, error)
	CreateQuiz(ctx context.Context, params repository.CreateQuizParams) (repository.Quiz, error)
	CreateAttempt(ctx context.Context, quizID, userID uuid.UUID, startedAt time.Time) (repository.QuizAttempt, error)
	GetAttempt(ctx context.Context, attemptID uuid.UUID) (repository.QuizAttempt, error)
	FinalizeAttempt(ctx context.Context, params repository.FinalizeAttemptParams) error
	ListAttempts(ctx context.Context, quizID, userID uuid.UUID) ([]repository.QuizAttempt, error)
}

// DefinitionCache caches quiz definitions. A nil result with nil error is a
// cache miss.
type DefinitionCache interface {
	Get(ctx context.Context, quizID uuid.UUID) (*Quiz, error)
	Set(ctx context.Context, q Quiz) error
}

// Defaults supplies fallbacks for fields omitted at quiz creation.
type Defaults struct {
	TimeLimit    time.Duration
	PassingScore float64
}

// Service manages the attempt lifecycle: start, submission scoring,
// pass/fail determination.
type Service struct {
	store    Store
	cache    DefinitionCache
	defaults Defaults
	logger   zerolog.Logger
}

// NewService creates the quiz attempt service. cache may be nil.
func NewService(store Store, cache DefinitionCache, defaults Defaults, logger zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, defaults: defaults, logger: logger}
}

// GetQuiz loads a quiz definition, preferring the cache.
func (s *Service) GetQuiz(ctx context.Context, quizID uuid.UUID) (Quiz, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, quizID)
		if err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("quiz cache read failed")
		} else if cached != nil {
			return *cached, nil
		}
	}

	row, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, fmt.Errorf("get quiz: %w", err)
	}

	q, err := quizFromRow(row)
	if err != nil {
		return Quiz{}, fmt.Errorf("decode quiz %s: %w", quizID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, q); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("quiz cache write failed")
		}
	}
	return q, nil
}

// ListByCourse returns the published quizzes of a course.
func (s *Service) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]Quiz, error) {
	rows, err := s.store.ListQuizzesByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	quizzes := make([]Quiz, 0, len(rows))
	for _, row := range rows {
		q, err := quizFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode quiz %s: %w", row.QuizID, err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

// CreateQuiz persists a new quiz definition. Quizzes without questions are
// rejected so the passing threshold is always well defined. An omitted time
// limit or passing score takes the configured default.
func (s *Service) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	if q.Title == "" || len(q.Questions) == 0 {
		return Quiz{}, fmt.Errorf("%w: quiz needs a title and at least one question", ErrInvalidArgument)
	}
	if q.TimeLimit <= 0 {
		q.TimeLimit = int(s.defaults.TimeLimit / time.Second)
	}
	if q.PassingScore == 0 {
		q.PassingScore = s.defaults.PassingScore
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return Quiz{}, fmt.Errorf("%w: passing score must be within [0,100]", ErrInvalidArgument)
	}
	for _, question := range q.Questions {
		if question.ID == "" || question.Points <= 0 {
			return Quiz{}, fmt.Errorf("%w: question needs an id and positive points", ErrInvalidArgument)
		}
	}

	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return Quiz{}, fmt.Errorf("encode questions: %w", err)
	}

	row, err := s.store.CreateQuiz(ctx, repository.CreateQuizParams{
		CourseID:         q.CourseID,
		Title:            q.Title,
		PassingScore:     q.PassingScore,
		TimeLimitSeconds: q.TimeLimit,
		Questions:        questions,
		Published:        true,
	})
	if err != nil {
		return Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quizFromRow(row)
}

// StartAttempt creates a fresh in-progress attempt. The quiz must exist;
// existing unfinished attempts are not deduplicated, a new start simply
// creates an independent record and the UI picks the latest.
func (s *Service) StartAttempt(ctx context.Context, quizID, userID uuid.UUID) (Attempt, error) {
	if quizID == uuid.Nil || userID == uuid.Nil {
		return Attempt{}, fmt.Errorf("%w: quiz id and user id required", ErrInvalidArgument)
	}

	if _, err := s.GetQuiz(ctx, quizID); err != nil {
		return Attempt{}, err
	}

	row, err := s.store.CreateAttempt(ctx, quizID, userID, time.Now().UTC())
	if err != nil {
		return Attempt{}, fmt.Errorf("create attempt: %w", err)
	}

	attempt, err := attemptFromRow(row)
	if err != nil {
		return Attempt{}, err
	}

	metrics.QuizAttemptsStarted.Inc()
	s.logger.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("quiz_id", quizID.String()).
		Str("user_id", userID.String()).
		Msg("attempt started")
	return attempt, nil
}

// SubmitAttempt is the single authoritative scoring operation. It loads the
// attempt and its quiz, recomputes maxScore from the definition (never
// trusted from a client snapshot), grades the submitted answers, and
// persists the outcome as one atomic update. A timer-expiry submission goes
// through this same path with whatever answers were recorded.
func (s *Service) SubmitAttempt(ctx context.Context, attemptID uuid.UUID, answers []Answer, endTime time.Time) (Result, error) {
	row, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, ErrAttemptNotFound
		}
		return Result{}, fmt.Errorf("get attempt: %w", err)
	}
	if row.CompletedAt != nil {
		return Result{}, ErrAttemptSubmitted
	}

	q, err := s.GetQuiz(ctx, row.QuizID)
	if err != nil {
		return Result{}, err
	}

	maxScore := q.MaxScore()
	graded, score := grade(q, answers)
	didPass := passed(score, maxScore, q.PassingScore)

	encoded, err := json.Marshal(graded)
	if err != nil {
		return Result{}, fmt.Errorf("encode answers: %w", err)
	}

	if endTime.IsZero() {
		endTime = time.Now().UTC()
	}

	err = s.store.FinalizeAttempt(ctx, repository.FinalizeAttemptParams{
		AttemptID:   attemptID,
		CompletedAt: endTime,
		Answers:     encoded,
		Score:       score,
		MaxScore:    maxScore,
		Passed:      didPass,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, ErrAttemptNotFound
		}
		return Result{}, fmt.Errorf("finalize attempt: %w", err)
	}

	metrics.QuizAttemptsSubmitted.WithLabelValues(passLabel(didPass)).Inc()
	s.logger.Info().
		Str("attempt_id", attemptID.String()).
		Int("score", score).
		Int("max_score", maxScore).
		Bool("passed", didPass).
		Msg("attempt submitted")

	return Result{Score: score, MaxScore: maxScore, Passed: didPass}, nil
}

// ListAttempts returns a user's attempts for a quiz, newest first.
func (s *Service) ListAttempts(ctx context.Context, quizID, userID uuid.UUID) ([]Attempt, error) {
	rows, err := s.store.ListAttempts(ctx, quizID, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	attempts := make([]Attempt, 0, len(rows))
	for _, row := range rows {
		attempt, err := attemptFromRow(row)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func passLabel(didPass bool) string {
	if didPass {
		return "pass"
	}
	return "fail"
}

func quizFromRow(row repository.Quiz) (Quiz, error) {
	var questions []Question
	if len(row.Questions) > 0 {
		if err := json.Unmarshal(row.Questions, &questions); err != nil {
			return Quiz{}, err
		}
	}
	return Quiz{
		ID:           row.QuizID,
		CourseID:     row.CourseID,
		Title:        row.Title,
		PassingScore: row.PassingScore,
		TimeLimit:    row.TimeLimitSeconds,
		Questions:    questions,
	}, nil
}

func attemptFromRow(row repository.QuizAttempt) (Attempt, error) {
	var answers []Answer
	if len(row.Answers) > 0 {
		if err := json.Unmarshal(row.Answers, &answers); err != nil {
			return Attempt{}, fmt.Errorf("decode answers: %w", err)
		}
	}
	return Attempt{
		ID:          row.AttemptID,
		QuizID:      row.QuizID,
		UserID:      row.UserID,
		StartedAt:   row.StartedAt,
		CompletedAt: row.CompletedAt,
		Answers:     answers,
		Score:       row.Score,
		MaxScore:    row.MaxScore,
		Passed:      row.Passed,
	}, nil
}
