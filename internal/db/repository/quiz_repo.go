package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QuizRepository contains DB helpers for quiz definitions and attempts.
type QuizRepository struct {
	db DBTX
}

// NewQuizRepository constructs a quiz repository.
func NewQuizRepository(db DBTX) *QuizRepository {
	return &QuizRepository{db: db}
}

const quizColumns = `quiz_id, course_id, title, passing_score, time_limit_seconds, questions, published, created_at`

// GetQuiz fetches a quiz definition by id.
func (r *QuizRepository) GetQuiz(ctx context.Context, quizID uuid.UUID) (Quiz, error) {
	var q Quiz
	err := r.db.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE quiz_id = $1`, quizID).
		Scan(&q.QuizID, &q.CourseID, &q.Title, &q.PassingScore, &q.TimeLimitSeconds,
			&q.Questions, &q.Published, &q.CreatedAt)
	return q, mapNoRows(err)
}

// ListQuizzesByCourse returns published quizzes for a course, oldest first.
func (r *QuizRepository) ListQuizzesByCourse(ctx context.Context, courseID uuid.UUID) ([]Quiz, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE course_id = $1 AND published ORDER BY created_at`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []Quiz
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.QuizID, &q.CourseID, &q.Title, &q.PassingScore,
			&q.TimeLimitSeconds, &q.Questions, &q.Published, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// CreateQuizParams holds the fields for a new quiz definition.
type CreateQuizParams struct {
	CourseID         uuid.UUID
	Title            string
	PassingScore     float64
	TimeLimitSeconds int
	Questions        []byte
	Published        bool
}

// CreateQuiz inserts a quiz definition.
func (r *QuizRepository) CreateQuiz(ctx context.Context, params CreateQuizParams) (Quiz, error) {
	var q Quiz
	err := r.db.QueryRow(ctx, `
INSERT INTO quizzes (quiz_id, course_id, title, passing_score, time_limit_seconds, questions, published)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+quizColumns,
		uuid.New(), params.CourseID, params.Title, params.PassingScore,
		params.TimeLimitSeconds, params.Questions, params.Published,
	).Scan(&q.QuizID, &q.CourseID, &q.Title, &q.PassingScore, &q.TimeLimitSeconds,
		&q.Questions, &q.Published, &q.CreatedAt)
	return q, err
}

const attemptColumns = `attempt_id, quiz_id, user_id, started_at, completed_at, answers, score, max_score, passed`

// CreateAttempt inserts a fresh in-progress attempt row.
func (r *QuizRepository) CreateAttempt(ctx context.Context, quizID, userID uuid.UUID, startedAt time.Time) (QuizAttempt, error) {
	var a QuizAttempt
	err := r.db.QueryRow(ctx, `
INSERT INTO quiz_attempts (attempt_id, quiz_id, user_id, started_at, answers, score, max_score, passed)
VALUES ($1, $2, $3, $4, '[]'::jsonb, 0, 0, false)
RETURNING `+attemptColumns,
		uuid.New(), quizID, userID, startedAt,
	).Scan(&a.AttemptID, &a.QuizID, &a.UserID, &a.StartedAt, &a.CompletedAt,
		&a.Answers, &a.Score, &a.MaxScore, &a.Passed)
	return a, err
}

// GetAttempt fetches an attempt by id.
func (r *QuizRepository) GetAttempt(ctx context.Context, attemptID uuid.UUID) (QuizAttempt, error) {
	var a QuizAttempt
	err := r.db.QueryRow(ctx, `SELECT `+attemptColumns+` FROM quiz_attempts WHERE attempt_id = $1`, attemptID).
		Scan(&a.AttemptID, &a.QuizID, &a.UserID, &a.StartedAt, &a.CompletedAt,
			&a.Answers, &a.Score, &a.MaxScore, &a.Passed)
	return a, mapNoRows(err)
}

// FinalizeAttemptParams carries the single authoritative scoring update.
type FinalizeAttemptParams struct {
	AttemptID   uuid.UUID
	CompletedAt time.Time
	Answers     []byte
	Score       int
	MaxScore    int
	Passed      bool
}

// FinalizeAttempt writes the scored outcome in one atomic update.
func (r *QuizRepository) FinalizeAttempt(ctx context.Context, params FinalizeAttemptParams) error {
	tag, err := r.db.Exec(ctx, `
UPDATE quiz_attempts
SET completed_at = $2, answers = $3, score = $4, max_score = $5, passed = $6
WHERE attempt_id = $1`,
		params.AttemptID, params.CompletedAt, params.Answers,
		params.Score, params.MaxScore, params.Passed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAttempts returns a user's attempts for a quiz, newest first.
func (r *QuizRepository) ListAttempts(ctx context.Context, quizID, userID uuid.UUID) ([]QuizAttempt, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+attemptColumns+` FROM quiz_attempts
WHERE quiz_id = $1 AND user_id = $2
ORDER BY started_at DESC`, quizID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []QuizAttempt
	for rows.Next() {
		var a QuizAttempt
		if err := rows.Scan(&a.AttemptID, &a.QuizID, &a.UserID, &a.StartedAt,
			&a.CompletedAt, &a.Answers, &a.Score, &a.MaxScore, &a.Passed); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// CountAttempts returns the total number of submitted attempts.
func (r *QuizRepository) CountAttempts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM quiz_attempts WHERE completed_at IS NOT NULL`).Scan(&n)
	return n, err
}
