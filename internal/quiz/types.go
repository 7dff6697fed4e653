package quiz

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Question type tags.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeMultiSelect    = "multi_select"
	TypeFillBlank      = "fill_blank"
	TypeTrueFalse      = "true_false"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptSubmitted = errors.New("attempt already submitted")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// AnswerValue holds either a single answer string or a list for multi-select
// questions. Its JSON form mirrors the stored document: a bare string or an
// array of strings.
type AnswerValue struct {
	Values []string
	Multi  bool
}

// Single builds a single-valued answer.
func Single(v string) AnswerValue {
	return AnswerValue{Values: []string{v}}
}

// Multi builds a multi-select answer.
func Multi(vs ...string) AnswerValue {
	return AnswerValue{Values: vs, Multi: true}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Values = []string{s}
		v.Multi = false
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	v.Values = list
	v.Multi = true
	return nil
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if !v.Multi && len(v.Values) == 1 {
		return json.Marshal(v.Values[0])
	}
	return json.Marshal(v.Values)
}

// Question is one entry of a quiz definition.
type Question struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	Prompt        string      `json:"prompt"`
	Options       []string    `json:"options,omitempty"`
	CorrectAnswer AnswerValue `json:"correct_answer"`
	Points        int         `json:"points"`
}

// Quiz is a static definition; the attempt engine never mutates it.
type Quiz struct {
	ID           uuid.UUID  `json:"id"`
	CourseID     uuid.UUID  `json:"course_id"`
	Title        string     `json:"title"`
	PassingScore float64    `json:"passing_score"` // percent of max score
	TimeLimit    int        `json:"time_limit_seconds"`
	Questions    []Question `json:"questions"`
}

// MaxScore sums the point weights over all questions.
func (q Quiz) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// Answer pairs a question id with the submitted value and the derived
// per-question correctness flag.
type Answer struct {
	QuestionID string      `json:"question_id"`
	Value      AnswerValue `json:"value"`
	IsCorrect  bool        `json:"is_correct"`
}

// Attempt is one learner's timed pass through a quiz.
//
// Lifecycle: created at start (score=0, answers empty), mutated once at
// submission, never mutated again.
type Attempt struct {
	ID          uuid.UUID  `json:"id"`
	QuizID      uuid.UUID  `json:"quiz_id"`
	UserID      uuid.UUID  `json:"user_id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Answers     []Answer   `json:"answers"`
	Score       int        `json:"score"`
	MaxScore    int        `json:"max_score"`
	Passed      bool       `json:"passed"`
}

// Submitted reports whether the attempt has reached its terminal state.
func (a Attempt) Submitted() bool {
	return a.CompletedAt != nil
}

// Result is the outcome returned to the caller of SubmitAttempt.
type Result struct {
	Score    int  `json:"score"`
	MaxScore int  `json:"max_score"`
	Passed   bool `json:"passed"`
}
