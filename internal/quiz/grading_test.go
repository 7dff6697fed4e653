package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoQuestionQuiz(passingScore float64) Quiz {
	return Quiz{
		Title:        "Basics",
		PassingScore: passingScore,
		Questions: []Question{
			{ID: "q1", Type: TypeMultipleChoice, Prompt: "Pick one", Options: []string{"a", "b"}, CorrectAnswer: Single("a"), Points: 5},
			{ID: "q2", Type: TypeMultiSelect, Prompt: "Pick two", Options: []string{"a", "b", "c"}, CorrectAnswer: Multi("a", "b"), Points: 10},
		},
	}
}

func TestAnswerMatchesSingle(t *testing.T) {
	correct := Single("a")

	assert.True(t, answerMatches(correct, Single("a")))
	assert.False(t, answerMatches(correct, Single("b")))
	assert.False(t, answerMatches(correct, Single("A")))
	assert.False(t, answerMatches(correct, Multi("a")))
}

func TestAnswerMatchesMultiSelectOrderIndependent(t *testing.T) {
	correct := Multi("a", "b")

	assert.True(t, answerMatches(correct, Multi("a", "b")))
	assert.True(t, answerMatches(correct, Multi("b", "a")))
	assert.False(t, answerMatches(correct, Multi("a")))
	assert.False(t, answerMatches(correct, Multi("a", "b", "c")))
	assert.False(t, answerMatches(correct, Multi("a", "a")))
}

func TestGradeAllCorrect(t *testing.T) {
	q := twoQuestionQuiz(60)

	graded, score := grade(q, []Answer{
		{QuestionID: "q1", Value: Single("a")},
		{QuestionID: "q2", Value: Multi("b", "a")},
	})

	assert.Equal(t, 15, score)
	assert.Equal(t, q.MaxScore(), score)
	assert.Len(t, graded, 2)
	assert.True(t, graded[0].IsCorrect)
	assert.True(t, graded[1].IsCorrect)
}

func TestGradePartial(t *testing.T) {
	q := twoQuestionQuiz(60)

	// Only the 10-point multi-select correct: 10/15 = 66.67%.
	_, score := grade(q, []Answer{
		{QuestionID: "q1", Value: Single("b")},
		{QuestionID: "q2", Value: Multi("a", "b")},
	})
	assert.Equal(t, 10, score)
	assert.True(t, passed(score, q.MaxScore(), q.PassingScore))

	// Only the 5-point question correct: 5/15 = 33.3%.
	_, score = grade(q, []Answer{
		{QuestionID: "q1", Value: Single("a")},
		{QuestionID: "q2", Value: Multi("c")},
	})
	assert.Equal(t, 5, score)
	assert.False(t, passed(score, q.MaxScore(), q.PassingScore))
}

func TestGradeDuplicateAnswersCountOnce(t *testing.T) {
	q := twoQuestionQuiz(100)

	// Repeating a correct answer must not stack its points past maxScore.
	graded, score := grade(q, []Answer{
		{QuestionID: "q2", Value: Multi("a", "b")},
		{QuestionID: "q2", Value: Multi("a", "b")},
	})
	assert.Equal(t, 10, score)
	assert.Len(t, graded, 1)
	assert.LessOrEqual(t, score, q.MaxScore())
	assert.False(t, passed(score, q.MaxScore(), q.PassingScore))
}

func TestGradeDuplicateAnswersLastWins(t *testing.T) {
	q := twoQuestionQuiz(60)

	// A later answer for the same question replaces the earlier one.
	graded, score := grade(q, []Answer{
		{QuestionID: "q1", Value: Single("a")},
		{QuestionID: "q1", Value: Single("b")},
	})
	assert.Equal(t, 0, score)
	assert.Len(t, graded, 1)
	assert.False(t, graded[0].IsCorrect)

	graded, score = grade(q, []Answer{
		{QuestionID: "q1", Value: Single("b")},
		{QuestionID: "q1", Value: Single("a")},
	})
	assert.Equal(t, 5, score)
	assert.True(t, graded[0].IsCorrect)
}

func TestGradeIgnoresUnknownQuestions(t *testing.T) {
	q := twoQuestionQuiz(60)

	graded, score := grade(q, []Answer{
		{QuestionID: "ghost", Value: Single("a")},
		{QuestionID: "q1", Value: Single("a")},
	})

	assert.Equal(t, 5, score)
	assert.Len(t, graded, 1)
	assert.Equal(t, "q1", graded[0].QuestionID)
}

func TestGradeEmptyAnswers(t *testing.T) {
	q := twoQuestionQuiz(60)

	graded, score := grade(q, nil)
	assert.Equal(t, 0, score)
	assert.Empty(t, graded)

	assert.False(t, passed(0, q.MaxScore(), 60))
	assert.True(t, passed(0, q.MaxScore(), 0))
}

func TestPassedZeroMaxScore(t *testing.T) {
	// A definition with no questions can never be passed, even at
	// threshold zero.
	assert.False(t, passed(0, 0, 0))
	assert.False(t, passed(0, 0, 60))
}

func TestPassedBoundary(t *testing.T) {
	// Exactly at threshold passes.
	assert.True(t, passed(3, 5, 60))
	assert.False(t, passed(2, 5, 60))
	assert.True(t, passed(5, 5, 100))
}

func TestAnswerValueJSON(t *testing.T) {
	var v AnswerValue
	assert.NoError(t, json.Unmarshal([]byte(`"a"`), &v))
	assert.Equal(t, Single("a"), v)

	assert.NoError(t, json.Unmarshal([]byte(`["b","a"]`), &v))
	assert.Equal(t, Multi("b", "a"), v)

	out, err := json.Marshal(Single("a"))
	assert.NoError(t, err)
	assert.JSONEq(t, `"a"`, string(out))

	out, err = json.Marshal(Multi("b", "a"))
	assert.NoError(t, err)
	assert.JSONEq(t, `["b","a"]`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`42`), &v))
}
