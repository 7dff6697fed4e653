package quiz

import "sort"

// answerMatches grades a submitted value against the question's correct
// answer. Multi-select answers compare as sorted slices: order-independent,
// case-sensitive, duplicates significant. Single answers require exact
// equality of a single submitted value.
func answerMatches(correct, submitted AnswerValue) bool {
	if correct.Multi {
		if len(submitted.Values) != len(correct.Values) {
			return false
		}
		want := append([]string(nil), correct.Values...)
		got := append([]string(nil), submitted.Values...)
		sort.Strings(want)
		sort.Strings(got)
		for i := range want {
			if want[i] != got[i] {
				return false
			}
		}
		return true
	}

	if submitted.Multi || len(submitted.Values) != 1 || len(correct.Values) != 1 {
		return false
	}
	return submitted.Values[0] == correct.Values[0]
}

// grade scores submitted answers against the quiz definition. Answers whose
// question id matches no question are ignored and contribute nothing. A
// question id repeated in the payload counts once, with the last submitted
// value winning, the same way clients overwrite a recorded answer before
// submit. Each question's points are therefore awarded at most once and the
// score can never exceed the definition's max score. The returned slice
// carries one entry per answered question with its correctness flag.
func grade(q Quiz, answers []Answer) (graded []Answer, score int) {
	byID := make(map[string]Question, len(q.Questions))
	for _, question := range q.Questions {
		byID[question.ID] = question
	}

	seen := make(map[string]int, len(answers))
	graded = make([]Answer, 0, len(answers))
	for _, ans := range answers {
		question, ok := byID[ans.QuestionID]
		if !ok {
			continue
		}
		ans.IsCorrect = answerMatches(question.CorrectAnswer, ans.Value)
		if at, dup := seen[ans.QuestionID]; dup {
			graded[at] = ans
			continue
		}
		seen[ans.QuestionID] = len(graded)
		graded = append(graded, ans)
	}

	for _, ans := range graded {
		if ans.IsCorrect {
			score += byID[ans.QuestionID].Points
		}
	}
	return graded, score
}

// passed applies the percentage threshold. A quiz with no questions
// (maxScore 0) never passes.
func passed(score, maxScore int, passingScore float64) bool {
	if maxScore <= 0 {
		return false
	}
	return float64(score)/float64(maxScore)*100 >= passingScore
}
