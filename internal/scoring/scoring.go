// Package scoring grades a set of answers against a quiz's answer key.
// Grading is deterministic and total: missing or unknown answers count as
// incorrect and no input can cause a panic.
package scoring

import (
	"math"

	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// Result is the outcome of grading one attempt.
type Result struct {
	Score          int  `json:"score"`
	TotalQuestions int  `json:"total_questions"`
	CorrectAnswers int  `json:"correct_answers"`
	Passed         bool `json:"passed"`
}

// Grade counts matches between the ordered question list and the answer map
// (question ID → selected letter), computes score = round(100 * correct /
// total) and passed = score >= passingScore. A quiz with zero questions
// scores 0 and never passes.
func Grade(questions []model.Question, answers map[string]string, passingScore int) Result {
	total := len(questions)
	if total == 0 {
		return Result{}
	}

	correct := 0
	for _, q := range questions {
		if selected, ok := answers[q.ID.String()]; ok && selected == q.CorrectAnswer {
			correct++
		}
	}

	score := int(math.Round(100 * float64(correct) / float64(total)))

	return Result{
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Passed:         score >= passingScore,
	}
}
