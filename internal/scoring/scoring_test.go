package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

func makeQuestions(correct ...string) []model.Question {
	questions := make([]model.Question, len(correct))
	for i, ans := range correct {
		questions[i] = model.Question{
			ID:            uuid.New(),
			QuestionText:  "q",
			Options:       []string{"one", "two", "three", "four"},
			CorrectAnswer: ans,
			OrderNum:      i,
		}
	}
	return questions
}

func answerAll(questions []model.Question, letters []string) map[string]string {
	answers := make(map[string]string, len(letters))
	for i, l := range letters {
		if l == "" {
			continue
		}
		answers[questions[i].ID.String()] = l
	}
	return answers
}

func TestGradeRoundsAndPasses(t *testing.T) {
	tests := []struct {
		name         string
		key          []string
		given        []string
		passingScore int
		wantScore    int
		wantCorrect  int
		wantPassed   bool
	}{
		{
			name:         "three of four correct",
			key:          []string{"A", "B", "C", "D"},
			given:        []string{"A", "B", "C", "A"},
			passingScore: 70,
			wantScore:    75,
			wantCorrect:  3,
			wantPassed:   true,
		},
		{
			name:         "seven of ten at threshold",
			key:          []string{"A", "A", "A", "A", "A", "A", "A", "A", "A", "A"},
			given:        []string{"A", "A", "A", "A", "A", "A", "A", "B", "B", "B"},
			passingScore: 70,
			wantScore:    70,
			wantCorrect:  7,
			wantPassed:   true,
		},
		{
			name:         "rounds half up",
			key:          []string{"A", "B", "C"},
			given:        []string{"A", "B", "D"},
			passingScore: 70,
			wantScore:    67,
			wantCorrect:  2,
			wantPassed:   false,
		},
		{
			name:         "all wrong",
			key:          []string{"A", "B"},
			given:        []string{"B", "A"},
			passingScore: 50,
			wantScore:    0,
			wantCorrect:  0,
			wantPassed:   false,
		},
		{
			name:         "zero threshold always passes",
			key:          []string{"A", "B"},
			given:        []string{"B", "A"},
			passingScore: 0,
			wantScore:    0,
			wantCorrect:  0,
			wantPassed:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions := makeQuestions(tc.key...)
			got := Grade(questions, answerAll(questions, tc.given), tc.passingScore)

			if got.Score != tc.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tc.wantScore)
			}
			if got.CorrectAnswers != tc.wantCorrect {
				t.Errorf("correct = %d, want %d", got.CorrectAnswers, tc.wantCorrect)
			}
			if got.Passed != tc.wantPassed {
				t.Errorf("passed = %v, want %v", got.Passed, tc.wantPassed)
			}
			if got.TotalQuestions != len(tc.key) {
				t.Errorf("total = %d, want %d", got.TotalQuestions, len(tc.key))
			}
		})
	}
}

func TestGradeMissingAnswersAreIncorrect(t *testing.T) {
	questions := makeQuestions("A", "B", "C", "D")
	answers := answerAll(questions, []string{"A", "", "", "D"})

	got := Grade(questions, answers, 70)
	if got.CorrectAnswers != 2 || got.Score != 50 || got.Passed {
		t.Errorf("got %+v, want 2 correct, score 50, not passed", got)
	}
}

func TestGradeEmptyQuizIsTotal(t *testing.T) {
	got := Grade(nil, nil, 70)
	if got.Score != 0 || got.Passed || got.TotalQuestions != 0 {
		t.Errorf("got %+v, want zero result", got)
	}
}

func TestGradeIgnoresUnknownQuestionIDs(t *testing.T) {
	questions := makeQuestions("A", "B")
	answers := map[string]string{
		questions[0].ID.String(): "A",
		uuid.New().String():      "B", // not part of the quiz
	}

	got := Grade(questions, answers, 50)
	if got.CorrectAnswers != 1 || got.Score != 50 {
		t.Errorf("got %+v, want 1 correct, score 50", got)
	}
}
