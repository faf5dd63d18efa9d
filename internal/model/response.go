package model

import (
	"time"

	"github.com/google/uuid"
)

// Response records a student's answer to one question within an attempt.
// At most one row exists per (attempt, question); later saves update in place.
type Response struct {
	ID             uuid.UUID `json:"id"`
	AttemptID      uuid.UUID `json:"attempt_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// ResponseJob is the queue payload for answers saved over the live stream,
// persisted to PostgreSQL asynchronously by the response worker.
type ResponseJob struct {
	AttemptID      uuid.UUID `json:"attempt_id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	StudentID      int       `json:"student_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
}
