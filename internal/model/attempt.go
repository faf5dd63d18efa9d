package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates quiz attempt states.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusCompleted  AttemptStatus = "completed"
)

// Attempt represents one student's run at one quiz.
type Attempt struct {
	ID               uuid.UUID     `json:"id"`
	QuizID           uuid.UUID     `json:"quiz_id"`
	StudentID        int           `json:"student_id"`
	Status           AttemptStatus `json:"status"`
	Score            *int          `json:"score,omitempty"`
	TotalQuestions   *int          `json:"total_questions,omitempty"`
	CorrectAnswers   *int          `json:"correct_answers,omitempty"`
	Passed           *bool         `json:"passed,omitempty"`
	StartedAt        time.Time     `json:"started_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
	TimeSpentSeconds *int          `json:"time_spent_seconds,omitempty"`
	IPAddress        string        `json:"ip_address,omitempty"`
	UserAgent        string        `json:"user_agent,omitempty"`
}

// StartAttemptRequest is the payload for starting or resuming an attempt.
type StartAttemptRequest struct {
	QuizID uuid.UUID `json:"quiz_id" binding:"required"`
}

// StartAttemptResult is returned from a start call. Resumed indicates an
// existing in-progress attempt was reattached instead of a new one created.
type StartAttemptResult struct {
	AttemptID       uuid.UUID         `json:"attempt_id"`
	TimeRemaining   int               `json:"time_remaining"`
	Resumed         bool              `json:"resumed"`
	ExistingAnswers map[string]string `json:"existing_answers,omitempty"`
}

// CompleteAttemptRequest is the payload for completing an attempt.
type CompleteAttemptRequest struct {
	AttemptID        uuid.UUID `json:"attempt_id" binding:"required"`
	Score            *int      `json:"score" binding:"required,min=0,max=100"`
	TotalQuestions   int       `json:"total_questions" binding:"required,min=1"`
	CorrectAnswers   *int      `json:"correct_answers" binding:"required,min=0"`
	Passed           *bool     `json:"passed" binding:"required"`
	TimeSpentSeconds *int      `json:"time_spent" binding:"required,min=0"`
}

// SaveAnswerRequest is the payload for saving a single answer.
type SaveAnswerRequest struct {
	AttemptID      uuid.UUID `json:"attempt_id" binding:"required"`
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedAnswer string    `json:"selected_answer" binding:"required,oneof=A B C D"`
	IsCorrect      *bool     `json:"is_correct" binding:"required"`
}

// AttemptState is the resumable state of an in-progress attempt.
type AttemptState struct {
	AttemptID     uuid.UUID         `json:"attempt_id"`
	QuizID        uuid.UUID         `json:"quiz_id"`
	TimeRemaining int               `json:"time_remaining"`
	Answers       map[string]string `json:"answers"`
}
