package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPassingScore applies when a quiz has no explicit threshold.
const DefaultPassingScore = 70

// Quiz represents a quiz entity.
type Quiz struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	PassingScore     *int       `json:"passing_score,omitempty"`
	IsActive         bool       `json:"is_active"`
	ValidFrom        *time.Time `json:"valid_from,omitempty"`
	ValidUntil       *time.Time `json:"valid_until,omitempty"`
	MaxAttempts      *int       `json:"max_attempts,omitempty"`
	QuestionCount    int        `json:"question_count,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// EffectivePassingScore returns the configured threshold or the default.
func (q *Quiz) EffectivePassingScore() int {
	if q.PassingScore != nil {
		return *q.PassingScore
	}
	return DefaultPassingScore
}

// CreateQuizRequest is the payload for creating a new quiz.
type CreateQuizRequest struct {
	Title            string     `json:"title" binding:"required,min=3,max=255"`
	Description      string     `json:"description" binding:"max=2000"`
	TimeLimitMinutes int        `json:"time_limit_minutes" binding:"required,min=1,max=480"`
	PassingScore     *int       `json:"passing_score" binding:"omitempty,min=0,max=100"`
	ValidFrom        *time.Time `json:"valid_from" binding:"omitempty"`
	ValidUntil       *time.Time `json:"valid_until" binding:"omitempty,gtfield=ValidFrom"`
	MaxAttempts      *int       `json:"max_attempts" binding:"omitempty,min=1"`
}

// UpdateQuizRequest is the payload for updating an existing quiz.
type UpdateQuizRequest struct {
	Title            string     `json:"title" binding:"omitempty,min=3,max=255"`
	Description      *string    `json:"description" binding:"omitempty,max=2000"`
	TimeLimitMinutes int        `json:"time_limit_minutes" binding:"omitempty,min=1,max=480"`
	PassingScore     *int       `json:"passing_score" binding:"omitempty,min=0,max=100"`
	ValidFrom        *time.Time `json:"valid_from" binding:"omitempty"`
	ValidUntil       *time.Time `json:"valid_until" binding:"omitempty"`
	MaxAttempts      *int       `json:"max_attempts" binding:"omitempty,min=1"`
}

// ToggleQuizStatusRequest is the payload for activating/deactivating a quiz.
type ToggleQuizStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// QuizPayload is the Redis-cached payload sent to students (no correct answers).
type QuizPayload struct {
	QuizID           uuid.UUID            `json:"quiz_id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	TimeLimitMinutes int                  `json:"time_limit_minutes"`
	PassingScore     int                  `json:"passing_score"`
	Questions        []QuestionForStudent `json:"questions"`
}
