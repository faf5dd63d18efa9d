package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// ResponseRepository handles per-question answer data access.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// Create inserts a response. A duplicate (attempt, question) pair hits the
// unique constraint and returns no row (pgx.ErrNoRows), which callers map to
// a conflict.
func (r *ResponseRepository) Create(ctx context.Context, resp *model.Response) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO responses (attempt_id, question_id, selected_answer, is_correct)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (attempt_id, question_id) DO NOTHING
		 RETURNING id, answered_at`,
		resp.AttemptID, resp.QuestionID, resp.SelectedAnswer, resp.IsCorrect,
	).Scan(&resp.ID, &resp.AnsweredAt)
}

// Update overwrites the stored answer for a (attempt, question) pair.
// Returns the number of rows touched; zero means no response existed.
func (r *ResponseRepository) Update(ctx context.Context, resp *model.Response) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE responses
		 SET selected_answer = $1, is_correct = $2, answered_at = NOW()
		 WHERE attempt_id = $3 AND question_id = $4`,
		resp.SelectedAnswer, resp.IsCorrect, resp.AttemptID, resp.QuestionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Upsert creates or updates a response in one statement. Used by the
// background persistence worker where create-vs-update does not matter.
func (r *ResponseRepository) Upsert(ctx context.Context, resp *model.Response) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO responses (attempt_id, question_id, selected_answer, is_correct)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (attempt_id, question_id) DO UPDATE
		 SET selected_answer = EXCLUDED.selected_answer,
		     is_correct = EXCLUDED.is_correct,
		     answered_at = NOW()`,
		resp.AttemptID, resp.QuestionID, resp.SelectedAnswer, resp.IsCorrect)
	return err
}

// ListByAttempt retrieves all responses for an attempt.
func (r *ResponseRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Response, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, question_id, selected_answer, is_correct, answered_at
		 FROM responses
		 WHERE attempt_id = $1
		 ORDER BY answered_at ASC`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var resp model.Response
		if err := rows.Scan(&resp.ID, &resp.AttemptID, &resp.QuestionID,
			&resp.SelectedAnswer, &resp.IsCorrect, &resp.AnsweredAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
