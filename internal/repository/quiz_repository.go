package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// QuizRepository handles quiz data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `q.id, q.title, q.description, q.time_limit_minutes, q.passing_score,
	q.is_active, q.valid_from, q.valid_until, q.max_attempts, q.created_at, q.updated_at`

func scanQuiz(row interface{ Scan(...any) error }) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := row.Scan(&q.ID, &q.Title, &q.Description, &q.TimeLimitMinutes, &q.PassingScore,
		&q.IsActive, &q.ValidFrom, &q.ValidUntil, &q.MaxAttempts, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID retrieves a quiz by ID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes q WHERE q.id = $1`, id))
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, time_limit_minutes, passing_score,
			is_active, valid_from, valid_until, max_attempts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		q.Title, q.Description, q.TimeLimitMinutes, q.PassingScore,
		q.IsActive, q.ValidFrom, q.ValidUntil, q.MaxAttempts,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update modifies an existing quiz.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes
		 SET title = $1, description = $2, time_limit_minutes = $3, passing_score = $4,
		     valid_from = $5, valid_until = $6, max_attempts = $7, updated_at = NOW()
		 WHERE id = $8`,
		q.Title, q.Description, q.TimeLimitMinutes, q.PassingScore,
		q.ValidFrom, q.ValidUntil, q.MaxAttempts, q.ID)
	return err
}

// SetActive toggles a quiz's active flag.
func (r *QuizRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	return err
}

// Delete removes a quiz; its questions cascade at the database level.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}

// Duplicate deep-copies a quiz and its questions inside one transaction.
// The clone is created inactive.
func (r *QuizRepository) Duplicate(ctx context.Context, id uuid.UUID, title string) (*model.Quiz, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	clone := &model.Quiz{}
	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, time_limit_minutes, passing_score,
			is_active, valid_from, valid_until, max_attempts)
		 SELECT $2, description, time_limit_minutes, passing_score,
			FALSE, valid_from, valid_until, max_attempts
		 FROM quizzes WHERE id = $1
		 RETURNING id, title, description, time_limit_minutes, passing_score,
			is_active, valid_from, valid_until, max_attempts, created_at, updated_at`,
		id, title,
	).Scan(&clone.ID, &clone.Title, &clone.Description, &clone.TimeLimitMinutes,
		&clone.PassingScore, &clone.IsActive, &clone.ValidFrom, &clone.ValidUntil,
		&clone.MaxAttempts, &clone.CreatedAt, &clone.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("copy quiz: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO questions (quiz_id, question_text, options, correct_answer, order_num)
		 SELECT $2, question_text, options, correct_answer, order_num
		 FROM questions WHERE quiz_id = $1`,
		id, clone.ID)
	if err != nil {
		return nil, fmt.Errorf("copy questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return clone, nil
}

// ListPaginated retrieves quizzes with pagination, an optional title search
// term, and an optional active-status filter.
func (r *QuizRepository) ListPaginated(ctx context.Context, search string, isActive *bool, limit, offset int) ([]model.Quiz, int, error) {
	baseQuery := ` FROM quizzes q WHERE 1=1`
	args := []any{}

	if search != "" {
		args = append(args, "%"+search+"%")
		baseQuery += fmt.Sprintf(" AND q.title ILIKE $%d", len(args))
	}
	if isActive != nil {
		args = append(args, *isActive)
		baseQuery += fmt.Sprintf(" AND q.is_active = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + quizColumns + `,
		(SELECT COUNT(*) FROM questions WHERE quiz_id = q.id) AS question_count` +
		baseQuery +
		fmt.Sprintf(" ORDER BY q.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.TimeLimitMinutes,
			&q.PassingScore, &q.IsActive, &q.ValidFrom, &q.ValidUntil, &q.MaxAttempts,
			&q.CreatedAt, &q.UpdatedAt, &q.QuestionCount); err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, total, rows.Err()
}
