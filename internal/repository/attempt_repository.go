package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// AttemptResult combines student data with their attempt details, as shown
// on the admin results listing.
type AttemptResult struct {
	StudentID   int                 `json:"student_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Score       *int                `json:"score"`
	Passed      *bool               `json:"passed"`
	Status      model.AttemptStatus `json:"status"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt *time.Time          `json:"completed_at"`
}

// AttemptRepository handles attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, quiz_id, student_id, status, score, total_questions,
	correct_answers, passed, started_at, completed_at, time_spent_seconds, ip_address, user_agent`

func scanAttempt(row interface{ Scan(...any) error }) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := row.Scan(&a.ID, &a.QuizID, &a.StudentID, &a.Status, &a.Score, &a.TotalQuestions,
		&a.CorrectAnswers, &a.Passed, &a.StartedAt, &a.CompletedAt, &a.TimeSpentSeconds,
		&a.IPAddress, &a.UserAgent)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an attempt by ID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
}

// GetByStatus retrieves the attempt with the given status for a
// (quiz, student) pair. The partial unique indexes guarantee at most one row
// per status per pair.
func (r *AttemptRepository) GetByStatus(ctx context.Context, quizID uuid.UUID, studentID int, status model.AttemptStatus) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE quiz_id = $1 AND student_id = $2 AND status = $3`,
		quizID, studentID, status))
}

// CountByQuizAndStudent returns how many attempts the student has for a quiz.
func (r *AttemptRepository) CountByQuizAndStudent(ctx context.Context, quizID uuid.UUID, studentID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts WHERE quiz_id = $1 AND student_id = $2`,
		quizID, studentID).Scan(&count)
	return count, err
}

// Create inserts a new in-progress attempt. A concurrent duplicate start hits
// the partial unique index; ON CONFLICT DO NOTHING makes the insert return no
// row (pgx.ErrNoRows), which callers treat as "resume the existing attempt".
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (quiz_id, student_id, status, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (quiz_id, student_id) WHERE status = 'in_progress' DO NOTHING
		 RETURNING id, started_at`,
		a.QuizID, a.StudentID, model.AttemptStatusInProgress, a.IPAddress, a.UserAgent,
	).Scan(&a.ID, &a.StartedAt)
}

// Complete closes an in-progress attempt with its score fields. Returns the
// number of rows updated: zero means the attempt was already completed (or
// does not exist) and the caller should report a conflict.
func (r *AttemptRepository) Complete(ctx context.Context, id uuid.UUID, score, totalQuestions, correctAnswers int, passed bool, timeSpentSeconds int) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = $1, score = $2, total_questions = $3, correct_answers = $4,
		     passed = $5, time_spent_seconds = $6, completed_at = NOW()
		 WHERE id = $7 AND status = $8`,
		model.AttemptStatusCompleted, score, totalQuestions, correctAnswers,
		passed, timeSpentSeconds, id, model.AttemptStatusInProgress)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListByQuiz retrieves paginated attempt results for a quiz, joined with
// student details, optionally filtered by attempt status.
func (r *AttemptRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID, status *model.AttemptStatus, limit, offset int) ([]AttemptResult, int, error) {
	baseQuery := `
		FROM attempts a
		JOIN students s ON a.student_id = s.id
		WHERE a.quiz_id = $1
	`
	args := []any{quizID}

	if status != nil {
		args = append(args, *status)
		baseQuery += fmt.Sprintf(" AND a.status = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT s.id, s.name, s.email, a.score, a.passed, a.status, a.started_at, a.completed_at
	` + baseQuery + fmt.Sprintf(`
		ORDER BY a.started_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []AttemptResult
	for rows.Next() {
		var res AttemptResult
		if err := rows.Scan(&res.StudentID, &res.Name, &res.Email, &res.Score,
			&res.Passed, &res.Status, &res.StartedAt, &res.CompletedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}
	return results, total, rows.Err()
}
