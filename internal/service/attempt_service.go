package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/scoring"
	"github.com/quizdesk/quizdesk-backend/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AttemptStore is the persistence surface AttemptService needs.
type AttemptStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	GetByStatus(ctx context.Context, quizID uuid.UUID, studentID int, status model.AttemptStatus) (*model.Attempt, error)
	CountByQuizAndStudent(ctx context.Context, quizID uuid.UUID, studentID int) (int, error)
	Create(ctx context.Context, a *model.Attempt) error
	Complete(ctx context.Context, id uuid.UUID, score, totalQuestions, correctAnswers int, passed bool, timeSpentSeconds int) (int64, error)
}

// ResponseStore is the persistence surface for per-question answers.
type ResponseStore interface {
	Create(ctx context.Context, resp *model.Response) error
	Update(ctx context.Context, resp *model.Response) (int64, error)
	Upsert(ctx context.Context, resp *model.Response) error
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Response, error)
}

// QuizGetter resolves quizzes for attempt bookkeeping.
type QuizGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
}

// AttemptService manages the attempt lifecycle: start, resume, answer saves
// and completion.
type AttemptService struct {
	attempts  AttemptStore
	responses ResponseStore
	quizzes   QuizGetter
	questions QuestionLister
	sessions  *session.Store
	rdb       *redis.Client
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attempts AttemptStore,
	responses ResponseStore,
	quizzes QuizGetter,
	questions QuestionLister,
	sessions *session.Store,
	rdb *redis.Client,
) *AttemptService {
	return &AttemptService{
		attempts:  attempts,
		responses: responses,
		quizzes:   quizzes,
		questions: questions,
		sessions:  sessions,
		rdb:       rdb,
	}
}

// Start creates a new attempt for the (quiz, student) pair or resumes the
// existing in-progress one. A completed attempt for the pair rejects the
// start outright.
func (s *AttemptService) Start(ctx context.Context, quizID uuid.UUID, studentID int, ip, userAgent string) (*model.StartAttemptResult, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	// One completed attempt per pair, ever.
	if _, err := s.attempts.GetByStatus(ctx, quizID, studentID, model.AttemptStatusCompleted); err == nil {
		return nil, ErrAlreadyCompleted
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check completed attempt: %w", err)
	}

	// A second start call reattaches to the in-progress attempt.
	existing, err := s.attempts.GetByStatus(ctx, quizID, studentID, model.AttemptStatusInProgress)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check in-progress attempt: %w", err)
	}
	if existing != nil {
		return s.resume(ctx, quiz, existing, studentID)
	}

	if quiz.MaxAttempts != nil {
		count, err := s.attempts.CountByQuizAndStudent(ctx, quizID, studentID)
		if err != nil {
			return nil, fmt.Errorf("count attempts: %w", err)
		}
		if count >= *quiz.MaxAttempts {
			return nil, ErrAttemptLimitReached
		}
	}

	attempt := &model.Attempt{
		QuizID:    quizID,
		StudentID: studentID,
		Status:    model.AttemptStatusInProgress,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Concurrent start hit the partial unique index; resume the winner's row.
			winner, fetchErr := s.attempts.GetByStatus(ctx, quizID, studentID, model.AttemptStatusInProgress)
			if fetchErr != nil {
				return nil, fmt.Errorf("concurrent start detected, but fetch failed: %w", fetchErr)
			}
			return s.resume(ctx, quiz, winner, studentID)
		}
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	duration := quiz.TimeLimitMinutes * 60

	// Cache the start timestamp so the live stream can recompute remaining
	// time without touching PostgreSQL every tick.
	startKey := config.CacheKey.AttemptStartKey(quizID.String(), studentID)
	if err := s.rdb.Set(ctx, startKey, attempt.StartedAt.Unix(), 0).Err(); err == nil {
		_ = s.sessions.SeedTimer(ctx, quizID, studentID, duration)
	}

	return &model.StartAttemptResult{
		AttemptID:     attempt.ID,
		TimeRemaining: duration,
		Resumed:       false,
	}, nil
}

// ActiveAttempt returns the in-progress attempt for a (quiz, student) pair.
func (s *AttemptService) ActiveAttempt(ctx context.Context, quizID uuid.UUID, studentID int) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByStatus(ctx, quizID, studentID, model.AttemptStatusInProgress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get in-progress attempt: %w", err)
	}
	return attempt, nil
}

// resume recomputes remaining time from the stored start timestamp and
// returns the saved answer map alongside the existing attempt id.
func (s *AttemptService) resume(ctx context.Context, quiz *model.Quiz, attempt *model.Attempt, studentID int) (*model.StartAttemptResult, error) {
	remaining := remainingFromStart(attempt.StartedAt, quiz.TimeLimitMinutes, time.Now())

	// Self-heal the Redis copies so stream and state reads stay cheap.
	startKey := config.CacheKey.AttemptStartKey(quiz.ID.String(), studentID)
	_ = s.rdb.Set(ctx, startKey, attempt.StartedAt.Unix(), 0)
	_ = s.sessions.ResetTimer(ctx, quiz.ID, studentID, remaining)

	answers, err := s.answersWithFallback(ctx, quiz.ID, attempt.ID, studentID)
	if err != nil {
		return nil, err
	}

	return &model.StartAttemptResult{
		AttemptID:       attempt.ID,
		TimeRemaining:   remaining,
		Resumed:         true,
		ExistingAnswers: answers,
	}, nil
}

// Complete closes the caller's in-progress attempt. The stored grade is
// computed server-side from the persisted responses and the quiz's answer
// key; the client-submitted score is only cross-checked. Completing twice is
// rejected and never alters the stored score.
func (s *AttemptService) Complete(ctx context.Context, req *model.CompleteAttemptRequest, studentID int) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByID(ctx, req.AttemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrForbidden
	}
	if attempt.Status == model.AttemptStatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	result, err := s.grade(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if req.Score != nil && *req.Score != result.Score {
		log.Warn().
			Str("attempt_id", attempt.ID.String()).
			Int("student_id", studentID).
			Int("submitted", *req.Score).
			Int("graded", result.Score).
			Msg("submitted score disagrees with server grade")
	}

	rows, err := s.attempts.Complete(ctx, req.AttemptID, result.Score, result.TotalQuestions,
		result.CorrectAnswers, result.Passed, *req.TimeSpentSeconds)
	if err != nil {
		return nil, fmt.Errorf("complete attempt: %w", err)
	}
	if rows == 0 {
		// Lost the close race; the first caller's write stands.
		return nil, ErrAlreadyCompleted
	}

	if err := s.sessions.Clear(ctx, attempt.QuizID, attempt.StudentID); err != nil {
		// Stale session keys are harmless; the attempt is closed either way.
		_ = err
	}

	return s.attempts.GetByID(ctx, req.AttemptID)
}

// grade recomputes the attempt's authoritative score from the persisted
// responses and the quiz's question list.
func (s *AttemptService) grade(ctx context.Context, attempt *model.Attempt) (scoring.Result, error) {
	quiz, err := s.quizzes.GetByID(ctx, attempt.QuizID)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("get quiz: %w", err)
	}
	questions, err := s.questions.ListByQuiz(ctx, attempt.QuizID)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("list questions: %w", err)
	}
	persisted, err := s.responses.ListByAttempt(ctx, attempt.ID)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("list responses: %w", err)
	}

	answers := make(map[string]string, len(persisted))
	for _, resp := range persisted {
		answers[resp.QuestionID.String()] = resp.SelectedAnswer
	}
	return scoring.Grade(questions, answers, quiz.EffectivePassingScore()), nil
}

// SaveAnswer records one answer for an in-progress attempt. When update is
// false a pre-existing response is a conflict; when true the row is written
// in place.
func (s *AttemptService) SaveAnswer(ctx context.Context, req *model.SaveAnswerRequest, studentID int, update bool) (*model.Response, error) {
	attempt, err := s.attempts.GetByID(ctx, req.AttemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrForbidden
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, ErrAttemptNotActive
	}

	resp := &model.Response{
		AttemptID:      req.AttemptID,
		QuestionID:     req.QuestionID,
		SelectedAnswer: req.SelectedAnswer,
		IsCorrect:      *req.IsCorrect,
	}

	if update {
		if err := s.responses.Upsert(ctx, resp); err != nil {
			return nil, fmt.Errorf("update response: %w", err)
		}
	} else {
		if err := s.responses.Create(ctx, resp); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrResponseExists
			}
			return nil, fmt.Errorf("create response: %w", err)
		}
	}

	// Mirror into the session state so reload/resume sees it immediately.
	_ = s.sessions.SaveAnswer(ctx, attempt.QuizID, studentID, req.QuestionID, req.SelectedAnswer)

	return resp, nil
}

// GetState returns the resumable state of an attempt: recomputed remaining
// time plus the saved answer map.
func (s *AttemptService) GetState(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.AttemptState, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrForbidden
	}

	quiz, err := s.quizzes.GetByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	remaining, err := s.RemainingSeconds(ctx, quiz, attempt, studentID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answersWithFallback(ctx, attempt.QuizID, attempt.ID, studentID)
	if err != nil {
		return nil, err
	}

	return &model.AttemptState{
		AttemptID:     attempt.ID,
		QuizID:        attempt.QuizID,
		TimeRemaining: remaining,
		Answers:       answers,
	}, nil
}

// RemainingSeconds recomputes remaining time for an attempt from the cached
// start timestamp, falling back to the attempt row on a cache miss.
func (s *AttemptService) RemainingSeconds(ctx context.Context, quiz *model.Quiz, attempt *model.Attempt, studentID int) (int, error) {
	startKey := config.CacheKey.AttemptStartKey(quiz.ID.String(), studentID)

	var startUnix int64
	val, err := s.rdb.Get(ctx, startKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		startUnix = attempt.StartedAt.Unix()
		// Self-heal so the next read is a cache hit.
		_ = s.rdb.Set(ctx, startKey, startUnix, 0)
	case err != nil:
		return 0, fmt.Errorf("redis error getting start time: %w", err)
	default:
		startUnix, err = strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid start time format in cache: %w", err)
		}
	}

	return remainingFromStart(time.Unix(startUnix, 0), quiz.TimeLimitMinutes, time.Now()), nil
}

// answersWithFallback prefers the Redis session map and rebuilds it from the
// persisted responses when empty (evicted cache or a fresh device).
func (s *AttemptService) answersWithFallback(ctx context.Context, quizID, attemptID uuid.UUID, studentID int) (map[string]string, error) {
	answers, err := s.sessions.Answers(ctx, quizID, studentID)
	if err != nil {
		return nil, fmt.Errorf("get session answers: %w", err)
	}
	if len(answers) > 0 {
		return answers, nil
	}

	persisted, err := s.responses.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	answers = make(map[string]string, len(persisted))
	for _, resp := range persisted {
		answers[resp.QuestionID.String()] = resp.SelectedAnswer
		_ = s.sessions.SaveAnswer(ctx, quizID, studentID, resp.QuestionID, resp.SelectedAnswer)
	}
	return answers, nil
}

// remainingFromStart floors at zero: timeLimit*60 minus elapsed since start.
func remainingFromStart(startedAt time.Time, timeLimitMinutes int, now time.Time) int {
	end := startedAt.Add(time.Duration(timeLimitMinutes) * time.Minute)
	remaining := int(end.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
