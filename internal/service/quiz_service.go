package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// QuizStore is the persistence surface QuizService needs.
type QuizStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	Create(ctx context.Context, q *model.Quiz) error
	Update(ctx context.Context, q *model.Quiz) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Duplicate(ctx context.Context, id uuid.UUID, title string) (*model.Quiz, error)
	ListPaginated(ctx context.Context, search string, isActive *bool, limit, offset int) ([]model.Quiz, int, error)
}

// QuestionLister reads a quiz's questions for payload building.
type QuestionLister interface {
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error)
}

// AttemptChecker looks up prior attempts for the take-quiz gate.
type AttemptChecker interface {
	GetByStatus(ctx context.Context, quizID uuid.UUID, studentID int, status model.AttemptStatus) (*model.Attempt, error)
}

// QuizService handles quiz management and the student-facing fetch path with
// its Redis payload cache.
type QuizService struct {
	quizzes   QuizStore
	questions QuestionLister
	attempts  AttemptChecker
	rdb       *redis.Client
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes QuizStore, questions QuestionLister, attempts AttemptChecker, rdb *redis.Client) *QuizService {
	return &QuizService{quizzes: quizzes, questions: questions, attempts: attempts, rdb: rdb}
}

// Create inserts a new quiz. New quizzes start inactive.
func (s *QuizService) Create(ctx context.Context, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		PassingScore:     req.PassingScore,
		IsActive:         false,
		ValidFrom:        req.ValidFrom,
		ValidUntil:       req.ValidUntil,
		MaxAttempts:      req.MaxAttempts,
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// Get retrieves a quiz by ID.
func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

// Update applies the non-empty request fields to an existing quiz and
// refreshes its cached payload.
func (s *QuizService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimitMinutes > 0 {
		quiz.TimeLimitMinutes = req.TimeLimitMinutes
	}
	if req.PassingScore != nil {
		quiz.PassingScore = req.PassingScore
	}
	if req.ValidFrom != nil {
		quiz.ValidFrom = req.ValidFrom
	}
	if req.ValidUntil != nil {
		quiz.ValidUntil = req.ValidUntil
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = req.MaxAttempts
	}

	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return nil, fmt.Errorf("update quiz: %w", err)
	}

	if err := s.RefreshCache(ctx, quiz.ID); err != nil {
		log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to refresh quiz cache")
	}
	return quiz, nil
}

// SetActive flips a quiz's active status. Activation warms the payload
// cache; deactivation drops it so students stop seeing the quiz immediately.
func (s *QuizService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.quizzes.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("set quiz active: %w", err)
	}
	quiz.IsActive = active

	if active {
		if err := s.RefreshCache(ctx, id); err != nil {
			log.Warn().Err(err).Str("quiz_id", id.String()).Msg("failed to warm quiz cache")
		}
	} else {
		s.dropCache(ctx, id)
	}
	return quiz, nil
}

// Delete removes a quiz, its questions (database cascade) and its cache keys.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.quizzes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.dropCache(ctx, id)
	return nil
}

// Duplicate deep-copies a quiz and its questions. The clone is inactive.
func (s *QuizService) Duplicate(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	clone, err := s.quizzes.Duplicate(ctx, id, quiz.Title+" (copy)")
	if err != nil {
		return nil, fmt.Errorf("duplicate quiz: %w", err)
	}
	return clone, nil
}

// List retrieves quizzes with pagination, search, and an active filter.
func (s *QuizService) List(ctx context.Context, search string, isActive *bool, limit, offset int) ([]model.Quiz, int, error) {
	return s.quizzes.ListPaginated(ctx, search, isActive, limit, offset)
}

// FetchForStudent returns the sanitized quiz payload, enforcing the access
// gates: the quiz must exist, be active, sit inside its validity window, have
// at least one question, and the student must not have completed it already.
func (s *QuizService) FetchForStudent(ctx context.Context, quizID uuid.UUID, studentID int) (*model.QuizPayload, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	if !quiz.IsActive {
		return nil, ErrQuizNotAvailable
	}

	now := time.Now()
	if quiz.ValidFrom != nil && now.Before(*quiz.ValidFrom) {
		return nil, ErrQuizNotAvailable
	}
	if quiz.ValidUntil != nil && now.After(*quiz.ValidUntil) {
		return nil, ErrQuizExpired
	}

	if _, err := s.attempts.GetByStatus(ctx, quizID, studentID, model.AttemptStatusCompleted); err == nil {
		return nil, ErrAlreadyCompleted
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check completed attempt: %w", err)
	}

	payload, err := s.cachedPayload(ctx, quizID)
	if err != nil {
		log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("quiz payload cache read failed")
	}
	if payload == nil {
		payload, err = s.buildAndCachePayload(ctx, quiz)
		if err != nil {
			return nil, err
		}
	}

	if len(payload.Questions) == 0 {
		return nil, ErrQuizNoQuestions
	}
	return payload, nil
}

// RefreshCache rebuilds the Redis payload, answer key and duration entries
// for one quiz.
func (s *QuizService) RefreshCache(ctx context.Context, quizID uuid.UUID) error {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return fmt.Errorf("get quiz: %w", err)
	}
	_, err = s.buildAndCachePayload(ctx, quiz)
	return err
}

// PrewarmCaches rebuilds the Redis entries for every active quiz. Called at
// startup so the first student fetch after a restart is a cache hit.
func (s *QuizService) PrewarmCaches(ctx context.Context) error {
	active := true
	quizzes, _, err := s.quizzes.ListPaginated(ctx, "", &active, 1000, 0)
	if err != nil {
		return fmt.Errorf("list active quizzes: %w", err)
	}
	for i := range quizzes {
		if _, err := s.buildAndCachePayload(ctx, &quizzes[i]); err != nil {
			log.Warn().Err(err).Str("quiz_id", quizzes[i].ID.String()).Msg("failed to prewarm quiz cache")
			continue
		}
	}
	log.Info().Int("count", len(quizzes)).Msg("quiz caches prewarmed")
	return nil
}

// AnswerKey reads the cached question → correct letter map, rebuilding it
// from PostgreSQL on a miss.
func (s *QuizService) AnswerKey(ctx context.Context, quizID uuid.UUID) (map[string]string, error) {
	key := config.CacheKey.QuizAnswerKeyKey(quizID.String())
	answers, err := s.rdb.HGetAll(ctx, key).Result()
	if err == nil && len(answers) > 0 {
		return answers, nil
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	answers = make(map[string]string, len(questions))
	for _, q := range questions {
		answers[q.ID.String()] = q.CorrectAnswer
	}
	if len(answers) > 0 {
		_ = s.rdb.HSet(ctx, key, answers).Err()
	}
	return answers, nil
}

func (s *QuizService) cachedPayload(ctx context.Context, quizID uuid.UUID) (*model.QuizPayload, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.QuizPayloadKey(quizID.String())).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var payload model.QuizPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode cached payload: %w", err)
	}
	return &payload, nil
}

func (s *QuizService) buildAndCachePayload(ctx context.Context, quiz *model.Quiz) (*model.QuizPayload, error) {
	questions, err := s.questions.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	payload := &model.QuizPayload{
		QuizID:           quiz.ID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		PassingScore:     quiz.EffectivePassingScore(),
		Questions:        make([]model.QuestionForStudent, 0, len(questions)),
	}
	answerKey := make(map[string]string, len(questions))
	for _, q := range questions {
		payload.Questions = append(payload.Questions, model.QuestionForStudent{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      q.Options,
			OrderNum:     q.OrderNum,
		})
		answerKey[q.ID.String()] = q.CorrectAnswer
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	qid := quiz.ID.String()
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.QuizPayloadKey(qid), raw, 0)
	pipe.Set(ctx, config.CacheKey.QuizDurationKey(qid), quiz.TimeLimitMinutes*60, 0)
	if len(answerKey) > 0 {
		pipe.Del(ctx, config.CacheKey.QuizAnswerKeyKey(qid))
		pipe.HSet(ctx, config.CacheKey.QuizAnswerKeyKey(qid), answerKey)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("cache payload: %w", err)
	}
	return payload, nil
}

func (s *QuizService) dropCache(ctx context.Context, quizID uuid.UUID) {
	qid := quizID.String()
	if err := s.rdb.Del(ctx,
		config.CacheKey.QuizPayloadKey(qid),
		config.CacheKey.QuizAnswerKeyKey(qid),
		config.CacheKey.QuizDurationKey(qid),
	).Err(); err != nil {
		log.Warn().Err(err).Str("quiz_id", qid).Msg("failed to drop quiz cache")
	}
}
