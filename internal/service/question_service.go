package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/rs/zerolog/log"
)

// QuestionStore is the persistence surface QuestionService needs.
type QuestionStore interface {
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, quizID, id uuid.UUID) error
	CountByQuiz(ctx context.Context, quizID uuid.UUID) (int, error)
}

// QuestionService handles question management within a quiz. Every mutation
// refreshes the quiz's cached payload so students never see stale questions.
type QuestionService struct {
	questions QuestionStore
	quizzes   *QuizService
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions QuestionStore, quizzes *QuizService) *QuestionService {
	return &QuestionService{questions: questions, quizzes: quizzes}
}

// List retrieves a quiz's questions in order, correct answers included.
// Admin-only; students receive the sanitized payload instead.
func (s *QuestionService) List(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return nil, err
	}
	return s.questions.ListByQuiz(ctx, quizID)
}

// Add appends a question to a quiz. A zero order number places it after the
// current last question.
func (s *QuestionService) Add(ctx context.Context, quizID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return nil, err
	}

	orderNum := req.OrderNum
	if orderNum == 0 {
		count, err := s.questions.CountByQuiz(ctx, quizID)
		if err != nil {
			return nil, fmt.Errorf("count questions: %w", err)
		}
		orderNum = count + 1
	}

	question := &model.Question{
		QuizID:        quizID,
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		OrderNum:      orderNum,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	s.refreshQuizCache(ctx, quizID)
	return question, nil
}

// Update modifies a question, scoped to its quiz.
func (s *QuestionService) Update(ctx context.Context, quizID, id uuid.UUID, req *model.UpdateQuestionRequest) (*model.Question, error) {
	question, err := s.getScoped(ctx, quizID, id)
	if err != nil {
		return nil, err
	}

	question.QuestionText = req.QuestionText
	question.Options = req.Options
	question.CorrectAnswer = req.CorrectAnswer
	question.OrderNum = req.OrderNum
	if err := s.questions.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}

	s.refreshQuizCache(ctx, quizID)
	return question, nil
}

// Delete removes a question, scoped to its quiz.
func (s *QuestionService) Delete(ctx context.Context, quizID, id uuid.UUID) error {
	if _, err := s.getScoped(ctx, quizID, id); err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, quizID, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.refreshQuizCache(ctx, quizID)
	return nil
}

func (s *QuestionService) getScoped(ctx context.Context, quizID, id uuid.UUID) (*model.Question, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	if question.QuizID != quizID {
		return nil, ErrNotFound
	}
	return question, nil
}

func (s *QuestionService) refreshQuizCache(ctx context.Context, quizID uuid.UUID) {
	if err := s.quizzes.RefreshCache(ctx, quizID); err != nil {
		log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("failed to refresh quiz cache")
	}
}
