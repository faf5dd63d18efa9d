package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

func newQuizFixture(t *testing.T, quiz *model.Quiz, questions ...model.Question) (*QuizService, *fakeAttemptStore, *redis.Client) {
	t.Helper()
	rdb := newTestRedis(t)
	attempts := newFakeAttemptStore()
	svc := NewQuizService(newFakeQuizStore(quiz), &fakeQuestionStore{questions: questions}, attempts, rdb)
	return svc, attempts, rdb
}

func activeQuizWithQuestions(n int) (*model.Quiz, []model.Question) {
	quiz := testQuiz(30)
	questions := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, model.Question{
			ID:            uuid.New(),
			QuizID:        quiz.ID,
			QuestionText:  "What comes next in the sequence?",
			Options:       []string{"2", "4", "8", "16"},
			CorrectAnswer: "C",
			OrderNum:      i + 1,
		})
	}
	return quiz, questions
}

func TestFetchForStudentReturnsPayload(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(3)
	svc, _, _ := newQuizFixture(t, quiz, questions...)

	payload, err := svc.FetchForStudent(context.Background(), quiz.ID, 7)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if payload.QuizID != quiz.ID {
		t.Fatalf("expected quiz %s, got %s", quiz.ID, payload.QuizID)
	}
	if len(payload.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(payload.Questions))
	}
}

func TestFetchForStudentInactiveQuiz(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(1)
	quiz.IsActive = false
	svc, _, _ := newQuizFixture(t, quiz, questions...)

	_, err := svc.FetchForStudent(context.Background(), quiz.ID, 7)
	if !errors.Is(err, ErrQuizNotAvailable) {
		t.Fatalf("expected ErrQuizNotAvailable, got %v", err)
	}
}

func TestFetchForStudentOutsideValidityWindow(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	quiz, questions := activeQuizWithQuestions(1)
	quiz.ValidFrom = &future
	svc, _, _ := newQuizFixture(t, quiz, questions...)
	if _, err := svc.FetchForStudent(context.Background(), quiz.ID, 7); !errors.Is(err, ErrQuizNotAvailable) {
		t.Fatalf("expected ErrQuizNotAvailable before the window, got %v", err)
	}

	quiz2, questions2 := activeQuizWithQuestions(1)
	quiz2.ValidUntil = &past
	svc2, _, _ := newQuizFixture(t, quiz2, questions2...)
	if _, err := svc2.FetchForStudent(context.Background(), quiz2.ID, 7); !errors.Is(err, ErrQuizExpired) {
		t.Fatalf("expected ErrQuizExpired after the window, got %v", err)
	}
}

func TestFetchForStudentAfterCompletion(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(1)
	svc, attempts, _ := newQuizFixture(t, quiz, questions...)

	done := &model.Attempt{
		ID:        uuid.New(),
		QuizID:    quiz.ID,
		StudentID: 7,
		Status:    model.AttemptStatusCompleted,
		StartedAt: time.Now().Add(-time.Hour),
	}
	attempts.attempts[done.ID] = done

	_, err := svc.FetchForStudent(context.Background(), quiz.ID, 7)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}

	// A different student still gets through.
	if _, err := svc.FetchForStudent(context.Background(), quiz.ID, 8); err != nil {
		t.Fatalf("fetch for other student: %v", err)
	}
}

func TestFetchForStudentEmptyQuiz(t *testing.T) {
	quiz := testQuiz(30)
	svc, _, _ := newQuizFixture(t, quiz)

	_, err := svc.FetchForStudent(context.Background(), quiz.ID, 7)
	if !errors.Is(err, ErrQuizNoQuestions) {
		t.Fatalf("expected ErrQuizNoQuestions, got %v", err)
	}
}

func TestFetchForStudentNeverExposesCorrectAnswers(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(2)
	svc, _, rdb := newQuizFixture(t, quiz, questions...)

	payload, err := svc.FetchForStudent(context.Background(), quiz.ID, 7)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	for _, q := range payload.Questions {
		if len(q.Options) != 4 {
			t.Fatalf("expected 4 options, got %d", len(q.Options))
		}
	}

	// The answer key lives in a separate hash, never in the payload blob.
	raw, err := rdb.Get(context.Background(), config.CacheKey.QuizPayloadKey(quiz.ID.String())).Result()
	if err != nil {
		t.Fatalf("read cached payload: %v", err)
	}
	if strings.Contains(raw, `"correct_answer"`) {
		t.Fatal("cached payload leaks the correct answer field")
	}
}

func TestFetchForStudentCachesPayload(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(2)
	svc, _, rdb := newQuizFixture(t, quiz, questions...)

	if _, err := svc.FetchForStudent(context.Background(), quiz.ID, 7); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	ctx := context.Background()
	if err := rdb.Get(ctx, config.CacheKey.QuizPayloadKey(quiz.ID.String())).Err(); err != nil {
		t.Fatalf("expected payload cached: %v", err)
	}
	if err := rdb.Get(ctx, config.CacheKey.QuizDurationKey(quiz.ID.String())).Err(); err != nil {
		t.Fatalf("expected duration cached: %v", err)
	}
	key, err := rdb.HGetAll(ctx, config.CacheKey.QuizAnswerKeyKey(quiz.ID.String())).Result()
	if err != nil || len(key) != 2 {
		t.Fatalf("expected answer key hash with 2 entries, got %v (%v)", key, err)
	}
}

func TestAnswerKeyRebuildsOnCacheMiss(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(2)
	svc, _, rdb := newQuizFixture(t, quiz, questions...)

	key, err := svc.AnswerKey(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("answer key: %v", err)
	}
	if len(key) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(key))
	}
	for _, q := range questions {
		if key[q.ID.String()] != q.CorrectAnswer {
			t.Fatalf("wrong letter for %s: got %q", q.ID, key[q.ID.String()])
		}
	}

	// Rebuild also primes the hash for the next call.
	cached, err := rdb.HGetAll(context.Background(), config.CacheKey.QuizAnswerKeyKey(quiz.ID.String())).Result()
	if err != nil || len(cached) != 2 {
		t.Fatalf("expected primed hash, got %v (%v)", cached, err)
	}
}

func TestSetActiveDropsCacheOnDeactivate(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(1)
	svc, _, rdb := newQuizFixture(t, quiz, questions...)

	if _, err := svc.FetchForStudent(context.Background(), quiz.ID, 7); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := svc.SetActive(context.Background(), quiz.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	err := rdb.Get(context.Background(), config.CacheKey.QuizPayloadKey(quiz.ID.String())).Err()
	if !errors.Is(err, redis.Nil) {
		t.Fatalf("expected payload cache dropped, got %v", err)
	}
}

func TestUpdateMergesNonEmptyFields(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(1)
	svc, _, _ := newQuizFixture(t, quiz, questions...)

	score := 80
	updated, err := svc.Update(context.Background(), quiz.ID, &model.UpdateQuizRequest{
		Title:        "Renamed Screening",
		PassingScore: &score,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed Screening" {
		t.Fatalf("title not applied: %q", updated.Title)
	}
	if updated.PassingScore == nil || *updated.PassingScore != 80 {
		t.Fatalf("passing score not applied: %v", updated.PassingScore)
	}
	if updated.TimeLimitMinutes != quiz.TimeLimitMinutes {
		t.Fatalf("time limit should be untouched, got %d", updated.TimeLimitMinutes)
	}
}

func TestDuplicateCreatesInactiveCopy(t *testing.T) {
	quiz, questions := activeQuizWithQuestions(2)
	svc, _, _ := newQuizFixture(t, quiz, questions...)

	clone, err := svc.Duplicate(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if clone.ID == quiz.ID {
		t.Fatal("clone kept the source ID")
	}
	if clone.Title != quiz.Title+" (copy)" {
		t.Fatalf("unexpected clone title %q", clone.Title)
	}
	if clone.IsActive {
		t.Fatal("clone should start inactive")
	}
}

func TestGetUnknownQuiz(t *testing.T) {
	svc, _, _ := newQuizFixture(t, testQuiz(30))
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
