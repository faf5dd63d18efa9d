package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

type memResponseStore struct {
	mu    sync.Mutex
	saved []model.Response
}

func (s *memResponseStore) Create(_ context.Context, resp *model.Response) error { return nil }

func (s *memResponseStore) Update(_ context.Context, resp *model.Response) (int64, error) {
	return 1, nil
}

func (s *memResponseStore) Upsert(_ context.Context, resp *model.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, *resp)
	return nil
}

func (s *memResponseStore) ListByAttempt(_ context.Context, _ uuid.UUID) ([]model.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Response(nil), s.saved...), nil
}

func (s *memResponseStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func TestResponseWorkerPersistsQueuedAnswers(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := &memResponseStore{}
	w := NewResponseWorker(rdb, store)

	ctx := context.Background()
	jobs := []model.ResponseJob{
		{AttemptID: uuid.New(), QuestionID: uuid.New(), SelectedAnswer: "A", IsCorrect: true},
		{AttemptID: uuid.New(), QuestionID: uuid.New(), SelectedAnswer: "C", IsCorrect: false},
	}
	for _, job := range jobs {
		raw, _ := json.Marshal(job)
		if err := rdb.RPush(ctx, config.WorkerKey.PersistResponsesQueue, raw).Err(); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	go w.Start(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for store.count() < len(jobs) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()

	if store.count() != len(jobs) {
		t.Fatalf("expected %d persisted responses, got %d", len(jobs), store.count())
	}
	saved, _ := store.ListByAttempt(ctx, jobs[0].AttemptID)
	found := false
	for _, r := range saved {
		if r.QuestionID == jobs[0].QuestionID && r.SelectedAnswer == "A" && r.IsCorrect {
			found = true
		}
	}
	if !found {
		t.Fatal("first job not persisted with its fields intact")
	}

	// Nothing left behind in the queue.
	if n, _ := rdb.LLen(ctx, config.WorkerKey.PersistResponsesQueue).Result(); n != 0 {
		t.Fatalf("expected empty queue after stop, got %d", n)
	}
}

func TestResponseWorkerSkipsMalformedJobs(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := &memResponseStore{}
	w := NewResponseWorker(rdb, store)

	ctx := context.Background()
	rdb.RPush(ctx, config.WorkerKey.PersistResponsesQueue, "not-json")
	good := model.ResponseJob{AttemptID: uuid.New(), QuestionID: uuid.New(), SelectedAnswer: "B", IsCorrect: true}
	raw, _ := json.Marshal(good)
	rdb.RPush(ctx, config.WorkerKey.PersistResponsesQueue, raw)

	go w.Start(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for store.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()

	if store.count() != 1 {
		t.Fatalf("expected 1 persisted response, got %d", store.count())
	}
}
