package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

func TestRemaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		remaining int
		elapsed   time.Duration
		want      int
	}{
		{"no time passed", 600, 0, 600},
		{"one minute passed", 600, time.Minute, 540},
		{"exactly exhausted", 600, 10 * time.Minute, 0},
		{"overrun floors at zero", 600, time.Hour, 0},
		{"clock skew ignored", 600, -time.Minute, 600},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Remaining(start, tc.remaining, start.Add(tc.elapsed))
			if got != tc.want {
				t.Errorf("Remaining = %d, want %d", got, tc.want)
			}
		})
	}
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client), mr
}

func TestStoreTimerRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	quizID := uuid.New()

	if err := store.SeedTimer(ctx, quizID, 7, 1800); err != nil {
		t.Fatalf("seed timer: %v", err)
	}

	rec, err := store.Timer(ctx, quizID, 7)
	if err != nil {
		t.Fatalf("read timer: %v", err)
	}
	if rec == nil || rec.Remaining != 1800 {
		t.Fatalf("got %+v, want remaining 1800", rec)
	}

	left, ok, err := store.Touch(ctx, quizID, 7)
	if err != nil || !ok {
		t.Fatalf("touch: ok=%v err=%v", ok, err)
	}
	if left > 1800 {
		t.Errorf("remaining grew: %d", left)
	}
}

func TestStoreTimerMissing(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := store.Timer(ctx, uuid.New(), 1)
	if err != nil {
		t.Fatalf("read timer: %v", err)
	}
	if rec != nil {
		t.Fatalf("got %+v, want nil for missing record", rec)
	}

	_, ok, err := store.Touch(ctx, uuid.New(), 1)
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if ok {
		t.Error("touch reported a record that does not exist")
	}
}

func TestStoreSaveAnswerAndClear(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	quizID := uuid.New()
	questionID := uuid.New()

	if err := store.SeedTimer(ctx, quizID, 42, 600); err != nil {
		t.Fatalf("seed timer: %v", err)
	}
	if err := store.SaveAnswer(ctx, quizID, 42, questionID, "B"); err != nil {
		t.Fatalf("save answer: %v", err)
	}

	answers, err := store.Answers(ctx, quizID, 42)
	if err != nil {
		t.Fatalf("read answers: %v", err)
	}
	if answers[questionID.String()] != "B" {
		t.Fatalf("answers = %v, want B for %s", answers, questionID)
	}

	if err := store.Clear(ctx, quizID, 42); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range []string{
		config.CacheKey.QuizTimerKey(quizID.String(), 42),
		config.CacheKey.QuizAnswersKey(quizID.String(), 42),
		config.CacheKey.QuizChoicesKey(quizID.String(), 42),
	} {
		if mr.Exists(key) {
			t.Errorf("key %s survived Clear", key)
		}
	}
}
