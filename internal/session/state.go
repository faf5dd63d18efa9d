// Package session holds the per-(student, quiz) state a quiz client keeps
// while an attempt is in progress: the countdown record, the answer map and
// the raw letter-choice map. The keys mirror the browser's local-storage
// layout (quiz_<id>_time, quiz_<id>_answers, quiz_<id>_choices) so a client
// can rebuild its state from the server after a reload on any device.
// Everything is cleared together when the attempt completes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// TimerRecord is the persisted countdown state.
type TimerRecord struct {
	Start     time.Time `json:"start"`
	Remaining int       `json:"remaining"` // seconds left as of Start
}

// Remaining recomputes the seconds left on a countdown that stored
// `remaining` seconds at wall-clock time `start`, observed again at `now`.
// Never negative. A `now` before `start` (clock skew) leaves the stored
// value untouched.
func Remaining(start time.Time, remaining int, now time.Time) int {
	elapsed := int(now.Sub(start).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	left := remaining - elapsed
	if left < 0 {
		return 0
	}
	return left
}

// Store persists quiz session state in Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a session state Store.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// SeedTimer writes a fresh countdown record with the full duration.
func (s *Store) SeedTimer(ctx context.Context, quizID uuid.UUID, studentID, seconds int) error {
	return s.writeTimer(ctx, quizID, studentID, TimerRecord{Start: time.Now(), Remaining: seconds})
}

// Timer reads the countdown record. Returns (nil, nil) when none exists.
func (s *Store) Timer(ctx context.Context, quizID uuid.UUID, studentID int) (*TimerRecord, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.QuizTimerKey(quizID.String(), studentID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get timer record: %w", err)
	}

	var rec TimerRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode timer record: %w", err)
	}
	return &rec, nil
}

// Touch recomputes the remaining seconds from the stored record and
// re-persists it anchored at now. Returns the recomputed value, or
// (0, false, nil) when no record exists.
func (s *Store) Touch(ctx context.Context, quizID uuid.UUID, studentID int) (int, bool, error) {
	rec, err := s.Timer(ctx, quizID, studentID)
	if err != nil {
		return 0, false, err
	}
	if rec == nil {
		return 0, false, nil
	}

	now := time.Now()
	left := Remaining(rec.Start, rec.Remaining, now)
	if err := s.writeTimer(ctx, quizID, studentID, TimerRecord{Start: now, Remaining: left}); err != nil {
		return 0, false, err
	}
	return left, true, nil
}

// ResetTimer overwrites the countdown record with an explicit remaining value
// anchored at now. Used when the server recomputes authoritative time from
// the attempt's start timestamp.
func (s *Store) ResetTimer(ctx context.Context, quizID uuid.UUID, studentID, seconds int) error {
	return s.writeTimer(ctx, quizID, studentID, TimerRecord{Start: time.Now(), Remaining: seconds})
}

// SaveAnswer records one answer selection in both the answers map and the
// letter-choice map.
func (s *Store) SaveAnswer(ctx context.Context, quizID uuid.UUID, studentID int, questionID uuid.UUID, answer string) error {
	qid := questionID.String()
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, config.CacheKey.QuizAnswersKey(quizID.String(), studentID), qid, answer)
	pipe.HSet(ctx, config.CacheKey.QuizChoicesKey(quizID.String(), studentID), qid, answer)
	_, err := pipe.Exec(ctx)
	return err
}

// Answers returns the saved answer map (question ID → letter).
func (s *Store) Answers(ctx context.Context, quizID uuid.UUID, studentID int) (map[string]string, error) {
	answers, err := s.rdb.HGetAll(ctx, config.CacheKey.QuizAnswersKey(quizID.String(), studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get answers: %w", err)
	}
	return answers, nil
}

// Clear removes every session key for the (student, quiz) pair. Called on
// successful completion.
func (s *Store) Clear(ctx context.Context, quizID uuid.UUID, studentID int) error {
	qid := quizID.String()
	return s.rdb.Del(ctx,
		config.CacheKey.QuizTimerKey(qid, studentID),
		config.CacheKey.QuizAnswersKey(qid, studentID),
		config.CacheKey.QuizChoicesKey(qid, studentID),
		config.CacheKey.AttemptStartKey(qid, studentID),
	).Err()
}

func (s *Store) writeTimer(ctx context.Context, quizID uuid.UUID, studentID int, rec TimerRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, config.CacheKey.QuizTimerKey(quizID.String(), studentID), raw, 0).Err()
}
