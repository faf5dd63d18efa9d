package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ResponseWorker drains the answer-persistence queue: answers saved over the
// live stream land in Redis first and are written to PostgreSQL here.
type ResponseWorker struct {
	rdb       *redis.Client
	responses service.ResponseStore
	stop      chan struct{}
	done      chan struct{}
}

// NewResponseWorker creates a new ResponseWorker.
func NewResponseWorker(rdb *redis.Client, responses service.ResponseStore) *ResponseWorker {
	return &ResponseWorker{
		rdb:       rdb,
		responses: responses,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs the worker loop until Stop is called.
func (w *ResponseWorker) Start(ctx context.Context) {
	log.Info().Msg("response worker started")
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			w.drain(ctx)
			log.Info().Msg("response worker stopped")
			return
		default:
			w.poll(ctx)
		}
	}
}

// Stop signals the worker to drain the queue and exit, blocking until done.
func (w *ResponseWorker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *ResponseWorker) poll(ctx context.Context) {
	res, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistResponsesQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			log.Error().Err(err).Msg("response worker: queue pop failed")
			time.Sleep(time.Second)
		}
		return
	}
	// BLPop returns [key, value].
	w.process(ctx, res[1])
}

// drain flushes everything still queued before shutdown.
func (w *ResponseWorker) drain(ctx context.Context) {
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.PersistResponsesQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Error().Err(err).Msg("response worker: drain failed")
			}
			return
		}
		w.process(ctx, raw)
	}
}

func (w *ResponseWorker) process(ctx context.Context, raw string) {
	var job model.ResponseJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Str("payload", raw).Msg("response worker: bad job payload")
		return
	}

	resp := &model.Response{
		AttemptID:      job.AttemptID,
		QuestionID:     job.QuestionID,
		SelectedAnswer: job.SelectedAnswer,
		IsCorrect:      job.IsCorrect,
	}
	if err := w.responses.Upsert(ctx, resp); err != nil {
		log.Error().Err(err).
			Str("attempt_id", job.AttemptID.String()).
			Str("question_id", job.QuestionID.String()).
			Msg("response worker: persist failed, requeueing")
		// Push back for a later retry rather than dropping the answer.
		w.rdb.RPush(ctx, config.WorkerKey.PersistResponsesQueue, raw)
		time.Sleep(time.Second)
	}
}
