package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CampaignCounter bumps a campaign's sent counter after each delivery.
type CampaignCounter interface {
	IncrementSent(ctx context.Context, id uuid.UUID) error
}

// Sender delivers one email. Satisfied by smtpSender in production and by a
// fake in tests.
type Sender interface {
	Send(to, subject, body string) error
}

// MailWorker drains the offer email queue and delivers each message over SMTP.
type MailWorker struct {
	rdb       *redis.Client
	campaigns CampaignCounter
	sender    Sender
	stop      chan struct{}
	done      chan struct{}
}

// NewMailWorker creates a MailWorker using the configured SMTP relay.
func NewMailWorker(rdb *redis.Client, campaigns CampaignCounter, cfg *config.Config) *MailWorker {
	return &MailWorker{
		rdb:       rdb,
		campaigns: campaigns,
		sender: &smtpSender{
			addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
			host: cfg.SMTPHost,
			user: cfg.SMTPUser,
			pass: cfg.SMTPPassword,
			from: cfg.SMTPFrom,
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start runs the worker loop until Stop is called.
func (w *MailWorker) Start(ctx context.Context) {
	log.Info().Msg("mail worker started")
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			log.Info().Msg("mail worker stopped")
			return
		default:
			w.poll(ctx)
		}
	}
}

// Stop signals the worker to exit, blocking until done. Unsent jobs stay in
// the queue for the next run.
func (w *MailWorker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *MailWorker) poll(ctx context.Context) {
	res, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.OfferEmailsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			log.Error().Err(err).Msg("mail worker: queue pop failed")
			time.Sleep(time.Second)
		}
		return
	}
	w.process(ctx, res[1])
}

func (w *MailWorker) process(ctx context.Context, raw string) {
	var job model.OfferEmailJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Str("payload", raw).Msg("mail worker: bad job payload")
		return
	}

	if err := w.sender.Send(job.To, job.Subject, job.Body); err != nil {
		log.Error().Err(err).
			Str("offer_id", job.OfferID.String()).
			Str("to", job.To).
			Msg("mail worker: send failed, requeueing")
		w.rdb.RPush(ctx, config.WorkerKey.OfferEmailsQueue, raw)
		time.Sleep(time.Second)
		return
	}

	if err := w.campaigns.IncrementSent(ctx, job.CampaignID); err != nil {
		log.Error().Err(err).
			Str("campaign_id", job.CampaignID.String()).
			Msg("mail worker: sent counter update failed")
	}

	log.Info().
		Str("offer_id", job.OfferID.String()).
		Str("campaign_id", job.CampaignID.String()).
		Msg("offer email delivered")
}

type smtpSender struct {
	addr string
	host string
	user string
	pass string
	from string
}

func (s *smtpSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, to, subject, body)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}
	return smtp.SendMail(s.addr, auth, s.from, []string{to}, []byte(msg))
}
