package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CampaignStore is the persistence surface for email campaigns.
type CampaignStore interface {
	Create(ctx context.Context, c *model.EmailCampaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.EmailCampaign, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]model.EmailCampaign, int, error)
}

// CampaignService creates offer email campaigns: one single-use token per
// recipient, with the rendered emails pushed onto the mail queue.
type CampaignService struct {
	campaigns CampaignStore
	offers    OfferStore
	students  StudentStore
	cfg       *config.Config
	rdb       *redis.Client
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(campaigns CampaignStore, offers OfferStore, students StudentStore, cfg *config.Config, rdb *redis.Client) *CampaignService {
	return &CampaignService{campaigns: campaigns, offers: offers, students: students, cfg: cfg, rdb: rdb}
}

// Create records the campaign, issues one offer per student, and enqueues the
// rendered emails. Every student ID must resolve before any offer is created.
func (s *CampaignService) Create(ctx context.Context, req *model.CreateCampaignRequest) (*model.EmailCampaign, error) {
	recipients := make([]*model.Student, 0, len(req.StudentIDs))
	for _, id := range req.StudentIDs {
		student, err := s.students.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("student %d: %w", id, ErrNotFound)
			}
			return nil, fmt.Errorf("get student %d: %w", id, err)
		}
		recipients = append(recipients, student)
	}

	campaign := &model.EmailCampaign{
		Subject:     req.Subject,
		Body:        req.Body,
		Status:      model.CampaignStatusQueued,
		TotalOffers: len(recipients),
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.OfferTTL)
	for _, student := range recipients {
		offer := &model.InternshipOffer{
			StudentID:  student.ID,
			CampaignID: &campaign.ID,
			Token:      uuid.New().String(),
			ExpiresAt:  expiresAt,
			Status:     model.OfferStatusSent,
		}
		if err := s.offers.Create(ctx, offer); err != nil {
			return nil, fmt.Errorf("create offer for student %d: %w", student.ID, err)
		}

		job := model.OfferEmailJob{
			CampaignID: campaign.ID,
			OfferID:    offer.ID,
			To:         student.Email,
			Subject:    req.Subject,
			Body:       s.renderBody(req.Body, offer.Token),
		}
		raw, err := json.Marshal(job)
		if err != nil {
			return nil, fmt.Errorf("encode email job: %w", err)
		}
		if err := s.rdb.RPush(ctx, config.WorkerKey.OfferEmailsQueue, raw).Err(); err != nil {
			return nil, fmt.Errorf("enqueue email job: %w", err)
		}
	}

	log.Info().
		Str("campaign_id", campaign.ID.String()).
		Int("offers", len(recipients)).
		Msg("offer campaign queued")
	return campaign, nil
}

// Get retrieves a campaign with its offers.
func (s *CampaignService) Get(ctx context.Context, id uuid.UUID) (*model.EmailCampaign, []model.InternshipOffer, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get campaign: %w", err)
	}

	offers, err := s.offers.ListByCampaign(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list offers: %w", err)
	}
	return campaign, offers, nil
}

// List retrieves campaigns newest first.
func (s *CampaignService) List(ctx context.Context, limit, offset int) ([]model.EmailCampaign, int, error) {
	return s.campaigns.ListPaginated(ctx, limit, offset)
}

// renderBody substitutes the per-recipient acceptance link into the template.
// A body without the placeholder gets the link appended instead of silently
// dropping it.
func (s *CampaignService) renderBody(body, token string) string {
	acceptURL := fmt.Sprintf("%s?token=%s", s.cfg.OfferBaseURL, token)
	if strings.Contains(body, "{{accept_url}}") {
		return strings.ReplaceAll(body, "{{accept_url}}", acceptURL)
	}
	return body + "\n\n" + acceptURL
}
