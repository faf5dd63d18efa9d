package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// CampaignRepository handles email campaign data access.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// Create inserts a new campaign.
func (r *CampaignRepository) Create(ctx context.Context, c *model.EmailCampaign) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO email_campaigns (subject, body, status, total_offers)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.Subject, c.Body, c.Status, c.TotalOffers,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetByID retrieves a campaign by ID.
func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.EmailCampaign, error) {
	c := &model.EmailCampaign{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject, body, status, total_offers, sent_count, created_at
		 FROM email_campaigns WHERE id = $1`, id,
	).Scan(&c.ID, &c.Subject, &c.Body, &c.Status, &c.TotalOffers, &c.SentCount, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// IncrementSent bumps the sent counter and marks the campaign fully sent when
// every offer email has gone out.
func (r *CampaignRepository) IncrementSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_campaigns
		 SET sent_count = sent_count + 1,
		     status = CASE WHEN sent_count + 1 >= total_offers THEN 'sent' ELSE 'sending' END
		 WHERE id = $1`, id)
	return err
}

// ListPaginated retrieves campaigns newest first.
func (r *CampaignRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.EmailCampaign, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM email_campaigns`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, subject, body, status, total_offers, sent_count, created_at
		 FROM email_campaigns
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var campaigns []model.EmailCampaign
	for rows.Next() {
		var c model.EmailCampaign
		if err := rows.Scan(&c.ID, &c.Subject, &c.Body, &c.Status, &c.TotalOffers,
			&c.SentCount, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, total, rows.Err()
}
