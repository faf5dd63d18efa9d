package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// OfferRepository handles internship offer data access.
type OfferRepository struct {
	pool *pgxpool.Pool
}

// NewOfferRepository creates a new OfferRepository.
func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

// Create inserts a new offer.
func (r *OfferRepository) Create(ctx context.Context, o *model.InternshipOffer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO internship_offers (student_id, campaign_id, token, expires_at, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		o.StudentID, o.CampaignID, o.Token, o.ExpiresAt, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
}

// GetByToken retrieves an offer by its token.
func (r *OfferRepository) GetByToken(ctx context.Context, token string) (*model.InternshipOffer, error) {
	o := &model.InternshipOffer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, campaign_id, token, expires_at, status, accepted_at, created_at
		 FROM internship_offers WHERE token = $1`, token,
	).Scan(&o.ID, &o.StudentID, &o.CampaignID, &o.Token, &o.ExpiresAt, &o.Status,
		&o.AcceptedAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// AcceptTx runs the acceptance sequence atomically: update the student's
// phone, insert the acceptance record, and mark the offer accepted.
func (r *OfferRepository) AcceptTx(ctx context.Context, offer *model.InternshipOffer, acc *model.InternshipAcceptance, phone string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE students
			 SET phone = $1, father_name = $2, permanent_address = $3, resume_url = $4,
			     updated_at = NOW()
			 WHERE id = $5`,
			phone, acc.FatherName, acc.PermanentAddress, acc.ResumeURL, offer.StudentID)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO internship_acceptances (offer_id, phone, father_name, permanent_address, resume_url)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, accepted_at`,
			offer.ID, phone, acc.FatherName, acc.PermanentAddress, acc.ResumeURL,
		).Scan(&acc.ID, &acc.AcceptedAt)
		if err != nil {
			return err
		}

		// Guard against a concurrent accept: only flip sent → accepted.
		tag, err := tx.Exec(ctx,
			`UPDATE internship_offers
			 SET status = $1, accepted_at = NOW()
			 WHERE id = $2 AND status = $3`,
			model.OfferStatusAccepted, offer.ID, model.OfferStatusSent)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

// ListByCampaign retrieves all offers issued under one campaign.
func (r *OfferRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]model.InternshipOffer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, campaign_id, token, expires_at, status, accepted_at, created_at
		 FROM internship_offers
		 WHERE campaign_id = $1
		 ORDER BY created_at ASC`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []model.InternshipOffer
	for rows.Next() {
		var o model.InternshipOffer
		if err := rows.Scan(&o.ID, &o.StudentID, &o.CampaignID, &o.Token, &o.ExpiresAt,
			&o.Status, &o.AcceptedAt, &o.CreatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}
