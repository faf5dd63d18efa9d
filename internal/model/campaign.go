package model

import (
	"time"

	"github.com/google/uuid"
)

// CampaignStatus enumerates email campaign states.
type CampaignStatus string

const (
	CampaignStatusQueued  CampaignStatus = "queued"
	CampaignStatusSending CampaignStatus = "sending"
	CampaignStatusSent    CampaignStatus = "sent"
)

// EmailCampaign groups a batch of internship offers sent together.
type EmailCampaign struct {
	ID          uuid.UUID      `json:"id"`
	Subject     string         `json:"subject"`
	Body        string         `json:"body"`
	Status      CampaignStatus `json:"status"`
	TotalOffers int            `json:"total_offers"`
	SentCount   int            `json:"sent_count"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateCampaignRequest is the payload for creating an offer email campaign.
// Body may contain an {{accept_url}} placeholder replaced per recipient.
type CreateCampaignRequest struct {
	Subject    string `json:"subject" binding:"required,min=3,max=255"`
	Body       string `json:"body" binding:"required,min=10"`
	StudentIDs []int  `json:"student_ids" binding:"required,min=1,dive,min=1"`
}

// OfferEmailJob is the queue payload for one offer email, consumed by the
// mail worker.
type OfferEmailJob struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	OfferID    uuid.UUID `json:"offer_id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
}
