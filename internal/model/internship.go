package model

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus enumerates internship offer states. Accepted is terminal.
type OfferStatus string

const (
	OfferStatusSent     OfferStatus = "sent"
	OfferStatusAccepted OfferStatus = "accepted"
)

// InternshipOffer is a single-use, time-limited offer emailed to a student.
type InternshipOffer struct {
	ID         uuid.UUID   `json:"id"`
	StudentID  int         `json:"student_id"`
	CampaignID *uuid.UUID  `json:"campaign_id,omitempty"`
	Token      string      `json:"token"`
	ExpiresAt  time.Time   `json:"expires_at"`
	Status     OfferStatus `json:"status"`
	AcceptedAt *time.Time  `json:"accepted_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// InternshipAcceptance records the details submitted when an offer is accepted.
type InternshipAcceptance struct {
	ID               uuid.UUID `json:"id"`
	OfferID          uuid.UUID `json:"offer_id"`
	Phone            string    `json:"phone"`
	FatherName       string    `json:"father_name"`
	PermanentAddress string    `json:"permanent_address"`
	ResumeURL        string    `json:"resume_url"`
	AcceptedAt       time.Time `json:"accepted_at"`
}

// AcceptOfferRequest is the payload for accepting an internship offer.
type AcceptOfferRequest struct {
	Token            string `json:"token" binding:"required,uuid"`
	Phone            string `json:"phone" binding:"required,min=6,max=20"`
	FatherName       string `json:"father_name" binding:"required,min=2,max=100"`
	PermanentAddress string `json:"permanent_address" binding:"required,min=5,max=500"`
	ResumeURL        string `json:"resume_url" binding:"required,url,max=500"`
}
