package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// OfferStore is the persistence surface for internship offers.
type OfferStore interface {
	Create(ctx context.Context, o *model.InternshipOffer) error
	GetByToken(ctx context.Context, token string) (*model.InternshipOffer, error)
	AcceptTx(ctx context.Context, offer *model.InternshipOffer, acc *model.InternshipAcceptance, phone string) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]model.InternshipOffer, error)
}

// OfferVerification is returned from a token check: the offer plus the
// student's current details for form prefill.
type OfferVerification struct {
	Offer   *model.InternshipOffer `json:"offer"`
	Student *model.Student         `json:"student"`
}

// InternshipService handles the token-gated offer acceptance flow.
type InternshipService struct {
	offers   OfferStore
	students StudentStore
}

// NewInternshipService creates a new InternshipService.
func NewInternshipService(offers OfferStore, students StudentStore) *InternshipService {
	return &InternshipService{offers: offers, students: students}
}

// VerifyToken resolves an offer token. Unknown tokens are not found, expired
// tokens are gone, accepted tokens are a conflict.
func (s *InternshipService) VerifyToken(ctx context.Context, token string) (*OfferVerification, error) {
	offer, err := s.getValidOffer(ctx, token)
	if err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, offer.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &OfferVerification{Offer: offer, Student: student}, nil
}

// Accept finalizes an offer: the student's details are updated, the
// acceptance is recorded and the offer flips to accepted, all in one
// transaction. A concurrent accept loses and reports a conflict.
func (s *InternshipService) Accept(ctx context.Context, req *model.AcceptOfferRequest) (*model.InternshipAcceptance, error) {
	offer, err := s.getValidOffer(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	acc := &model.InternshipAcceptance{
		OfferID:          offer.ID,
		Phone:            req.Phone,
		FatherName:       req.FatherName,
		PermanentAddress: req.PermanentAddress,
		ResumeURL:        req.ResumeURL,
	}
	if err := s.offers.AcceptTx(ctx, offer, acc, req.Phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfferAccepted
		}
		return nil, fmt.Errorf("accept offer: %w", err)
	}
	return acc, nil
}

func (s *InternshipService) getValidOffer(ctx context.Context, token string) (*model.InternshipOffer, error) {
	offer, err := s.offers.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}

	if offer.Status == model.OfferStatusAccepted {
		return nil, ErrOfferAccepted
	}
	if time.Now().After(offer.ExpiresAt) {
		return nil, ErrOfferExpired
	}
	return offer, nil
}
