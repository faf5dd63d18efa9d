package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

func newOfferFixture(t *testing.T, offers ...*model.InternshipOffer) (*InternshipService, *fakeOfferStore) {
	t.Helper()
	student := &model.Student{ID: 7, Name: "Asha Rao", Email: "asha@example.com"}
	for _, o := range offers {
		o.StudentID = student.ID
	}
	store := newFakeOfferStore(offers...)
	return NewInternshipService(store, newFakeStudentStore(student)), store
}

func sentOffer(ttl time.Duration) *model.InternshipOffer {
	return &model.InternshipOffer{
		ID:        uuid.New(),
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(ttl),
		Status:    model.OfferStatusSent,
	}
}

func acceptRequest(token string) *model.AcceptOfferRequest {
	return &model.AcceptOfferRequest{
		Token:            token,
		Phone:            "+919876543210",
		FatherName:       "R. Rao",
		PermanentAddress: "12 Lake View Road, Pune",
		ResumeURL:        "https://example.com/resume.pdf",
	}
}

func TestVerifyTokenReturnsOfferAndStudent(t *testing.T) {
	offer := sentOffer(24 * time.Hour)
	svc, _ := newOfferFixture(t, offer)

	v, err := svc.VerifyToken(context.Background(), offer.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if v.Offer.ID != offer.ID {
		t.Fatalf("expected offer %s, got %s", offer.ID, v.Offer.ID)
	}
	if v.Student == nil || v.Student.Email != "asha@example.com" {
		t.Fatalf("expected student prefill, got %+v", v.Student)
	}
}

func TestVerifyUnknownToken(t *testing.T) {
	svc, _ := newOfferFixture(t)

	_, err := svc.VerifyToken(context.Background(), uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	offer := sentOffer(-time.Hour)
	svc, _ := newOfferFixture(t, offer)

	_, err := svc.VerifyToken(context.Background(), offer.Token)
	if !errors.Is(err, ErrOfferExpired) {
		t.Fatalf("expected ErrOfferExpired, got %v", err)
	}
}

func TestVerifyAcceptedToken(t *testing.T) {
	offer := sentOffer(24 * time.Hour)
	offer.Status = model.OfferStatusAccepted
	svc, _ := newOfferFixture(t, offer)

	_, err := svc.VerifyToken(context.Background(), offer.Token)
	if !errors.Is(err, ErrOfferAccepted) {
		t.Fatalf("expected ErrOfferAccepted, got %v", err)
	}
}

func TestAcceptOffer(t *testing.T) {
	offer := sentOffer(24 * time.Hour)
	svc, store := newOfferFixture(t, offer)

	acc, err := svc.Accept(context.Background(), acceptRequest(offer.Token))
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if acc.OfferID != offer.ID {
		t.Fatalf("acceptance bound to wrong offer: %s", acc.OfferID)
	}
	if acc.AcceptedAt.IsZero() {
		t.Fatal("expected acceptance timestamp")
	}

	stored := store.offers[offer.Token]
	if stored.Status != model.OfferStatusAccepted {
		t.Fatalf("offer not flipped, status %s", stored.Status)
	}

	// The token is now single-use spent.
	if _, err := svc.Accept(context.Background(), acceptRequest(offer.Token)); !errors.Is(err, ErrOfferAccepted) {
		t.Fatalf("expected ErrOfferAccepted on reuse, got %v", err)
	}
}

func TestAcceptLosesRaceToConcurrentAccept(t *testing.T) {
	offer := sentOffer(24 * time.Hour)
	svc, store := newOfferFixture(t, offer)

	// A concurrent accept lands between our token read and the transaction.
	store.acceptRace = true

	_, err := svc.Accept(context.Background(), acceptRequest(offer.Token))
	if !errors.Is(err, ErrOfferAccepted) {
		t.Fatalf("expected ErrOfferAccepted, got %v", err)
	}
}
