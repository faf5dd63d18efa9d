package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

func newCampaignFixture(t *testing.T, students ...*model.Student) (*CampaignService, *fakeOfferStore, *redis.Client) {
	t.Helper()
	rdb := newTestRedis(t)
	offers := newFakeOfferStore()
	cfg := &config.Config{
		OfferBaseURL: "https://careers.example.com/offer",
		OfferTTL:     72 * time.Hour,
	}
	svc := NewCampaignService(newFakeCampaignStore(), offers, newFakeStudentStore(students...), cfg, rdb)
	return svc, offers, rdb
}

func TestCreateCampaignQueuesOnePerRecipient(t *testing.T) {
	students := []*model.Student{
		{ID: 1, Name: "Asha Rao", Email: "asha@example.com"},
		{ID: 2, Name: "Vikram Nair", Email: "vikram@example.com"},
	}
	svc, offers, rdb := newCampaignFixture(t, students...)

	campaign, err := svc.Create(context.Background(), &model.CreateCampaignRequest{
		Subject:    "Internship Offer",
		Body:       "Congratulations! Accept here: {{accept_url}}",
		StudentIDs: []int{1, 2},
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if campaign.TotalOffers != 2 {
		t.Fatalf("expected 2 offers, got %d", campaign.TotalOffers)
	}
	if campaign.Status != model.CampaignStatusQueued {
		t.Fatalf("expected queued status, got %s", campaign.Status)
	}
	if len(offers.offers) != 2 {
		t.Fatalf("expected 2 stored offers, got %d", len(offers.offers))
	}

	queued, err := rdb.LLen(context.Background(), config.WorkerKey.OfferEmailsQueue).Result()
	if err != nil || queued != 2 {
		t.Fatalf("expected 2 queued jobs, got %d (%v)", queued, err)
	}

	// Each job carries its own single-use link.
	raw, _ := rdb.LPop(context.Background(), config.WorkerKey.OfferEmailsQueue).Result()
	var job model.OfferEmailJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if !strings.Contains(job.Body, "https://careers.example.com/offer?token=") {
		t.Fatalf("body missing acceptance link: %q", job.Body)
	}
	if strings.Contains(job.Body, "{{accept_url}}") {
		t.Fatal("placeholder left unsubstituted")
	}
}

func TestCreateCampaignUnknownStudent(t *testing.T) {
	svc, offers, rdb := newCampaignFixture(t, &model.Student{ID: 1, Email: "asha@example.com"})

	_, err := svc.Create(context.Background(), &model.CreateCampaignRequest{
		Subject:    "Internship Offer",
		Body:       "Congratulations on passing.",
		StudentIDs: []int{1, 42},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Recipients resolve up front, so nothing was issued or queued.
	if len(offers.offers) != 0 {
		t.Fatalf("expected no offers created, got %d", len(offers.offers))
	}
	queued, _ := rdb.LLen(context.Background(), config.WorkerKey.OfferEmailsQueue).Result()
	if queued != 0 {
		t.Fatalf("expected empty queue, got %d", queued)
	}
}

func TestRenderBodyAppendsLinkWithoutPlaceholder(t *testing.T) {
	svc, _, _ := newCampaignFixture(t)

	body := svc.renderBody("Congratulations on passing the screening.", "tok-123")
	if !strings.HasSuffix(body, "https://careers.example.com/offer?token=tok-123") {
		t.Fatalf("link not appended: %q", body)
	}
}
