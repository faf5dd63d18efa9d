package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// In-memory stores standing in for the pgx repositories.

type fakeQuizStore struct {
	quizzes map[uuid.UUID]*model.Quiz
}

func newFakeQuizStore(quizzes ...*model.Quiz) *fakeQuizStore {
	s := &fakeQuizStore{quizzes: make(map[uuid.UUID]*model.Quiz)}
	for _, q := range quizzes {
		s.quizzes[q.ID] = q
	}
	return s
}

func (s *fakeQuizStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *q
	return &cp, nil
}

func (s *fakeQuizStore) Create(_ context.Context, q *model.Quiz) error {
	q.ID = uuid.New()
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	cp := *q
	s.quizzes[q.ID] = &cp
	return nil
}

func (s *fakeQuizStore) Update(_ context.Context, q *model.Quiz) error {
	cp := *q
	s.quizzes[q.ID] = &cp
	return nil
}

func (s *fakeQuizStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if q, ok := s.quizzes[id]; ok {
		q.IsActive = active
	}
	return nil
}

func (s *fakeQuizStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.quizzes, id)
	return nil
}

func (s *fakeQuizStore) Duplicate(_ context.Context, id uuid.UUID, title string) (*model.Quiz, error) {
	src, ok := s.quizzes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *src
	clone.ID = uuid.New()
	clone.Title = title
	clone.IsActive = false
	s.quizzes[clone.ID] = &clone
	cp := clone
	return &cp, nil
}

func (s *fakeQuizStore) ListPaginated(_ context.Context, _ string, isActive *bool, _, _ int) ([]model.Quiz, int, error) {
	var out []model.Quiz
	for _, q := range s.quizzes {
		if isActive != nil && q.IsActive != *isActive {
			continue
		}
		out = append(out, *q)
	}
	return out, len(out), nil
}

type fakeQuestionStore struct {
	questions []model.Question
}

func (s *fakeQuestionStore) ListByQuiz(_ context.Context, quizID uuid.UUID) ([]model.Question, error) {
	var out []model.Question
	for _, q := range s.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeAttemptStore struct {
	attempts map[uuid.UUID]*model.Attempt
	// concurrentWinner, when set, makes Create return pgx.ErrNoRows and
	// register the winner, simulating a lost race on the partial index.
	concurrentWinner *model.Attempt
}

func newFakeAttemptStore(attempts ...*model.Attempt) *fakeAttemptStore {
	s := &fakeAttemptStore{attempts: make(map[uuid.UUID]*model.Attempt)}
	for _, a := range attempts {
		s.attempts[a.ID] = a
	}
	return s
}

func (s *fakeAttemptStore) GetByID(_ context.Context, id uuid.UUID) (*model.Attempt, error) {
	a, ok := s.attempts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAttemptStore) GetByStatus(_ context.Context, quizID uuid.UUID, studentID int, status model.AttemptStatus) (*model.Attempt, error) {
	for _, a := range s.attempts {
		if a.QuizID == quizID && a.StudentID == studentID && a.Status == status {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeAttemptStore) CountByQuizAndStudent(_ context.Context, quizID uuid.UUID, studentID int) (int, error) {
	count := 0
	for _, a := range s.attempts {
		if a.QuizID == quizID && a.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (s *fakeAttemptStore) Create(_ context.Context, a *model.Attempt) error {
	if s.concurrentWinner != nil {
		s.attempts[s.concurrentWinner.ID] = s.concurrentWinner
		s.concurrentWinner = nil
		return pgx.ErrNoRows
	}
	for _, existing := range s.attempts {
		if existing.QuizID == a.QuizID && existing.StudentID == a.StudentID &&
			existing.Status == model.AttemptStatusInProgress {
			return pgx.ErrNoRows
		}
	}
	a.ID = uuid.New()
	a.StartedAt = time.Now()
	cp := *a
	s.attempts[a.ID] = &cp
	return nil
}

func (s *fakeAttemptStore) Complete(_ context.Context, id uuid.UUID, score, totalQuestions, correctAnswers int, passed bool, timeSpentSeconds int) (int64, error) {
	a, ok := s.attempts[id]
	if !ok || a.Status != model.AttemptStatusInProgress {
		return 0, nil
	}
	now := time.Now()
	a.Status = model.AttemptStatusCompleted
	a.Score = &score
	a.TotalQuestions = &totalQuestions
	a.CorrectAnswers = &correctAnswers
	a.Passed = &passed
	a.TimeSpentSeconds = &timeSpentSeconds
	a.CompletedAt = &now
	return 1, nil
}

type responseKey struct {
	attemptID  uuid.UUID
	questionID uuid.UUID
}

type fakeResponseStore struct {
	responses map[responseKey]*model.Response
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{responses: make(map[responseKey]*model.Response)}
}

func (s *fakeResponseStore) Create(_ context.Context, resp *model.Response) error {
	key := responseKey{resp.AttemptID, resp.QuestionID}
	if _, ok := s.responses[key]; ok {
		return pgx.ErrNoRows
	}
	resp.ID = uuid.New()
	resp.AnsweredAt = time.Now()
	cp := *resp
	s.responses[key] = &cp
	return nil
}

func (s *fakeResponseStore) Update(_ context.Context, resp *model.Response) (int64, error) {
	key := responseKey{resp.AttemptID, resp.QuestionID}
	existing, ok := s.responses[key]
	if !ok {
		return 0, nil
	}
	existing.SelectedAnswer = resp.SelectedAnswer
	existing.IsCorrect = resp.IsCorrect
	return 1, nil
}

func (s *fakeResponseStore) Upsert(_ context.Context, resp *model.Response) error {
	key := responseKey{resp.AttemptID, resp.QuestionID}
	cp := *resp
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	cp.AnsweredAt = time.Now()
	s.responses[key] = &cp
	return nil
}

func (s *fakeResponseStore) ListByAttempt(_ context.Context, attemptID uuid.UUID) ([]model.Response, error) {
	var out []model.Response
	for _, r := range s.responses {
		if r.AttemptID == attemptID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeStudentStore struct {
	students map[int]*model.Student
	nextID   int
}

func newFakeStudentStore(students ...*model.Student) *fakeStudentStore {
	s := &fakeStudentStore{students: make(map[int]*model.Student), nextID: 1}
	for _, st := range students {
		s.students[st.ID] = st
		if st.ID >= s.nextID {
			s.nextID = st.ID + 1
		}
	}
	return s
}

func (s *fakeStudentStore) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, st := range s.students {
		if st.Email == email {
			cp := *st
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeStudentStore) GetByID(_ context.Context, id int) (*model.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *st
	return &cp, nil
}

func (s *fakeStudentStore) Create(_ context.Context, st *model.Student) error {
	st.ID = s.nextID
	s.nextID++
	st.CreatedAt = time.Now()
	st.UpdatedAt = st.CreatedAt
	cp := *st
	s.students[st.ID] = &cp
	return nil
}

func (s *fakeStudentStore) Update(_ context.Context, st *model.Student) error {
	cp := *st
	s.students[st.ID] = &cp
	return nil
}

func (s *fakeStudentStore) UpdatePassword(_ context.Context, id int, hash string) error {
	if st, ok := s.students[id]; ok {
		st.PasswordHash = hash
	}
	return nil
}

func (s *fakeStudentStore) Delete(_ context.Context, id int) error {
	delete(s.students, id)
	return nil
}

func (s *fakeStudentStore) ListPaginated(_ context.Context, _ string, _, _ int) ([]model.Student, int, error) {
	var out []model.Student
	for _, st := range s.students {
		out = append(out, *st)
	}
	return out, len(out), nil
}

type fakeOfferStore struct {
	offers map[string]*model.InternshipOffer
	// acceptRace, when set, marks the offer accepted just before AcceptTx
	// runs, simulating a concurrent accept landing first.
	acceptRace bool
}

func newFakeOfferStore(offers ...*model.InternshipOffer) *fakeOfferStore {
	s := &fakeOfferStore{offers: make(map[string]*model.InternshipOffer)}
	for _, o := range offers {
		s.offers[o.Token] = o
	}
	return s
}

func (s *fakeOfferStore) Create(_ context.Context, o *model.InternshipOffer) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	cp := *o
	s.offers[o.Token] = &cp
	return nil
}

func (s *fakeOfferStore) GetByToken(_ context.Context, token string) (*model.InternshipOffer, error) {
	o, ok := s.offers[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOfferStore) AcceptTx(_ context.Context, offer *model.InternshipOffer, acc *model.InternshipAcceptance, _ string) error {
	stored, ok := s.offers[offer.Token]
	if s.acceptRace && ok {
		stored.Status = model.OfferStatusAccepted
		s.acceptRace = false
	}
	if !ok || stored.Status != model.OfferStatusSent {
		return pgx.ErrNoRows
	}
	now := time.Now()
	stored.Status = model.OfferStatusAccepted
	stored.AcceptedAt = &now
	acc.ID = uuid.New()
	acc.AcceptedAt = now
	return nil
}

func (s *fakeOfferStore) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]model.InternshipOffer, error) {
	var out []model.InternshipOffer
	for _, o := range s.offers {
		if o.CampaignID != nil && *o.CampaignID == campaignID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeCampaignStore struct {
	campaigns map[uuid.UUID]*model.EmailCampaign
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{campaigns: make(map[uuid.UUID]*model.EmailCampaign)}
}

func (s *fakeCampaignStore) Create(_ context.Context, c *model.EmailCampaign) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	s.campaigns[c.ID] = &cp
	return nil
}

func (s *fakeCampaignStore) GetByID(_ context.Context, id uuid.UUID) (*model.EmailCampaign, error) {
	c, ok := s.campaigns[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCampaignStore) ListPaginated(_ context.Context, _, _ int) ([]model.EmailCampaign, int, error) {
	var out []model.EmailCampaign
	for _, c := range s.campaigns {
		out = append(out, *c)
	}
	return out, len(out), nil
}
