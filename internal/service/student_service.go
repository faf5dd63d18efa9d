package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// StudentStore is the persistence surface StudentService needs.
type StudentStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	GetByID(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	UpdatePassword(ctx context.Context, id int, hash string) error
	Delete(ctx context.Context, id int) error
	ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.Student, int, error)
}

// StudentService handles student registration and admin-side management.
type StudentService struct {
	students StudentStore
	auth     *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(students StudentStore, auth *AuthService) *StudentService {
	return &StudentService{students: students, auth: auth}
}

// Register creates a student account from self-registration. The email must
// not already be taken.
func (s *StudentService) Register(ctx context.Context, req *model.RegisterStudentRequest) (*model.Student, error) {
	return s.create(ctx, req.Name, req.Email, req.Phone, req.Password)
}

// Create creates a student account on behalf of an admin.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	return s.create(ctx, req.Name, req.Email, req.Phone, req.Password)
}

func (s *StudentService) create(ctx context.Context, name, email, phone, password string) (*model.Student, error) {
	if _, err := s.students.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// Login verifies credentials and returns the student plus a session token.
func (s *StudentService) Login(ctx context.Context, req *model.StudentLoginRequest) (*model.Student, string, error) {
	student, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get student: %w", err)
	}

	if err := s.auth.CheckPassword(student.PasswordHash, req.Password); err != nil {
		return nil, "", err
	}

	token, err := s.auth.GenerateStudentToken(ctx, student.ID)
	if err != nil {
		return nil, "", err
	}
	return student, token, nil
}

// Get retrieves a student by ID.
func (s *StudentService) Get(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return student, nil
}

// Update modifies a student's details; the password is replaced only when
// one is supplied.
func (s *StudentService) Update(ctx context.Context, id int, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != student.Email {
		if _, err := s.students.GetByEmail(ctx, req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	student.Name = req.Name
	student.Email = req.Email
	student.Phone = req.Phone
	if err := s.students.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}

	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.students.UpdatePassword(ctx, id, hash); err != nil {
			return nil, fmt.Errorf("update password: %w", err)
		}
	}
	return student, nil
}

// Delete removes a student and drops any active session so the token stops
// working immediately.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return s.auth.ResetStudentSession(ctx, id)
}

// List retrieves students with pagination and search.
func (s *StudentService) List(ctx context.Context, search string, limit, offset int) ([]model.Student, int, error) {
	return s.students.ListPaginated(ctx, search, limit, offset)
}
