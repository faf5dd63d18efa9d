package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/quizdesk/quizdesk-backend/internal/model"
)

// AdminStore is the persistence surface AdminService needs.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
}

// AdminService handles admin authentication.
type AdminService struct {
	admins AdminStore
	auth   *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(admins AdminStore, auth *AuthService) *AdminService {
	return &AdminService{admins: admins, auth: auth}
}

// Login verifies admin credentials and returns the admin plus a token.
func (s *AdminService) Login(ctx context.Context, req *model.AdminLoginRequest) (*model.Admin, string, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get admin: %w", err)
	}

	if err := s.auth.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, "", err
	}

	token, err := s.auth.GenerateAdminToken(admin.ID)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// Get retrieves an admin by ID.
func (s *AdminService) Get(ctx context.Context, id int) (*model.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}
