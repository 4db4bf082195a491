package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Siddharth20050904/inventory-management/internal/models"
	"github.com/Siddharth20050904/inventory-management/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AdminService interface {
	Register(ctx context.Context, username, email, password string) (*models.Admin, error)
	VerifyCredentials(ctx context.Context, email, password string) (*models.Admin, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
}

func NewAdminService(adminRepo repository.AdminRepository) AdminService {
	return &adminService{adminRepo: adminRepo}
}

func (s *adminService) Register(ctx context.Context, username, email, password string) (*models.Admin, error) {
	switch {
	case strings.TrimSpace(username) == "":
		return nil, invalid("username", "required")
	case strings.TrimSpace(email) == "":
		return nil, invalid("email", "required")
	case len(password) < 8:
		return nil, invalid("password", "must be at least 8 characters")
	}

	_, err := s.adminRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, invalid("email", "already registered")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, &PersistenceError{Op: "load admin", Err: err}
	}
	_, err = s.adminRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, invalid("username", "already taken")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, &PersistenceError{Op: "load admin", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, &PersistenceError{Op: "create admin", Err: err}
	}
	return admin, nil
}

func (s *adminService) VerifyCredentials(ctx context.Context, email, password string) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load admin", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}
