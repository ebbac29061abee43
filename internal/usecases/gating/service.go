// Package gating implements the outlet registry and the access-token gate
// in front of the shareable deal forms.
package gating

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/repository"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
)

// OutletInput is the admin payload for creating or editing an outlet. The
// access token is store-assigned and never taken from input.
type OutletInput struct {
	Name      string `json:"name"`
	BrandName string `json:"brand_name"`
	IsActive  bool   `json:"is_active"`
}

type OutletService interface {
	ListOutlets() ([]domain.Outlet, error)
	ListActiveOutlets() ([]domain.Outlet, error)
	CreateOutlet(input OutletInput) (*domain.Outlet, error)
	UpdateOutlet(id string, input OutletInput) (*domain.Outlet, error)
	DeleteOutlet(id string) error
	ValidateToken(token string) (*domain.Outlet, error)
}

type Service struct {
	outletRepo repository.OutletRepository
}

func NewService(outletRepo repository.OutletRepository) OutletService {
	return &Service{
		outletRepo: outletRepo,
	}
}

func (s *Service) ListOutlets() ([]domain.Outlet, error) {
	outlets, err := s.outletRepo.List()
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	return outlets, nil
}

func (s *Service) ListActiveOutlets() ([]domain.Outlet, error) {
	outlets, err := s.outletRepo.ListActive()
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	return outlets, nil
}

func (s *Service) CreateOutlet(input OutletInput) (*domain.Outlet, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrMissingRequiredData
	}

	outlet := &domain.Outlet{
		Name:      name,
		BrandName: strings.TrimSpace(input.BrandName),
		IsActive:  input.IsActive,
	}

	created, err := s.outletRepo.Create(outlet)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}

	return created, nil
}

func (s *Service) UpdateOutlet(id string, input OutletInput) (*domain.Outlet, error) {
	existing, err := s.outletRepo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if existing == nil {
		return nil, ErrOutletNotFound
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.BrandName = strings.TrimSpace(input.BrandName)
	existing.IsActive = input.IsActive

	updated, err := s.outletRepo.Update(existing)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if updated == nil {
		return nil, ErrOutletNotFound
	}

	return updated, nil
}

func (s *Service) DeleteOutlet(id string) error {
	existing, err := s.outletRepo.GetByID(id)
	if err != nil {
		return errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if existing == nil {
		return ErrOutletNotFound
	}

	if err := s.outletRepo.Delete(id); err != nil {
		return errors.Wrap(ErrDatabaseOperation, err.Error())
	}

	return nil
}

// ValidateToken resolves a form access token. The lookup requires both token
// equality and the active flag; an inactive outlet's token therefore fails
// with the exact same error as an unknown one.
func (s *Service) ValidateToken(token string) (*domain.Outlet, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	outlet, err := s.outletRepo.GetByAccessToken(token)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if outlet == nil {
		return nil, ErrInvalidToken
	}

	return outlet, nil
}
