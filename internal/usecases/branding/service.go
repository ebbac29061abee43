// Package branding manages the franchise brand catalog listed on deal forms.
package branding

import (
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/repository"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
)

var (
	// ErrMissingRequiredData indicates the brand name is missing
	ErrMissingRequiredData = errors.New("nama brand wajib diisi")

	// ErrDatabaseOperation indicates a storage failure
	ErrDatabaseOperation = errors.New("operasi database gagal")
)

type BrandService interface {
	ListBrands() ([]domain.Brand, error)
	CreateBrand(brand domain.Brand) (*domain.Brand, error)
	DeleteBrand(id string) error
}

type Service struct {
	brandRepo repository.BrandRepository
}

func NewService(brandRepo repository.BrandRepository) BrandService {
	return &Service{
		brandRepo: brandRepo,
	}
}

func (s *Service) ListBrands() ([]domain.Brand, error) {
	brands, err := s.brandRepo.List()
	if err != nil {
		return nil, pkgerrors.Wrap(ErrDatabaseOperation, err.Error())
	}
	return brands, nil
}

func (s *Service) CreateBrand(brand domain.Brand) (*domain.Brand, error) {
	brand.Name = strings.TrimSpace(brand.Name)
	if brand.Name == "" {
		return nil, ErrMissingRequiredData
	}

	created, err := s.brandRepo.Create(&brand)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrDatabaseOperation, err.Error())
	}

	return created, nil
}

func (s *Service) DeleteBrand(id string) error {
	if err := s.brandRepo.Delete(id); err != nil {
		return pkgerrors.Wrap(ErrDatabaseOperation, err.Error())
	}
	return nil
}
