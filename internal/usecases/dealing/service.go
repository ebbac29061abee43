// Package dealing implements the deal record store: persistence, the change
// stream published on every mutation, the submission boundary with its
// field-level validation, and the CSV export.
package dealing

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/repository"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/stream"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/pkg/utils"
)

// SubmissionInput is the payload of the deal form.
type SubmissionInput struct {
	NamaMitra        string `json:"nama_mitra"`
	BrandID          string `json:"brand"`
	OutletID         string `json:"expo_outlet"`
	LokasiBukaOutlet string `json:"lokasi_buka_outlet"`
	JumlahTransaksi  int64  `json:"jumlah_transaksi"`
	Catatan          string `json:"catatan"`
	FotoMitra        string `json:"foto_mitra"`
}

type DealService interface {
	ListAllDeals(ctx context.Context) ([]domain.Deal, error)
	SubscribeDeals(handler func(domain.DealEvent)) (*stream.Subscription, error)
	Submit(ctx context.Context, input SubmissionInput) (*domain.Deal, error)
	Update(ctx context.Context, id string, input SubmissionInput) (*domain.Deal, error)
	Delete(ctx context.Context, id string) error
	ExportCSV(ctx context.Context, w io.Writer) error
}

type Service struct {
	dealRepo   repository.DealRepository
	outletRepo repository.OutletRepository
	brandRepo  repository.BrandRepository
	broker     *stream.Broker[domain.DealEvent]
}

func NewService(
	dealRepo repository.DealRepository,
	outletRepo repository.OutletRepository,
	brandRepo repository.BrandRepository,
	broker *stream.Broker[domain.DealEvent],
) DealService {
	return &Service{
		dealRepo:   dealRepo,
		outletRepo: outletRepo,
		brandRepo:  brandRepo,
		broker:     broker,
	}
}

// ListAllDeals returns every deal, newest first.
func (s *Service) ListAllDeals(ctx context.Context) ([]domain.Deal, error) {
	deals, err := s.dealRepo.ListAll()
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	return deals, nil
}

// SubscribeDeals registers handler on the change stream.
func (s *Service) SubscribeDeals(handler func(domain.DealEvent)) (*stream.Subscription, error) {
	return s.broker.Subscribe(handler), nil
}

// Submit validates the form payload, denormalizes the outlet/brand pair and
// persists the deal. Validation failures never contact the store.
func (s *Service) Submit(ctx context.Context, input SubmissionInput) (*domain.Deal, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	deal, err := s.buildDeal(input)
	if err != nil {
		return nil, err
	}

	created, err := s.dealRepo.Create(deal)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}

	s.broker.Publish(domain.DealEvent{Action: domain.ActionCreate, Record: *created})

	return created, nil
}

// Update replaces the deal with matching id. The same validation rules as
// submission apply.
func (s *Service) Update(ctx context.Context, id string, input SubmissionInput) (*domain.Deal, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	existing, err := s.dealRepo.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if existing == nil {
		return nil, ErrDealNotFound
	}

	deal, err := s.buildDeal(input)
	if err != nil {
		return nil, err
	}
	deal.ID = existing.ID
	deal.Created = existing.Created

	updated, err := s.dealRepo.Update(deal)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if updated == nil {
		return nil, ErrDealNotFound
	}

	s.broker.Publish(domain.DealEvent{Action: domain.ActionUpdate, Record: *updated})

	return updated, nil
}

// Delete removes the deal with matching id and publishes the removal.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.dealRepo.GetByID(id)
	if err != nil {
		return errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if existing == nil {
		return ErrDealNotFound
	}

	if err := s.dealRepo.Delete(id); err != nil {
		return errors.Wrap(ErrDatabaseOperation, err.Error())
	}

	s.broker.Publish(domain.DealEvent{Action: domain.ActionDelete, Record: *existing})

	return nil
}

var csvHeaders = []string{
	"No",
	"Nama Mitra",
	"Brand",
	"Outlet",
	"Lokasi",
	"Jumlah Transaksi",
	"Catatan",
	"Waktu",
}

// ExportCSV writes the deal snapshot as RFC-4180 CSV, newest first, with a
// UTF-8 BOM so spreadsheet apps pick up the encoding.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	deals, err := s.ListAllDeals(ctx)
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte("\xEF\xBB\xBF")); err != nil {
		return errors.Wrap(err, "writing BOM")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}

	for i, deal := range deals {
		row := []string{
			strconv.Itoa(i + 1),
			deal.NamaMitra,
			deal.BrandName,
			deal.OutletName,
			deal.LokasiBukaOutlet,
			strconv.FormatInt(deal.JumlahTransaksi, 10),
			deal.Catatan,
			exportTime(deal.Created),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}

	writer.Flush()
	return writer.Error()
}

func (s *Service) buildDeal(input SubmissionInput) (*domain.Deal, error) {
	outlet, err := s.outletRepo.GetByID(input.OutletID)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if outlet == nil || !outlet.IsActive {
		return nil, ErrOutletNotFound
	}

	brand, err := s.brandRepo.GetByID(input.BrandID)
	if err != nil {
		return nil, errors.Wrap(ErrDatabaseOperation, err.Error())
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}

	return &domain.Deal{
		NamaMitra:        strings.TrimSpace(input.NamaMitra),
		FotoMitra:        input.FotoMitra,
		BrandID:          brand.ID,
		BrandName:        brand.Name,
		OutletName:       outlet.Name,
		LokasiBukaOutlet: strings.TrimSpace(input.LokasiBukaOutlet),
		JumlahTransaksi:  input.JumlahTransaksi,
		Catatan:          strings.TrimSpace(input.Catatan),
		ExpoOutletID:     outlet.ID,
	}, nil
}

// validate applies the submission rules. Messages are the user-facing,
// per-field errors shown on the form.
func validate(input SubmissionInput) error {
	fields := make(map[string]string)

	if strings.TrimSpace(input.NamaMitra) == "" {
		fields["nama_mitra"] = "Nama mitra wajib diisi"
	}

	if input.BrandID == "" {
		fields["brand"] = "Brand wajib dipilih"
	}

	if input.OutletID == "" {
		fields["expo_outlet"] = "Outlet wajib dipilih"
	}

	if input.JumlahTransaksi <= 0 {
		fields["jumlah_transaksi"] = "Jumlah transaksi wajib diisi dengan angka valid"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

func exportTime(created string) string {
	t, err := utils.ParseTimestamp(created)
	if err != nil {
		return created
	}
	return t.Format("02/01/2006 15.04.05")
}
