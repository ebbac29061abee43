// Package repository contains the data-access implementations
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/database/postgres"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/pkg/utils"
)

const dealsTable = "deals"

var dealColumns = []string{
	"id",
	"nama_mitra",
	"foto_mitra",
	"brand_id",
	"brand_name",
	"outlet_name",
	"lokasi_buka_outlet",
	"jumlah_transaksi",
	"catatan",
	"expo_outlet_id",
	"created",
	"updated",
}

type DealRepository interface {
	ListAll() ([]domain.Deal, error)
	GetByID(id string) (*domain.Deal, error)
	Create(deal *domain.Deal) (*domain.Deal, error)
	Update(deal *domain.Deal) (*domain.Deal, error)
	Delete(id string) error
}

type dealRepository struct {
	conn *postgres.Connection
}

func NewDealRepository(conn *postgres.Connection) DealRepository {
	return &dealRepository{
		conn: conn,
	}
}

func (r *dealRepository) ListAll() ([]domain.Deal, error) {
	queryBuilder := squirrel.
		Select(dealColumns...).
		From(dealsTable).
		OrderBy("created DESC").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building deal list query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deal row: %w", err)
		}
		deals = append(deals, *deal)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deal rows: %w", err)
	}

	return deals, nil
}

func (r *dealRepository) GetByID(id string) (*domain.Deal, error) {
	sqlQuery, args, err := squirrel.
		Select(dealColumns...).
		From(dealsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building deal query: %w", err)
	}

	row := r.conn.QueryRow(sqlQuery, args...)
	deal, err := scanDealRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning deal: %w", err)
	}

	return deal, nil
}

// Create assigns the store-owned fields (id, created, updated) and inserts
// the record.
func (r *dealRepository) Create(deal *domain.Deal) (*domain.Deal, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("generating deal id: %w", err)
	}

	deal.ID = id
	deal.Created = utils.NowTimestamp()
	deal.Updated = deal.Created

	sqlQuery, args, err := squirrel.
		Insert(dealsTable).
		Columns(dealColumns...).
		Values(
			deal.ID,
			deal.NamaMitra,
			deal.FotoMitra,
			deal.BrandID,
			deal.BrandName,
			deal.OutletName,
			deal.LokasiBukaOutlet,
			deal.JumlahTransaksi,
			deal.Catatan,
			deal.ExpoOutletID,
			deal.Created,
			deal.Updated,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building deal insert: %w", err)
	}

	if _, err := r.conn.Exec(sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("inserting deal: %w", err)
	}

	return deal, nil
}

// Update replaces the mutable fields of the record with matching id and
// bumps the updated timestamp. Created is immutable.
func (r *dealRepository) Update(deal *domain.Deal) (*domain.Deal, error) {
	deal.Updated = utils.NowTimestamp()

	queryBuilder := squirrel.
		Update(dealsTable).
		Set("nama_mitra", deal.NamaMitra).
		Set("foto_mitra", deal.FotoMitra).
		Set("brand_id", deal.BrandID).
		Set("brand_name", deal.BrandName).
		Set("outlet_name", deal.OutletName).
		Set("lokasi_buka_outlet", deal.LokasiBukaOutlet).
		Set("jumlah_transaksi", deal.JumlahTransaksi).
		Set("catatan", deal.Catatan).
		Set("expo_outlet_id", deal.ExpoOutletID).
		Set("updated", deal.Updated).
		Where(squirrel.Eq{"id": deal.ID}).
		Suffix("RETURNING created").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building deal update: %w", err)
	}

	if err := r.conn.QueryRow(sqlQuery, args...).Scan(&deal.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("updating deal: %w", err)
	}

	return deal, nil
}

func (r *dealRepository) Delete(id string) error {
	sqlQuery, args, err := squirrel.
		Delete(dealsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building deal delete: %w", err)
	}

	if _, err := r.conn.Exec(sqlQuery, args...); err != nil {
		return fmt.Errorf("deleting deal: %w", err)
	}

	return nil
}

func scanDeal(rows *sql.Rows) (*domain.Deal, error) {
	deal := &domain.Deal{}

	err := rows.Scan(
		&deal.ID,
		&deal.NamaMitra,
		&deal.FotoMitra,
		&deal.BrandID,
		&deal.BrandName,
		&deal.OutletName,
		&deal.LokasiBukaOutlet,
		&deal.JumlahTransaksi,
		&deal.Catatan,
		&deal.ExpoOutletID,
		&deal.Created,
		&deal.Updated,
	)
	if err != nil {
		return nil, err
	}

	return deal, nil
}

func scanDealRow(row *sql.Row) (*domain.Deal, error) {
	deal := &domain.Deal{}

	err := row.Scan(
		&deal.ID,
		&deal.NamaMitra,
		&deal.FotoMitra,
		&deal.BrandID,
		&deal.BrandName,
		&deal.OutletName,
		&deal.LokasiBukaOutlet,
		&deal.JumlahTransaksi,
		&deal.Catatan,
		&deal.ExpoOutletID,
		&deal.Created,
		&deal.Updated,
	)
	if err != nil {
		return nil, err
	}

	return deal, nil
}
