package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/database/postgres"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/pkg/utils"
)

const brandsTable = "brands"

type BrandRepository interface {
	List() ([]domain.Brand, error)
	GetByID(id string) (*domain.Brand, error)
	Create(brand *domain.Brand) (*domain.Brand, error)
	Delete(id string) error
}

type brandRepository struct {
	conn *postgres.Connection
}

func NewBrandRepository(conn *postgres.Connection) BrandRepository {
	return &brandRepository{
		conn: conn,
	}
}

func (r *brandRepository) List() ([]domain.Brand, error) {
	sqlQuery, args, err := squirrel.
		Select("id", "name", "category", "color", "website", "created").
		From(brandsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building brand list query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	defer rows.Close()

	brands := make([]domain.Brand, 0)
	for rows.Next() {
		brand := domain.Brand{}
		err := rows.Scan(
			&brand.ID,
			&brand.Name,
			&brand.Category,
			&brand.Color,
			&brand.Website,
			&brand.Created,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning brand row: %w", err)
		}
		brands = append(brands, brand)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating brand rows: %w", err)
	}

	return brands, nil
}

func (r *brandRepository) GetByID(id string) (*domain.Brand, error) {
	sqlQuery, args, err := squirrel.
		Select("id", "name", "category", "color", "website", "created").
		From(brandsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building brand query: %w", err)
	}

	brand := &domain.Brand{}
	err = r.conn.QueryRow(sqlQuery, args...).Scan(
		&brand.ID,
		&brand.Name,
		&brand.Category,
		&brand.Color,
		&brand.Website,
		&brand.Created,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning brand: %w", err)
	}

	return brand, nil
}

func (r *brandRepository) Create(brand *domain.Brand) (*domain.Brand, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("generating brand id: %w", err)
	}

	brand.ID = id
	brand.Created = utils.NowTimestamp()

	sqlQuery, args, err := squirrel.
		Insert(brandsTable).
		Columns("id", "name", "category", "color", "website", "created").
		Values(brand.ID, brand.Name, brand.Category, brand.Color, brand.Website, brand.Created).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building brand insert: %w", err)
	}

	if _, err := r.conn.Exec(sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("inserting brand: %w", err)
	}

	return brand, nil
}

func (r *brandRepository) Delete(id string) error {
	sqlQuery, args, err := squirrel.
		Delete(brandsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building brand delete: %w", err)
	}

	if _, err := r.conn.Exec(sqlQuery, args...); err != nil {
		return fmt.Errorf("deleting brand: %w", err)
	}

	return nil
}
