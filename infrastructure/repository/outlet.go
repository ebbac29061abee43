package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/startfranchise/expo-leaderboard-api/infrastructure/database/postgres"
	"github.com/startfranchise/expo-leaderboard-api/internal/domain"
	"github.com/startfranchise/expo-leaderboard-api/pkg/utils"
)

const outletsTable = "expo_outlets"

var outletColumns = []string{
	"id",
	"name",
	"brand_name",
	"access_token",
	"is_active",
	"created",
	"updated",
}

type OutletRepository interface {
	List() ([]domain.Outlet, error)
	ListActive() ([]domain.Outlet, error)
	GetByID(id string) (*domain.Outlet, error)
	GetByAccessToken(token string) (*domain.Outlet, error)
	Create(outlet *domain.Outlet) (*domain.Outlet, error)
	Update(outlet *domain.Outlet) (*domain.Outlet, error)
	Delete(id string) error
}

type outletRepository struct {
	conn *postgres.Connection
}

func NewOutletRepository(conn *postgres.Connection) OutletRepository {
	return &outletRepository{
		conn: conn,
	}
}

func (r *outletRepository) List() ([]domain.Outlet, error) {
	return r.list(nil)
}

func (r *outletRepository) ListActive() ([]domain.Outlet, error) {
	return r.list(squirrel.Eq{"is_active": true})
}

func (r *outletRepository) list(where any) ([]domain.Outlet, error) {
	queryBuilder := squirrel.
		Select(outletColumns...).
		From(outletsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if where != nil {
		queryBuilder = queryBuilder.Where(where)
	}

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building outlet list query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing outlets: %w", err)
	}
	defer rows.Close()

	outlets := make([]domain.Outlet, 0)
	for rows.Next() {
		outlet := domain.Outlet{}
		err := rows.Scan(
			&outlet.ID,
			&outlet.Name,
			&outlet.BrandName,
			&outlet.AccessToken,
			&outlet.IsActive,
			&outlet.Created,
			&outlet.Updated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning outlet row: %w", err)
		}
		outlets = append(outlets, outlet)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outlet rows: %w", err)
	}

	return outlets, nil
}

func (r *outletRepository) GetByID(id string) (*domain.Outlet, error) {
	return r.get(squirrel.Eq{"id": id})
}

// GetByAccessToken matches on token equality AND the active flag in a single
// predicate, so an inactive outlet's token resolves exactly like an unknown
// one.
func (r *outletRepository) GetByAccessToken(token string) (*domain.Outlet, error) {
	return r.get(squirrel.Eq{"access_token": token, "is_active": true})
}

func (r *outletRepository) get(where squirrel.Eq) (*domain.Outlet, error) {
	sqlQuery, args, err := squirrel.
		Select(outletColumns...).
		From(outletsTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building outlet query: %w", err)
	}

	outlet := &domain.Outlet{}
	err = r.conn.QueryRow(sqlQuery, args...).Scan(
		&outlet.ID,
		&outlet.Name,
		&outlet.BrandName,
		&outlet.AccessToken,
		&outlet.IsActive,
		&outlet.Created,
		&outlet.Updated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning outlet: %w", err)
	}

	return outlet, nil
}

// Create assigns the id, access token and timestamps before inserting.
func (r *outletRepository) Create(outlet *domain.Outlet) (*domain.Outlet, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("generating outlet id: %w", err)
	}

	token, err := utils.GenerateAccessToken()
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	outlet.ID = id
	outlet.AccessToken = token
	outlet.Created = utils.NowTimestamp()
	outlet.Updated = outlet.Created

	sqlQuery, args, err := squirrel.
		Insert(outletsTable).
		Columns(outletColumns...).
		Values(
			outlet.ID,
			outlet.Name,
			outlet.BrandName,
			outlet.AccessToken,
			outlet.IsActive,
			outlet.Created,
			outlet.Updated,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building outlet insert: %w", err)
	}

	if _, err := r.conn.Exec(sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("inserting outlet: %w", err)
	}

	return outlet, nil
}

func (r *outletRepository) Update(outlet *domain.Outlet) (*domain.Outlet, error) {
	outlet.Updated = utils.NowTimestamp()

	queryBuilder := squirrel.
		Update(outletsTable).
		Set("is_active", outlet.IsActive).
		Set("updated", outlet.Updated).
		Where(squirrel.Eq{"id": outlet.ID})

	if outlet.Name != "" {
		queryBuilder = queryBuilder.Set("name", outlet.Name)
	}

	if outlet.BrandName != "" {
		queryBuilder = queryBuilder.Set("brand_name", outlet.BrandName)
	}

	sqlQuery, args, err := queryBuilder.
		Suffix("RETURNING access_token, created").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building outlet update: %w", err)
	}

	err = r.conn.QueryRow(sqlQuery, args...).Scan(&outlet.AccessToken, &outlet.Created)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("updating outlet: %w", err)
	}

	return outlet, nil
}

func (r *outletRepository) Delete(id string) error {
	sqlQuery, args, err := squirrel.
		Delete(outletsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building outlet delete: %w", err)
	}

	if _, err := r.conn.Exec(sqlQuery, args...); err != nil {
		return fmt.Errorf("deleting outlet: %w", err)
	}

	return nil
}
