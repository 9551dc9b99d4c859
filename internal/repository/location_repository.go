package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdeck/ticketing-service/internal/domain"
)

// LocationRepository defines persistence access for locations.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	Update(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Delete(ctx context.Context, id string) error
}

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository returns a Postgres-backed implementation.
func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) Create(ctx context.Context, location *domain.Location) error {
	const query = `
        INSERT INTO locations (name, ip_address, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	if location.Status == "" {
		location.Status = domain.LocationStatusAvailable
	}
	return r.pool.QueryRow(ctx, query,
		location.Name,
		location.IPAddress,
		location.Status,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
}

func (r *locationRepository) Update(ctx context.Context, location *domain.Location) error {
	const query = `
        UPDATE locations SET name=$1, ip_address=$2, status=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		location.Name,
		location.IPAddress,
		location.Status,
		location.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	const query = `
        SELECT id, name, ip_address, status, created_at, updated_at
        FROM locations WHERE id=$1`
	var location domain.Location
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&location.ID,
		&location.Name,
		&location.IPAddress,
		&location.Status,
		&location.CreatedAt,
		&location.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) List(ctx context.Context) ([]domain.Location, error) {
	const query = `
        SELECT id, name, ip_address, status, created_at, updated_at
        FROM locations ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Location
	for rows.Next() {
		var location domain.Location
		if err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.IPAddress,
			&location.Status,
			&location.CreatedAt,
			&location.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, location)
	}
	return result, rows.Err()
}

func (r *locationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
